package dataset

import (
	"strings"

	"github.com/nightfall-obs/evtable/format"
	"github.com/nightfall-obs/evtable/schema"
)

// Table names within a container file.
const (
	tableHeader      = "HEADER"
	tableMeasurement = "OBSERVATIONS"
	tableSpecSummary = "SPECTRO_HEADER"
	tableSpecFlux    = "SPECTRO_FLUX"
	tableLambda      = "LAMINDEX"
)

// Section metadata keys. The header section carries its companion file
// names and the schema version tag so a reader needs the manifest only to
// find header files, never their companions.
const (
	metaSurvey    = "SURVEY"
	metaFilters   = "FILTERS"
	metaDataType  = "DATATYPE"
	metaVersion   = "IVERSION"
	metaPhotFile  = "PHOTFILE"
	metaSpecFile  = "SPECFILE"
	metaSimModel  = "SIM_MODEL"
	metaSimParams = "SIM_PARAMS"
	metaPrivate   = "PRIVATE"
)

// Header column names with structural meaning. Everything else in the
// header table is an opaque field.
const (
	colSNID       = "SNID"
	colIAUC       = "IAUC"
	colSubSurvey  = "SUBSURVEY"
	colFake       = "FAKE"
	colNObs       = "NOBS"
	colPtrObsMin  = "PTROBS_MIN"
	colPtrObsMax  = "PTROBS_MAX"
	colBand       = "BAND"
	colField      = "FIELD"
	colNBinLam    = "NBIN_LAM"
	colPtrSpecMin = "PTRSPEC_MIN"
	colPtrSpecMax = "PTRSPEC_MAX"
	colSpecMJD    = "MJD"
	colExposure   = "TEXPOSE"
	colLamIndex   = "LAMINDEX"
	colLamMin     = "LAMMIN"
	colLamMax     = "LAMMAX"
	colLamCenter  = "LAMCEN"
	colFlux       = "FLAM"
	colFluxErr    = "FLAMERR"
	colSimParam   = "SIMSED_PAR"
)

// requiredHeaderColumns must exist in every header table; discovery reports
// all missing names at once.
var requiredHeaderColumns = []string{
	colSNID, colFake, colNObs, colPtrObsMin, colPtrObsMax,
}

// blankAllowed lists the text columns an empty value is legal for. The
// sub-survey name is blank for events belonging to the parent survey, and
// the secondary identifier is blank until one is assigned.
var blankAllowed = map[string]bool{
	colSubSurvey: true,
	colIAUC:      true,
}

// headerSchema builds the header table schema for a config and schema
// version. Column order follows the write conventions the read path's
// older-file tolerance depends on: the sub-survey column leads when
// enabled, identity and pointer columns come next, and every conditional
// block keeps its internal order.
func headerSchema(cfg *Config, version int) (*schema.Schema, error) {
	s := schema.New(format.KindHeader)

	type def struct{ name, form string }
	var defs []def
	add := func(name, form string) { defs = append(defs, def{name, form}) }

	if cfg.SubSurvey {
		add(colSubSurvey, "20A")
	}
	add(colSNID, "16A")
	add(colIAUC, "16A")
	add(colFake, "1I")
	add("RA", "1D")
	add("DEC", "1D")
	add("PIXSIZE", "1E")
	add(colNObs, "1J")
	add(colPtrObsMin, "1J")
	add(colPtrObsMax, "1J")
	add("MWEBV", "1E")
	add("MWEBV_ERR", "1E")
	add("REDSHIFT_HELIO", "1E")
	add("REDSHIFT_HELIO_ERR", "1E")
	add("REDSHIFT_FINAL", "1E")
	add("REDSHIFT_FINAL_ERR", "1E")
	add("PEAKMJD", "1E")

	hostBlock := func(prefix string) {
		add(prefix+"_OBJID", "1K")
		add(prefix+"_PHOTOZ", "1E")
		add(prefix+"_PHOTOZ_ERR", "1E")
		add(prefix+"_SPECZ", "1E")
		add(prefix+"_SPECZ_ERR", "1E")
		add(prefix+"_SNSEP", "1E")
		for _, band := range cfg.Filters {
			add(prefix+"_MAG_"+band, "1E")
		}
	}
	hostBlock("HOSTGAL")
	if cfg.SecondHost {
		hostBlock("HOSTGAL2")
	}

	for _, band := range cfg.Filters {
		add("SNRMAX_"+band, "1E")
	}

	for _, name := range cfg.PrivateVars {
		add("PRIVATE_"+name, "1D")
	}

	if cfg.DataType == DataSimulated {
		add("SIM_MODEL_INDEX", "1I")
		add("SIM_REDSHIFT_HELIO", "1E")
		add("SIM_REDSHIFT_CMB", "1E")
		add("SIM_DLMU", "1E")
		add("SIM_PEAKMJD", "1E")
		for i := range cfg.SimParams {
			add(format.ParamName(version, colSimParam, i), "1E")
		}
		for _, band := range cfg.Filters {
			add("SIM_PEAKMAG_"+band, "1E")
		}
	}

	for _, d := range defs {
		if err := s.AddColumn(d.name, d.form); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// measurementSchema builds the measurement table schema. Compact mode keeps
// only the columns needed to reconstruct a light curve.
func measurementSchema(cfg *Config) (*schema.Schema, error) {
	s := schema.New(format.KindMeasurement)

	type def struct{ name, form string }
	defs := []def{
		{colSpecMJD, "1D"},
		{colBand, "2A"},
		{colField, "12A"},
		{"PHOTFLAG", "1J"},
		{"FLUXCAL", "1E"},
		{"FLUXCALERR", "1E"},
	}
	if !cfg.Compact {
		defs = append(defs,
			def{"PHOTPROB", "1E"},
			def{"ZEROPT", "1E"},
			def{"PSF_SIG1", "1E"},
			def{"SKY_SIG", "1E"},
			def{"GAIN", "1E"},
			def{"XPIX", "1E"},
			def{"YPIX", "1E"},
			def{"CCDNUM", "1I"},
		)
	}
	if cfg.DataType == DataSimulated {
		defs = append(defs, def{"SIM_MAGOBS", "1E"})
	}

	for _, d := range defs {
		if err := s.AddColumn(d.name, d.form); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// lambdaSchema builds the wavelength-bin table schema. Center format stores
// one column; otherwise the bin's bounds.
func lambdaSchema(cfg *Config) (*schema.Schema, error) {
	s := schema.New(format.KindLambdaIndex)
	if cfg.Spectra.CenterFormat {
		if err := s.AddColumn(colLamCenter, "1D"); err != nil {
			return nil, err
		}

		return s, nil
	}
	for _, d := range []struct{ name, form string }{
		{colLamMin, "1D"}, {colLamMax, "1D"},
	} {
		if err := s.AddColumn(d.name, d.form); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// spectrumSummarySchema builds the per-spectrum summary table schema.
func spectrumSummarySchema() (*schema.Schema, error) {
	s := schema.New(format.KindSpectrumSummary)
	for _, d := range []struct{ name, form string }{
		{colSNID, "16A"},
		{colSpecMJD, "1D"},
		{colExposure, "1E"},
		{colNBinLam, "1J"},
		{colPtrSpecMin, "1J"},
		{colPtrSpecMax, "1J"},
	} {
		if err := s.AddColumn(d.name, d.form); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// spectrumFluxSchema builds the flux-bin table schema.
func spectrumFluxSchema() (*schema.Schema, error) {
	s := schema.New(format.KindSpectrumFlux)
	for _, d := range []struct{ name, form string }{
		{colLamIndex, "1J"},
		{colFlux, "1E"},
		{colFluxErr, "1E"},
	} {
		if err := s.AddColumn(d.name, d.form); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// joinNames serializes a name list for section metadata.
func joinNames(names []string) string { return strings.Join(names, ",") }

// splitNames is the inverse of joinNames; empty input yields nil.
func splitNames(v string) []string {
	if v == "" {
		return nil
	}

	return strings.Split(v, ",")
}
