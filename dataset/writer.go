package dataset

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nightfall-obs/evtable/container"
	"github.com/nightfall-obs/evtable/errs"
	"github.com/nightfall-obs/evtable/format"
)

// File suffixes of one event-file triple plus the dataset manifest.
const (
	SuffixHeader      = "_HEAD.EVT"
	SuffixMeasurement = "_PHOT.EVT"
	SuffixSpectrum    = "_SPEC.EVT"
	SuffixManifest    = ".LIST"

	fluxTempSuffix = "_SPEC.EVT.tmp"
)

// Writer produces one file triple of a dataset: a header file, a
// measurement file, and (when spectra are configured) a spectrum file.
// Events are appended strictly in order; Close finalizes the files and
// appends the header file name to the dataset manifest.
//
// Flux-bin rows cannot go directly into the spectrum file because the
// summary section is still open while events arrive and sections within a
// file are strictly sequential. They are staged in a temporary container
// file and merged into the spectrum file at Close, after which the
// temporary file is removed.
type Writer struct {
	cfg     *Config
	dir     string
	dataset string
	prefix  string

	headFile *container.File
	photFile *container.File
	specFile *container.File
	fluxFile *container.File

	headW *rowWriter
	photW *rowWriter
	specW *rowWriter
	fluxW *rowWriter

	obsLink  linker
	fluxLink linker

	events int
	closed bool

	log *slog.Logger
}

// NewWriter creates the file triple for one run of dataset under dir.
// prefix names the triple's files; a dataset spanning multiple triples uses
// one Writer per prefix, in manifest order.
func NewWriter(dir, dataset, prefix string, cfg *Config) (*Writer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	w := &Writer{
		cfg:     cfg,
		dir:     dir,
		dataset: dataset,
		prefix:  prefix,
		log:     slog.Default().With("dataset", dataset, "prefix", prefix),
	}
	if err := w.open(); err != nil {
		w.abort()
		return nil, err
	}

	return w, nil
}

func (w *Writer) open() error {
	headSch, err := headerSchema(w.cfg, format.CurrentVersion)
	if err != nil {
		return err
	}
	photSch, err := measurementSchema(w.cfg)
	if err != nil {
		return err
	}

	meta := container.Metadata{
		metaSurvey:   w.cfg.Survey,
		metaFilters:  joinNames(w.cfg.Filters),
		metaDataType: strconv.Itoa(int(w.cfg.DataType)),
		metaVersion:  strconv.Itoa(format.CurrentVersion),
		metaPhotFile: w.prefix + SuffixMeasurement,
	}
	if w.cfg.Spectra.Enabled {
		meta[metaSpecFile] = w.prefix + SuffixSpectrum
	}
	if len(w.cfg.PrivateVars) > 0 {
		meta[metaPrivate] = joinNames(w.cfg.PrivateVars)
	}
	if w.cfg.DataType == DataSimulated {
		meta[metaSimModel] = w.cfg.SimModel
		meta[metaSimParams] = joinNames(w.cfg.SimParams)
	}

	if w.headFile, err = container.Create(filepath.Join(w.dir, w.prefix+SuffixHeader)); err != nil {
		return err
	}
	headSec, err := w.headFile.CreateSection(tableHeader, headSch.Specs(), meta)
	if err != nil {
		return err
	}
	w.headW = newRowWriter(headSec, headSch)

	if w.photFile, err = container.Create(filepath.Join(w.dir, w.prefix+SuffixMeasurement)); err != nil {
		return err
	}
	photSec, err := w.photFile.CreateSection(tableMeasurement, photSch.Specs(), container.Metadata{
		metaSurvey:  w.cfg.Survey,
		metaVersion: strconv.Itoa(format.CurrentVersion),
	})
	if err != nil {
		return err
	}
	w.photW = newRowWriter(photSec, photSch)

	if !w.cfg.Spectra.Enabled {
		return nil
	}

	return w.openSpectrum()
}

// openSpectrum sets up the spectrum file: the lambda index table is written
// and finalized immediately (the bin grid is fixed per dataset), then the
// summary section opens and stays open until Close.
func (w *Writer) openSpectrum() error {
	lamSch, err := lambdaSchema(w.cfg)
	if err != nil {
		return err
	}
	sumSch, err := spectrumSummarySchema()
	if err != nil {
		return err
	}
	fluxSch, err := spectrumFluxSchema()
	if err != nil {
		return err
	}

	if w.specFile, err = container.Create(filepath.Join(w.dir, w.prefix+SuffixSpectrum)); err != nil {
		return err
	}
	lamSec, err := w.specFile.CreateSection(tableLambda, lamSch.Specs(), nil)
	if err != nil {
		return err
	}
	lamW := newRowWriter(lamSec, lamSch)
	for _, bin := range w.cfg.Spectra.Bins {
		var fields Fields
		if w.cfg.Spectra.CenterFormat {
			fields = Fields{colLamCenter: Double(bin.Center)}
		} else {
			fields = Fields{colLamMin: Double(bin.Min), colLamMax: Double(bin.Max)}
		}
		if err := lamW.setRow(fields, nil); err != nil {
			return err
		}
	}
	if err := lamSec.Close(); err != nil {
		return err
	}

	sumSec, err := w.specFile.CreateSection(tableSpecSummary, sumSch.Specs(), nil)
	if err != nil {
		return err
	}
	w.specW = newRowWriter(sumSec, sumSch)

	if w.fluxFile, err = container.Create(filepath.Join(w.dir, w.prefix+fluxTempSuffix)); err != nil {
		return err
	}
	fluxSec, err := w.fluxFile.CreateSection(tableSpecFlux, fluxSch.Specs(), nil)
	if err != nil {
		return err
	}
	w.fluxW = newRowWriter(fluxSec, fluxSch)

	return nil
}

// HeaderFile returns the base name of the triple's header file, as recorded
// in the dataset manifest.
func (w *Writer) HeaderFile() string { return w.prefix + SuffixHeader }

// WriteEvent appends one event: its measurement rows, the terminal sentinel
// row, its spectra, and finally its header row carrying the computed
// pointer range. If the event's fields declare an observation count it must
// match the number of measurement rows supplied.
func (w *Writer) WriteEvent(ev *Event) error {
	if w.closed {
		return fmt.Errorf("%w: writer for %s", errs.ErrSectionClosed, w.prefix)
	}
	if ev.ID == "" {
		return fmt.Errorf("%w: %s for event %d", errs.ErrFieldMissing, colSNID, w.events+1)
	}
	if declared, ok := ev.Fields[colNObs]; ok && int(declared.Int()) != len(ev.Obs) {
		return fmt.Errorf("%w: event %s declares %d observations, supplied %d",
			errs.ErrRowCountMismatch, ev.ID, declared.Int(), len(ev.Obs))
	}

	w.events++

	for _, obs := range ev.Obs {
		if err := w.photW.setRow(obs.Fields, nil); err != nil {
			return fmt.Errorf("event %s: %w", ev.ID, err)
		}
	}
	if err := w.photW.setSentinelRow(); err != nil {
		return fmt.Errorf("event %s: %w", ev.ID, err)
	}

	minRow, maxRow := w.obsLink.commit(len(ev.Obs))
	if got := w.photW.rows(); got != physicalRow(w.events, maxRow)+1 {
		return fmt.Errorf("%w: event %s: measurement table has %d rows, pointer range expects %d",
			errs.ErrRowCountMismatch, ev.ID, got, physicalRow(w.events, maxRow)+1)
	}

	if len(ev.Spectra) > 0 {
		if w.specW == nil {
			return fmt.Errorf("event %s carries spectra but spectra are not configured", ev.ID)
		}
		for i := range ev.Spectra {
			if err := w.writeSpectrum(ev.ID, &ev.Spectra[i]); err != nil {
				return fmt.Errorf("event %s: %w", ev.ID, err)
			}
		}
	}

	injected := Fields{
		colSNID:      Text(ev.ID),
		colNObs:      Int(int32(len(ev.Obs))),
		colPtrObsMin: Int(int32(minRow)),
		colPtrObsMax: Int(int32(maxRow)),
	}
	if err := w.headW.setRow(ev.Fields, injected); err != nil {
		return fmt.Errorf("event %s: %w", ev.ID, err)
	}

	return nil
}

// writeSpectrum appends one spectrum's flux bins, the sentinel row, and its
// summary row. A spectrum with zero bins still gets a summary row (with an
// empty pointer range) so readers can see it was taken; they skip it via
// NBIN_LAM == 0.
func (w *Writer) writeSpectrum(id string, sp *Spectrum) error {
	nlam := len(w.cfg.Spectra.Bins)
	for _, bin := range sp.Bins {
		if bin.LamIndex < 1 || int(bin.LamIndex) > nlam {
			return fmt.Errorf("%w: lambda index %d outside [1, %d]",
				errs.ErrBadPointer, bin.LamIndex, nlam)
		}
		fields := Fields{
			colLamIndex: Int(bin.LamIndex),
			colFlux:     Float(bin.Flux),
			colFluxErr:  Float(bin.FluxErr),
		}
		if err := w.fluxW.setRow(fields, nil); err != nil {
			return err
		}
	}
	if err := w.fluxW.setSentinelRow(); err != nil {
		return err
	}

	minRow, maxRow := w.fluxLink.commit(len(sp.Bins))

	injected := Fields{
		colSNID:       Text(id),
		colSpecMJD:    Double(sp.MJD),
		colExposure:   Float(sp.Exposure),
		colNBinLam:    Int(int32(len(sp.Bins))),
		colPtrSpecMin: Int(int32(minRow)),
		colPtrSpecMax: Int(int32(maxRow)),
	}

	return w.specW.setRow(nil, injected)
}

// Close finalizes every section, merges the staged flux table into the
// spectrum file, removes the staging file, and appends the header file name
// to the dataset manifest.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.headFile.Close(); err != nil {
		return err
	}
	if err := w.photFile.Close(); err != nil {
		return err
	}

	if w.specFile != nil {
		if err := w.specW.sec.Close(); err != nil {
			return err
		}
		if err := w.fluxW.sec.Close(); err != nil {
			return err
		}
		if err := w.specFile.Append(w.fluxW.sec); err != nil {
			return err
		}
		if err := w.specFile.Close(); err != nil {
			return err
		}
		if err := w.fluxFile.Close(); err != nil {
			return err
		}
		if err := os.Remove(filepath.Join(w.dir, w.prefix+fluxTempSuffix)); err != nil {
			return fmt.Errorf("remove flux staging file: %w", err)
		}
	}

	if err := appendManifest(filepath.Join(w.dir, w.dataset+SuffixManifest), w.HeaderFile()); err != nil {
		return err
	}

	w.log.Info("event files written",
		"events", w.events,
		"obs_rows", w.obsLink.total(),
		"flux_rows", w.fluxLink.total(),
		"spectra", w.cfg.Spectra.Enabled)

	return nil
}

// abort closes whatever open resources a failed NewWriter accumulated.
func (w *Writer) abort() {
	for _, f := range []*container.File{w.headFile, w.photFile, w.specFile, w.fluxFile} {
		if f != nil {
			f.Close()
		}
	}
}
