package dataset

import (
	"fmt"

	"github.com/nightfall-obs/evtable/container"
	"github.com/nightfall-obs/evtable/errs"
	"github.com/nightfall-obs/evtable/format"
	"github.com/nightfall-obs/evtable/internal/pool"
	"github.com/nightfall-obs/evtable/schema"
)

// openSpectrum opens a file's spectrum tables: the lambda index is loaded
// whole (it is the instrument's fixed bin grid), the summary table is
// buffered whole, and flux-bin rows are read on demand per spectrum.
func (r *Reader) openSpectrum(path string) error {
	var err error
	if r.specFile, err = container.Open(path); err != nil {
		return err
	}
	for _, t := range []struct {
		name string
		sec  **container.Section
	}{
		{tableLambda, &r.lamSec}, {tableSpecSummary, &r.sumSec}, {tableSpecFlux, &r.fluxSec},
	} {
		if *t.sec = r.specFile.Section(t.name); *t.sec == nil {
			return fmt.Errorf("%w: %s has no %s table", errs.ErrBadMagic, path, t.name)
		}
	}

	if err := r.loadLambda(); err != nil {
		return err
	}

	if r.sumSch, err = schema.Discover(format.KindSpectrumSummary, r.sumSec); err != nil {
		return err
	}
	if err := r.sumSch.Require(colSNID, colNBinLam, colPtrSpecMin, colPtrSpecMax); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	r.sumBuf = allocateBuffers(r.sumSch, r.sumSec.Rows())
	if err := r.sumBuf.readAll(r.sumSec); err != nil {
		return err
	}

	if r.fluxSch, err = schema.Discover(format.KindSpectrumFlux, r.fluxSec); err != nil {
		return err
	}
	if err := r.fluxSch.Require(colLamIndex, colFlux, colFluxErr); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}

// loadLambda reads the wavelength-bin table, handling both the min/max and
// the center-only bin formats.
func (r *Reader) loadLambda() error {
	sec := r.lamSec
	sch, err := schema.Discover(format.KindLambdaIndex, sec)
	if err != nil {
		return err
	}

	rows := sec.Rows()
	r.lambda = make([]LambdaBin, rows)
	if rows == 0 {
		return nil
	}

	buf, put := pool.GetFloat64Slice(rows)
	defer put()

	if col := sch.Resolve(colLamCenter); col != schema.NotFound {
		if err := sec.ReadFloat64Column(col, 1, rows, buf); err != nil {
			return err
		}
		for i := range r.lambda {
			r.lambda[i].Center = buf[i]
		}

		return nil
	}

	if err := sch.Require(colLamMin, colLamMax); err != nil {
		return err
	}
	if err := sec.ReadFloat64Column(sch.Resolve(colLamMin), 1, rows, buf); err != nil {
		return err
	}
	for i := range r.lambda {
		r.lambda[i].Min = buf[i]
	}
	if err := sec.ReadFloat64Column(sch.Resolve(colLamMax), 1, rows, buf); err != nil {
		return err
	}
	for i := range r.lambda {
		r.lambda[i].Max = buf[i]
	}

	return nil
}

// readSpectra fills ev.Spectra with every usable spectrum of the event.
// Summary rows with NBIN_LAM == 0 mark spectra that produced no usable
// bins; they are skipped, not errors.
func (r *Reader) readSpectra(ev *Event) error {
	snidCol := r.sumSch.Resolve(colSNID)
	nbinCol := r.sumSch.Resolve(colNBinLam)
	minCol := r.sumSch.Resolve(colPtrSpecMin)
	maxCol := r.sumSch.Resolve(colPtrSpecMax)
	mjdCol := r.sumSch.Resolve(colSpecMJD)
	texCol := r.sumSch.Resolve(colExposure)

	for row := 1; row <= r.sumSec.Rows(); row++ {
		if r.sumBuf.value(snidCol, row).Text() != ev.ID {
			continue
		}
		if r.sumBuf.value(nbinCol, row).Int() == 0 {
			continue
		}

		sp := Spectrum{}
		if mjdCol != schema.NotFound {
			sp.MJD = r.sumBuf.value(mjdCol, row).Double()
		}
		if texCol != schema.NotFound {
			sp.Exposure = r.sumBuf.value(texCol, row).Float()
		}

		minRow := int(r.sumBuf.value(minCol, row).Int())
		maxRow := int(r.sumBuf.value(maxCol, row).Int())
		if err := r.readFluxBins(&sp, row, minRow, maxRow); err != nil {
			return err
		}
		ev.Spectra = append(ev.Spectra, sp)
	}

	return nil
}

// readFluxBins resolves one spectrum's flux rows through its pointer range
// and maps each row's lambda index onto the file's bin grid.
func (r *Reader) readFluxBins(sp *Spectrum, ordinal, minRow, maxRow int) error {
	if int32(minRow) == ptrEmpty || int32(maxRow) == ptrEmpty || minRow < 1 || maxRow < minRow {
		return fmt.Errorf("%w: spectrum rows [%d, %d]", errs.ErrBadPointer, minRow, maxRow)
	}
	n := maxRow - minRow + 1

	first := physicalRow(ordinal, minRow)
	last := physicalRow(ordinal, maxRow)
	sent := sentinelRowFor(ordinal, maxRow)
	if sent > r.fluxSec.Rows() {
		return fmt.Errorf("%w: flux rows [%d, %d] beyond table (%d rows)",
			errs.ErrBadPointer, first, sent, r.fluxSec.Rows())
	}

	lamCol := r.fluxSch.Resolve(colLamIndex)
	fluxCol := r.fluxSch.Resolve(colFlux)
	errCol := r.fluxSch.Resolve(colFluxErr)

	lamIdx, putLam := pool.GetInt32Slice(n + 1)
	defer putLam()
	flux, putFlux := pool.GetFloat32Slice(n)
	defer putFlux()
	fluxErr, putErr := pool.GetFloat32Slice(n)
	defer putErr()

	if err := r.fluxSec.ReadInt32Column(lamCol, first, last, lamIdx); err != nil {
		return err
	}
	if err := r.fluxSec.ReadFloat32Column(fluxCol, first, last, flux); err != nil {
		return err
	}
	if err := r.fluxSec.ReadFloat32Column(errCol, first, last, fluxErr); err != nil {
		return err
	}

	// Verify the terminal marker row behind the block.
	if err := r.fluxSec.ReadInt32Column(lamCol, sent, sent, lamIdx[n:]); err != nil {
		return err
	}
	if lamIdx[n] != format.EndOfEventInt32 {
		return fmt.Errorf("%w: expected end-of-event marker after flux row %d, found %d",
			errs.ErrBadPointer, last, lamIdx[n])
	}

	sp.Bins = make([]FluxBin, n)
	for i := 0; i < n; i++ {
		idx := lamIdx[i]
		if idx < 1 || int(idx) > len(r.lambda) {
			return fmt.Errorf("%w: lambda index %d outside [1, %d]",
				errs.ErrBadPointer, idx, len(r.lambda))
		}
		sp.Bins[i] = FluxBin{
			LamIndex: idx,
			Lambda:   r.lambda[idx-1],
			Flux:     flux[i],
			FluxErr:  fluxErr[i],
		}
	}

	return nil
}
