package dataset

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/nightfall-obs/evtable/container"
	"github.com/nightfall-obs/evtable/errs"
	"github.com/nightfall-obs/evtable/format"
	"github.com/nightfall-obs/evtable/schema"
)

// Reader serves events from a dataset's manifest in global-index order.
//
// One file triple is open at a time. Crossing a file boundary closes the
// current sections, releases every column buffer, opens the next triple,
// re-discovers schemas (which may legitimately differ across files), and
// reallocates buffers sized to the new file. Callers should iterate events
// in non-decreasing global order so the number of transitions is bounded by
// the number of files.
type Reader struct {
	dir string
	fs  *FileSet

	cur     int // 1-based id of the open file, 0 when none
	version int

	headFile *container.File
	photFile *container.File
	specFile *container.File

	headSec *container.Section
	photSec *container.Section
	sumSec  *container.Section
	fluxSec *container.Section
	lamSec  *container.Section

	headSch *schema.Schema
	photSch *schema.Schema
	sumSch  *schema.Schema
	fluxSch *schema.Schema

	headBuf *buffers
	photBuf *buffers
	sumBuf  *buffers

	maxObs int
	lambda []LambdaBin

	// headCache caches header column resolution per name, including the
	// not-found outcome so probing a missing optional field stays cheap.
	// Reset on every file transition.
	headCache map[string]*int

	mask []int

	log *slog.Logger
}

// OpenReader opens the dataset manifest under dir and scans each header
// file's row count to build the global index.
func OpenReader(dir, dataset string) (*Reader, error) {
	names, err := LoadManifest(filepath.Join(dir, dataset+SuffixManifest))
	if err != nil {
		return nil, err
	}

	entries := make([]FileEntry, len(names))
	for i, name := range names {
		path := filepath.Join(dir, name)
		rows, err := headerRowCount(path)
		if err != nil {
			return nil, err
		}
		entries[i] = FileEntry{HeaderPath: path, Rows: rows}
	}

	r := &Reader{
		dir:       dir,
		fs:        newFileSet(entries),
		headCache: make(map[string]*int),
		log:       slog.Default().With("dataset", dataset),
	}
	r.log.Info("dataset opened", "files", r.fs.Len(), "events", r.fs.Total())

	return r, nil
}

// headerRowCount opens a header file just long enough to read its event
// count.
func headerRowCount(path string) (int, error) {
	f, err := container.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sec := f.Section(tableHeader)
	if sec == nil {
		return 0, fmt.Errorf("%w: %s has no %s table", errs.ErrBadMagic, path, tableHeader)
	}

	return sec.Rows(), nil
}

// Total returns the dataset's event count across all files.
func (r *Reader) Total() int { return r.fs.Total() }

// Files returns the number of file triples in the dataset.
func (r *Reader) Files() int { return r.fs.Len() }

// Version returns the schema version tag of the currently open file. The
// first file is opened on demand when none is open yet.
func (r *Reader) Version() (int, error) {
	if err := r.ensureAny(); err != nil {
		return 0, err
	}

	return r.version, nil
}

// Survey returns the survey name recorded in the open file's metadata.
func (r *Reader) Survey() (string, error) {
	if err := r.ensureAny(); err != nil {
		return "", err
	}
	survey, _ := r.headSec.MetaValue(metaSurvey)

	return survey, nil
}

// PrivateVars returns the private variable names the open file's header
// metadata declares; nil when the dataset carries none.
func (r *Reader) PrivateVars() ([]string, error) {
	if err := r.ensureAny(); err != nil {
		return nil, err
	}
	v, _ := r.headSec.MetaValue(metaPrivate)

	return splitNames(v), nil
}

// SimParams returns the simulation model parameter names from the open
// file's header metadata; nil for non-simulated datasets.
func (r *Reader) SimParams() ([]string, error) {
	if err := r.ensureAny(); err != nil {
		return nil, err
	}
	v, _ := r.headSec.MetaValue(metaSimParams)

	return splitNames(v), nil
}

func (r *Reader) ensureAny() error {
	if r.cur != 0 {
		return nil
	}

	return r.ensureFile(1)
}

// SetMask installs an epoch read mask applied to every subsequent
// ReadEvent: entry i selects (1) or drops (0) the event's i'th observation.
// Values outside {0, 1} are rejected here; a length mismatch with an
// event's observation count is rejected at read time.
func (r *Reader) SetMask(mask []int) error {
	for i, m := range mask {
		if m != 0 && m != 1 {
			return fmt.Errorf("%w: entry %d is %d", errs.ErrBadMask, i, m)
		}
	}
	r.mask = mask

	return nil
}

// ClearMask removes the epoch read mask.
func (r *Reader) ClearMask() { r.mask = nil }

// Value returns the named header field of the global event. The second
// result is false when the column does not exist in the event's file, which
// is the legitimate outcome for optional columns older or compact files
// omit.
func (r *Reader) Value(global int, name string) (Value, bool, error) {
	fileID, local, err := r.fs.Locate(global)
	if err != nil {
		return Value{}, false, err
	}
	if err := r.ensureFile(fileID); err != nil {
		return Value{}, false, err
	}

	col := r.resolveHeader(name)
	if col == schema.NotFound {
		return Value{}, false, nil
	}

	return r.headBuf.value(col, local), true, nil
}

// String returns a text header field.
func (r *Reader) String(global int, name string) (string, bool, error) {
	v, ok, err := r.typedValue(global, name, format.TypeText)
	return v.Text(), ok, err
}

// Short returns an int16 header field.
func (r *Reader) Short(global int, name string) (int16, bool, error) {
	v, ok, err := r.typedValue(global, name, format.TypeInt16)
	return v.Short(), ok, err
}

// Int returns an int32 header field.
func (r *Reader) Int(global int, name string) (int32, bool, error) {
	v, ok, err := r.typedValue(global, name, format.TypeInt32)
	return v.Int(), ok, err
}

// Long returns an int64 header field.
func (r *Reader) Long(global int, name string) (int64, bool, error) {
	v, ok, err := r.typedValue(global, name, format.TypeInt64)
	return v.Long(), ok, err
}

// Float returns a float32 header field.
func (r *Reader) Float(global int, name string) (float32, bool, error) {
	v, ok, err := r.typedValue(global, name, format.TypeFloat32)
	return v.Float(), ok, err
}

// Double returns a float64 header field.
func (r *Reader) Double(global int, name string) (float64, bool, error) {
	v, ok, err := r.typedValue(global, name, format.TypeFloat64)
	return v.Double(), ok, err
}

// ParamValue returns the index'th member (0-based) of a repeated-parameter
// block such as the simulation model parameters, building the column name
// under the naming convention of the event's file. Files older than the
// zero-based convention number their blocks from 1; callers never need to
// know which convention applies.
func (r *Reader) ParamValue(global int, prefix string, index int) (Value, bool, error) {
	fileID, _, err := r.fs.Locate(global)
	if err != nil {
		return Value{}, false, err
	}
	if err := r.ensureFile(fileID); err != nil {
		return Value{}, false, err
	}

	return r.Value(global, format.ParamName(r.version, prefix, index))
}

func (r *Reader) typedValue(global int, name string, want format.ColumnType) (Value, bool, error) {
	v, ok, err := r.Value(global, name)
	if err != nil || !ok {
		return Value{}, ok, err
	}
	if v.Type != want {
		return Value{}, true, fmt.Errorf("%w: column %q is %s, not %s",
			errs.ErrTypeMismatch, name, v.Type, want)
	}

	return v, true, nil
}

// ReadEvent returns the complete global event: header fields, its
// measurement rows resolved through the stored pointer range, and its
// spectra when the dataset carries any.
func (r *Reader) ReadEvent(global int) (*Event, error) {
	fileID, local, err := r.fs.Locate(global)
	if err != nil {
		return nil, err
	}
	if err := r.ensureFile(fileID); err != nil {
		return nil, err
	}

	idCol := r.resolveHeader(colSNID)
	ev := &Event{
		ID:     r.headBuf.value(idCol, local).Text(),
		Fields: make(Fields, r.headSch.Len()),
	}
	for i, c := range r.headSch.Columns() {
		if c.Name == colSNID {
			continue
		}
		ev.Fields[c.Name] = r.headBuf.value(i+1, local)
	}

	if err := r.readObservations(ev, local); err != nil {
		return nil, fmt.Errorf("event %s: %w", ev.ID, err)
	}
	if r.specFile != nil {
		if err := r.readSpectra(ev); err != nil {
			return nil, fmt.Errorf("event %s: %w", ev.ID, err)
		}
	}

	return ev, nil
}

// readObservations resolves the event's child rows in the measurement
// table, verifies the terminal sentinel, and fills ev.Obs subject to the
// read mask.
func (r *Reader) readObservations(ev *Event, local int) error {
	nobs := int(ev.Fields[colNObs].Int())
	minRow := int(ev.Fields[colPtrObsMin].Int())
	maxRow := int(ev.Fields[colPtrObsMax].Int())

	if int32(minRow) == ptrEmpty || int32(maxRow) == ptrEmpty || minRow < 1 || maxRow < minRow-1 {
		return fmt.Errorf("%w: [%d, %d]", errs.ErrBadPointer, minRow, maxRow)
	}
	if maxRow-minRow+1 != nobs {
		return fmt.Errorf("%w: pointer range [%d, %d] disagrees with %d declared observations",
			errs.ErrRowCountMismatch, minRow, maxRow, nobs)
	}

	first := physicalRow(local, minRow)
	last := physicalRow(local, maxRow)
	sent := sentinelRowFor(local, maxRow)
	if sent > r.photSec.Rows() {
		return fmt.Errorf("%w: rows [%d, %d] beyond measurement table (%d rows)",
			errs.ErrBadPointer, first, sent, r.photSec.Rows())
	}

	ncol := r.photSch.Len()
	for col := 1; col <= ncol; col++ {
		if nobs > 0 {
			if err := r.photBuf.bulkRead(r.photSec, col, first, last, 1); err != nil {
				return err
			}
		}
	}

	// The row after the block must carry the end-of-event marker.
	mjdCol := r.photSch.Resolve(colSpecMJD)
	if err := r.photBuf.bulkRead(r.photSec, mjdCol, sent, sent, nobs+1); err != nil {
		return err
	}
	if got := r.photBuf.value(mjdCol, nobs+1).Double(); got != format.EndOfEventFloat64 {
		return fmt.Errorf("%w: expected end-of-event marker after row %d, found %v",
			errs.ErrBadPointer, last, got)
	}

	if r.mask != nil && len(r.mask) != nobs {
		return fmt.Errorf("%w: mask has %d entries for %d observations",
			errs.ErrBadMask, len(r.mask), nobs)
	}

	kept := 0
	for i := 1; i <= nobs; i++ {
		if r.mask != nil && r.mask[i-1] == 0 {
			continue
		}
		kept++
		fields := make(Fields, ncol)
		for col, c := range r.photSch.Columns() {
			fields[c.Name] = r.photBuf.value(col+1, i)
		}
		ev.Obs = append(ev.Obs, Observation{Fields: fields})
	}
	if nobs > 0 && kept == 0 {
		return fmt.Errorf("%w: %d observations", errs.ErrMaskedOut, nobs)
	}

	return nil
}

// resolveHeader resolves a header column through the per-file cache.
func (r *Reader) resolveHeader(name string) int {
	slot, ok := r.headCache[name]
	if !ok {
		slot = new(int)
		r.headCache[name] = slot
	}

	return r.headSch.ResolveCached(name, slot)
}

// ensureFile makes fileID the open file, tearing down the previous one
// first. A no-op when the file is already open.
func (r *Reader) ensureFile(fileID int) error {
	if fileID == r.cur {
		return nil
	}
	r.closeCurrent()

	entry := r.fs.Entry(fileID)
	var err error
	if r.headFile, err = container.Open(entry.HeaderPath); err != nil {
		return err
	}
	if r.headSec = r.headFile.Section(tableHeader); r.headSec == nil {
		return fmt.Errorf("%w: %s has no %s table", errs.ErrBadMagic, entry.HeaderPath, tableHeader)
	}

	if tag, ok := r.headSec.MetaValue(metaVersion); ok {
		if r.version, err = strconv.Atoi(tag); err != nil {
			return fmt.Errorf("%s: bad %s tag %q", entry.HeaderPath, metaVersion, tag)
		}
	} else {
		r.version = format.OldestVersion
	}

	photName, ok := r.headSec.MetaValue(metaPhotFile)
	if !ok {
		return fmt.Errorf("%w: %s metadata lacks %s", errs.ErrRequiredColumns, entry.HeaderPath, metaPhotFile)
	}
	entry.PhotPath = filepath.Join(r.dir, photName)
	if specName, ok := r.headSec.MetaValue(metaSpecFile); ok {
		entry.SpecPath = filepath.Join(r.dir, specName)
	} else {
		entry.SpecPath = ""
	}

	if r.headSch, err = schema.Discover(format.KindHeader, r.headSec); err != nil {
		return err
	}
	if err := r.headSch.Require(requiredHeaderColumns...); err != nil {
		return fmt.Errorf("%s: %w", entry.HeaderPath, err)
	}

	r.headBuf = allocateBuffers(r.headSch, r.headSec.Rows())
	if err := r.headBuf.readAll(r.headSec); err != nil {
		return err
	}

	if r.photFile, err = container.Open(entry.PhotPath); err != nil {
		return err
	}
	if r.photSec = r.photFile.Section(tableMeasurement); r.photSec == nil {
		return fmt.Errorf("%w: %s has no %s table", errs.ErrBadMagic, entry.PhotPath, tableMeasurement)
	}
	if r.photSch, err = schema.Discover(format.KindMeasurement, r.photSec); err != nil {
		return err
	}
	// The end-of-event marker behind each child block is verified through
	// the MJD column; a measurement table without one cannot be resolved.
	if err := r.photSch.Require(colSpecMJD); err != nil {
		return fmt.Errorf("%s: %w", entry.PhotPath, err)
	}

	// Size the measurement buffers once per file, to the largest event.
	r.maxObs = 0
	nobsCol := r.headSch.Resolve(colNObs)
	for row := 1; row <= r.headSec.Rows(); row++ {
		if n := int(r.headBuf.value(nobsCol, row).Int()); n > r.maxObs {
			r.maxObs = n
		}
	}
	r.photBuf = allocateBuffers(r.photSch, r.maxObs+1)

	if entry.SpecPath != "" {
		if err := r.openSpectrum(entry.SpecPath); err != nil {
			return err
		}
	}

	r.cur = fileID
	r.log.Info("event file opened",
		"header", filepath.Base(entry.HeaderPath),
		"version", r.version,
		"events", r.headSec.Rows(),
		"columns", r.headSch.Len(),
		"max_obs", r.maxObs,
		"spectra", entry.SpecPath != "")

	return nil
}

// closeCurrent releases every buffer and closes every open section and
// file. Buffer release happens before the next allocation by construction;
// this is the single teardown path for a file transition.
func (r *Reader) closeCurrent() {
	for _, b := range []*buffers{r.headBuf, r.photBuf, r.sumBuf} {
		if b != nil {
			b.release()
		}
	}
	r.headBuf, r.photBuf, r.sumBuf = nil, nil, nil

	for _, f := range []*container.File{r.headFile, r.photFile, r.specFile} {
		if f != nil {
			f.Close()
		}
	}
	r.headFile, r.photFile, r.specFile = nil, nil, nil
	r.headSec, r.photSec, r.sumSec, r.fluxSec, r.lamSec = nil, nil, nil, nil, nil
	r.headSch, r.photSch, r.sumSch, r.fluxSch = nil, nil, nil, nil

	r.lambda = nil
	r.headCache = make(map[string]*int)
	r.cur = 0
}

// Close releases all resources. The reader must not be used afterward.
func (r *Reader) Close() error {
	r.closeCurrent()
	return nil
}
