package dataset

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/nightfall-obs/evtable/errs"
)

// FileEntry is one file triple of a dataset. The measurement and spectrum
// paths are filled in lazily, from the header file's own metadata, when the
// file is first opened.
type FileEntry struct {
	HeaderPath string
	PhotPath   string
	SpecPath   string
	Rows       int
}

// FileSet is the ordered file list of a dataset plus the cumulative
// per-file event counts used to resolve a global event index to a file and
// local row.
type FileSet struct {
	entries []FileEntry
	cum     []int // cum[i] = events in files [0, i]
}

// Len returns the number of files.
func (fs *FileSet) Len() int { return len(fs.entries) }

// Total returns the dataset's total event count.
func (fs *FileSet) Total() int {
	if len(fs.cum) == 0 {
		return 0
	}

	return fs.cum[len(fs.cum)-1]
}

// Entry returns the 1-based file entry.
func (fs *FileSet) Entry(fileID int) *FileEntry { return &fs.entries[fileID-1] }

// Locate resolves a 1-based global event index to its 1-based file id and
// local row within that file.
func (fs *FileSet) Locate(global int) (fileID, local int, err error) {
	if global < 1 || global > fs.Total() {
		return 0, 0, fmt.Errorf("%w: index %d of %d events",
			errs.ErrEventOutOfRange, global, fs.Total())
	}

	i := sort.SearchInts(fs.cum, global)
	before := 0
	if i > 0 {
		before = fs.cum[i-1]
	}

	return i + 1, global - before, nil
}

// newFileSet builds a FileSet from entries whose Rows are already known.
func newFileSet(entries []FileEntry) *FileSet {
	fs := &FileSet{entries: entries, cum: make([]int, len(entries))}
	total := 0
	for i, e := range entries {
		total += e.Rows
		fs.cum[i] = total
	}

	return fs
}

// LoadManifest reads a dataset manifest: one header file name per line, in
// processing order. Blank lines and '#' comments are skipped; an effectively
// empty manifest is an error.
func LoadManifest(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest %s: %w", path, err)
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", errs.ErrEmptyManifest, path)
	}

	return names, nil
}

// appendManifest adds one header file name to the manifest, creating it if
// needed.
func appendManifest(path, name string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("append manifest %s: %w", path, err)
	}
	if _, err := fmt.Fprintln(f, name); err != nil {
		f.Close()
		return fmt.Errorf("append manifest %s: %w", path, err)
	}

	return f.Close()
}
