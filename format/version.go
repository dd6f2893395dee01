package format

import "fmt"

// Schema version tag. Written once per file as section metadata and read
// once per file-open; it selects which historical naming conventions apply
// to that file. A file without the tag is treated as the oldest convention.
const (
	// CurrentVersion is the tag written to new files.
	CurrentVersion = 10

	// zeroBasedParamVersion is the first version whose repeated
	// model-parameter blocks are numbered from 0; earlier files number
	// them from 1.
	zeroBasedParamVersion = 8

	// OldestVersion is assumed when a file carries no version tag.
	OldestVersion = 1
)

// ParamOrdinal maps a logical repeated-parameter index (0-based) to the
// ordinal used in that block's column and metadata names under the given
// schema version. This is the only place the 0-vs-1 base is computed; both
// the write path and the read path must build names through it.
func ParamOrdinal(version, index int) int {
	if version < zeroBasedParamVersion {
		return index + 1
	}

	return index
}

// ParamName builds the name of the index'th member (0-based logical index)
// of a repeated-parameter block, e.g. ParamName(10, "SIMSED_PAR", 0) is
// "SIMSED_PAR00" while ParamName(7, "SIMSED_PAR", 0) is "SIMSED_PAR01".
func ParamName(version int, prefix string, index int) string {
	return fmt.Sprintf("%s%02d", prefix, ParamOrdinal(version, index))
}
