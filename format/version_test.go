package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParamOrdinal(t *testing.T) {
	// Current files number repeated blocks from 0, legacy files from 1.
	for i := 0; i < 3; i++ {
		require.Equal(t, i, ParamOrdinal(CurrentVersion, i))
		require.Equal(t, i+1, ParamOrdinal(7, i))
		require.Equal(t, i+1, ParamOrdinal(OldestVersion, i))
	}
	require.Equal(t, 0, ParamOrdinal(8, 0))
}

func TestParamNameConventionsAgree(t *testing.T) {
	// A block of three parameters must produce the same logical sequence
	// under both conventions: the i'th logical name under the legacy tag is
	// the i'th under the current tag, offset by one ordinal.
	legacy := make([]string, 3)
	current := make([]string, 3)
	for i := 0; i < 3; i++ {
		legacy[i] = ParamName(7, "SIMSED_PAR", i)
		current[i] = ParamName(CurrentVersion, "SIMSED_PAR", i)
	}

	require.Equal(t, []string{"SIMSED_PAR01", "SIMSED_PAR02", "SIMSED_PAR03"}, legacy)
	require.Equal(t, []string{"SIMSED_PAR00", "SIMSED_PAR01", "SIMSED_PAR02"}, current)
}
