package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSliceSizing(t *testing.T) {
	s, put := GetFloat64Slice(128)
	require.Len(t, s, 128)
	put()

	s2, put2 := GetFloat64Slice(64)
	require.Len(t, s2, 64)
	put2()
}

func TestReusedSliceIsCleared(t *testing.T) {
	s, put := GetInt32Slice(8)
	for i := range s {
		s[i] = 42
	}
	put()

	// A reused slice must come back zeroed; a freshly allocated one is
	// zeroed by construction. Either way no stale values survive.
	s2, put2 := GetInt32Slice(4)
	defer put2()
	for _, v := range s2 {
		require.Zero(t, v)
	}
}

func TestAllTypes(t *testing.T) {
	ss, p1 := GetStringSlice(3)
	require.Len(t, ss, 3)
	p1()

	i16, p2 := GetInt16Slice(3)
	require.Len(t, i16, 3)
	p2()

	i32, p3 := GetInt32Slice(3)
	require.Len(t, i32, 3)
	p3()

	i64, p4 := GetInt64Slice(3)
	require.Len(t, i64, 3)
	p4()

	f32, p5 := GetFloat32Slice(3)
	require.Len(t, f32, 3)
	p5()

	f64, p6 := GetFloat64Slice(3)
	require.Len(t, f64, 3)
	p6()
}
