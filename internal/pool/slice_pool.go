// Package pool provides pooled typed slices for the read-path column
// buffers. A dataset reader allocates one slice per column every time a new
// file is opened; pooling lets those transitions reuse the previous file's
// backing arrays instead of churning the allocator.
package pool

import "sync"

var (
	stringSlicePool = sync.Pool{
		New: func() any { return &[]string{} },
	}
	int16SlicePool = sync.Pool{
		New: func() any { return &[]int16{} },
	}
	int32SlicePool = sync.Pool{
		New: func() any { return &[]int32{} },
	}
	int64SlicePool = sync.Pool{
		New: func() any { return &[]int64{} },
	}
	float32SlicePool = sync.Pool{
		New: func() any { return &[]float32{} },
	}
	float64SlicePool = sync.Pool{
		New: func() any { return &[]float64{} },
	}
)

func getSlice[T any](p *sync.Pool, size int) ([]T, func()) {
	ptr, _ := p.Get().(*[]T)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]T, size)
		*ptr = slice
	} else {
		slice = slice[:size]
		*ptr = slice
		clear(slice)
	}

	return slice, func() { p.Put(ptr) }
}

// GetStringSlice retrieves a string slice of the exact requested length
// from the pool.
//
// The caller must call the returned cleanup function (typically with defer,
// or from a buffer-release path) to return the slice to the pool; failing
// to do so simply forfeits reuse, it does not leak.
func GetStringSlice(size int) ([]string, func()) {
	return getSlice[string](&stringSlicePool, size)
}

// GetInt16Slice retrieves an int16 slice of the exact requested length from
// the pool. See GetStringSlice for the cleanup contract.
func GetInt16Slice(size int) ([]int16, func()) {
	return getSlice[int16](&int16SlicePool, size)
}

// GetInt32Slice retrieves an int32 slice of the exact requested length from
// the pool. See GetStringSlice for the cleanup contract.
func GetInt32Slice(size int) ([]int32, func()) {
	return getSlice[int32](&int32SlicePool, size)
}

// GetInt64Slice retrieves an int64 slice of the exact requested length from
// the pool. See GetStringSlice for the cleanup contract.
func GetInt64Slice(size int) ([]int64, func()) {
	return getSlice[int64](&int64SlicePool, size)
}

// GetFloat32Slice retrieves a float32 slice of the exact requested length
// from the pool. See GetStringSlice for the cleanup contract.
func GetFloat32Slice(size int) ([]float32, func()) {
	return getSlice[float32](&float32SlicePool, size)
}

// GetFloat64Slice retrieves a float64 slice of the exact requested length
// from the pool. See GetStringSlice for the cleanup contract.
func GetFloat64Slice(size int) ([]float64, func()) {
	return getSlice[float64](&float64SlicePool, size)
}
