// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/edds

package dds

const (
	maxInt32  = int(^uint32(0) >> 1)
	maxUint32 = uint64(^uint32(0))
)

// i32FromInt converts an int to an int32.
func i32FromInt(n int) (int32, error) {
	if n < 0 || n > maxInt32 {
		return 0, ErrSizeOverflow
	}

	return int32(n), nil
}

// u32FromInt converts an int to a uint32.
func u32FromInt(n int) (uint32, error) {
	if n < 0 || uint64(n) > maxUint32 {
		return 0, ErrSizeOverflow
	}

	// #nosec G115 -- bounds checked above.
	return uint32(n), nil
}

// intFromU32 converts a header dimension to int, rejecting values that
// cannot address memory on 32-bit hosts.
func intFromU32(n uint32) (int, error) {
	if uint64(n) > uint64(maxInt32) {
		return 0, ErrSizeOverflow
	}

	return int(n), nil
}

// sizeProduct multiplies non-negative factors, failing on overflow past maxInt32.
func sizeProduct(factors ...int) (int, error) {
	total := 1
	for _, f := range factors {
		if f < 0 {
			return 0, ErrSizeOverflow
		}
		if f != 0 && total > maxInt32/f {
			return 0, ErrSizeOverflow
		}
		total *= f
	}

	return total, nil
}
