// Package safe provides numeric conversions that fail instead of wrapping.
package safe

import (
	"fmt"
	"math"
	"math/bits"
)

// Integer is any built-in integer type, including named ones.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func isNegative[T Integer](v T) bool {
	return v < 0
}

func convertUnsigned[T Integer](v T, limit uint64, name string) (uint64, error) {
	if isNegative(v) {
		return 0, fmt.Errorf("value %d out of %s range", v, name)
	}
	if uint64(v) > limit {
		return 0, fmt.Errorf("value %d out of %s range", v, name)
	}
	return uint64(v), nil
}

// Uint16 converts v to uint16, used for network ports.
func Uint16[T Integer](v T) (uint16, error) {
	u, err := convertUnsigned(v, math.MaxUint16, "uint16")
	return uint16(u), err
}

// Uint32 converts v to uint32.
func Uint32[T Integer](v T) (uint32, error) {
	u, err := convertUnsigned(v, math.MaxUint32, "uint32")
	return uint32(u), err
}

// Uint64 converts v to uint64, rejecting negatives.
func Uint64[T Integer](v T) (uint64, error) {
	return convertUnsigned(v, math.MaxUint64, "uint64")
}

// Int64 converts v to int64, rejecting values above math.MaxInt64.
func Int64[T Integer](v T) (int64, error) {
	if !isNegative(v) && uint64(v) > math.MaxInt64 {
		return 0, fmt.Errorf("value %d out of int64 range", v)
	}
	return int64(v), nil
}

// Int converts v to int.
func Int[T Integer](v T) (int, error) {
	i, err := Int64(v)
	if err != nil {
		return 0, err
	}
	if i > math.MaxInt || i < math.MinInt {
		return 0, fmt.Errorf("value %d out of int range", v)
	}
	return int(i), nil
}

// SaturatingAddUint64 returns a+b, capped at math.MaxUint64.
func SaturatingAddUint64(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}
