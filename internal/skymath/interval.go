// Package skymath provides the numeric primitives shared by the sky model:
// validated intervals, angle conversions and polynomial evaluation.
package skymath

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRange is returned whenever a value falls outside its legal domain.
var ErrInvalidRange = errors.New("value out of range")

// ClosedInterval is the real interval [Low, High].
type ClosedInterval struct {
	low, high float64
}

// NewClosed returns [low, high]. It fails unless low < high.
func NewClosed(low, high float64) (ClosedInterval, error) {
	if !(low < high) {
		return ClosedInterval{}, fmt.Errorf("closed interval [%g, %g]: %w", low, high, ErrInvalidRange)
	}
	return ClosedInterval{low: low, high: high}, nil
}

// ClosedSymmetric returns [-size/2, size/2]. It fails unless size > 0.
func ClosedSymmetric(size float64) (ClosedInterval, error) {
	if !(size > 0) {
		return ClosedInterval{}, fmt.Errorf("symmetric closed interval of size %g: %w", size, ErrInvalidRange)
	}
	return ClosedInterval{low: -size / 2, high: size / 2}, nil
}

// MustClosed is NewClosed for literal bounds; it panics on invalid bounds.
func MustClosed(low, high float64) ClosedInterval {
	i, err := NewClosed(low, high)
	if err != nil {
		panic(err)
	}
	return i
}

// MustClosedSymmetric is ClosedSymmetric for literal sizes.
func MustClosedSymmetric(size float64) ClosedInterval {
	i, err := ClosedSymmetric(size)
	if err != nil {
		panic(err)
	}
	return i
}

func (i ClosedInterval) Low() float64  { return i.low }
func (i ClosedInterval) High() float64 { return i.high }
func (i ClosedInterval) Size() float64 { return i.high - i.low }

// Contains reports whether low <= v <= high.
func (i ClosedInterval) Contains(v float64) bool {
	return i.low <= v && v <= i.high
}

// Clip clamps v into the interval.
func (i ClosedInterval) Clip(v float64) float64 {
	return math.Max(i.low, math.Min(v, i.high))
}

// Check returns v unchanged if it lies in the interval, ErrInvalidRange otherwise.
func (i ClosedInterval) Check(v float64) (float64, error) {
	if !i.Contains(v) {
		return v, fmt.Errorf("%g not in %s: %w", v, i, ErrInvalidRange)
	}
	return v, nil
}

func (i ClosedInterval) String() string {
	return fmt.Sprintf("[%f;%f]", i.low, i.high)
}

// RightOpenInterval is the real interval [Low, High).
type RightOpenInterval struct {
	low, high float64
}

// NewRightOpen returns [low, high). It fails unless low < high.
func NewRightOpen(low, high float64) (RightOpenInterval, error) {
	if !(low < high) {
		return RightOpenInterval{}, fmt.Errorf("right-open interval [%g, %g[: %w", low, high, ErrInvalidRange)
	}
	return RightOpenInterval{low: low, high: high}, nil
}

// RightOpenSymmetric returns [-size/2, size/2). It fails unless size > 0.
func RightOpenSymmetric(size float64) (RightOpenInterval, error) {
	if !(size > 0) {
		return RightOpenInterval{}, fmt.Errorf("symmetric right-open interval of size %g: %w", size, ErrInvalidRange)
	}
	return RightOpenInterval{low: -size / 2, high: size / 2}, nil
}

// MustRightOpen is NewRightOpen for literal bounds; it panics on invalid bounds.
func MustRightOpen(low, high float64) RightOpenInterval {
	i, err := NewRightOpen(low, high)
	if err != nil {
		panic(err)
	}
	return i
}

// MustRightOpenSymmetric is RightOpenSymmetric for literal sizes.
func MustRightOpenSymmetric(size float64) RightOpenInterval {
	i, err := RightOpenSymmetric(size)
	if err != nil {
		panic(err)
	}
	return i
}

func (i RightOpenInterval) Low() float64  { return i.low }
func (i RightOpenInterval) High() float64 { return i.high }
func (i RightOpenInterval) Size() float64 { return i.high - i.low }

// Contains reports whether low <= v < high.
func (i RightOpenInterval) Contains(v float64) bool {
	return i.low <= v && v < i.high
}

// Reduce wraps v into [low, high) using a floored modulo.
func (i RightOpenInterval) Reduce(v float64) float64 {
	if i.Contains(v) {
		return v
	}
	r := i.low + floorMod(v-i.low, i.Size())
	// x - y*floor(x/y) can round up to exactly y for tiny negative x, and
	// dip just below zero when x/y rounds up to the next integer.
	if r >= i.high || r < i.low {
		r = i.low
	}
	return r
}

// Check returns v unchanged if it lies in the interval, ErrInvalidRange otherwise.
func (i RightOpenInterval) Check(v float64) (float64, error) {
	if !i.Contains(v) {
		return v, fmt.Errorf("%g not in %s: %w", v, i, ErrInvalidRange)
	}
	return v, nil
}

func (i RightOpenInterval) String() string {
	return fmt.Sprintf("[%f;%f[", i.low, i.high)
}

func floorMod(x, y float64) float64 {
	return x - y*math.Floor(x/y)
}
