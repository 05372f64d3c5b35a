package skymath

import (
	"fmt"
	"math"

	"github.com/soniakeys/unit"
)

// Tau is a full turn in radians.
const Tau = 2 * math.Pi

var turn = MustRightOpen(0, Tau)

// NormalizePositive reduces rad into [0, 2π).
func NormalizePositive(rad float64) float64 {
	return turn.Reduce(rad)
}

// OfDeg converts degrees to radians.
func OfDeg(deg float64) float64 {
	return unit.AngleFromDeg(deg).Rad()
}

// ToDeg converts radians to degrees.
func ToDeg(rad float64) float64 {
	return unit.Angle(rad).Deg()
}

// OfHr converts hours (24 to a turn) to radians.
func OfHr(hr float64) float64 {
	return unit.HourAngleFromHour(hr).Rad()
}

// ToHr converts radians to hours.
func ToHr(rad float64) float64 {
	return unit.HourAngle(rad).Hour()
}

// OfArcsec converts arcseconds to radians.
func OfArcsec(sec float64) float64 {
	return unit.AngleFromSec(sec).Rad()
}

// OfDMS converts a non-negative sexagesimal angle to radians.
// Minutes and seconds must lie in [0, 60).
func OfDMS(deg, min int, sec float64) (float64, error) {
	if deg < 0 || min < 0 || min >= 60 || sec < 0 || sec >= 60 {
		return 0, fmt.Errorf("angle %d°%d′%g″: %w", deg, min, sec, ErrInvalidRange)
	}
	return unit.NewAngle(' ', deg, min, sec).Rad(), nil
}

// MustDMS is OfDMS for literal constants.
func MustDMS(deg, min int, sec float64) float64 {
	rad, err := OfDMS(deg, min, sec)
	if err != nil {
		panic(err)
	}
	return rad
}
