package skymath

import (
	"fmt"
	"strconv"
	"strings"
)

// Polynomial holds coefficients from the highest degree down to the constant term.
type Polynomial struct {
	coefficients []float64
}

// NewPolynomial builds c[0]·xⁿ + c[1]·xⁿ⁻¹ + … + c[n]. The leading coefficient must be non-zero.
func NewPolynomial(leading float64, rest ...float64) (Polynomial, error) {
	if leading == 0 {
		return Polynomial{}, fmt.Errorf("polynomial leading coefficient 0: %w", ErrInvalidRange)
	}
	cs := make([]float64, 0, 1+len(rest))
	cs = append(cs, leading)
	cs = append(cs, rest...)
	return Polynomial{coefficients: cs}, nil
}

// MustPolynomial is NewPolynomial for literal coefficients.
func MustPolynomial(leading float64, rest ...float64) Polynomial {
	p, err := NewPolynomial(leading, rest...)
	if err != nil {
		panic(err)
	}
	return p
}

// Degree returns the polynomial degree.
func (p Polynomial) Degree() int {
	return len(p.coefficients) - 1
}

// At evaluates the polynomial at x with Horner's method.
func (p Polynomial) At(x float64) float64 {
	if len(p.coefficients) == 0 {
		return 0
	}
	result := p.coefficients[0]
	for _, c := range p.coefficients[1:] {
		result = result*x + c
	}
	return result
}

func (p Polynomial) String() string {
	var b strings.Builder
	for i, c := range p.coefficients {
		if c == 0 {
			continue
		}
		degree := len(p.coefficients) - 1 - i
		switch {
		case c >= 0 && b.Len() > 0:
			b.WriteByte('+')
		case c == -1 && degree > 0:
			b.WriteByte('-')
		}
		if (c != 1 && c != -1) || degree == 0 {
			b.WriteString(strconv.FormatFloat(c, 'g', -1, 64))
		}
		if degree > 0 {
			b.WriteByte('x')
		}
		if degree > 1 {
			b.WriteString("^" + strconv.Itoa(degree))
		}
	}
	return b.String()
}
