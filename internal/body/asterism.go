package body

import "errors"

// ErrEmptyAsterism is returned when an asterism is built without stars.
var ErrEmptyAsterism = errors.New("asterism has no stars")

// Asterism is a non-empty ordered sequence of stars joined by line segments.
type Asterism struct {
	stars []Star
}

// NewAsterism copies stars so later changes to the slice are not observed.
func NewAsterism(stars []Star) (Asterism, error) {
	if len(stars) == 0 {
		return Asterism{}, ErrEmptyAsterism
	}
	return Asterism{stars: append([]Star(nil), stars...)}, nil
}

func (a Asterism) Len() int { return len(a.stars) }

// Star returns the i-th star of the asterism.
func (a Asterism) Star(i int) Star { return a.stars[i] }

// Stars returns a copy of the asterism's stars.
func (a Asterism) Stars() []Star { return append([]Star(nil), a.stars...) }
