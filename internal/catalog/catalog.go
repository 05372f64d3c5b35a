// Package catalog holds the immutable star catalogue and the builder and
// loaders that produce it.
package catalog

import (
	"errors"
	"fmt"
	"io"

	"github.com/litescript/ls-sky/internal/body"
)

var (
	// ErrUnknownReference is returned when an asterism names a star that is
	// not part of the catalogue.
	ErrUnknownReference = errors.New("unknown star reference")
	// ErrMalformedRecord is returned by loaders for unparseable input lines.
	ErrMalformedRecord = errors.New("malformed catalogue record")
)

// Catalogue is an immutable list of stars plus the asterisms drawn between
// them. Each asterism star is resolved to its index in the star list once, at
// construction. A Catalogue is safe for concurrent use.
type Catalogue struct {
	stars     []body.Star
	asterisms []body.Asterism
	indices   [][]int
}

// New copies stars and asterisms and resolves every asterism star. It fails
// with ErrUnknownReference if a star is missing.
func New(stars []body.Star, asterisms []body.Asterism) (*Catalogue, error) {
	c := &Catalogue{
		stars:     append([]body.Star(nil), stars...),
		asterisms: append([]body.Asterism(nil), asterisms...),
		indices:   make([][]int, len(asterisms)),
	}

	index := make(map[body.Star]int, len(c.stars))
	for i := len(c.stars) - 1; i >= 0; i-- {
		index[c.stars[i]] = i
	}
	for a, ast := range c.asterisms {
		ids := make([]int, ast.Len())
		for i := range ids {
			s := ast.Star(i)
			idx, ok := index[s]
			if !ok {
				return nil, fmt.Errorf("asterism %d: star %q (HIP %d): %w", a, s.Name(), s.HipparcosID(), ErrUnknownReference)
			}
			ids[i] = idx
		}
		c.indices[a] = ids
	}
	return c, nil
}

// Len returns the number of stars.
func (c *Catalogue) Len() int { return len(c.stars) }

// Star returns the i-th star.
func (c *Catalogue) Star(i int) body.Star { return c.stars[i] }

// Stars returns a copy of the star list, in catalogue order.
func (c *Catalogue) Stars() []body.Star { return append([]body.Star(nil), c.stars...) }

// NumAsterisms returns the number of asterisms.
func (c *Catalogue) NumAsterisms() int { return len(c.asterisms) }

// Asterisms returns a copy of the asterism list.
func (c *Catalogue) Asterisms() []body.Asterism {
	return append([]body.Asterism(nil), c.asterisms...)
}

// AsterismIndices returns the star indices of the a-th asterism.
func (c *Catalogue) AsterismIndices(a int) []int {
	return append([]int(nil), c.indices[a]...)
}

// Loader reads stars or asterisms from r into b.
type Loader interface {
	Load(r io.Reader, b *Builder) error
}

// Builder accumulates stars and asterisms before freezing them into a
// Catalogue. A Builder is not safe for concurrent use.
type Builder struct {
	stars     []body.Star
	asterisms []body.Asterism
}

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) AddStar(s body.Star) *Builder {
	b.stars = append(b.stars, s)
	return b
}

func (b *Builder) AddAsterism(a body.Asterism) *Builder {
	b.asterisms = append(b.asterisms, a)
	return b
}

// Stars returns a copy of the stars added so far.
func (b *Builder) Stars() []body.Star { return append([]body.Star(nil), b.stars...) }

// Asterisms returns a copy of the asterisms added so far.
func (b *Builder) Asterisms() []body.Asterism {
	return append([]body.Asterism(nil), b.asterisms...)
}

// LoadFrom runs loader over r.
func (b *Builder) LoadFrom(r io.Reader, loader Loader) error {
	return loader.Load(r, b)
}

// Build freezes the builder's content. Later changes to the builder are not
// visible through the returned Catalogue.
func (b *Builder) Build() (*Catalogue, error) {
	return New(b.stars, b.asterisms)
}
