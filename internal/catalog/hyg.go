package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/body"
)

// Column positions in the HYG v3 CSV export.
const (
	hygHip    = 1
	hygProper = 6
	hygMag    = 13
	hygCI     = 16
	hygRARad  = 23
	hygDecRad = 24
	hygBayer  = 27
	hygCon    = 29
	hygFields = 37
)

// HYGLoader reads stars from the HYG database CSV. The header line is
// skipped. Stars without a proper name are named from their Bayer
// designation and constellation.
type HYGLoader struct{}

func (HYGLoader) Load(r io.Reader, b *Builder) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = hygFields
	cr.ReuseRecord = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("hyg header: %w", err)
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("hyg: %w: %w", ErrMalformedRecord, err)
		}
		line, _ := cr.FieldPos(0)

		star, err := hygStar(rec)
		if err != nil {
			return fmt.Errorf("hyg line %d: %w", line, err)
		}
		b.AddStar(star)
	}
}

func hygStar(rec []string) (body.Star, error) {
	name := rec[hygProper]
	if name == "" {
		bayer := rec[hygBayer]
		if bayer == "" {
			bayer = "?"
		}
		name = bayer + " " + rec[hygCon]
	}

	hip := 0
	if s := rec[hygHip]; s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return body.Star{}, fmt.Errorf("hip %q: %w", s, ErrMalformedRecord)
		}
		hip = v
	}

	mag, err := parseFloat(rec, hygMag, "mag")
	if err != nil {
		return body.Star{}, err
	}
	ci := 0.0
	if rec[hygCI] != "" {
		if ci, err = parseFloat(rec, hygCI, "ci"); err != nil {
			return body.Star{}, err
		}
	}
	ra, err := parseFloat(rec, hygRARad, "rarad")
	if err != nil {
		return body.Star{}, err
	}
	dec, err := parseFloat(rec, hygDecRad, "decrad")
	if err != nil {
		return body.Star{}, err
	}

	eq, err := astro.NewEquatorial(ra, dec)
	if err != nil {
		return body.Star{}, fmt.Errorf("%s: %w", name, err)
	}
	return body.NewStar(hip, name, eq, mag, ci)
}

func parseFloat(rec []string, col int, field string) (float64, error) {
	v, err := strconv.ParseFloat(rec[col], 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", field, rec[col], ErrMalformedRecord)
	}
	return v, nil
}
