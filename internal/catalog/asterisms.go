package catalog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/litescript/ls-sky/internal/body"
)

// AsterismLoader reads one asterism per line as comma-separated Hipparcos
// numbers. The numbers are resolved against the stars already in the
// builder, so it must run after the star loader.
type AsterismLoader struct{}

func (AsterismLoader) Load(r io.Reader, b *Builder) error {
	byHip := hipIndex(b.stars)

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		fields := strings.Split(text, ",")
		ids := make([]int, 0, len(fields))
		for _, f := range fields {
			id, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return fmt.Errorf("asterisms line %d: %q: %w", line, f, ErrMalformedRecord)
			}
			ids = append(ids, id)
		}

		ast, err := asterismOf(byHip, ids)
		if err != nil {
			return fmt.Errorf("asterisms line %d: %w", line, err)
		}
		b.AddAsterism(ast)
	}
	return sc.Err()
}

// hipIndex maps Hipparcos numbers to stars. Stars without a number are left
// out and the last star wins on duplicates.
func hipIndex(stars []body.Star) map[int]body.Star {
	m := make(map[int]body.Star, len(stars))
	for _, s := range stars {
		if s.HipparcosID() > 0 {
			m[s.HipparcosID()] = s
		}
	}
	return m
}

func asterismOf(byHip map[int]body.Star, ids []int) (body.Asterism, error) {
	stars := make([]body.Star, 0, len(ids))
	for _, id := range ids {
		s, ok := byHip[id]
		if !ok {
			return body.Asterism{}, fmt.Errorf("HIP %d: %w", id, ErrUnknownReference)
		}
		stars = append(stars, s)
	}
	return body.NewAsterism(stars)
}
