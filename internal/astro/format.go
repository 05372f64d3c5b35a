package astro

import (
	"fmt"

	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"
)

// Sexagesimal renders e as "RA 5ʰ55ᵐ10.3ˢ, Dec +7°24′25″" style text with
// prec decimals on the seconds.
func (e Equatorial) Sexagesimal(prec int) string {
	return fmt.Sprintf("RA %.*s, Dec %.*s",
		prec, sexa.FmtRA(unit.RA(e.RA())),
		prec, sexa.FmtAngle(unit.Angle(e.Dec())))
}

// Sexagesimal renders h as "Az ...°, Alt ...°" with prec decimals on the
// arc seconds.
func (h Horizontal) Sexagesimal(prec int) string {
	return fmt.Sprintf("Az %.*s, Alt %.*s",
		prec, sexa.FmtAngle(unit.Angle(h.Az())),
		prec, sexa.FmtAngle(unit.Angle(h.Alt())))
}
