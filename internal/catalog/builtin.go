package catalog

import (
	"fmt"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/body"
	"github.com/litescript/ls-sky/internal/skymath"
)

type builtinStar struct {
	hip        int
	name       string
	raDeg      float64 // J2000
	decDeg     float64 // J2000
	mag        float64
	colorIndex float64 // B-V
}

// builtinStars is a small set of bright stars, roughly brightest first.
var builtinStars = []builtinStar{
	{32349, "Sirius", 101.287, -16.716, -1.46, 0.009},
	{30438, "Canopus", 95.988, -52.696, -0.74, 0.164},
	{69673, "Arcturus", 213.915, 19.182, -0.05, 1.239},
	{91262, "Vega", 279.235, 38.784, 0.03, -0.001},
	{24608, "Capella", 79.172, 45.998, 0.08, 0.795},
	{24436, "Rigel", 78.634, -8.202, 0.13, -0.03},
	{37279, "Procyon", 114.826, 5.225, 0.34, 0.432},
	{7588, "Achernar", 24.429, -57.237, 0.46, -0.158},
	{27989, "Betelgeuse", 88.793, 7.407, 0.50, 1.5},
	{68702, "Hadar", 210.956, -60.373, 0.61, -0.231},
	{97649, "Altair", 297.696, 8.868, 0.76, 0.221},
	{60718, "Acrux", 186.650, -63.099, 0.76, -0.243},
	{21421, "Aldebaran", 68.980, 16.509, 0.85, 1.538},
	{80763, "Antares", 247.352, -26.432, 0.96, 1.865},
	{65474, "Spica", 201.298, -11.161, 0.97, -0.235},
	{37826, "Pollux", 116.329, 28.026, 1.14, 0.991},
	{113368, "Fomalhaut", 344.413, -29.622, 1.16, 0.145},
	{102098, "Deneb", 310.358, 45.280, 1.25, 0.092},
	{62434, "Mimosa", 191.930, -59.689, 1.25, -0.238},
	{49669, "Regulus", 152.093, 11.967, 1.35, -0.087},
	{33579, "Adhara", 104.656, -28.972, 1.50, -0.211},
	{36850, "Castor", 113.650, 31.889, 1.58, 0.034},
	{61084, "Gacrux", 187.791, -57.113, 1.63, 1.6},
	{85927, "Shaula", 263.402, -37.104, 1.63, -0.231},
	{25336, "Bellatrix", 81.283, 6.350, 1.64, -0.224},
	{25428, "Elnath", 81.573, 28.608, 1.65, -0.13},
	{26311, "Alnilam", 84.053, -1.202, 1.69, -0.184},
	{26727, "Alnitak", 85.190, -1.943, 1.77, -0.199},
	{62956, "Alioth", 193.507, 55.960, 1.77, -0.022},
	{54061, "Dubhe", 165.932, 61.751, 1.79, 1.061},
	{15863, "Mirfak", 51.081, 49.861, 1.79, 0.481},
	{67301, "Alkaid", 206.885, 49.313, 1.86, -0.099},
	{46390, "Alphard", 141.897, -8.659, 2.00, 1.44},
	{9884, "Hamal", 31.793, 23.463, 2.00, 1.151},
	{11767, "Polaris", 37.954, 89.264, 2.02, 0.636},
	{65378, "Mizar", 200.981, 54.925, 2.04, 0.057},
	{677, "Alpheratz", 2.097, 29.091, 2.06, -0.038},
	{72607, "Kochab", 222.676, 74.156, 2.08, 1.465},
	{86032, "Rasalhague", 263.734, 12.560, 2.08, 0.155},
	{27366, "Saiph", 86.939, -9.670, 2.09, -0.168},
	{14576, "Algol", 47.042, 40.957, 2.12, -0.05},
	{57632, "Denebola", 177.265, 14.572, 2.13, 0.09},
	{25930, "Mintaka", 83.002, -0.299, 2.23, -0.175},
	{3179, "Schedar", 10.127, 56.537, 2.23, 1.17},
	{87833, "Eltanin", 269.152, 51.489, 2.23, 1.521},
	{746, "Caph", 2.295, 59.150, 2.27, 0.38},
	{53910, "Merak", 165.460, 56.382, 2.37, 0.033},
	{107315, "Enif", 326.046, 9.875, 2.39, 1.52},
	{113881, "Scheat", 345.944, 28.083, 2.42, 1.655},
	{58001, "Phecda", 178.458, 53.695, 2.44, 0.044},
	{4427, "Navi", 14.177, 60.717, 2.47, -0.15},
	{113963, "Markab", 346.190, 15.205, 2.49, -0.002},
	{6686, "Ruchbah", 21.454, 60.235, 2.68, 0.157},
	{59747, "Imai", 183.786, -58.749, 2.79, -0.23},
	{1067, "Algenib", 3.309, 15.184, 2.83, -0.19},
	{17702, "Alcyone", 56.871, 24.105, 2.87, -0.086},
	{95947, "Albireo", 292.680, 27.960, 3.18, 1.074},
	{59774, "Megrez", 183.857, 57.033, 3.31, 0.077},
	{8886, "Segin", 28.599, 63.670, 3.35, -0.1},
	{68756, "Thuban", 211.097, 64.376, 3.65, -0.05},
}

// builtinAsterisms lists asterisms as Hipparcos numbers along the drawn path.
var builtinAsterisms = [][]int{
	{27989, 26727, 27366, 24436, 25930, 25336, 27989},        // Orion
	{26727, 26311, 25930},                                    // Orion's belt
	{67301, 65378, 62956, 59774, 54061, 53910, 58001, 59774}, // Big Dipper
	{746, 3179, 4427, 6686, 8886},                            // Cassiopeia
	{91262, 102098, 97649, 91262},                            // Summer Triangle
	{677, 113881, 113963, 1067, 677},                         // Great Square of Pegasus
	{61084, 60718},                                           // Southern Cross
	{62434, 59747},
}

// Builtin returns the embedded bright-star catalogue, used when no HYG
// file is configured.
func Builtin() (*Catalogue, error) {
	b := NewBuilder()
	for _, s := range builtinStars {
		eq, err := astro.NewEquatorial(skymath.OfDeg(s.raDeg), skymath.OfDeg(s.decDeg))
		if err != nil {
			return nil, fmt.Errorf("builtin star %s: %w", s.name, err)
		}
		star, err := body.NewStar(s.hip, s.name, eq, s.mag, s.colorIndex)
		if err != nil {
			return nil, fmt.Errorf("builtin star %s: %w", s.name, err)
		}
		b.AddStar(star)
	}

	byHip := hipIndex(b.stars)
	for i, ids := range builtinAsterisms {
		ast, err := asterismOf(byHip, ids)
		if err != nil {
			return nil, fmt.Errorf("builtin asterism %d: %w", i, err)
		}
		b.AddAsterism(ast)
	}
	return b.Build()
}
