package domain

import (
	"math"
	"strconv"
)

// HSL is the accent triple written onto a decorated card as element-scoped
// custom properties.
type HSL struct {
	H int
	S int
	L int
}

// DefaultAccent is used whenever no palette cell can be resolved.
var DefaultAccent = HSL{H: 220, S: 60, L: 60}

// HebrewYears is the fixed year-row table the palette is indexed by.
var HebrewYears = []int{5784, 5785, 5786, 5787, 5788, 5789, 5790}

// Palette is 7 year rows by 3 semester columns of hex colors, owned by the
// settings surface; this package only reads it.
type Palette [][]string

// DefaultPalette mirrors the settings surface's shipped colors, one row per
// Hebrew year 5784 through 5790.
var DefaultPalette = Palette{
	{"#3b82f6", "#818cf8", "#bae6fd"},
	{"#22c55e", "#4ade80", "#bbf7d0"},
	{"#f97316", "#fbbf24", "#fed7aa"},
	{"#f43f5e", "#fda4af", "#fecdd3"},
	{"#a21caf", "#f472b6", "#f3e8ff"},
	{"#2563eb", "#60a5fa", "#dbeafe"},
	{"#b45309", "#f59e42", "#fde68a"},
}

// ColorFor resolves the accent for a year/semester pair. A nil palette, an
// unknown year, or a semester outside 0..2 yields the default accent; a
// missing cell falls back to a neutral grey.
func (p Palette) ColorFor(year, semIdx int) HSL {
	if p == nil {
		return DefaultAccent
	}
	row := -1
	for i, y := range HebrewYears {
		if y == year {
			row = i
			break
		}
	}
	if row < 0 || semIdx < 0 || semIdx > 2 {
		return DefaultAccent
	}
	hex := ""
	if row < len(p) && semIdx < len(p[row]) {
		hex = p[row][semIdx]
	}
	if hex == "" {
		hex = "#cccccc"
	}
	return HexToHSL(hex)
}

// HexToHSL converts a #rgb or #rrggbb color to an HSL triple, clamping
// saturation to 35..90 and lightness to 35..70 so accents stay readable over
// card content.
func HexToHSL(hex string) HSL {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if hex == "" {
		return DefaultAccent
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) < 6 {
		return DefaultAccent
	}
	r := float64(hexByte(hex[0:2])) / 255
	g := float64(hexByte(hex[2:4])) / 255
	b := float64(hexByte(hex[4:6])) / 255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l := (max + min) / 2
	var h, s float64
	if max != min {
		d := max - min
		if l > 0.5 {
			s = d / (2 - max - min)
		} else {
			s = d / (max + min)
		}
		switch max {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		default:
			h = (r-g)/d + 4
		}
		h *= 60
	}
	return HSL{
		H: int(math.Round(h)) % 360,
		S: clamp(int(math.Round(s*100)), 35, 90),
		L: clamp(int(math.Round(l*100)), 35, 70),
	}
}

func hexByte(s string) int64 {
	v, err := strconv.ParseInt(s, 16, 32)
	if err != nil {
		return 0
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
