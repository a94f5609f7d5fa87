package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHexToHSL(t *testing.T) {
	cases := []struct {
		hex  string
		want HSL
	}{
		{"#3b82f6", HSL{217, 90, 60}},
		{"#ff0000", HSL{0, 90, 50}},
		{"#cccccc", HSL{0, 35, 70}},
		{"#fff", HSL{0, 35, 70}},
		{"", DefaultAccent},
		{"#12", DefaultAccent},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HexToHSL(tc.hex), "hex=%s", tc.hex)
	}
}

func TestColorFor_NilPalette(t *testing.T) {
	var p Palette
	assert.Equal(t, DefaultAccent, p.ColorFor(5784, 0))
}

func TestColorFor_UnknownYearOrSemester(t *testing.T) {
	assert.Equal(t, DefaultAccent, DefaultPalette.ColorFor(5700, 0))
	assert.Equal(t, DefaultAccent, DefaultPalette.ColorFor(5784, 3))
	assert.Equal(t, DefaultAccent, DefaultPalette.ColorFor(5784, -1))
}

func TestColorFor_MissingCellFallsBackToGrey(t *testing.T) {
	p := Palette{{"", "#3b82f6"}}
	assert.Equal(t, HexToHSL("#cccccc"), p.ColorFor(5784, 0))
	// A row the palette doesn't even have behaves the same way.
	assert.Equal(t, HexToHSL("#cccccc"), p.ColorFor(5785, 0))
}

func TestColorFor_ResolvesCell(t *testing.T) {
	got := DefaultPalette.ColorFor(5784, 0)
	assert.Equal(t, HexToHSL("#3b82f6"), got)
}
