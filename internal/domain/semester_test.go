package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTerm(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Term
		ok   bool
	}{
		{"hebrew year with aleph", `סטטיסטיקה תשפ"ה סמסטר א`, Term{5785, 1}, true},
		{"apostrophe normalized", "מבוא לתכנות תשפ'ו ב", Term{5786, 2}, true},
		{"elul term", `מכינה אלול תשפ"ד`, Term{5784, 0}, true},
		{"numeric year with digit semester", "קורס 5788 סמסטר 1", Term{5788, 0}, true},
		{"digit semester two", "5789 2", Term{5789, 1}, true},
		{"year without semester", `תשפ"ה`, Term{}, false},
		{"semester without year", "סמסטר א", Term{}, false},
		{"no term at all", "linear algebra", Term{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseTerm(tc.text)
			require.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestFallbackTerm_Deterministic(t *testing.T) {
	a := FallbackTerm("12345")
	b := FallbackTerm("12345")
	assert.Equal(t, a, b)
}

func TestFallbackTerm_KnownHash(t *testing.T) {
	// "123" hashes to 48690: year row 48690%7=5, semester (48690>>3)%3=2.
	got := FallbackTerm("123")
	assert.Equal(t, Term{Year: 5789, SemIdx: 2}, got)
}

func TestFallbackTerm_InRange(t *testing.T) {
	for _, id := range []string{"", "1", "99999", "course-with-text", "תשפ"} {
		got := FallbackTerm(id)
		assert.Contains(t, HebrewYears, got.Year, "id=%s", id)
		assert.GreaterOrEqual(t, got.SemIdx, 0, "id=%s", id)
		assert.LessOrEqual(t, got.SemIdx, 2, "id=%s", id)
	}
}
