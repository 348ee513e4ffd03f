package helper

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"latin with spaces", "Annual Fee Letter", "annual-fee-letter"},
		{"punctuation collapses", "Fee -- Letter!! (2026)", "fee-letter-2026"},
		{"hebrew kept", "מכתב שכר טרחה", "מכתב-שכר-טרחה"},
		{"mixed hebrew latin", "תבנית Default 2026", "תבנית-default-2026"},
		{"diacritics folded", "Café Français", "cafe-francais"},
		{"leading trailing trim", "  --hello--  ", "hello"},
		{"empty", "   ", ""},
		{"symbols only", "@#$%", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, GenerateSlug(tc.in))
		})
	}
}

func TestCutToLen(t *testing.T) {
	require.Equal(t, "abc", cutToLen("abc", 10))
	require.Equal(t, "ab", cutToLen("abcde", 2))
	// no trailing dash after the cut
	require.Equal(t, "ab", cutToLen("ab-cd", 3))
	require.Equal(t, "abc", cutToLen("abc", 0))
}

func TestCutToLenKeepsRunesWhole(t *testing.T) {
	// Hebrew letters are two bytes; an odd cut must not split one.
	in := "מכתב-שכר-טרחה"
	for n := 1; n < len(in); n++ {
		out := cutToLen(in, n)
		require.True(t, utf8.ValidString(out), "cut at %d: %q", n, out)
		require.LessOrEqual(t, len(out), n)
	}
}
