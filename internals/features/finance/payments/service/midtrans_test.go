package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestTruncateKeepsRunesWhole(t *testing.T) {
	desc := `שכר טרחה 2025 - חברת ישראל ישראלי ושות' בע"מ`
	for n := 1; n <= len(desc); n++ {
		out := truncate(desc, n)
		require.True(t, utf8.ValidString(out), "cut at %d: %q", n, out)
		require.LessOrEqual(t, len(out), n)
		require.True(t, strings.HasPrefix(desc, out))
	}
}

func TestTruncateShortAndASCII(t *testing.T) {
	require.Equal(t, "fee", truncate("fee", 50))
	require.Equal(t, "fee-2", truncate("fee-2025", 5))
	require.Equal(t, "fee", truncate("fee", 0))
}
