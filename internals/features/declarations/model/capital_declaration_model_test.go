package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to DeclarationStatus
		want     bool
	}{
		{DeclarationStatusRequested, DeclarationStatusDocumentsPending, true},
		{DeclarationStatusDocumentsPending, DeclarationStatusInProgress, true},
		{DeclarationStatusInProgress, DeclarationStatusSubmitted, true},
		{DeclarationStatusInProgress, DeclarationStatusDocumentsPending, true}, // missing docs found late
		{DeclarationStatusSubmitted, DeclarationStatusClosed, true},

		{DeclarationStatusRequested, DeclarationStatusSubmitted, false}, // no skipping
		{DeclarationStatusSubmitted, DeclarationStatusInProgress, false},
		{DeclarationStatusClosed, DeclarationStatusRequested, false}, // closed is final
		{DeclarationStatusClosed, DeclarationStatusClosed, false},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestEveryStatusCanReachClosedExceptClosed(t *testing.T) {
	for from := range allowedTransitions {
		if from == DeclarationStatusClosed {
			continue
		}
		require.True(t, CanTransition(from, DeclarationStatusClosed), "%s should close", from)
	}
}

func TestIsValidStatus(t *testing.T) {
	require.True(t, IsValidStatus(DeclarationStatusRequested))
	require.False(t, IsValidStatus("archived"))
}
