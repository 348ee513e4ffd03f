package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDedupRecipients(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	in := []Recipient{
		{ClientID: a, Name: "א", Email: "a@example.co.il"},
		{ClientID: a, Name: "א", Email: "a@example.co.il"}, // same client from a second list
		{ClientID: b, Name: "ב", Email: "A@Example.co.il"}, // same email, different client
		{ClientID: c, Name: "ג", Email: ""},                // no email
	}

	out := DedupRecipients(in)
	require.Len(t, out, 1)
	require.Equal(t, a, out[0].ClientID)
	require.Equal(t, "a@example.co.il", out[0].Email)
}

func TestDedupRecipientsKeepsOrder(t *testing.T) {
	var in []Recipient
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	emails := []string{"one@x.co.il", "two@x.co.il", "three@x.co.il"}
	for i := range ids {
		in = append(in, Recipient{ClientID: ids[i], Email: emails[i]})
	}

	out := DedupRecipients(in)
	require.Len(t, out, 3)
	for i := range ids {
		require.Equal(t, ids[i], out[i].ClientID)
	}
}

func TestDedupRecipientsEmpty(t *testing.T) {
	require.Empty(t, DedupRecipients(nil))
}
