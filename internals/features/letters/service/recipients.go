package service

import (
	"strings"

	"github.com/google/uuid"
)

// Recipient is one resolved broadcast target.
type Recipient struct {
	ClientID uuid.UUID
	Name     string
	Email    string
}

// DedupRecipients collapses a merged list (several distribution lists plus
// ad-hoc clients) into one entry per client, then one per email. Recipients
// without an email are dropped — there is nowhere to send. Order of first
// appearance is kept.
func DedupRecipients(in []Recipient) []Recipient {
	seenClient := make(map[uuid.UUID]struct{}, len(in))
	seenEmail := make(map[string]struct{}, len(in))
	out := make([]Recipient, 0, len(in))

	for _, r := range in {
		email := strings.ToLower(strings.TrimSpace(r.Email))
		if email == "" {
			continue
		}
		if _, dup := seenClient[r.ClientID]; dup {
			continue
		}
		if _, dup := seenEmail[email]; dup {
			continue
		}
		seenClient[r.ClientID] = struct{}{}
		seenEmail[email] = struct{}{}
		r.Email = email
		out = append(out, r)
	}
	return out
}
