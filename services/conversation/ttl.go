package conversation

import (
	"time"

	"github.com/velasquezhn3/vj-sub000/models"
)

// TTLPolicy maps conversation states onto record lifetimes. Payment-waiting
// states outlive conversational steps so a subject can come back with a
// receipt hours later.
type TTLPolicy struct {
	Conversational time.Duration
	PaymentWaiting time.Duration
}

// DefaultTTLPolicy matches the reference behavior: one hour for
// conversational steps, 24 hours while waiting on payment or staff.
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		Conversational: time.Hour,
		PaymentWaiting: 24 * time.Hour,
	}
}

// For returns the TTL for a state.
func (p TTLPolicy) For(state string) time.Duration {
	switch state {
	case models.StateAwaitingProof, models.StateAwaitingConfirmation:
		return p.PaymentWaiting
	default:
		return p.Conversational
	}
}
