package models

import "time"

// Conversation states for the booking flow. The flow is linear from dates
// through awaiting_confirmation; menu is the default state reachable from
// anywhere on reset or error.
const (
	StateMenu                 = "menu"
	StateDates                = "dates"
	StateName                 = "name"
	StatePartySize            = "party_size"
	StateTerms                = "terms"
	StateAwaitingProof        = "awaiting_proof"
	StateAwaitingConfirmation = "awaiting_confirmation"
)

// BookingDraft holds the booking fields collected so far in a conversation.
// It prefigures a Reservation; ReservationID is set once the pending row
// exists (at terms acceptance).
type BookingDraft struct {
	CheckIn       string  `bson:"check_in,omitempty" json:"check_in,omitempty"`   // "YYYY-MM-DD"
	CheckOut      string  `bson:"check_out,omitempty" json:"check_out,omitempty"` // "YYYY-MM-DD"
	Nights        int     `bson:"nights,omitempty" json:"nights,omitempty"`
	GuestName     string  `bson:"guest_name,omitempty" json:"guest_name,omitempty"`
	PartySize     int     `bson:"party_size,omitempty" json:"party_size,omitempty"`
	UnitType      string  `bson:"unit_type,omitempty" json:"unit_type,omitempty"`
	TotalPrice    float64 `bson:"total_price,omitempty" json:"total_price,omitempty"`
	TermsAccepted bool    `bson:"terms_accepted,omitempty" json:"terms_accepted,omitempty"`
	ReservationID string  `bson:"reservation_id,omitempty" json:"reservation_id,omitempty"`
}

// ConversationState is the per-subject state machine record. At most one
// active record exists per subject; a record past ExpiresAt is treated as
// absent everywhere.
type ConversationState struct {
	SubjectID string       `bson:"subject_id" json:"subject_id"`
	State     string       `bson:"state" json:"state"`
	Draft     BookingDraft `bson:"draft" json:"draft"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time    `bson:"updated_at" json:"updated_at"`
	ExpiresAt time.Time    `bson:"expires_at" json:"expires_at"`
}

// Expired reports whether the record is past its TTL at the given instant.
func (s ConversationState) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
