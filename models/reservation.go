package models

import "time"

// Reservation status values. Movement is forward-only:
// pending -> proofReceived -> confirmed, with cancelled reachable from any
// non-terminal status. The sweep only ever removes pending rows.
const (
	ReservationPending       = "pending"
	ReservationProofReceived = "proofReceived"
	ReservationConfirmed     = "confirmed"
	ReservationCancelled     = "cancelled"
)

// Reservation represents a booking row. UnitID stays empty until a concrete
// unit is allocated at confirmation time.
type Reservation struct {
	ID         string    `bson:"id" json:"id"`
	SubjectID  string    `bson:"subject_id" json:"subject_id"`
	UnitID     string    `bson:"unit_id,omitempty" json:"unit_id,omitempty"`
	StartDate  string    `bson:"start_date" json:"start_date"` // "YYYY-MM-DD", inclusive
	EndDate    string    `bson:"end_date" json:"end_date"`     // "YYYY-MM-DD", exclusive
	PartySize  int       `bson:"party_size" json:"party_size"`
	UnitType   string    `bson:"unit_type" json:"unit_type"`
	TotalPrice float64   `bson:"total_price" json:"total_price"`
	Status     string    `bson:"status" json:"status"`
	ProofRef   string    `bson:"proof_ref,omitempty" json:"proof_ref,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}
