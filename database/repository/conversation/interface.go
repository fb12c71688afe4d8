package conversationRepo

import (
	"time"

	"github.com/velasquezhn3/vj-sub000/models"
)

// ConversationRepository defines durable storage for per-subject
// conversation state. Expiry interpretation lives in the state store; this
// layer only persists, fetches and prunes records.
type ConversationRepository interface {
	// Get retrieves the state record for a subject, or nil when absent.
	Get(subjectID string) (*models.ConversationState, error)
	// Upsert writes the state record for its subject.
	Upsert(state *models.ConversationState) error
	// Delete removes the state record for a subject. Absent is not an error.
	Delete(subjectID string) error
	// DeleteExpired removes records whose expires_at has passed and returns
	// how many were deleted.
	DeleteExpired(now time.Time) (int64, error)
}
