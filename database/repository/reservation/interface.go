package reservationRepo

import (
	"time"

	"github.com/velasquezhn3/vj-sub000/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ReservationRepository defines methods for reservation data access.
type ReservationRepository interface {
	// Create inserts a new reservation row.
	Create(res *models.Reservation) error
	// GetByID retrieves a reservation by its unique ID.
	GetByID(id string) (*models.Reservation, error)
	// GetLatestActiveBySubject retrieves the most recent non-terminal
	// reservation for a subject, or nil when none exists.
	GetLatestActiveBySubject(subjectID string) (*models.Reservation, error)
	// FindOverlapping returns reservations on the given unit whose
	// [start_date, end_date) range overlaps the requested one and whose
	// status is in the given set.
	FindOverlapping(unitID, startDate, endDate string, statuses []string) ([]models.Reservation, error)
	// TransitionStatus atomically moves a reservation from one of the given
	// statuses to a new status, applying any extra $set fields in the same
	// update. It reports whether a row matched the guard.
	TransitionStatus(id string, from []string, to string, extra bson.M) (bool, error)
	// DeleteExpiredPending removes pending reservations created before the
	// cutoff and returns how many were deleted.
	DeleteExpiredPending(cutoff time.Time) (int64, error)
}
