package reservation

import (
	"fmt"
	"time"

	reservationRepo "github.com/velasquezhn3/vj-sub000/database/repository/reservation"
	userRepo "github.com/velasquezhn3/vj-sub000/database/repository/user"
	"github.com/velasquezhn3/vj-sub000/models"
	"github.com/velasquezhn3/vj-sub000/services/allocation"
	"github.com/velasquezhn3/vj-sub000/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ReservationService owns the reservation lifecycle: creation at terms
// acceptance, proof attachment, staff confirmation with allocation, and the
// retention sweep.
type ReservationService interface {
	CreatePending(subjectID string, draft models.BookingDraft) (*models.Reservation, error)
	GetByID(id string) (*models.Reservation, error)
	ResolveBySubject(subjectID string) (*models.Reservation, error)
	Transition(id, newStatus string) error
	AttachProof(id, proofRef string) error
	Confirm(id string) (*models.Reservation, error)
	RejectProof(id string) (*models.Reservation, error)
	SweepExpired(retentionHours int) (int64, error)
}

// statusRank orders statuses for the forward-only rule.
var statusRank = map[string]int{
	models.ReservationPending:       0,
	models.ReservationProofReceived: 1,
	models.ReservationConfirmed:     2,
	models.ReservationCancelled:     3,
}

// DefaultReservationService implements ReservationService.
type DefaultReservationService struct {
	Repo      reservationRepo.ReservationRepository
	Users     userRepo.UserRepository
	Allocator allocation.AllocationEngine
}

// CreatePending upserts the subject in the user directory and inserts a
// pending reservation with no unit assigned. Allocation is deferred to
// confirmation time so an abandoned conversation never holds a unit.
func (s *DefaultReservationService) CreatePending(subjectID string, draft models.BookingDraft) (*models.Reservation, error) {
	if _, err := s.Users.UpsertByPhone(subjectID, draft.GuestName); err != nil {
		return nil, fmt.Errorf("failed to upsert user for subject %s: %w", subjectID, err)
	}

	res := &models.Reservation{
		ID:         uuid.New().String(),
		SubjectID:  subjectID,
		StartDate:  draft.CheckIn,
		EndDate:    draft.CheckOut,
		PartySize:  draft.PartySize,
		UnitType:   draft.UnitType,
		TotalPrice: draft.TotalPrice,
		Status:     models.ReservationPending,
	}
	if err := s.Repo.Create(res); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("pending reservation created",
		zap.String("reservationID", res.ID),
		zap.String("subjectID", subjectID),
		zap.String("range", res.StartDate+" / "+res.EndDate))
	return res, nil
}

// GetByID fetches a reservation; an unknown id is ErrNotFound.
func (s *DefaultReservationService) GetByID(id string) (*models.Reservation, error) {
	res, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrNotFound
	}
	return res, nil
}

// ResolveBySubject finds the subject's most recent active reservation, the
// phone-number fallback path for administrative commands.
func (s *DefaultReservationService) ResolveBySubject(subjectID string) (*models.Reservation, error) {
	res, err := s.Repo.GetLatestActiveBySubject(subjectID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrNotFound
	}
	return res, nil
}

// Transition enforces forward-only status movement. The guard and the write
// are one atomic update, so a concurrent command on the same row loses the
// race cleanly instead of overwriting.
func (s *DefaultReservationService) Transition(id, newStatus string) error {
	newRank, ok := statusRank[newStatus]
	if !ok {
		return fmt.Errorf("unknown reservation status %q", newStatus)
	}

	res, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if statusRank[res.Status] >= newRank {
		return ErrInvalidTransition
	}

	matched, err := s.Repo.TransitionStatus(id, []string{res.Status}, newStatus, nil)
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotApplicable
	}
	return nil
}

// AttachProof records the externally stored payment proof against a pending
// reservation and marks it proofReceived.
func (s *DefaultReservationService) AttachProof(id, proofRef string) error {
	matched, err := s.Repo.TransitionStatus(id,
		[]string{models.ReservationPending},
		models.ReservationProofReceived,
		bson.M{"proof_ref": proofRef})
	if err != nil {
		return err
	}
	if !matched {
		if _, err := s.GetByID(id); err != nil {
			return err
		}
		return ErrNotApplicable
	}
	return nil
}

// Confirm allocates a concrete unit and marks the reservation confirmed. No
// availability is a distinct outcome, not a silent unassigned confirmation.
// A repeat confirm finds the row already confirmed and reports
// ErrNotApplicable.
func (s *DefaultReservationService) Confirm(id string) (*models.Reservation, error) {
	res, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res.Status == models.ReservationConfirmed || res.Status == models.ReservationCancelled {
		return nil, ErrNotApplicable
	}

	// The engine binds the unit inside its own critical section, so the
	// overlap check and the unit_id write cannot interleave with another
	// confirmation.
	unit, matched, err := s.Allocator.Allocate(id, res.UnitType, res.StartDate, res.EndDate, res.PartySize)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrNotApplicable
	}

	res.Status = models.ReservationConfirmed
	res.UnitID = unit.ID

	utils.GetLogger().Info("reservation confirmed",
		zap.String("reservationID", id),
		zap.String("unitID", unit.ID))
	return res, nil
}

// RejectProof clears the proof reference and cancels the reservation so the
// subject can start over with a fresh receipt.
func (s *DefaultReservationService) RejectProof(id string) (*models.Reservation, error) {
	res, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	matched, err := s.Repo.TransitionStatus(id,
		[]string{models.ReservationPending, models.ReservationProofReceived},
		models.ReservationCancelled,
		bson.M{"proof_ref": ""})
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrNotApplicable
	}

	res.Status = models.ReservationCancelled
	res.ProofRef = ""
	return res, nil
}

// SweepExpired deletes pending reservations older than the retention window.
// Re-running with nothing expired removes nothing.
func (s *DefaultReservationService) SweepExpired(retentionHours int) (int64, error) {
	cutoff := time.Now().Add(-time.Duration(retentionHours) * time.Hour)
	deleted, err := s.Repo.DeleteExpiredPending(cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		utils.GetLogger().Info("swept expired pending reservations",
			zap.Int64("deleted", deleted), zap.Int("retentionHours", retentionHours))
	}
	return deleted, nil
}
