package allocation

import (
	"errors"
	"fmt"
	"sync"

	reservationRepo "github.com/velasquezhn3/vj-sub000/database/repository/reservation"
	unitRepo "github.com/velasquezhn3/vj-sub000/database/repository/unit"
	"github.com/velasquezhn3/vj-sub000/models"
	"github.com/velasquezhn3/vj-sub000/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ErrNoAvailability is returned when no unit of the requested type can host
// the party over the requested range.
var ErrNoAvailability = errors.New("no unit available for the requested range")

// activeStatuses are the reservation statuses that hold a unit against a
// date range.
var activeStatuses = []string{
	models.ReservationPending,
	models.ReservationProofReceived,
	models.ReservationConfirmed,
}

// AllocationEngine matches a booking request against the physical inventory.
type AllocationEngine interface {
	// FindAvailableUnit returns one unit of the requested type with capacity
	// for the party and no overlapping active reservation over
	// [startDate, endDate), or ErrNoAvailability. Read-only probe; binding a
	// unit goes through Allocate.
	FindAvailableUnit(unitType, startDate, endDate string, partySize int) (*models.Unit, error)
	// Allocate picks an available unit and binds it to the reservation,
	// moving the row from pending/proofReceived to confirmed. The returned
	// bool reports whether the status guard matched; false means the row was
	// already confirmed or cancelled by a concurrent command.
	Allocate(reservationID, unitType, startDate, endDate string, partySize int) (*models.Unit, bool, error)
}

// DefaultAllocationEngine implements AllocationEngine against the unit and
// reservation repositories.
type DefaultAllocationEngine struct {
	Units        unitRepo.UnitRepository
	Reservations reservationRepo.ReservationRepository

	// mu serializes the whole overlap-check-then-write sequence in Allocate.
	// Two concurrent confirmations for overlapping ranges would otherwise
	// both observe "no overlap" before either unit_id is written.
	mu sync.Mutex
}

func (e *DefaultAllocationEngine) FindAvailableUnit(unitType, startDate, endDate string, partySize int) (*models.Unit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.findAvailableUnit(unitType, startDate, endDate, partySize)
}

// Allocate holds the mutex across the overlap check and the status-guarded
// update that writes unit_id, so the next caller's overlap check always sees
// this confirmation.
func (e *DefaultAllocationEngine) Allocate(reservationID, unitType, startDate, endDate string, partySize int) (*models.Unit, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	unit, err := e.findAvailableUnit(unitType, startDate, endDate, partySize)
	if err != nil {
		return nil, false, err
	}

	matched, err := e.Reservations.TransitionStatus(reservationID,
		[]string{models.ReservationPending, models.ReservationProofReceived},
		models.ReservationConfirmed,
		bson.M{"unit_id": unit.ID})
	if err != nil {
		return nil, false, fmt.Errorf("failed to bind unit %s to reservation %s: %w", unit.ID, reservationID, err)
	}
	return unit, matched, nil
}

// findAvailableUnit is the unlocked body shared by FindAvailableUnit and
// Allocate. Callers hold e.mu.
func (e *DefaultAllocationEngine) findAvailableUnit(unitType, startDate, endDate string, partySize int) (*models.Unit, error) {
	logger := utils.GetLogger()

	candidates, err := e.Units.GetByType(unitType)
	if err != nil {
		return nil, fmt.Errorf("failed to list units of type %s: %w", unitType, err)
	}

	for _, unit := range candidates {
		if unit.Capacity < partySize {
			continue
		}
		overlapping, err := e.Reservations.FindOverlapping(unit.ID, startDate, endDate, activeStatuses)
		if err != nil {
			// Never allocate on partial information: a failed overlap check
			// aborts the whole attempt.
			logger.Error("allocation aborted: overlap check failed",
				zap.String("unitID", unit.ID), zap.Error(err))
			return nil, fmt.Errorf("overlap check failed for unit %s: %w", unit.ID, err)
		}
		if len(overlapping) == 0 {
			return &unit, nil
		}
	}
	return nil, ErrNoAvailability
}
