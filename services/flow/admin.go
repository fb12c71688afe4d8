package flow

import (
	"context"
	"errors"

	"github.com/velasquezhn3/vj-sub000/models"
	"github.com/velasquezhn3/vj-sub000/services/allocation"
	"github.com/velasquezhn3/vj-sub000/services/conversation"
	"github.com/velasquezhn3/vj-sub000/services/messaging"
	"github.com/velasquezhn3/vj-sub000/services/reservation"
	"github.com/velasquezhn3/vj-sub000/utils"

	"go.uber.org/zap"
)

// AdminOutcome is the result of an administrative side-channel command.
// Wrong-status and unknown-reservation cases are outcomes, not errors, so
// repeated delivery of the same command stays idempotent.
type AdminOutcome string

const (
	OutcomeConfirmed      AdminOutcome = "confirmed"
	OutcomeCancelled      AdminOutcome = "cancelled"
	OutcomeNoAvailability AdminOutcome = "no_availability"
	OutcomeNotApplicable  AdminOutcome = "not_applicable"
	OutcomeNotFound       AdminOutcome = "not_found"
)

// ReservationRef addresses a reservation by id, with a phone-number lookup
// fallback resolving to the subject's latest active reservation.
type ReservationRef struct {
	ID    string `json:"reservation_id"`
	Phone string `json:"phone"`
}

// AdminChannel executes the operator commands that move a reservation
// independently of the per-user conversation.
type AdminChannel struct {
	States       conversation.StateStore
	Reservations reservation.ReservationService
	Sender       messaging.Sender
}

func (a *AdminChannel) resolve(ref ReservationRef) (*models.Reservation, error) {
	if ref.ID != "" {
		return a.Reservations.GetByID(ref.ID)
	}
	if ref.Phone != "" {
		return a.Reservations.ResolveBySubject(ref.Phone)
	}
	return nil, reservation.ErrNotFound
}

// Confirm moves a pending or proofReceived reservation to confirmed,
// allocating a concrete unit. No availability is surfaced as its own outcome
// so staff can pick different dates with the guest.
func (a *AdminChannel) Confirm(ctx context.Context, ref ReservationRef) (AdminOutcome, error) {
	res, err := a.resolve(ref)
	if errors.Is(err, reservation.ErrNotFound) {
		return OutcomeNotFound, nil
	}
	if err != nil {
		return "", err
	}

	confirmed, err := a.Reservations.Confirm(res.ID)
	switch {
	case errors.Is(err, reservation.ErrNotApplicable):
		return OutcomeNotApplicable, nil
	case errors.Is(err, allocation.ErrNoAvailability):
		utils.GetLogger().Warn("confirmation failed: no availability",
			zap.String("reservationID", res.ID))
		// Let the guest retry other dates instead of waiting on a
		// confirmation that cannot come.
		if err := a.States.SetState(ctx, res.SubjectID, models.StateMenu, models.BookingDraft{}); err != nil {
			utils.GetLogger().Warn("failed to reset conversation state after failed allocation",
				zap.String("subjectID", res.SubjectID), zap.Error(err))
		}
		if err := a.Sender.SendText(ctx, res.SubjectID, msgNoAvailability); err != nil {
			utils.GetLogger().Error("failed to notify subject of unavailability",
				zap.String("subjectID", res.SubjectID), zap.Error(err))
		}
		return OutcomeNoAvailability, nil
	case err != nil:
		return "", err
	}

	if err := a.States.Clear(ctx, confirmed.SubjectID); err != nil {
		utils.GetLogger().Warn("failed to clear conversation state after confirmation",
			zap.String("subjectID", confirmed.SubjectID), zap.Error(err))
	}
	if err := a.Sender.SendText(ctx, confirmed.SubjectID, msgConfirmed); err != nil {
		utils.GetLogger().Error("failed to notify subject of confirmation",
			zap.String("subjectID", confirmed.SubjectID), zap.Error(err))
	}
	return OutcomeConfirmed, nil
}

// Readback is the pre-approval variant: staff confirm before the proof
// arrives. Same transition, logged distinctly.
func (a *AdminChannel) Readback(ctx context.Context, ref ReservationRef) (AdminOutcome, error) {
	utils.GetLogger().Info("readback pre-approval requested",
		zap.String("reservationID", ref.ID), zap.String("phone", ref.Phone))
	return a.Confirm(ctx, ref)
}

// RejectProof cancels the reservation, clears the proof pointer and sends the
// subject back to the proof step so a fresh receipt re-issues a pending row.
func (a *AdminChannel) RejectProof(ctx context.Context, ref ReservationRef) (AdminOutcome, error) {
	res, err := a.resolve(ref)
	if errors.Is(err, reservation.ErrNotFound) {
		return OutcomeNotFound, nil
	}
	if err != nil {
		return "", err
	}

	if _, err := a.Reservations.RejectProof(res.ID); err != nil {
		if errors.Is(err, reservation.ErrNotApplicable) {
			return OutcomeNotApplicable, nil
		}
		return "", err
	}

	state, err := a.States.GetState(ctx, res.SubjectID)
	if err == nil {
		draft := state.Draft
		draft.ReservationID = ""
		if err := a.States.SetState(ctx, res.SubjectID, models.StateAwaitingProof, draft); err != nil {
			utils.GetLogger().Warn("failed to reset state after proof rejection",
				zap.String("subjectID", res.SubjectID), zap.Error(err))
		}
	}

	if err := a.Sender.SendText(ctx, res.SubjectID, msgProofRejected); err != nil {
		utils.GetLogger().Error("failed to notify subject of proof rejection",
			zap.String("subjectID", res.SubjectID), zap.Error(err))
	}
	return OutcomeCancelled, nil
}
