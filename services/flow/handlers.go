package flow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/velasquezhn3/vj-sub000/models"
	"github.com/velasquezhn3/vj-sub000/services/allocation"
	"github.com/velasquezhn3/vj-sub000/services/pricing"
	"github.com/velasquezhn3/vj-sub000/services/reservation"
	"github.com/velasquezhn3/vj-sub000/utils"
)

// step interprets one message against the current state and returns the next
// state, the updated draft and the outbound reply. Input-validation failures
// re-prompt without advancing; only unexpected errors bubble up.
func (o *DefaultFlowOrchestrator) step(ctx context.Context, state models.ConversationState, msg models.IncomingMessage) (string, models.BookingDraft, string, error) {
	switch state.State {
	case models.StateMenu:
		return o.stepMenu()
	case models.StateDates:
		return o.stepDates(state, msg)
	case models.StateName:
		return o.stepName(state, msg)
	case models.StatePartySize:
		return o.stepPartySize(state, msg)
	case models.StateTerms:
		return o.stepTerms(ctx, state, msg)
	case models.StateAwaitingProof:
		return o.stepAwaitingProof(ctx, state, msg)
	case models.StateAwaitingConfirmation:
		return models.StateAwaitingConfirmation, state.Draft, msgPleaseWait, nil
	default:
		// Unknown stored state: start over.
		return o.stepMenu()
	}
}

// Any message on the menu starts a fresh booking.
func (o *DefaultFlowOrchestrator) stepMenu() (string, models.BookingDraft, string, error) {
	return models.StateDates, models.BookingDraft{}, msgAskDates, nil
}

func (o *DefaultFlowOrchestrator) stepDates(state models.ConversationState, msg models.IncomingMessage) (string, models.BookingDraft, string, error) {
	start, end, nights, err := ParseDateRange(msg.Text)
	if err != nil {
		return models.StateDates, state.Draft, msgBadDates, nil
	}

	draft := state.Draft
	draft.CheckIn = start.Format(isoDate)
	draft.CheckOut = end.Format(isoDate)
	draft.Nights = nights
	return models.StateName, draft, msgAskName, nil
}

func (o *DefaultFlowOrchestrator) stepName(state models.ConversationState, msg models.IncomingMessage) (string, models.BookingDraft, string, error) {
	name := strings.TrimSpace(msg.Text)
	if name == "" {
		return models.StateName, state.Draft, msgAskName, nil
	}

	draft := state.Draft
	draft.GuestName = name
	return models.StatePartySize, draft, msgAskPartySize, nil
}

func (o *DefaultFlowOrchestrator) stepPartySize(state models.ConversationState, msg models.IncomingMessage) (string, models.BookingDraft, string, error) {
	partySize, err := ParsePartySize(msg.Text)
	if err != nil {
		return models.StatePartySize, state.Draft, msgBadPartySize, nil
	}

	unitType, err := allocation.ClassifyPartySize(partySize)
	if errors.Is(err, allocation.ErrPartyTooLarge) {
		return models.StatePartySize, state.Draft, msgPartyTooLarge(allocation.MaxPartySize()), nil
	}
	if err != nil {
		return models.StatePartySize, state.Draft, msgBadPartySize, nil
	}

	draft := state.Draft
	draft.PartySize = partySize
	draft.UnitType = unitType

	start, err := time.Parse(isoDate, draft.CheckIn)
	if err != nil {
		return "", draft, "", err
	}
	total, err := pricing.Calculate(unitType, start, draft.Nights)
	if err != nil {
		return "", draft, "", err
	}
	draft.TotalPrice = total

	return models.StateTerms, draft, msgQuote(draft), nil
}

func (o *DefaultFlowOrchestrator) stepTerms(ctx context.Context, state models.ConversationState, msg models.IncomingMessage) (string, models.BookingDraft, string, error) {
	if utils.FoldText(msg.Text) == "menu" {
		return o.stepMenu()
	}
	// The guest can answer the quote with a cabin type ("grande", 🏰) to
	// switch tiers before accepting.
	if unitType := allocation.NormalizeUnitType(msg.Text); unitType != "" {
		draft := state.Draft
		if allocation.TierCapacity(unitType) < draft.PartySize {
			return models.StateTerms, draft, msgTierTooSmall(unitType, draft.PartySize), nil
		}
		start, err := time.Parse(isoDate, draft.CheckIn)
		if err != nil {
			return "", draft, "", err
		}
		total, err := pricing.Calculate(unitType, start, draft.Nights)
		if err != nil {
			return "", draft, "", err
		}
		draft.UnitType = unitType
		draft.TotalPrice = total
		return models.StateTerms, draft, msgQuote(draft), nil
	}
	if !IsAffirmative(msg.Text) {
		return models.StateTerms, state.Draft, msgTermsRepeat, nil
	}

	draft := state.Draft
	draft.TermsAccepted = true

	// The pending row is created here so the proof step always has a concrete
	// reservation to attach to.
	res, err := o.Reservations.CreatePending(msg.SubjectID, draft)
	if err != nil {
		return "", draft, "", err
	}
	draft.ReservationID = res.ID

	o.notifyOperator(ctx, operatorSummary(res, draft))
	return models.StateAwaitingProof, draft, msgPaymentInstructions(draft), nil
}

func (o *DefaultFlowOrchestrator) stepAwaitingProof(ctx context.Context, state models.ConversationState, msg models.IncomingMessage) (string, models.BookingDraft, string, error) {
	if msg.Media == nil || !IsProofAttachment(msg.Media.MimeType) {
		return models.StateAwaitingProof, state.Draft, msgProofRepeat, nil
	}

	draft := state.Draft
	if draft.ReservationID == "" {
		// Happens after a proof rejection or a swept row: re-issue the
		// pending reservation so the proof has somewhere to live.
		res, err := o.Reservations.CreatePending(msg.SubjectID, draft)
		if err != nil {
			return "", draft, "", err
		}
		draft.ReservationID = res.ID
		o.notifyOperator(ctx, operatorSummary(res, draft))
	}

	err := o.Reservations.AttachProof(draft.ReservationID, msg.Media.Ref)
	switch {
	case errors.Is(err, reservation.ErrNotFound):
		// Row swept while the subject was away: recreate and re-attach.
		res, cerr := o.Reservations.CreatePending(msg.SubjectID, draft)
		if cerr != nil {
			return "", draft, "", cerr
		}
		draft.ReservationID = res.ID
		if aerr := o.Reservations.AttachProof(res.ID, msg.Media.Ref); aerr != nil {
			return "", draft, "", aerr
		}
	case errors.Is(err, reservation.ErrNotApplicable):
		// Proof already recorded; repeated delivery is fine.
	case err != nil:
		return "", draft, "", err
	}

	o.notifyOperator(ctx, "🧾 Comprobante recibido para la reserva "+draft.ReservationID)
	return models.StateAwaitingConfirmation, draft, msgPleaseWait, nil
}
