package flow

import (
	"context"
	"sync"

	"github.com/velasquezhn3/vj-sub000/models"
	"github.com/velasquezhn3/vj-sub000/services/conversation"
	"github.com/velasquezhn3/vj-sub000/services/messaging"
	"github.com/velasquezhn3/vj-sub000/services/reservation"
	"github.com/velasquezhn3/vj-sub000/utils"

	"go.uber.org/zap"
)

// FlowOrchestrator drives the booking conversation one inbound message at a
// time.
type FlowOrchestrator interface {
	HandleIncoming(ctx context.Context, msg models.IncomingMessage) error
}

// DefaultFlowOrchestrator interprets user input against the current
// conversation state, invoking pricing, classification and the reservation
// lifecycle, and producing the next state plus the outbound reply.
type DefaultFlowOrchestrator struct {
	States          conversation.StateStore
	Reservations    reservation.ReservationService
	Sender          messaging.Sender
	OperatorChannel string

	// Messages for different subjects run concurrently, but one subject's
	// get -> validate -> set sequence must never interleave with itself.
	mu       sync.Mutex
	subjects map[string]*subjectLock
}

// subjectLock is a refcounted per-subject mutex. Entries exist only while a
// message for the subject is in flight, so the map stays bounded by
// concurrency, not by the number of subjects ever seen.
type subjectLock struct {
	sync.Mutex
	refs int
}

// NewDefaultFlowOrchestrator wires the orchestrator.
func NewDefaultFlowOrchestrator(states conversation.StateStore, reservations reservation.ReservationService, sender messaging.Sender, operatorChannel string) *DefaultFlowOrchestrator {
	return &DefaultFlowOrchestrator{
		States:          states,
		Reservations:    reservations,
		Sender:          sender,
		OperatorChannel: operatorChannel,
		subjects:        make(map[string]*subjectLock),
	}
}

// acquireSubject returns the subject's lock, held.
func (o *DefaultFlowOrchestrator) acquireSubject(subjectID string) *subjectLock {
	o.mu.Lock()
	lock, ok := o.subjects[subjectID]
	if !ok {
		lock = &subjectLock{}
		o.subjects[subjectID] = lock
	}
	lock.refs++
	o.mu.Unlock()

	lock.Lock()
	return lock
}

// releaseSubject unlocks and drops the map entry once nothing else waits on
// it.
func (o *DefaultFlowOrchestrator) releaseSubject(subjectID string, lock *subjectLock) {
	lock.Unlock()

	o.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(o.subjects, subjectID)
	}
	o.mu.Unlock()
}

// HandleIncoming processes one inbound message. Unexpected failures never
// leave the conversation stuck: the subject gets a generic apology and a
// clean menu state.
func (o *DefaultFlowOrchestrator) HandleIncoming(ctx context.Context, msg models.IncomingMessage) error {
	lock := o.acquireSubject(msg.SubjectID)
	defer o.releaseSubject(msg.SubjectID, lock)

	logger := utils.GetLogger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while handling message",
				zap.String("subjectID", msg.SubjectID), zap.Any("panic", r))
			o.resetToMenu(ctx, msg.SubjectID)
		}
	}()

	state, err := o.States.GetState(ctx, msg.SubjectID)
	if err != nil {
		logger.Error("failed to load conversation state",
			zap.String("subjectID", msg.SubjectID), zap.Error(err))
		o.resetToMenu(ctx, msg.SubjectID)
		return nil
	}

	nextState, draft, reply, err := o.step(ctx, state, msg)
	if err != nil {
		logger.Error("unexpected error during transition",
			zap.String("subjectID", msg.SubjectID),
			zap.String("state", state.State), zap.Error(err))
		o.resetToMenu(ctx, msg.SubjectID)
		return nil
	}

	if err := o.States.SetState(ctx, msg.SubjectID, nextState, draft); err != nil {
		logger.Error("failed to persist conversation state",
			zap.String("subjectID", msg.SubjectID), zap.Error(err))
	}

	if reply != "" {
		if err := o.Sender.SendText(ctx, msg.SubjectID, reply); err != nil {
			logger.Error("failed to send reply",
				zap.String("subjectID", msg.SubjectID), zap.Error(err))
		}
	}
	return nil
}

// resetToMenu applies the orchestrator's error policy: apology plus a clean
// menu state, never a corrupted draft.
func (o *DefaultFlowOrchestrator) resetToMenu(ctx context.Context, subjectID string) {
	if err := o.States.SetState(ctx, subjectID, models.StateMenu, models.BookingDraft{}); err != nil {
		utils.GetLogger().Error("failed to reset conversation state",
			zap.String("subjectID", subjectID), zap.Error(err))
	}
	if err := o.Sender.SendText(ctx, subjectID, msgApology); err != nil {
		utils.GetLogger().Error("failed to send apology",
			zap.String("subjectID", subjectID), zap.Error(err))
	}
}

// notifyOperator broadcasts to the human-confirmation channel. Delivery
// failure is logged, not fatal: the draft still exists and staff can use the
// phone-number lookup.
func (o *DefaultFlowOrchestrator) notifyOperator(ctx context.Context, body string) {
	if o.OperatorChannel == "" {
		return
	}
	if err := o.Sender.SendText(ctx, o.OperatorChannel, body); err != nil {
		utils.GetLogger().Error("failed to notify operator channel", zap.Error(err))
	}
}
