package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/velasquezhn3/vj-sub000/models"
	"github.com/velasquezhn3/vj-sub000/services/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStateStore struct {
	mu     sync.Mutex
	states map[string]models.ConversationState
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{states: make(map[string]models.ConversationState)}
}

func (s *fakeStateStore) GetState(_ context.Context, subjectID string) (models.ConversationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.states[subjectID]; ok {
		return state, nil
	}
	return models.ConversationState{SubjectID: subjectID, State: models.StateMenu}, nil
}

func (s *fakeStateStore) SetState(_ context.Context, subjectID, state string, draft models.BookingDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[subjectID] = models.ConversationState{SubjectID: subjectID, State: state, Draft: draft}
	return nil
}

func (s *fakeStateStore) Clear(_ context.Context, subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, subjectID)
	return nil
}

func (s *fakeStateStore) SweepExpired(context.Context) (int64, error) { return 0, nil }

type fakeReservationSvc struct {
	mu           sync.Mutex
	seq          int
	reservations map[string]*models.Reservation
	createErr    error
	confirmUnit  *models.Unit
	confirmErr   error
}

func newFakeReservationSvc() *fakeReservationSvc {
	return &fakeReservationSvc{reservations: make(map[string]*models.Reservation)}
}

func (f *fakeReservationSvc) CreatePending(subjectID string, draft models.BookingDraft) (*models.Reservation, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	res := &models.Reservation{
		ID:         fmt.Sprintf("res-%d", f.seq),
		SubjectID:  subjectID,
		StartDate:  draft.CheckIn,
		EndDate:    draft.CheckOut,
		PartySize:  draft.PartySize,
		UnitType:   draft.UnitType,
		TotalPrice: draft.TotalPrice,
		Status:     models.ReservationPending,
	}
	f.reservations[res.ID] = res
	return res, nil
}

func (f *fakeReservationSvc) GetByID(id string) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if res, ok := f.reservations[id]; ok {
		return res, nil
	}
	return nil, reservation.ErrNotFound
}

func (f *fakeReservationSvc) ResolveBySubject(subjectID string) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, res := range f.reservations {
		if res.SubjectID == subjectID && res.Status != models.ReservationCancelled {
			return res, nil
		}
	}
	return nil, reservation.ErrNotFound
}

func (f *fakeReservationSvc) Transition(id, newStatus string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if res, ok := f.reservations[id]; ok {
		res.Status = newStatus
		return nil
	}
	return reservation.ErrNotFound
}

func (f *fakeReservationSvc) AttachProof(id, proofRef string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.reservations[id]
	if !ok {
		return reservation.ErrNotFound
	}
	if res.Status != models.ReservationPending {
		return reservation.ErrNotApplicable
	}
	res.Status = models.ReservationProofReceived
	res.ProofRef = proofRef
	return nil
}

func (f *fakeReservationSvc) Confirm(id string) (*models.Reservation, error) {
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.reservations[id]
	if !ok {
		return nil, reservation.ErrNotFound
	}
	if res.Status == models.ReservationConfirmed || res.Status == models.ReservationCancelled {
		return nil, reservation.ErrNotApplicable
	}
	res.Status = models.ReservationConfirmed
	if f.confirmUnit != nil {
		res.UnitID = f.confirmUnit.ID
	}
	return res, nil
}

func (f *fakeReservationSvc) RejectProof(id string) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.reservations[id]
	if !ok {
		return nil, reservation.ErrNotFound
	}
	if res.Status == models.ReservationConfirmed || res.Status == models.ReservationCancelled {
		return nil, reservation.ErrNotApplicable
	}
	res.Status = models.ReservationCancelled
	res.ProofRef = ""
	return res, nil
}

func (f *fakeReservationSvc) SweepExpired(int) (int64, error) { return 0, nil }

type sentMessage struct {
	To   string
	Body string
}

type recordingSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (s *recordingSender) SendText(_ context.Context, to, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMessage{To: to, Body: body})
	return nil
}

func (s *recordingSender) last() sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return sentMessage{}
	}
	return s.sent[len(s.sent)-1]
}

func (s *recordingSender) lastTo(to string) sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.sent) - 1; i >= 0; i-- {
		if s.sent[i].To == to {
			return s.sent[i]
		}
	}
	return sentMessage{}
}

const (
	testSubject  = "504-8888-0001"
	testOperator = "ops-channel"
)

func newTestOrchestrator() (*DefaultFlowOrchestrator, *fakeStateStore, *fakeReservationSvc, *recordingSender) {
	states := newFakeStateStore()
	reservations := newFakeReservationSvc()
	sender := &recordingSender{}
	orch := NewDefaultFlowOrchestrator(states, reservations, sender, testOperator)
	return orch, states, reservations, sender
}

func send(t *testing.T, orch *DefaultFlowOrchestrator, text string) {
	t.Helper()
	require.NoError(t, orch.HandleIncoming(context.Background(), models.IncomingMessage{
		SubjectID: testSubject,
		Text:      text,
	}))
}

func sendMedia(t *testing.T, orch *DefaultFlowOrchestrator, ref, mimeType string) {
	t.Helper()
	require.NoError(t, orch.HandleIncoming(context.Background(), models.IncomingMessage{
		SubjectID: testSubject,
		Media:     &models.MediaRef{Ref: ref, MimeType: mimeType},
	}))
}

func TestBookingFlowEndToEnd(t *testing.T) {
	orch, states, reservations, sender := newTestOrchestrator()
	ctx := context.Background()

	send(t, orch, "hola")
	assert.Equal(t, msgAskDates, sender.last().Body)

	send(t, orch, "10/08/2025 - 12/08/2025")
	assert.Equal(t, msgAskName, sender.last().Body)
	state, _ := states.GetState(ctx, testSubject)
	assert.Equal(t, models.StateName, state.State)
	assert.Equal(t, "2025-08-10", state.Draft.CheckIn)
	assert.Equal(t, "2025-08-12", state.Draft.CheckOut)
	assert.Equal(t, 2, state.Draft.Nights)

	send(t, orch, "Ana López")
	assert.Equal(t, msgAskPartySize, sender.last().Body)

	send(t, orch, "3")
	quote := sender.last().Body
	assert.Contains(t, quote, "Cabaña pequeña")
	assert.Contains(t, quote, "3000.00")
	assert.Contains(t, quote, "Ana López")
	state, _ = states.GetState(ctx, testSubject)
	assert.Equal(t, models.StateTerms, state.State)
	assert.Equal(t, models.UnitTypeSmall, state.Draft.UnitType)
	assert.Equal(t, 3000.0, state.Draft.TotalPrice)

	send(t, orch, "sí")
	state, _ = states.GetState(ctx, testSubject)
	assert.Equal(t, models.StateAwaitingProof, state.State)
	assert.Equal(t, "res-1", state.Draft.ReservationID)

	// A pending reservation exists with no unit held yet, and the operator
	// channel got the summary.
	res, err := reservations.GetByID("res-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReservationPending, res.Status)
	assert.Empty(t, res.UnitID)
	assert.Contains(t, sender.lastTo(testOperator).Body, "res-1")
	assert.Contains(t, sender.lastTo(testSubject).Body, "3000.00")

	sendMedia(t, orch, "media/receipt-77.jpg", "image/jpeg")
	state, _ = states.GetState(ctx, testSubject)
	assert.Equal(t, models.StateAwaitingConfirmation, state.State)
	assert.Equal(t, msgPleaseWait, sender.lastTo(testSubject).Body)

	res, err = reservations.GetByID("res-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReservationProofReceived, res.Status)
	assert.Equal(t, "media/receipt-77.jpg", res.ProofRef)

	// Anything further while waiting on staff is answered with patience.
	send(t, orch, "¿ya está lista?")
	assert.Equal(t, msgPleaseWait, sender.lastTo(testSubject).Body)
	state, _ = states.GetState(ctx, testSubject)
	assert.Equal(t, models.StateAwaitingConfirmation, state.State)
}

func TestBadDatesReprompts(t *testing.T) {
	orch, states, _, sender := newTestOrchestrator()
	ctx := context.Background()

	send(t, orch, "hola")
	send(t, orch, "el proximo fin de semana")

	assert.Equal(t, msgBadDates, sender.last().Body)
	state, _ := states.GetState(ctx, testSubject)
	assert.Equal(t, models.StateDates, state.State, "invalid input must not advance the flow")
}

func TestPartySizeTooLargeReprompts(t *testing.T) {
	orch, states, _, sender := newTestOrchestrator()
	ctx := context.Background()

	send(t, orch, "hola")
	send(t, orch, "10/08/2025 - 12/08/2025")
	send(t, orch, "Ana López")
	send(t, orch, "14")

	assert.Contains(t, sender.last().Body, "9 personas")
	state, _ := states.GetState(ctx, testSubject)
	assert.Equal(t, models.StatePartySize, state.State)
}

func TestMenuEscapeFromTerms(t *testing.T) {
	orch, states, _, sender := newTestOrchestrator()
	ctx := context.Background()

	send(t, orch, "hola")
	send(t, orch, "10/08/2025 - 12/08/2025")
	send(t, orch, "Ana López")
	send(t, orch, "3")
	send(t, orch, "MENÚ")

	assert.Equal(t, msgAskDates, sender.last().Body)
	state, _ := states.GetState(ctx, testSubject)
	assert.Equal(t, models.StateDates, state.State)
	assert.Equal(t, models.BookingDraft{}, state.Draft, "draft must be discarded on reset")
}

func TestTierSwitchAtQuote(t *testing.T) {
	orch, states, _, sender := newTestOrchestrator()
	ctx := context.Background()

	send(t, orch, "hola")
	send(t, orch, "10/08/2025 - 12/08/2025")
	send(t, orch, "Ana López")
	send(t, orch, "5")

	// Upgrading to the large cabin re-quotes: two weekday nights at 3500.
	send(t, orch, "grande")
	quote := sender.last().Body
	assert.Contains(t, quote, "Cabaña grande")
	assert.Contains(t, quote, "7000.00")
	state, _ := states.GetState(ctx, testSubject)
	assert.Equal(t, models.StateTerms, state.State)
	assert.Equal(t, models.UnitTypeLarge, state.Draft.UnitType)

	// A tier too small for the party is refused with the suggestion intact.
	send(t, orch, "pequeña")
	state, _ = states.GetState(ctx, testSubject)
	assert.Equal(t, models.UnitTypeLarge, state.Draft.UnitType)
	assert.Contains(t, sender.last().Body, "hasta 3 personas")

	send(t, orch, "sí")
	state, _ = states.GetState(ctx, testSubject)
	assert.Equal(t, models.StateAwaitingProof, state.State)
	assert.Equal(t, 7000.0, state.Draft.TotalPrice)
}

func TestTermsDeclinedReprompts(t *testing.T) {
	orch, _, reservations, sender := newTestOrchestrator()

	send(t, orch, "hola")
	send(t, orch, "10/08/2025 - 12/08/2025")
	send(t, orch, "Ana López")
	send(t, orch, "3")
	send(t, orch, "mmm no sé")

	assert.Equal(t, msgTermsRepeat, sender.last().Body)
	assert.Empty(t, reservations.reservations, "no reservation before terms acceptance")
}

func TestNonMediaProofReprompts(t *testing.T) {
	orch, states, _, sender := newTestOrchestrator()
	ctx := context.Background()

	send(t, orch, "hola")
	send(t, orch, "10/08/2025 - 12/08/2025")
	send(t, orch, "Ana López")
	send(t, orch, "3")
	send(t, orch, "sí")

	send(t, orch, "ya pagué")
	assert.Equal(t, msgProofRepeat, sender.lastTo(testSubject).Body)

	sendMedia(t, orch, "media/note.ogg", "audio/ogg")
	assert.Equal(t, msgProofRepeat, sender.lastTo(testSubject).Body)

	state, _ := states.GetState(ctx, testSubject)
	assert.Equal(t, models.StateAwaitingProof, state.State)
}

func TestProofAfterRejectionRecreatesReservation(t *testing.T) {
	orch, states, reservations, _ := newTestOrchestrator()
	ctx := context.Background()

	// A subject parked at the proof step with no reservation id, the state a
	// proof rejection leaves behind.
	require.NoError(t, states.SetState(ctx, testSubject, models.StateAwaitingProof, models.BookingDraft{
		CheckIn: "2025-08-10", CheckOut: "2025-08-12", Nights: 2,
		GuestName: "Ana López", PartySize: 3,
		UnitType: models.UnitTypeSmall, TotalPrice: 3000, TermsAccepted: true,
	}))

	sendMedia(t, orch, "media/receipt-2.jpg", "image/jpeg")

	state, _ := states.GetState(ctx, testSubject)
	assert.Equal(t, models.StateAwaitingConfirmation, state.State)
	require.NotEmpty(t, state.Draft.ReservationID)

	res, err := reservations.GetByID(state.Draft.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationProofReceived, res.Status)
	assert.Equal(t, "media/receipt-2.jpg", res.ProofRef)
}

func TestUnexpectedFailureApologizesAndResets(t *testing.T) {
	orch, states, reservations, sender := newTestOrchestrator()
	ctx := context.Background()
	reservations.createErr = errors.New("mongo down")

	send(t, orch, "hola")
	send(t, orch, "10/08/2025 - 12/08/2025")
	send(t, orch, "Ana López")
	send(t, orch, "3")
	send(t, orch, "sí")

	assert.Equal(t, msgApology, sender.lastTo(testSubject).Body)
	state, _ := states.GetState(ctx, testSubject)
	assert.Equal(t, models.StateMenu, state.State)
	assert.Equal(t, models.BookingDraft{}, state.Draft)
}

func TestSubjectLocksAreReleased(t *testing.T) {
	orch, _, _, _ := newTestOrchestrator()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		subject := fmt.Sprintf("504-10%02d", i)
		for j := 0; j < 3; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, orch.HandleIncoming(ctx, models.IncomingMessage{
					SubjectID: subject,
					Text:      "hola",
				}))
			}()
		}
	}
	wg.Wait()

	orch.mu.Lock()
	defer orch.mu.Unlock()
	assert.Empty(t, orch.subjects, "no lock entries may outlive their in-flight messages")
}

func TestSubjectsProgressIndependently(t *testing.T) {
	orch, states, _, _ := newTestOrchestrator()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		subject := fmt.Sprintf("504-000%d", i)
		require.NoError(t, orch.HandleIncoming(ctx, models.IncomingMessage{SubjectID: subject, Text: "hola"}))
		require.NoError(t, orch.HandleIncoming(ctx, models.IncomingMessage{
			SubjectID: subject,
			Text:      fmt.Sprintf("1%d/08/2025 - 1%d/08/2025", i, i+1),
		}))
	}

	for i := 0; i < 4; i++ {
		subject := fmt.Sprintf("504-000%d", i)
		state, err := states.GetState(ctx, subject)
		require.NoError(t, err)
		assert.Equal(t, models.StateName, state.State)
		assert.True(t, strings.HasSuffix(state.Draft.CheckIn, fmt.Sprintf("-1%d", i)),
			"subject %s draft %q", subject, state.Draft.CheckIn)
	}
}
