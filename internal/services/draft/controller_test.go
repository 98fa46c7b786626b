package draft

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/VladKovDev/botconstructor/internal/domain/scenario"
)

type fakeStore struct {
	mu          sync.Mutex
	saves       []scenario.Document
	clears      int
	applies     [][]scenario.Trigger
	saveErr     error
	inFlight    int
	maxInFlight int

	saveStarted  chan struct{}
	saveRelease  chan struct{}
	applyStarted chan struct{}
	applyRelease chan struct{}
}

// enter/leave bracket every write so tests can assert writes against
// one scenario never overlap.
func (f *fakeStore) enter() {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()
}

func (f *fakeStore) leave() {
	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
}

func (f *fakeStore) SaveDraft(ctx context.Context, id string, doc scenario.Document) error {
	f.enter()
	defer f.leave()
	if f.saveStarted != nil {
		f.saveStarted <- struct{}{}
	}
	if f.saveRelease != nil {
		<-f.saveRelease
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves = append(f.saves, doc)
	return nil
}

func (f *fakeStore) ClearDraft(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	return nil
}

func (f *fakeStore) ApplyDraft(ctx context.Context, id string, triggers []scenario.Trigger) error {
	f.enter()
	defer f.leave()
	if f.applyStarted != nil {
		f.applyStarted <- struct{}{}
	}
	if f.applyRelease != nil {
		<-f.applyRelease
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applies = append(f.applies, triggers)
	return nil
}

func (f *fakeStore) maxWritesInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

func (f *fakeStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakeStore) setSaveErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveErr = err
}

func publishedDoc() scenario.Document {
	return scenario.Document{
		Blocks: []scenario.Block{
			{ID: "b-start", Type: scenario.BlockStart, Data: scenario.StartData{
				Triggers: []scenario.Trigger{{Type: scenario.TriggerStart, Enabled: true}},
			}},
		},
		Placements: []scenario.BlockPlacement{
			{ID: "b-start", Coord: scenario.Coordinates{X: 0, Y: 0}},
		},
	}
}

func editedDoc() scenario.Document {
	return publishedDoc().WithBlock(scenario.Block{
		ID:   "b-msg",
		Type: scenario.BlockMessage,
		Data: scenario.MessageData{Text: "hi", Mode: scenario.ModeMedia, Attachments: []scenario.Attachment{}},
	}, scenario.Coordinates{X: 100, Y: 100})
}

func newController(t *testing.T, store Store, interval time.Duration) *Controller {
	t.Helper()
	c, err := NewController(store, scenario.Scenario{
		ID:   "sc-1",
		Data: publishedDoc(),
	}, interval, nil)
	if err != nil {
		t.Fatalf("failed to create controller: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func waitForState(t *testing.T, c *Controller, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state never reached %q, stuck at %q", want, c.State())
}

func TestAutosaveDebouncesBursts(t *testing.T) {
	store := &fakeStore{}
	c := newController(t, store, 30*time.Millisecond)

	doc := editedDoc()
	c.NoteEdit(publishedDoc().WithBlock(scenario.Block{
		ID: "tmp", Type: scenario.BlockDelay,
		Data: scenario.DelayData{Type: scenario.DelayKindDuration, Value: scenario.DelayValue{Duration: "1", Measurement: scenario.MeasurementSeconds}},
	}, scenario.Coordinates{}))
	c.NoteEdit(doc)
	if c.State() != StateDirty {
		t.Fatalf("expected dirty, got %q", c.State())
	}

	waitForState(t, c, StateClean)
	if got := store.saveCount(); got != 1 {
		t.Fatalf("expected a single debounced save, got %d", got)
	}
	store.mu.Lock()
	saved := store.saves[0]
	store.mu.Unlock()
	if !saved.Equal(doc) {
		t.Error("saved snapshot is not the latest edit")
	}
}

func TestEditBurstBackToSavedSkipsSave(t *testing.T) {
	store := &fakeStore{}
	c := newController(t, store, 30*time.Millisecond)

	c.NoteEdit(editedDoc())
	c.NoteEdit(publishedDoc())
	if c.State() != StateClean {
		t.Fatalf("expected clean after reverting, got %q", c.State())
	}

	time.Sleep(100 * time.Millisecond)
	if got := store.saveCount(); got != 0 {
		t.Errorf("reverted burst must not save, got %d saves", got)
	}
}

func TestNetNoopEditOnLoadedScenarioStaysClean(t *testing.T) {
	wire := `{"blocks":[{"id":"b-start","type":"start","data":{"triggers":[{"type":"start","enabled":true,"data":{}}]}}],"connections":[],"placements":[{"id":"b-start","coord":{"x":0,"y":0}}]}`
	doc, err := scenario.Decode([]byte(wire))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store := &fakeStore{}
	c, err := NewController(store, scenario.Scenario{ID: "sc-1", Data: doc}, 10*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("failed to create controller: %v", err)
	}
	defer c.Close()

	// Add and remove a block. The canvas is back where the load left
	// it, so the draft reads empty and nothing is written.
	edited := doc.WithBlock(scenario.Block{
		ID: "b-msg", Type: scenario.BlockMessage,
		Data: scenario.MessageData{Text: "hi", Mode: scenario.ModeMedia, Attachments: []scenario.Attachment{}},
	}, scenario.Coordinates{X: 100, Y: 100})
	c.NoteEdit(edited)
	c.NoteEdit(edited.DeleteBlock("b-msg"))

	if c.State() != StateClean {
		t.Fatalf("expected clean after reverting, got %q", c.State())
	}
	if !c.IsDraftEmpty() {
		t.Error("reverted canvas must read as an empty draft")
	}
	time.Sleep(50 * time.Millisecond)
	if got := store.saveCount(); got != 0 {
		t.Errorf("reverted burst must not save, got %d saves", got)
	}
}

func TestSaveFailureAndRetry(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("boom")}
	c := newController(t, store, 10*time.Millisecond)

	c.NoteEdit(editedDoc())
	waitForState(t, c, StateSaveFailed)
	if got := store.saveCount(); got != 0 {
		t.Fatalf("failed save must not record, got %d", got)
	}

	store.setSaveErr(nil)
	c.Retry()
	waitForState(t, c, StateClean)
	if got := store.saveCount(); got != 1 {
		t.Errorf("retry must save once, got %d", got)
	}
}

func TestEditDuringFlightTriggersFollowUp(t *testing.T) {
	store := &fakeStore{
		saveStarted: make(chan struct{}, 2),
		saveRelease: make(chan struct{}, 2),
	}
	c := newController(t, store, 10*time.Millisecond)

	first := editedDoc()
	c.NoteEdit(first)
	<-store.saveStarted

	second := first.DeleteBlock("b-msg").WithBlock(scenario.Block{
		ID: "b-menu", Type: scenario.BlockMenu,
		Data: scenario.MenuData{Text: "pick", Buttons: []scenario.Button{{ID: "x", Text: "One"}}},
	}, scenario.Coordinates{X: 5, Y: 5})
	c.NoteEdit(second)

	store.saveRelease <- struct{}{}
	<-store.saveStarted
	store.saveRelease <- struct{}{}

	waitForState(t, c, StateClean)
	if got := store.saveCount(); got != 2 {
		t.Fatalf("expected follow-up save, got %d saves", got)
	}
	store.mu.Lock()
	last := store.saves[1]
	store.mu.Unlock()
	if !last.Equal(second) {
		t.Error("follow-up save must carry the latest document")
	}
}

func TestDiscardRestoresPublished(t *testing.T) {
	store := &fakeStore{}
	c := newController(t, store, 10*time.Millisecond)

	c.NoteEdit(editedDoc())
	waitForState(t, c, StateClean)

	restored, err := c.Discard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !restored.Equal(publishedDoc()) {
		t.Error("discard must rewind to the published document")
	}
	if store.clears != 1 {
		t.Errorf("expected 1 clear, got %d", store.clears)
	}
	if !c.IsDraftEmpty() {
		t.Error("draft must be empty after discard")
	}

	if _, err := c.Discard(context.Background()); !errors.Is(err, ErrDraftEmpty) {
		t.Errorf("discarding an empty draft must fail, got %v", err)
	}
}

func TestPublishAppliesDraftAndTriggers(t *testing.T) {
	store := &fakeStore{}
	c := newController(t, store, time.Hour) // debounce never fires on its own

	c.NoteEdit(editedDoc())
	if err := c.Publish(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The pending autosave is flushed before apply.
	if got := store.saveCount(); got != 1 {
		t.Errorf("expected 1 flushed save, got %d", got)
	}
	if len(store.applies) != 1 {
		t.Fatalf("expected 1 apply, got %d", len(store.applies))
	}
	trgs := store.applies[0]
	if len(trgs) != 1 || trgs[0].Type != scenario.TriggerStart {
		t.Errorf("unexpected trigger projection: %+v", trgs)
	}

	if !c.IsDraftEmpty() {
		t.Error("draft must be empty after publish")
	}
	if !c.Published().Equal(editedDoc()) {
		t.Error("published document not promoted")
	}
}

func TestEditDuringPublishWaitsForApply(t *testing.T) {
	store := &fakeStore{
		applyStarted: make(chan struct{}, 1),
		applyRelease: make(chan struct{}, 1),
	}
	c := newController(t, store, 10*time.Millisecond)

	c.NoteEdit(editedDoc())

	done := make(chan error, 1)
	go func() { done <- c.Publish(context.Background()) }()
	<-store.applyStarted

	// Edit while the apply is blocked. The debounce fires mid-publish
	// and must not start a second write against the scenario.
	second := editedDoc().MovePlacement("b-msg", scenario.Coordinates{X: 7, Y: 7})
	c.NoteEdit(second)
	time.Sleep(50 * time.Millisecond)

	store.applyRelease <- struct{}{}
	if err := <-done; err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	waitForState(t, c, StateClean)
	if got := store.maxWritesInFlight(); got != 1 {
		t.Fatalf("writes overlapped, %d in flight at peak", got)
	}
	if got := store.saveCount(); got != 2 {
		t.Fatalf("expected the flushed save and a follow-up, got %d", got)
	}
	store.mu.Lock()
	last := store.saves[1]
	store.mu.Unlock()
	if !last.Equal(second) {
		t.Error("follow-up save must carry the mid-publish edit")
	}
	if c.IsDraftEmpty() {
		t.Error("mid-publish edit must leave a non-empty draft")
	}
}

func TestPublishRefusesInvalidDocument(t *testing.T) {
	store := &fakeStore{}
	c := newController(t, store, time.Hour)

	// Deleting the start block is a legal edit but an unpublishable state.
	c.NoteEdit(publishedDoc().DeleteBlock("b-start"))
	err := c.Publish(context.Background())
	if !errors.Is(err, scenario.ErrNoStartBlock) {
		t.Fatalf("expected ErrNoStartBlock, got %v", err)
	}
	if len(store.applies) != 0 {
		t.Error("invalid document must not be applied")
	}
}

func TestPublishEmptyDraftRefused(t *testing.T) {
	store := &fakeStore{}
	c := newController(t, store, time.Hour)

	if err := c.Publish(context.Background()); !errors.Is(err, ErrDraftEmpty) {
		t.Fatalf("expected ErrDraftEmpty, got %v", err)
	}
}
