package draft

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/VladKovDev/botconstructor/internal/domain/scenario"
	"github.com/VladKovDev/botconstructor/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrDraftEmpty        = errors.New("draft matches the published version")
	ErrPublishInProgress = errors.New("publish already in progress")
	ErrControllerClosed  = errors.New("draft controller closed")
)

// State is the persistence phase of the working draft.
type State string

const (
	StateClean      State = "clean"
	StateDirty      State = "dirty"
	StateSaving     State = "saving"
	StateSaveFailed State = "save_failed"
)

// Store is the persistence boundary the controller talks to.
type Store interface {
	SaveDraft(ctx context.Context, scenarioID string, doc scenario.Document) error
	ClearDraft(ctx context.Context, scenarioID string) error
	ApplyDraft(ctx context.Context, scenarioID string, triggers []scenario.Trigger) error
}

// DefaultAutosaveInterval is the edit debounce window.
const DefaultAutosaveInterval = 1000 * time.Millisecond

// Controller owns the draft lifecycle of one open scenario: it debounces
// edit bursts into autosaves, tracks the Clean/Dirty/Saving/SaveFailed
// state, and runs discard and publish.
//
// Saves are deduplicated on the serialized document: an edit burst that
// lands back on the last saved snapshot is not written again. At most
// one save is in flight; edits arriving mid-flight trigger a follow-up
// save on completion.
type Controller struct {
	store      Store
	scenarioID string
	interval   time.Duration
	log        logger.Logger

	mu   sync.Mutex
	cond *sync.Cond

	published     scenario.Document
	publishedJSON string
	working       scenario.Document
	workingJSON   string

	state      State
	lastSaved  string
	timer      *time.Timer
	saving     bool
	publishing bool
	closed     bool
}

// NewController opens the lifecycle over a loaded scenario. When the
// scenario carries a draft, editing resumes from it; otherwise the
// published document is the starting point.
func NewController(store Store, sc scenario.Scenario, interval time.Duration, log logger.Logger) (*Controller, error) {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	if log == nil {
		log = logger.Noop()
	}

	publishedJSON, err := sc.Data.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode published document: %w", err)
	}

	working := sc.Data
	if sc.Draft != nil {
		working = sc.Draft.Data
	}
	workingJSON, err := working.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft document: %w", err)
	}

	c := &Controller{
		store:         store,
		scenarioID:    sc.ID,
		interval:      interval,
		log:           log.With(zap.String("scenario_id", sc.ID)),
		published:     sc.Data.Clone(),
		publishedJSON: string(publishedJSON),
		working:       working.Clone(),
		workingJSON:   string(workingJSON),
		state:         StateClean,
		lastSaved:     string(workingJSON),
	}
	c.cond = sync.NewCond(&c.mu)
	return c, nil
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Working returns a snapshot of the working document.
func (c *Controller) Working() scenario.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.working.Clone()
}

// Published returns a snapshot of the live document.
func (c *Controller) Published() scenario.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.published.Clone()
}

// IsDraftEmpty reports whether the working document matches the live
// one. Discard and publish are disabled while it does.
func (c *Controller) IsDraftEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.workingJSON == c.publishedJSON
}

// NoteEdit records a new working document and restarts the autosave
// debounce. Typically wired as the edit session's change listener.
func (c *Controller) NoteEdit(doc scenario.Document) {
	snap, err := doc.Encode()
	if err != nil {
		c.log.Error("failed to encode edited document", zap.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.working = doc.Clone()
	c.workingJSON = string(snap)

	if c.workingJSON == c.lastSaved && !c.saving {
		// The burst landed back on the saved snapshot.
		c.state = StateClean
		c.stopTimerLocked()
		return
	}

	c.state = StateDirty
	c.stopTimerLocked()
	c.timer = time.AfterFunc(c.interval, c.flush)
}

// Retry re-attempts a failed save immediately.
func (c *Controller) Retry() {
	c.mu.Lock()
	failed := c.state == StateSaveFailed
	c.mu.Unlock()
	if failed {
		c.flush()
	}
}

func (c *Controller) flush() {
	c.mu.Lock()
	if c.closed || c.saving {
		// An in-flight save re-flushes on completion.
		c.mu.Unlock()
		return
	}
	snap := c.workingJSON
	if snap == c.lastSaved {
		c.state = StateClean
		c.mu.Unlock()
		return
	}
	c.saving = true
	c.state = StateSaving
	doc := c.working.Clone()
	c.mu.Unlock()

	go c.save(doc, snap)
}

func (c *Controller) save(doc scenario.Document, snap string) {
	err := c.store.SaveDraft(context.Background(), c.scenarioID, doc)

	c.mu.Lock()
	c.saving = false
	c.cond.Broadcast()

	if err != nil {
		c.state = StateSaveFailed
		c.mu.Unlock()
		c.log.Error("draft autosave failed", zap.Error(err))
		return
	}

	c.lastSaved = snap
	if c.workingJSON != snap {
		// Edits arrived mid-flight; chase them with a follow-up save.
		c.mu.Unlock()
		c.flush()
		return
	}
	c.state = StateClean
	c.mu.Unlock()
	c.log.Debug("draft autosaved")
}

// Discard drops the draft and rewinds the working document to the live
// version. The caller resets its edit session with the returned
// document.
func (c *Controller) Discard(ctx context.Context) (scenario.Document, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return scenario.Document{}, ErrControllerClosed
	}
	for c.saving {
		c.cond.Wait()
	}
	if c.workingJSON == c.publishedJSON {
		c.mu.Unlock()
		return scenario.Document{}, ErrDraftEmpty
	}
	c.stopTimerLocked()
	c.mu.Unlock()

	if err := c.store.ClearDraft(ctx, c.scenarioID); err != nil {
		return scenario.Document{}, fmt.Errorf("failed to clear draft: %w", err)
	}

	c.mu.Lock()
	c.working = c.published.Clone()
	c.workingJSON = c.publishedJSON
	c.lastSaved = c.publishedJSON
	c.state = StateClean
	restored := c.working.Clone()
	c.mu.Unlock()

	c.log.Info("draft discarded")
	return restored, nil
}

// Publish promotes the working document to the live version. The
// document must pass structural validation; a pending autosave is
// flushed first so the server applies exactly what the user sees.
//
// The save slot is held for the whole publish: a debounce firing
// mid-publish must not start a second write against the same scenario.
func (c *Controller) Publish(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	if c.publishing {
		c.mu.Unlock()
		return ErrPublishInProgress
	}
	c.publishing = true
	for c.saving {
		c.cond.Wait()
	}
	if c.workingJSON == c.publishedJSON {
		c.publishing = false
		c.mu.Unlock()
		return ErrDraftEmpty
	}
	doc := c.working.Clone()
	snap := c.workingJSON
	if err := doc.Validate(); err != nil {
		c.publishing = false
		c.mu.Unlock()
		return fmt.Errorf("document failed validation: %w", err)
	}
	c.saving = true
	c.state = StateSaving
	c.stopTimerLocked()
	needSave := snap != c.lastSaved
	c.mu.Unlock()

	if needSave {
		if err := c.store.SaveDraft(ctx, c.scenarioID, doc); err != nil {
			c.mu.Lock()
			c.saving = false
			c.publishing = false
			c.state = StateSaveFailed
			c.cond.Broadcast()
			c.mu.Unlock()
			return fmt.Errorf("failed to save draft before publish: %w", err)
		}
		c.mu.Lock()
		c.lastSaved = snap
		c.mu.Unlock()
	}

	triggers := scenario.ActiveTriggers(doc)
	if err := c.store.ApplyDraft(ctx, c.scenarioID, triggers); err != nil {
		c.mu.Lock()
		c.saving = false
		c.publishing = false
		c.cond.Broadcast()
		c.resyncLocked()
		c.mu.Unlock()
		return fmt.Errorf("failed to apply draft: %w", err)
	}

	c.mu.Lock()
	c.published = doc
	c.publishedJSON = snap
	c.saving = false
	c.publishing = false
	c.cond.Broadcast()
	c.resyncLocked()
	c.mu.Unlock()

	c.log.Info("draft published")
	return nil
}

// resyncLocked recomputes the lifecycle state from the snapshots after
// a publish releases the save slot. Edits that arrived mid-publish are
// still unsaved and get a fresh debounce.
func (c *Controller) resyncLocked() {
	c.stopTimerLocked()
	if c.workingJSON == c.lastSaved {
		c.state = StateClean
		return
	}
	c.state = StateDirty
	c.timer = time.AfterFunc(c.interval, c.flush)
}

// Close stops the autosave timer. Pending in-flight saves finish on
// their own.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopTimerLocked()
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
