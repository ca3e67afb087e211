package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/abrezinsky/raffledraw/internal/clock"
	"github.com/abrezinsky/raffledraw/internal/logger"
	"github.com/abrezinsky/raffledraw/internal/models"
	"github.com/abrezinsky/raffledraw/internal/roster"
)

// AutosaveDelay is the quiet period after the last edit before the working
// copy is written to the store
const AutosaveDelay = 400 * time.Millisecond

// EditorStore is the part of RaffleService the editor writes through
type EditorStore interface {
	Get(id string) (models.Raffle, bool)
	Update(ctx context.Context, id string, u RaffleUpdate) (models.Raffle, bool)
}

// EditorState is the editor's working copy as shown to the host
type EditorState struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Participants []string      `json:"participants"`
	Config       models.Config `json:"config"`
	Status       models.Status `json:"status"`
	Results      []string      `json:"results"`
	Locked       bool          `json:"locked"`
	Dirty        bool          `json:"dirty"`
}

// Editor holds the in-memory working copy of one raffle. Edits apply
// immediately to the copy and reach the store after AutosaveDelay of
// inactivity, or on Flush.
type Editor struct {
	log      logger.Logger
	store    EditorStore
	ctx      context.Context
	debounce *Debouncer

	mu           sync.Mutex
	id           string
	title        string
	participants []string
	config       models.Config
	dirty        bool
}

// NewEditor opens a working copy of raffle. ctx scopes the deferred saves and
// is detached from cancellation, since saves outlive the request that opened
// the editor.
func NewEditor(ctx context.Context, log logger.Logger, store EditorStore, clk clock.Clock, raffle models.Raffle) *Editor {
	e := &Editor{
		log:          log.With("raffle_id", raffle.ID),
		store:        store,
		ctx:          context.WithoutCancel(ctx),
		id:           raffle.ID,
		title:        raffle.Title,
		participants: slices.Clone(raffle.Participants),
		config:       raffle.Config,
	}
	if e.participants == nil {
		e.participants = []string{}
	}
	e.debounce = NewDebouncer(clk, AutosaveDelay, func() { e.Flush(e.ctx) })
	return e
}

// ID returns the id of the raffle being edited
func (e *Editor) ID() string {
	return e.id
}

func (e *Editor) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.title
}

// Participants returns a copy of the working roster
func (e *Editor) Participants() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.participants)
}

func (e *Editor) Config() models.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config
}

// State returns the working copy together with the stored status and results
func (e *Editor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()

	state := EditorState{
		ID:           e.id,
		Title:        e.title,
		Participants: slices.Clone(e.participants),
		Config:       e.config,
		Status:       models.StatusDraft,
		Results:      []string{},
		Dirty:        e.dirty,
	}
	if r, ok := e.store.Get(e.id); ok {
		state.Status = r.Status
		state.Results = r.Results
		state.Locked = r.IsCompleted()
	}
	return state
}

// SetTitle renames the raffle
func (e *Editor) SetTitle(title string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.title = title
	e.touchLocked()
}

// SetConfig replaces the draw configuration, clamped to the roster size.
// It fails with ErrRaffleLocked while the stored raffle is completed.
func (e *Editor) SetConfig(cfg models.Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if r, ok := e.store.Get(e.id); ok && r.IsCompleted() {
		return ErrRaffleLocked
	}
	e.config = cfg.Clamp(len(e.participants))
	e.touchLocked()
	return nil
}

// ImportText merges names parsed from an uploaded or pasted file into the
// roster and returns the resulting roster size
func (e *Editor) ImportText(raw string) int {
	return e.ImportNames(roster.Parse(raw))
}

// ImportNames merges already parsed names into the roster and returns the
// resulting roster size
func (e *Editor) ImportNames(names []string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setParticipantsLocked(roster.Merge(e.participants, names))
	e.log.Debug("Imported participants", "incoming", len(names), "total", len(e.participants))
	return len(e.participants)
}

// EditList replaces the roster with a manually edited list, one name per line
func (e *Editor) EditList(raw string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setParticipantsLocked(roster.ParseLines(raw))
	return len(e.participants)
}

// RemoveParticipant drops name from the roster. It reports whether it was present.
func (e *Editor) RemoveParticipant(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !slices.Contains(e.participants, name) {
		return false
	}
	e.setParticipantsLocked(roster.Remove(e.participants, []string{name}))
	return true
}

// Clear empties the roster
func (e *Editor) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setParticipantsLocked([]string{})
}

// Prune removes drawn winners from the working roster. The change stays in
// memory; it is saved only together with a later edit.
func (e *Editor) Prune(names []string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.participants = roster.Remove(e.participants, names)
	e.config = e.config.Clamp(len(e.participants))
	e.log.Debug("Pruned winners from roster", "removed", len(names), "remaining", len(e.participants))
}

// Flush writes pending edits to the store now. It reports whether anything was written.
func (e *Editor) Flush(ctx context.Context) bool {
	e.debounce.Stop()

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.dirty {
		return false
	}
	e.dirty = false

	title := e.title
	participants := slices.Clone(e.participants)
	cfg := e.config
	if _, ok := e.store.Update(ctx, e.id, RaffleUpdate{Title: &title, Participants: &participants, Config: &cfg}); !ok {
		e.log.Warn("Autosave target no longer exists")
		return false
	}
	e.log.Debug("Autosaved raffle")
	return true
}

// Discard drops pending edits without saving them
func (e *Editor) Discard() {
	e.debounce.Stop()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.dirty = false
}

// Pending reports whether an autosave is scheduled
func (e *Editor) Pending() bool {
	return e.debounce.Pending()
}

func (e *Editor) setParticipantsLocked(names []string) {
	e.participants = names
	e.config = e.config.Clamp(len(names))
	e.touchLocked()
}

func (e *Editor) touchLocked() {
	e.dirty = true
	e.debounce.Trigger()
}
