package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/abrezinsky/raffledraw/internal/clock"
	"github.com/abrezinsky/raffledraw/internal/logger"
	"github.com/abrezinsky/raffledraw/internal/models"
)

// View is the host screen the workspace is on
type View string

const (
	ViewDashboard View = "dashboard"
	ViewEditor    View = "editor"
	ViewLive      View = "live"
)

// Notifier shows short toast messages to the host
type Notifier interface {
	Notify(message string)
}

// WorkspaceState describes what the host currently has open
type WorkspaceState struct {
	View     View   `json:"view"`
	RaffleID string `json:"raffle_id,omitempty"`
}

// Workspace tracks the host's current raffle: the editor working copy and,
// on the live screen, the session running against it. Collection operations
// go through here so that deleting or resetting the open raffle also moves
// the host to a consistent screen.
type Workspace struct {
	log      logger.Logger
	raffles  *RaffleService
	live     *LiveService
	clock    clock.Clock
	notifier Notifier

	mu      sync.Mutex
	view    View
	editor  *Editor
	session *Session
}

// NewWorkspace creates a Workspace on the dashboard
func NewWorkspace(log logger.Logger, raffles *RaffleService, live *LiveService, clk clock.Clock) *Workspace {
	return &Workspace{
		log:     log,
		raffles: raffles,
		live:    live,
		clock:   clk,
		view:    ViewDashboard,
	}
}

// SetNotifier sets where toast messages are sent
func (w *Workspace) SetNotifier(n Notifier) {
	w.notifier = n
}

// State returns the current view and open raffle
func (w *Workspace) State() WorkspaceState {
	w.mu.Lock()
	defer w.mu.Unlock()

	state := WorkspaceState{View: w.view}
	if w.editor != nil {
		state.RaffleID = w.editor.ID()
	}
	return state
}

// Editor returns the open working copy
func (w *Workspace) Editor() (*Editor, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.editor == nil {
		return nil, ErrNoOpenRaffle
	}
	return w.editor, nil
}

// Session returns the live session
func (w *Workspace) Session() (*Session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.session == nil {
		return nil, ErrNoActiveSession
	}
	return w.session, nil
}

// LiveSnapshot returns the display view of the live session, if any
func (w *Workspace) LiveSnapshot() (models.LiveSnapshot, bool) {
	w.mu.Lock()
	session := w.session
	w.mu.Unlock()

	if session == nil {
		return models.LiveSnapshot{}, false
	}
	return session.Snapshot(), true
}

// Open loads id into the editor, leaving any live session
func (w *Workspace) Open(ctx context.Context, id string) (*Editor, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.raffles.Get(id); !ok {
		return nil, ErrRaffleNotFound
	}
	w.closeSessionLocked()
	w.openEditorLocked(ctx, id)
	w.view = ViewEditor
	return w.editor, nil
}

// GoLive opens the live screen for id. Pending edits are saved first so the
// session and the store agree.
func (w *Workspace) GoLive(ctx context.Context, id string) (*Session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.raffles.Get(id); !ok {
		return nil, ErrRaffleNotFound
	}
	w.closeSessionLocked()
	w.openEditorLocked(ctx, id)
	w.editor.Flush(ctx)

	session, err := w.live.Open(ctx, id, w.editor)
	if err != nil {
		return nil, err
	}
	w.session = session
	w.view = ViewLive
	return session, nil
}

// Leave returns to the dashboard, cancelling a countdown in flight and
// saving pending edits
func (w *Workspace) Leave(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closeSessionLocked()
	if w.editor != nil {
		w.editor.Flush(ctx)
		w.editor = nil
	}
	w.view = ViewDashboard
}

// Create adds a new raffle and opens it in the editor
func (w *Workspace) Create(ctx context.Context) models.Raffle {
	w.mu.Lock()
	defer w.mu.Unlock()

	raffle := w.raffles.Create(ctx)
	w.closeSessionLocked()
	w.openEditorLocked(ctx, raffle.ID)
	w.view = ViewEditor

	w.notify("New raffle created")
	return raffle
}

// Duplicate copies id into a new draft
func (w *Workspace) Duplicate(ctx context.Context, id string) (models.Raffle, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.editor != nil && w.editor.ID() == id {
		w.editor.Flush(ctx)
	}
	raffle, ok := w.raffles.Duplicate(ctx, id)
	if !ok {
		return models.Raffle{}, ErrRaffleNotFound
	}

	w.notify("Raffle duplicated")
	return raffle, nil
}

// Delete removes id. If it was the open raffle the host lands on the
// replacement draft when one had to be created, otherwise on the dashboard.
func (w *Workspace) Delete(ctx context.Context, id string) (DeleteResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	currentID := ""
	if w.editor != nil {
		currentID = w.editor.ID()
	}

	result := w.raffles.Delete(ctx, id, currentID)
	if !result.Deleted {
		return result, ErrRaffleNotFound
	}

	if result.WasCurrent {
		w.closeSessionLocked()
		w.editor.Discard()
		w.editor = nil
		w.view = ViewDashboard
		if result.Replacement != nil {
			w.editor = NewEditor(ctx, w.log, w.raffles, w.clock, *result.Replacement)
			w.view = ViewEditor
		}
	}

	w.notify("Raffle deleted")
	return result, nil
}

// Reset clears the results of id. A live session showing those results
// returns to ready.
func (w *Workspace) Reset(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.raffles.Reset(ctx, id) {
		return ErrRaffleNotFound
	}
	if w.session != nil && w.session.RaffleID() == id {
		if err := w.session.ResetLive(); err != nil {
			w.log.Debug("Live session not reset", "raffle_id", id, "error", err)
		}
	}

	w.notify("Results reset")
	return nil
}

// ImportText merges a pasted or uploaded roster into the open raffle
func (w *Workspace) ImportText(raw string) (int, error) {
	editor, err := w.Editor()
	if err != nil {
		return 0, err
	}
	n := editor.ImportText(raw)
	w.notify(fmt.Sprintf("Loaded %d participants", n))
	return n, nil
}

// ImportNames merges a fetched roster into the open raffle
func (w *Workspace) ImportNames(names []string) (int, error) {
	editor, err := w.Editor()
	if err != nil {
		return 0, err
	}
	n := editor.ImportNames(names)
	w.notify(fmt.Sprintf("Loaded %d participants", n))
	return n, nil
}

// Close leaves whatever is open, saving pending edits
func (w *Workspace) Close(ctx context.Context) {
	w.Leave(ctx)
}

// openEditorLocked makes id the open raffle, keeping the working copy when
// it already is
func (w *Workspace) openEditorLocked(ctx context.Context, id string) {
	if w.editor != nil {
		if w.editor.ID() == id {
			return
		}
		w.editor.Flush(ctx)
	}
	raffle, _ := w.raffles.Get(id)
	w.editor = NewEditor(ctx, w.log, w.raffles, w.clock, raffle)
}

func (w *Workspace) closeSessionLocked() {
	if w.session == nil {
		return
	}
	w.session.Close()
	w.session = nil
	w.live.publishIdle()
}

func (w *Workspace) notify(message string) {
	if w.notifier != nil {
		w.notifier.Notify(message)
	}
}
