package testutil

import (
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/abrezinsky/raffledraw/internal/clock"
	"github.com/abrezinsky/raffledraw/internal/logger"
	"github.com/abrezinsky/raffledraw/internal/models"
	"github.com/abrezinsky/raffledraw/internal/repository"
)

// Epoch is the start time of clocks created by NewFakeClock
var Epoch = time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// NewTestLogger returns a logger that discards everything below error
func NewTestLogger() logger.Logger {
	return logger.NewWithWriter(io.Discard, slog.LevelError)
}

// NewFakeClock returns a virtual clock starting at Epoch
func NewFakeClock() *clock.Fake {
	return clock.NewFake(Epoch)
}

// Recorder captures everything the services push to displays: broadcasts,
// cues and toasts. It implements the services' Broadcaster, CuePlayer and
// Notifier interfaces.
type Recorder struct {
	mu       sync.Mutex
	messages []models.WSMessage
	cues     []models.Cue
	toasts   []string
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) BroadcastMessage(msgType string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, models.WSMessage{Type: msgType, Payload: payload})
}

func (r *Recorder) PlayCue(cue models.Cue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cues = append(r.cues, cue)
}

func (r *Recorder) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, message)
}

// Messages returns the broadcasts so far
func (r *Recorder) Messages() []models.WSMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.messages)
}

// Count returns how many broadcasts of msgType were sent
func (r *Recorder) Count(msgType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, m := range r.messages {
		if m.Type == msgType {
			n++
		}
	}
	return n
}

// Cues returns the cues played so far
func (r *Recorder) Cues() []models.Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.cues)
}

// CueCount returns how many times cue was played
func (r *Recorder) CueCount(cue models.Cue) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, c := range r.cues {
		if c == cue {
			n++
		}
	}
	return n
}

// Toasts returns the toast messages so far
func (r *Recorder) Toasts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.toasts)
}

// Reset forgets everything recorded
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
	r.cues = nil
	r.toasts = nil
}
