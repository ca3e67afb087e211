package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/abrezinsky/raffledraw/internal/clock"
	"github.com/abrezinsky/raffledraw/internal/logger"
	"github.com/abrezinsky/raffledraw/internal/models"
	"github.com/abrezinsky/raffledraw/internal/repository"
)

const (
	// InitialRaffleTitle names the draft created when nothing was ever saved
	InitialRaffleTitle = "Sorteo General"
	// ReplacementRaffleTitle names the draft that refills an emptied collection
	ReplacementRaffleTitle = "New Raffle"
	copySuffix             = " (Copy)"
)

// RaffleUpdate carries the fields to merge into a raffle. Nil fields are left untouched.
type RaffleUpdate struct {
	Title        *string        `json:"title,omitempty"`
	Participants *[]string      `json:"participants,omitempty"`
	Config       *models.Config `json:"config,omitempty"`
}

// DeleteResult describes the outcome of RaffleService.Delete
type DeleteResult struct {
	Deleted     bool           `json:"deleted"`
	WasCurrent  bool           `json:"was_current"`
	Replacement *models.Raffle `json:"replacement,omitempty"`
}

// RaffleService owns the ordered raffle collection. Every mutation is applied in
// memory and then written through to the repository as a whole collection.
// Persistence failures are logged and swallowed: the in-memory collection is
// authoritative for the running process.
type RaffleService struct {
	log   logger.Logger
	repo  repository.RaffleRepository
	clock clock.Clock
	newID func() string

	mu      sync.Mutex
	raffles []models.Raffle
	issued  map[string]struct{}
}

// NewRaffleService creates a RaffleService and loads the saved collection.
// When nothing was saved (or loading fails) the collection starts with a
// single draft titled InitialRaffleTitle.
func NewRaffleService(ctx context.Context, log logger.Logger, repo repository.RaffleRepository, clk clock.Clock) *RaffleService {
	s := &RaffleService{
		log:    log,
		repo:   repo,
		clock:  clk,
		newID:  uuid.NewString,
		issued: make(map[string]struct{}),
	}
	s.load(ctx)
	return s
}

// SetIDGenerator replaces the id source. Ids already issued are still never reused.
func (s *RaffleService) SetIDGenerator(f func() string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newID = f
}

func (s *RaffleService) load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raffles, ok, err := s.repo.LoadRaffles(ctx)
	if err != nil {
		s.log.Warn("Failed to load raffles, starting fresh", "error", err)
		ok = false
	}

	if !ok || len(raffles) == 0 {
		s.raffles = []models.Raffle{s.newDraftLocked(InitialRaffleTitle)}
		s.persistLocked(ctx)
		s.log.Info("Created initial raffle", "id", s.raffles[0].ID)
		return
	}

	s.raffles = make([]models.Raffle, 0, len(raffles))
	for _, r := range raffles {
		if _, dup := s.issued[r.ID]; dup || r.ID == "" {
			s.log.Warn("Skipping raffle with duplicate or empty id", "id", r.ID)
			continue
		}
		s.issued[r.ID] = struct{}{}
		s.raffles = append(s.raffles, normalize(r))
	}
	if len(s.raffles) == 0 {
		s.raffles = []models.Raffle{s.newDraftLocked(InitialRaffleTitle)}
		s.persistLocked(ctx)
	}
	s.log.Info("Loaded raffles", "count", len(s.raffles))
}

// normalize repairs records that violate the model invariants
func normalize(r models.Raffle) models.Raffle {
	r = r.Clone()
	r.Config = r.Config.Clamp(len(r.Participants))
	if r.Status != models.StatusCompleted || len(r.Results) == 0 {
		r.Status = models.StatusDraft
		r.Results = []string{}
		r.CompletedAt = nil
	}
	return r
}

// Create appends a new draft titled "Raffle #<n+1>"
func (s *RaffleService) Create(ctx context.Context) models.Raffle {
	s.mu.Lock()
	defer s.mu.Unlock()

	raffle := s.newDraftLocked(fmt.Sprintf("Raffle #%d", len(s.raffles)+1))
	s.raffles = append(s.raffles, raffle)
	s.persistLocked(ctx)

	s.log.Info("Raffle created", "id", raffle.ID, "title", raffle.Title)
	return raffle.Clone()
}

// Duplicate appends a draft copy of id with a new id and a " (Copy)" title suffix.
// It returns false if id is absent.
func (s *RaffleService) Duplicate(ctx context.Context, id string) (models.Raffle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return models.Raffle{}, false
	}

	dup := s.raffles[i].Clone()
	dup.ID = s.nextIDLocked()
	dup.Title += copySuffix
	dup.Status = models.StatusDraft
	dup.Results = []string{}
	dup.CompletedAt = nil
	dup.UpdatedAt = s.clock.Now()

	s.raffles = append(s.raffles, dup)
	s.persistLocked(ctx)

	s.log.Info("Raffle duplicated", "source_id", id, "id", dup.ID)
	return dup.Clone(), true
}

// Delete removes id. currentID is the caller's open raffle; WasCurrent reports
// whether that was the one removed. If the collection ends up empty a fresh
// draft is inserted and returned as Replacement.
func (s *RaffleService) Delete(ctx context.Context, id, currentID string) DeleteResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return DeleteResult{}
	}

	s.raffles = slices.Delete(s.raffles, i, i+1)
	result := DeleteResult{Deleted: true, WasCurrent: id != "" && id == currentID}

	if len(s.raffles) == 0 {
		replacement := s.newDraftLocked(ReplacementRaffleTitle)
		s.raffles = append(s.raffles, replacement)
		clone := replacement.Clone()
		result.Replacement = &clone
	}
	s.persistLocked(ctx)

	s.log.Info("Raffle deleted", "id", id, "was_current", result.WasCurrent, "replaced", result.Replacement != nil)
	return result
}

// Reset returns id to draft and clears its results. Roster and config are kept.
// Resetting a draft is a harmless repeat. It returns false if id is absent.
func (s *RaffleService) Reset(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}

	r := &s.raffles[i]
	r.Status = models.StatusDraft
	r.Results = []string{}
	r.CompletedAt = nil
	r.UpdatedAt = s.clock.Now()
	s.persistLocked(ctx)

	s.log.Info("Raffle reset", "id", id)
	return true
}

// Update merges the non-nil fields of u into id and stamps UpdatedAt.
// The config is clamped to the roster size. Config changes to a completed
// raffle are ignored: its reveal mode is fixed until it is reset.
func (s *RaffleService) Update(ctx context.Context, id string, u RaffleUpdate) (models.Raffle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return models.Raffle{}, false
	}

	r := &s.raffles[i]
	if u.Title != nil {
		r.Title = *u.Title
	}
	if u.Participants != nil {
		r.Participants = slices.Clone(*u.Participants)
		if r.Participants == nil {
			r.Participants = []string{}
		}
	}
	if u.Config != nil {
		if r.IsCompleted() {
			s.log.Debug("Ignoring config change on completed raffle", "id", id)
		} else {
			r.Config = *u.Config
		}
	}
	r.Config = r.Config.Clamp(len(r.Participants))
	r.UpdatedAt = s.clock.Now()
	s.persistLocked(ctx)

	return r.Clone(), true
}

// Complete commits results to id. It returns false if id is absent, results
// is empty, or the raffle is already completed: a raffle completes at most
// once until it is reset.
func (s *RaffleService) Complete(ctx context.Context, id string, results []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 || len(results) == 0 {
		return false
	}

	r := &s.raffles[i]
	if r.IsCompleted() {
		s.log.Warn("Rejected second completion", "id", id)
		return false
	}

	now := s.clock.Now()
	r.Status = models.StatusCompleted
	r.Results = slices.Clone(results)
	r.CompletedAt = &now
	r.UpdatedAt = now
	s.persistLocked(ctx)

	s.log.Info("Raffle completed", "id", id, "winners", len(results))
	return true
}

// Get returns a copy of id
func (s *RaffleService) Get(id string) (models.Raffle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return models.Raffle{}, false
	}
	return s.raffles[i].Clone(), true
}

// List returns copies of all raffles in display order
func (s *RaffleService) List() []models.Raffle {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]models.Raffle, len(s.raffles))
	for i, r := range s.raffles {
		list[i] = r.Clone()
	}
	return list
}

func (s *RaffleService) indexLocked(id string) int {
	return slices.IndexFunc(s.raffles, func(r models.Raffle) bool { return r.ID == id })
}

func (s *RaffleService) newDraftLocked(title string) models.Raffle {
	return models.Raffle{
		ID:           s.nextIDLocked(),
		Title:        title,
		Participants: []string{},
		Config:       models.DefaultConfig(),
		Status:       models.StatusDraft,
		Results:      []string{},
		UpdatedAt:    s.clock.Now(),
	}
}

// nextIDLocked draws ids until one was never issued by this store
func (s *RaffleService) nextIDLocked() string {
	for {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, used := s.issued[id]; used {
			continue
		}
		s.issued[id] = struct{}{}
		return id
	}
}

func (s *RaffleService) persistLocked(ctx context.Context) {
	if err := s.repo.SaveRaffles(ctx, s.raffles); err != nil {
		s.log.Warn("Failed to persist raffles", "error", err, "count", len(s.raffles))
	}
}
