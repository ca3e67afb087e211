package services_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/abrezinsky/raffledraw/internal/clock"
	"github.com/abrezinsky/raffledraw/internal/logger"
	"github.com/abrezinsky/raffledraw/internal/models"
	"github.com/abrezinsky/raffledraw/internal/repository"
	"github.com/abrezinsky/raffledraw/internal/services"
	"github.com/abrezinsky/raffledraw/internal/testutil"
)

// harness wires the raffle services over an in-memory database and a virtual clock
type harness struct {
	ctx     context.Context
	log     logger.Logger
	repo    repository.FullRepository
	clock   *clock.Fake
	rec     *testutil.Recorder
	raffles *services.RaffleService
	live    *services.LiveService
	ws      *services.Workspace
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithRepo(t, testutil.NewTestRepository(t))
}

func newHarnessWithRepo(t *testing.T, repo repository.FullRepository) *harness {
	t.Helper()

	h := &harness{
		ctx:   context.Background(),
		log:   testutil.NewTestLogger(),
		repo:  repo,
		clock: testutil.NewFakeClock(),
		rec:   testutil.NewRecorder(),
	}
	h.raffles = services.NewRaffleService(h.ctx, h.log, repo, h.clock)
	h.live = services.NewLiveService(h.log, h.clock, rand.New(rand.NewPCG(7, 11)), h.raffles)
	h.live.SetCuePlayer(h.rec)
	h.live.SetBroadcaster(h.rec)
	h.ws = services.NewWorkspace(h.log, h.raffles, h.live, h.clock)
	h.ws.SetNotifier(h.rec)
	return h
}

// firstID returns the id of the raffle created on first load
func (h *harness) firstID() string {
	return h.raffles.List()[0].ID
}

// seed stores participants and cfg on id
func (h *harness) seed(t *testing.T, id string, participants []string, cfg models.Config) {
	t.Helper()
	if _, ok := h.raffles.Update(h.ctx, id, services.RaffleUpdate{Participants: &participants, Config: &cfg}); !ok {
		t.Fatalf("seed: raffle %s not found", id)
	}
}

// openSession seeds the first raffle and opens a live session on an editor over it
func (h *harness) openSession(t *testing.T, participants []string, cfg models.Config) (*services.Session, *services.Editor, string) {
	t.Helper()

	id := h.firstID()
	h.seed(t, id, participants, cfg)

	raffle, _ := h.raffles.Get(id)
	editor := services.NewEditor(h.ctx, h.log, h.raffles, h.clock, raffle)
	session, err := h.live.Open(h.ctx, id, editor)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return session, editor, id
}

func isSubset(names, of []string) bool {
	set := make(map[string]bool, len(of))
	for _, n := range of {
		set[n] = true
	}
	for _, n := range names {
		if !set[n] {
			return false
		}
	}
	return true
}

func distinct(names []string) bool {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return false
		}
		seen[n] = true
	}
	return true
}
