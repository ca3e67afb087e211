package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/abrezinsky/raffledraw/internal/clock"
	"github.com/abrezinsky/raffledraw/internal/draw"
	"github.com/abrezinsky/raffledraw/internal/logger"
	"github.com/abrezinsky/raffledraw/internal/models"
)

const (
	// SpinInterval is how often the countdown shows a new random name
	SpinInterval = 30 * time.Millisecond
	// TickInterval is the countdown step
	TickInterval = time.Second
)

// ResultCommitter is the port a session uses to read and complete its raffle
type ResultCommitter interface {
	Get(id string) (models.Raffle, bool)
	Complete(ctx context.Context, id string, results []string) bool
}

// WorkingCopy supplies the roster and config a draw runs against
type WorkingCopy interface {
	Title() string
	Participants() []string
	Config() models.Config
	Prune(names []string)
}

// CuePlayer plays audio cues on the display
type CuePlayer interface {
	PlayCue(cue models.Cue)
}

// Broadcaster pushes live messages to connected displays
type Broadcaster interface {
	BroadcastMessage(msgType string, payload interface{})
}

// LiveService opens live draw sessions
type LiveService struct {
	log         logger.Logger
	clock       clock.Clock
	source      draw.Source
	store       ResultCommitter
	cues        CuePlayer
	broadcaster Broadcaster
}

// NewLiveService creates a LiveService drawing winners from src
func NewLiveService(log logger.Logger, clk clock.Clock, src draw.Source, store ResultCommitter) *LiveService {
	return &LiveService{
		log:    log,
		clock:  clk,
		source: src,
		store:  store,
	}
}

// SetCuePlayer sets where audio cues are sent
func (l *LiveService) SetCuePlayer(c CuePlayer) {
	l.cues = c
}

// SetBroadcaster sets the broadcaster for sending live updates to displays
func (l *LiveService) SetBroadcaster(b Broadcaster) {
	l.broadcaster = b
}

// publishIdle tells displays that no session is open
func (l *LiveService) publishIdle() {
	if l.broadcaster != nil {
		l.broadcaster.BroadcastMessage(models.MsgLiveIdle, nil)
	}
}

// Open starts a session for raffleID. A completed raffle opens straight into
// results with its stored winners and replays the celebration; anything else
// opens in ready.
func (l *LiveService) Open(ctx context.Context, raffleID string, wc WorkingCopy) (*Session, error) {
	record, ok := l.store.Get(raffleID)
	if !ok {
		return nil, ErrRaffleNotFound
	}

	s := &Session{
		live:     l,
		log:      l.log.With("raffle_id", raffleID),
		raffleID: raffleID,
		wc:       wc,
		ctx:      context.WithoutCancel(ctx),
		title:    wc.Title(),
		state:    models.LiveReady,
		config:   wc.Config(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if record.IsCompleted() {
		s.config = record.Config
		s.winners = slices.Clone(record.Results)
		s.reveal = NewReveal(record.Config.RevealMode, record.Results)
		s.state = models.LiveResults
		s.log.Info("Viewing results", "winners", len(s.winners))
		s.celebrateLocked()
	}
	s.publishLocked()
	return s, nil
}

// Session drives one raffle through ready, countdown and results.
//
// The countdown owns two timers, the cosmetic spin and the one second tick.
// Both are armed on entry and stopped on every exit while the session lock
// is held, and each callback checks the generation it was armed with, so a
// callback that was already running when the state changed does nothing.
type Session struct {
	live     *LiveService
	log      logger.Logger
	raffleID string
	wc       WorkingCopy
	ctx      context.Context

	mu        sync.Mutex
	title     string
	state     models.LiveState
	config    models.Config
	roster    []string
	countdown int
	spinName  string
	winners   []string
	reveal    *Reveal
	gen       uint64
	tickTimer clock.Timer
	spinTimer clock.Timer
	closed    bool
}

// RaffleID returns the id of the raffle this session drives
func (s *Session) RaffleID() string {
	return s.raffleID
}

// State returns the current live state
func (s *Session) State() models.LiveState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// StartDraw selects the winners up front and starts the countdown.
// It fails with ErrEmptyRoster when there is nobody to draw from, and with
// ErrDrawNotAllowed outside ready or when the raffle already has results.
func (s *Session) StartDraw(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrNoActiveSession
	}
	if s.state != models.LiveReady {
		return ErrDrawNotAllowed
	}
	record, ok := s.live.store.Get(s.raffleID)
	if !ok {
		return ErrRaffleNotFound
	}
	if record.IsCompleted() {
		return ErrDrawNotAllowed
	}

	participants := s.wc.Participants()
	if len(participants) == 0 {
		return ErrEmptyRoster
	}

	s.playLocked(models.CueClick)

	s.title = s.wc.Title()
	s.config = s.wc.Config().Clamp(len(participants))
	s.roster = participants
	s.winners = draw.SelectWinners(s.live.source, participants, s.config.NumWinners)
	s.countdown = s.config.TimerDuration
	s.reveal = nil
	s.spinName = ""
	s.state = models.LiveCountdown
	s.ctx = context.WithoutCancel(ctx)

	s.gen++
	gen := s.gen
	s.tickTimer = s.live.clock.AfterFunc(TickInterval, func() { s.onTick(gen) })
	s.spinTimer = s.live.clock.AfterFunc(SpinInterval, func() { s.onSpin(gen) })

	s.log.Info("Draw started", "participants", len(participants), "num_winners", s.config.NumWinners, "countdown", s.countdown)
	s.playLocked(models.CueTick)
	s.publishLocked()
	return nil
}

func (s *Session) onSpin(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.state != models.LiveCountdown {
		return
	}
	s.spinName = s.roster[s.live.source.IntN(len(s.roster))]
	s.spinTimer = s.live.clock.AfterFunc(SpinInterval, func() { s.onSpin(gen) })
	s.broadcastLocked(models.MsgSpin, map[string]string{"name": s.spinName})
}

func (s *Session) onTick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.state != models.LiveCountdown {
		return
	}

	previous := s.countdown
	s.countdown--
	if previous > 1 {
		s.playLocked(models.CueTick)
	}
	s.broadcastLocked(models.MsgCountdown, map[string]int{"seconds_remaining": s.countdown})

	if s.countdown > 0 {
		s.tickTimer = s.live.clock.AfterFunc(TickInterval, func() { s.onTick(gen) })
		return
	}
	s.finishLocked()
}

// finishLocked runs the completion effects exactly once, after the last tick:
// commit the winners, prune them from the working roster if configured, then
// celebrate.
func (s *Session) finishLocked() {
	s.stopTimersLocked()
	s.state = models.LiveResults
	s.spinName = ""
	s.reveal = NewReveal(s.config.RevealMode, s.winners)

	if !s.live.store.Complete(s.ctx, s.raffleID, s.winners) {
		s.log.Warn("Draw finished but results were not committed")
	}
	if s.config.RemoveWinners {
		s.wc.Prune(s.winners)
	}

	s.log.Info("Draw completed", "winners", len(s.winners))
	s.celebrateLocked()
	s.publishLocked()
}

// Close ends the session. A countdown in flight is abandoned: its timers are
// stopped, the winners discarded and the raffle stays a draft.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.state == models.LiveCountdown {
		s.stopTimersLocked()
		s.state = models.LiveReady
		s.winners = nil
		s.countdown = 0
		s.spinName = ""
		s.log.Info("Draw cancelled")
	}
}

// PendingTimers returns how many countdown timers are armed
func (s *Session) PendingTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	if s.tickTimer != nil {
		n++
	}
	if s.spinTimer != nil {
		n++
	}
	return n
}

// ResetLive returns a results view to ready. It is only allowed while the
// stored raffle is a draft; committed results must be reset on the raffle.
func (s *Session) ResetLive() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrNoActiveSession
	}
	switch s.state {
	case models.LiveReady:
		return nil
	case models.LiveCountdown:
		return ErrResetNotAllowed
	}

	record, ok := s.live.store.Get(s.raffleID)
	if !ok {
		return ErrRaffleNotFound
	}
	if record.IsCompleted() {
		return ErrResetNotAllowed
	}

	s.playLocked(models.CueClick)
	s.state = models.LiveReady
	s.winners = nil
	s.reveal = nil
	s.config = s.wc.Config()
	s.publishLocked()
	return nil
}

// Next shows the following winner in individual mode
func (s *Session) Next() bool {
	return s.navigate(func(r *Reveal) bool { return r.Next() })
}

// Previous shows the preceding winner in individual mode
func (s *Session) Previous() bool {
	return s.navigate(func(r *Reveal) bool { return r.Previous() })
}

func (s *Session) navigate(move func(*Reveal) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.state != models.LiveResults || s.reveal == nil {
		return false
	}
	if !move(s.reveal) {
		return false
	}
	s.playLocked(models.CueClick)
	s.celebrateLocked()
	s.publishLocked()
	return true
}

// Snapshot returns the display view of the session
func (s *Session) Snapshot() models.LiveSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() models.LiveSnapshot {
	snap := models.LiveSnapshot{
		RaffleID:   s.raffleID,
		Title:      s.title,
		State:      s.state,
		RosterSize: len(s.wc.Participants()),
		NumWinners: s.config.NumWinners,
		Countdown:  s.countdown,
		SpinName:   s.spinName,
		RevealMode: s.config.RevealMode,
	}
	if s.state == models.LiveResults && s.reveal != nil {
		snap.Winners = s.reveal.Winners()
		snap.Visible = s.reveal.Visible()
		snap.CurrentIndex = s.reveal.Index()
		snap.CurrentFontScale = FontScaleFor(s.reveal.Current())
		if record, ok := s.live.store.Get(s.raffleID); ok {
			snap.CanReset = !record.IsCompleted()
		}
	}
	return snap
}

func (s *Session) stopTimersLocked() {
	s.gen++
	if s.tickTimer != nil {
		s.tickTimer.Stop()
		s.tickTimer = nil
	}
	if s.spinTimer != nil {
		s.spinTimer.Stop()
		s.spinTimer = nil
	}
}

func (s *Session) celebrateLocked() {
	s.playLocked(models.CueApplause)
	var visible []string
	if s.reveal != nil {
		visible = s.reveal.Visible()
	}
	s.broadcastLocked(models.MsgCelebrate, map[string]interface{}{
		"raffle_id": s.raffleID,
		"winners":   visible,
	})
}

func (s *Session) publishLocked() {
	s.broadcastLocked(models.MsgLiveState, s.snapshotLocked())
}

func (s *Session) playLocked(cue models.Cue) {
	if s.live.cues != nil {
		s.live.cues.PlayCue(cue)
	}
}

func (s *Session) broadcastLocked(msgType string, payload interface{}) {
	if s.live.broadcaster != nil {
		s.live.broadcaster.BroadcastMessage(msgType, payload)
	}
}
