package models

import (
	"slices"
	"time"
)

// Status is the persisted lifecycle state of a raffle
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
)

// RevealMode controls how completed results are presented
type RevealMode string

const (
	RevealIndividual RevealMode = "individual"
	RevealAll        RevealMode = "all"
)

// Valid reports whether m is a known reveal mode
func (m RevealMode) Valid() bool {
	return m == RevealIndividual || m == RevealAll
}

// Cue is an audio cue played by the display
type Cue string

const (
	CueTick     Cue = "tick"
	CueApplause Cue = "applause"
	CueClick    Cue = "click"
)

// Config holds the draw configuration of a raffle
type Config struct {
	NumWinners    int        `json:"num_winners"`
	TimerDuration int        `json:"timer_duration"`
	RevealMode    RevealMode `json:"reveal_mode"`
	RemoveWinners bool       `json:"remove_winners"`
}

// DefaultConfig returns the configuration given to new raffles
func DefaultConfig() Config {
	return Config{
		NumWinners:    1,
		TimerDuration: 5,
		RevealMode:    RevealIndividual,
		RemoveWinners: false,
	}
}

// Clamp forces the config into its valid ranges for a roster of the given size.
// NumWinners ends up in [1, max(1, participants)], TimerDuration is at least 1
// and unknown reveal modes fall back to individual.
func (c Config) Clamp(participants int) Config {
	upper := max(1, participants)
	c.NumWinners = min(max(c.NumWinners, 1), upper)
	c.TimerDuration = max(c.TimerDuration, 1)
	if !c.RevealMode.Valid() {
		c.RevealMode = RevealIndividual
	}
	return c
}

// Raffle is one configured drawing event with its roster and outcome
type Raffle struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Participants []string   `json:"participants"`
	Config       Config     `json:"config"`
	Status       Status     `json:"status"`
	Results      []string   `json:"results"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// IsCompleted reports whether the raffle has committed results
func (r Raffle) IsCompleted() bool {
	return r.Status == StatusCompleted
}

// Clone returns a deep copy so callers never share slices with the store
func (r Raffle) Clone() Raffle {
	c := r
	c.Participants = cloneNames(r.Participants)
	c.Results = cloneNames(r.Results)
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		c.CompletedAt = &t
	}
	return c
}

func cloneNames(names []string) []string {
	if names == nil {
		return []string{}
	}
	return slices.Clone(names)
}

// LiveState is the state of a live draw session
type LiveState string

const (
	LiveReady     LiveState = "ready"
	LiveCountdown LiveState = "countdown"
	LiveResults   LiveState = "results"
)

// FontScale is the emphasis tier used when showing a single winner
type FontScale string

const (
	FontScaleXL FontScale = "xl"
	FontScaleLG FontScale = "lg"
	FontScaleMD FontScale = "md"
	FontScaleSM FontScale = "sm"
)

// LiveSnapshot is the display-facing view of a live session.
// Winners are only populated in the results state.
type LiveSnapshot struct {
	RaffleID         string     `json:"raffle_id"`
	Title            string     `json:"title"`
	State            LiveState  `json:"state"`
	RosterSize       int        `json:"roster_size"`
	NumWinners       int        `json:"num_winners"`
	Countdown        int        `json:"countdown"`
	SpinName         string     `json:"spin_name,omitempty"`
	RevealMode       RevealMode `json:"reveal_mode"`
	Winners          []string   `json:"winners,omitempty"`
	Visible          []string   `json:"visible,omitempty"`
	CurrentIndex     int        `json:"current_index"`
	CurrentFontScale FontScale  `json:"current_font_scale,omitempty"`
	CanReset         bool       `json:"can_reset"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WebSocket message types pushed to the display
const (
	MsgLiveState = "live_state"
	MsgLiveIdle  = "live_idle"
	MsgCountdown = "countdown"
	MsgSpin      = "spin"
	MsgCue       = "cue"
	MsgCelebrate = "celebrate"
	MsgToast     = "toast"
)
