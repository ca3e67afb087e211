package services

import (
	"slices"
	"unicode/utf8"

	"github.com/abrezinsky/raffledraw/internal/models"
)

// Reveal controls how committed winners are presented.
// In individual mode one winner is shown at a time and Next/Previous move
// within [0, len-1] without wrapping. In all mode every winner is shown in
// draw order and navigation does nothing.
type Reveal struct {
	mode    models.RevealMode
	winners []string
	index   int
}

// NewReveal starts a reveal at the first winner
func NewReveal(mode models.RevealMode, winners []string) *Reveal {
	if !mode.Valid() {
		mode = models.RevealIndividual
	}
	return &Reveal{mode: mode, winners: slices.Clone(winners)}
}

func (r *Reveal) Mode() models.RevealMode { return r.mode }

func (r *Reveal) Index() int { return r.index }

// Winners returns every winner in draw order
func (r *Reveal) Winners() []string { return slices.Clone(r.winners) }

// Next moves to the following winner. It reports whether the index changed.
func (r *Reveal) Next() bool {
	if r.mode != models.RevealIndividual || r.index >= len(r.winners)-1 {
		return false
	}
	r.index++
	return true
}

// Previous moves to the preceding winner. It reports whether the index changed.
func (r *Reveal) Previous() bool {
	if r.mode != models.RevealIndividual || r.index == 0 {
		return false
	}
	r.index--
	return true
}

// Current returns the winner at the index, or "" when there are none
func (r *Reveal) Current() string {
	if r.index >= len(r.winners) {
		return ""
	}
	return r.winners[r.index]
}

// Visible returns the winners on screen right now
func (r *Reveal) Visible() []string {
	if r.mode == models.RevealAll {
		return r.Winners()
	}
	if cur := r.Current(); cur != "" {
		return []string{cur}
	}
	return []string{}
}

// FontScaleFor picks the emphasis tier for a single displayed winner by name length
func FontScaleFor(name string) models.FontScale {
	switch n := utf8.RuneCountInString(name); {
	case n < 10:
		return models.FontScaleXL
	case n < 20:
		return models.FontScaleLG
	case n < 35:
		return models.FontScaleMD
	default:
		return models.FontScaleSM
	}
}
