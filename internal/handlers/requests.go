package handlers

import "github.com/abrezinsky/raffledraw/internal/models"

// RaffleUpdateRequest represents a request to update a stored raffle
type RaffleUpdateRequest struct {
	Title        *string        `json:"title"`
	Participants *[]string      `json:"participants"`
	Config       *models.Config `json:"config"`
}

// EditorUpdateRequest represents a request to change the open working copy
type EditorUpdateRequest struct {
	Title  *string        `json:"title"`
	Config *models.Config `json:"config"`
}

// RosterTextRequest carries pasted roster text
type RosterTextRequest struct {
	Text string `json:"text"`
}

// RosterURLRequest represents a request to import a roster from a URL
type RosterURLRequest struct {
	URL string `json:"url"`
}

// SettingsUpdateRequest represents a request to update settings
type SettingsUpdateRequest struct {
	SoundEnabled *bool   `json:"sound_enabled"`
	BaseURL      *string `json:"base_url"`
}
