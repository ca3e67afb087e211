package handlers

import (
	"github.com/abrezinsky/raffledraw/internal/models"
	"github.com/abrezinsky/raffledraw/internal/services"
)

// RaffleListResponse is the dashboard listing
type RaffleListResponse struct {
	Raffles   []models.Raffle         `json:"raffles"`
	Workspace services.WorkspaceState `json:"workspace"`
}

// DeleteResponse is the response for deleting a raffle
type DeleteResponse struct {
	services.DeleteResult
	Workspace services.WorkspaceState `json:"workspace"`
}

// RosterCountResponse reports the roster size after an import or edit
type RosterCountResponse struct {
	Count int `json:"count"`
}

// LiveResponse is the public view of the live screen
type LiveResponse struct {
	Active   bool                 `json:"active"`
	Snapshot *models.LiveSnapshot `json:"snapshot,omitempty"`
}

// NavigateResponse is the response for reveal navigation
type NavigateResponse struct {
	Moved    bool                `json:"moved"`
	Snapshot models.LiveSnapshot `json:"snapshot"`
}

// SettingsResponse is the response for settings
type SettingsResponse struct {
	SoundEnabled bool   `json:"sound_enabled"`
	BaseURL      string `json:"base_url"`
	DisplayURL   string `json:"display_url"`
}
