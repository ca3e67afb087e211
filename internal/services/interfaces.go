package services

import (
	"context"

	"github.com/abrezinsky/raffledraw/internal/models"
)

// RaffleServicer defines the interface for raffle collection operations
type RaffleServicer interface {
	Create(ctx context.Context) models.Raffle
	Duplicate(ctx context.Context, id string) (models.Raffle, bool)
	Delete(ctx context.Context, id, currentID string) DeleteResult
	Reset(ctx context.Context, id string) bool
	Update(ctx context.Context, id string, u RaffleUpdate) (models.Raffle, bool)
	Complete(ctx context.Context, id string, results []string) bool
	Get(id string) (models.Raffle, bool)
	List() []models.Raffle
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	IsSoundEnabled(ctx context.Context) (bool, error)
	SetSoundEnabled(ctx context.Context, enabled bool) error
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	DisplayURL(ctx context.Context, fallback string) (string, error)
	DisplayQR(ctx context.Context, fallback string) ([]byte, error)
	AllSettings(ctx context.Context) (map[string]interface{}, error)
	UpdateSettings(ctx context.Context, settings Settings) error
}

// WorkspaceServicer defines the interface for the host's current view
type WorkspaceServicer interface {
	State() WorkspaceState
	Editor() (*Editor, error)
	Session() (*Session, error)
	LiveSnapshot() (models.LiveSnapshot, bool)
	Open(ctx context.Context, id string) (*Editor, error)
	GoLive(ctx context.Context, id string) (*Session, error)
	Leave(ctx context.Context)
	Create(ctx context.Context) models.Raffle
	Duplicate(ctx context.Context, id string) (models.Raffle, error)
	Delete(ctx context.Context, id string) (DeleteResult, error)
	Reset(ctx context.Context, id string) error
	ImportText(raw string) (int, error)
	ImportNames(names []string) (int, error)
}

// Ensure concrete types implement interfaces
var (
	_ RaffleServicer    = (*RaffleService)(nil)
	_ SettingsServicer  = (*SettingsService)(nil)
	_ WorkspaceServicer = (*Workspace)(nil)
	_ ResultCommitter   = (*RaffleService)(nil)
	_ EditorStore       = (*RaffleService)(nil)
	_ WorkingCopy       = (*Editor)(nil)
)
