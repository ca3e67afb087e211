package repository

import (
	"context"

	"github.com/abrezinsky/raffledraw/internal/models"
)

// RaffleRepository persists the whole raffle collection.
// LoadRaffles reports ok=false when nothing has been saved yet.
type RaffleRepository interface {
	LoadRaffles(ctx context.Context) (raffles []models.Raffle, ok bool, err error)
	SaveRaffles(ctx context.Context, raffles []models.Raffle) error
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// FullRepository combines all repository interfaces
type FullRepository interface {
	RaffleRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
