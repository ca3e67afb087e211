package mock

import (
	"context"
	"sync"

	"github.com/abrezinsky/raffledraw/internal/models"
	"github.com/abrezinsky/raffledraw/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// It also records every saved collection so tests can assert write-through.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.SetSaveRafflesError(errors.New("disk full"))
//	svc := services.NewRaffleService(ctx, log, mockRepo, clk)
//	svc.Create(ctx) // persists nothing, but the in-memory collection still changes
type Repository struct {
	repository.FullRepository

	mu sync.Mutex

	// ===== Raffle Errors =====
	loadRafflesError error
	saveRafflesError error

	// ===== Settings Errors =====
	getSettingError error
	setSettingError error

	saves [][]models.Raffle
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

func (m *Repository) SetLoadRafflesError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadRafflesError = err
}

func (m *Repository) SetSaveRafflesError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveRafflesError = err
}

func (m *Repository) SetGetSettingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getSettingError = err
}

func (m *Repository) SetSetSettingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setSettingError = err
}

// SaveCount returns how many times SaveRaffles was called, failed calls included
func (m *Repository) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saves)
}

// LastSaved returns the collection passed to the most recent SaveRaffles call
func (m *Repository) LastSaved() []models.Raffle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saves) == 0 {
		return nil
	}
	return m.saves[len(m.saves)-1]
}

// ===== Raffle Methods =====

func (m *Repository) LoadRaffles(ctx context.Context) ([]models.Raffle, bool, error) {
	m.mu.Lock()
	err := m.loadRafflesError
	m.mu.Unlock()
	if err != nil {
		return nil, false, err
	}
	return m.FullRepository.LoadRaffles(ctx)
}

func (m *Repository) SaveRaffles(ctx context.Context, raffles []models.Raffle) error {
	m.mu.Lock()
	snapshot := make([]models.Raffle, len(raffles))
	for i, r := range raffles {
		snapshot[i] = r.Clone()
	}
	m.saves = append(m.saves, snapshot)
	err := m.saveRafflesError
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return m.FullRepository.SaveRaffles(ctx, raffles)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	err := m.getSettingError
	m.mu.Unlock()
	if err != nil {
		return "", err
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	m.mu.Lock()
	err := m.setSettingError
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}
