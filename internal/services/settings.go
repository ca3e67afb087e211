package services

import (
	"context"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/abrezinsky/raffledraw/internal/logger"
	"github.com/abrezinsky/raffledraw/internal/repository"
)

const (
	settingSoundEnabled = "sound_enabled"
	settingBaseURL      = "base_url"

	// DisplayQRSize is the edge length in pixels of the display QR code
	DisplayQRSize = 256
)

// SettingsService handles settings-related business logic
type SettingsService struct {
	log  logger.Logger
	repo repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{log: log, repo: repo}
}

// IsSoundEnabled reports whether cues should be played
func (s *SettingsService) IsSoundEnabled(ctx context.Context) (bool, error) {
	value, err := s.repo.GetSetting(ctx, settingSoundEnabled)
	if err != nil {
		if err == repository.ErrNotFound {
			return true, nil // Default to on if setting doesn't exist
		}
		return false, err // Propagate database errors
	}
	return value == "true", nil
}

// SetSoundEnabled turns cues on or off
func (s *SettingsService) SetSoundEnabled(ctx context.Context, enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	return s.repo.SetSetting(ctx, settingSoundEnabled, value)
}

// GetBaseURL returns the application base URL
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	value, err := s.repo.GetSetting(ctx, settingBaseURL)
	if err != nil {
		if err == repository.ErrNotFound {
			return "", nil // No default - setting not yet configured
		}
		return "", err // Propagate database errors
	}
	return value, nil
}

// SetBaseURL saves the application base URL
func (s *SettingsService) SetBaseURL(ctx context.Context, url string) error {
	return s.repo.SetSetting(ctx, settingBaseURL, strings.TrimRight(strings.TrimSpace(url), "/"))
}

// DisplayURL returns the address of the display page. The configured base
// URL wins over fallback, which callers derive from the incoming request.
func (s *SettingsService) DisplayURL(ctx context.Context, fallback string) (string, error) {
	base, err := s.GetBaseURL(ctx)
	if err != nil {
		return "", err
	}
	if base == "" {
		base = strings.TrimRight(fallback, "/")
	}
	return base + "/", nil
}

// DisplayQR renders the display URL as a PNG QR code
func (s *SettingsService) DisplayQR(ctx context.Context, fallback string) ([]byte, error) {
	url, err := s.DisplayURL(ctx, fallback)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(url, qrcode.Medium, DisplayQRSize)
	if err != nil {
		return nil, fmt.Errorf("encode display QR: %w", err)
	}
	return png, nil
}

// AllSettings returns the host-editable settings as a map
func (s *SettingsService) AllSettings(ctx context.Context) (map[string]interface{}, error) {
	settings := make(map[string]interface{})

	sound, err := s.IsSoundEnabled(ctx)
	if err != nil {
		return nil, err
	}
	settings[settingSoundEnabled] = sound

	baseURL, err := s.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	settings[settingBaseURL] = baseURL

	return settings, nil
}

// Settings represents application settings for update operations.
// Nil fields are left unchanged.
type Settings struct {
	SoundEnabled *bool
	BaseURL      *string
}

// UpdateSettings updates multiple settings at once
func (s *SettingsService) UpdateSettings(ctx context.Context, settings Settings) error {
	if settings.SoundEnabled != nil {
		if err := s.SetSoundEnabled(ctx, *settings.SoundEnabled); err != nil {
			return err
		}
	}
	if settings.BaseURL != nil {
		if err := s.SetBaseURL(ctx, *settings.BaseURL); err != nil {
			return err
		}
	}
	s.log.Info("Settings updated")
	return nil
}
