package services_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/abrezinsky/raffledraw/internal/logger"
	"github.com/abrezinsky/raffledraw/internal/repository/mock"
	"github.com/abrezinsky/raffledraw/internal/services"
	"github.com/abrezinsky/raffledraw/internal/testutil"
)

func TestSettingsService_SoundEnabled(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(logger.New(), repo)
	ctx := context.Background()

	// Default should be on (true)
	enabled, err := svc.IsSoundEnabled(ctx)
	if err != nil {
		t.Fatalf("IsSoundEnabled failed: %v", err)
	}
	if !enabled {
		t.Error("expected sound to be on by default")
	}

	if err := svc.SetSoundEnabled(ctx, false); err != nil {
		t.Fatalf("SetSoundEnabled(false) failed: %v", err)
	}
	enabled, _ = svc.IsSoundEnabled(ctx)
	if enabled {
		t.Error("expected sound to be off")
	}

	if err := svc.SetSoundEnabled(ctx, true); err != nil {
		t.Fatalf("SetSoundEnabled(true) failed: %v", err)
	}
	enabled, _ = svc.IsSoundEnabled(ctx)
	if !enabled {
		t.Error("expected sound to be on again")
	}
}

func TestSettingsService_SoundEnabled_DatabaseError(t *testing.T) {
	mockRepo := mock.NewRepository(testutil.NewTestRepository(t))
	mockRepo.SetGetSettingError(errors.New("database locked"))
	svc := services.NewSettingsService(logger.New(), mockRepo)

	if _, err := svc.IsSoundEnabled(context.Background()); err == nil {
		t.Error("expected database error to propagate")
	}
}

func TestSettingsService_BaseURL(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(logger.New(), repo)
	ctx := context.Background()

	url, err := svc.GetBaseURL(ctx)
	if err != nil {
		t.Fatalf("GetBaseURL failed: %v", err)
	}
	if url != "" {
		t.Errorf("expected empty base URL by default, got %q", url)
	}

	if err := svc.SetBaseURL(ctx, " http://raffle.local:8082/ "); err != nil {
		t.Fatalf("SetBaseURL failed: %v", err)
	}
	url, _ = svc.GetBaseURL(ctx)
	if url != "http://raffle.local:8082" {
		t.Errorf("expected trimmed base URL, got %q", url)
	}
}

func TestSettingsService_DisplayURL(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(logger.New(), repo)
	ctx := context.Background()

	url, err := svc.DisplayURL(ctx, "http://192.168.1.20:8082/")
	if err != nil {
		t.Fatalf("DisplayURL failed: %v", err)
	}
	if url != "http://192.168.1.20:8082/" {
		t.Errorf("expected request-derived URL, got %q", url)
	}

	svc.SetBaseURL(ctx, "https://raffle.example.org")
	url, _ = svc.DisplayURL(ctx, "http://192.168.1.20:8082")
	if url != "https://raffle.example.org/" {
		t.Errorf("expected configured base URL to win, got %q", url)
	}
}

func TestSettingsService_DisplayQR(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(logger.New(), repo)

	png, err := svc.DisplayQR(context.Background(), "http://raffle.local")
	if err != nil {
		t.Fatalf("DisplayQR failed: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("expected PNG data")
	}
}

func TestSettingsService_AllAndUpdate(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(logger.New(), repo)
	ctx := context.Background()

	off := false
	base := "http://raffle.local"
	if err := svc.UpdateSettings(ctx, services.Settings{SoundEnabled: &off, BaseURL: &base}); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}

	all, err := svc.AllSettings(ctx)
	if err != nil {
		t.Fatalf("AllSettings failed: %v", err)
	}
	if all["sound_enabled"] != false {
		t.Errorf("expected sound_enabled false, got %v", all["sound_enabled"])
	}
	if all["base_url"] != base {
		t.Errorf("expected base_url %q, got %v", base, all["base_url"])
	}

	// nil fields leave settings alone
	if err := svc.UpdateSettings(ctx, services.Settings{}); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	all, _ = svc.AllSettings(ctx)
	if all["base_url"] != base {
		t.Error("expected base_url unchanged by empty update")
	}
}

func TestSettingsService_UpdateSettings_DatabaseError(t *testing.T) {
	mockRepo := mock.NewRepository(testutil.NewTestRepository(t))
	mockRepo.SetSetSettingError(errors.New("readonly database"))
	svc := services.NewSettingsService(logger.New(), mockRepo)

	on := true
	if err := svc.UpdateSettings(context.Background(), services.Settings{SoundEnabled: &on}); err == nil {
		t.Error("expected database error to propagate")
	}
}
