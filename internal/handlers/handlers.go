package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/abrezinsky/raffledraw/internal/auth"
	"github.com/abrezinsky/raffledraw/internal/services"
	"github.com/abrezinsky/raffledraw/internal/websocket"
	"github.com/abrezinsky/raffledraw/pkg/rosterfeed"
)

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// HostPageData holds the data passed to host templates
type HostPageData struct {
	Title string
	Error string
}

// Templates holds all parsed HTML templates
type Templates struct {
	Display   *template.Template
	HostLogin *template.Template
	Host      *template.Template
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Raffles      services.RaffleServicer
	Workspace    services.WorkspaceServicer
	Settings     services.SettingsServicer
	Roster       rosterfeed.Client
	Auth         *auth.Auth
	Hub          *websocket.Hub
	Log          HTTPLogger
	templates    *Templates
	staticServer http.Handler
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	raffles services.RaffleServicer,
	workspace services.WorkspaceServicer,
	settings services.SettingsServicer,
	roster rosterfeed.Client,
	templatesFS fs.FS,
	staticServer http.Handler,
	hostAuth *auth.Auth,
	hub *websocket.Hub,
	log HTTPLogger,
) (*Handlers, error) {
	templates, err := loadTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return &Handlers{
		Raffles:      raffles,
		Workspace:    workspace,
		Settings:     settings,
		Roster:       roster,
		Auth:         hostAuth,
		Hub:          hub,
		Log:          log,
		templates:    templates,
		staticServer: staticServer,
	}, nil
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance without loading templates (for testing API endpoints)
func NewForTesting(
	raffles services.RaffleServicer,
	workspace services.WorkspaceServicer,
	settings services.SettingsServicer,
	roster rosterfeed.Client,
) *Handlers {
	// Create a test auth with a known password
	testAuth := auth.New("test-password")
	return &Handlers{
		Raffles:   raffles,
		Workspace: workspace,
		Settings:  settings,
		Roster:    roster,
		Auth:      testAuth,
		Log:       NoopHTTPLogger{},
		// templates left nil - API endpoints don't use templates
	}
}

// loadTemplates parses all templates once at startup
func loadTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{}
	var err error

	if t.Display, err = template.ParseFS(templatesFS, "display.html"); err != nil {
		return nil, fmt.Errorf("display template: %w", err)
	}
	if t.HostLogin, err = template.ParseFS(templatesFS, "host/login.html"); err != nil {
		return nil, fmt.Errorf("host login template: %w", err)
	}
	if t.Host, err = template.ParseFS(templatesFS, "host/layout.html", "host/console.html"); err != nil {
		return nil, fmt.Errorf("host console template: %w", err)
	}

	return t, nil
}
