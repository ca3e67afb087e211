package browser

import (
	"fmt"
	"strings"
	"testing"
)

// mockCommander records command executions for testing
type mockCommander struct {
	lastCommand string
	lastArgs    []string
	calls       int
	startError  error
}

func (m *mockCommander) Start(name string, args ...string) error {
	m.calls++
	m.lastCommand = name
	m.lastArgs = args
	return m.startError
}

func TestLauncher_Commands(t *testing.T) {
	url := "http://localhost:8082/host"

	tests := []struct {
		goos    string
		command string
		args    []string
	}{
		{"linux", "xdg-open", []string{url}},
		{"freebsd", "xdg-open", []string{url}},
		{"darwin", "open", []string{url}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", url}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			mock := &mockCommander{}
			l := NewLauncherWithCommander("http://localhost:8082", mock, tt.goos)

			if err := l.Open(url); err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if mock.lastCommand != tt.command {
				t.Errorf("expected command %q, got %q", tt.command, mock.lastCommand)
			}
			if strings.Join(mock.lastArgs, " ") != strings.Join(tt.args, " ") {
				t.Errorf("expected args %v, got %v", tt.args, mock.lastArgs)
			}
		})
	}
}

func TestLauncher_UnsupportedPlatform(t *testing.T) {
	mock := &mockCommander{}
	l := NewLauncherWithCommander("http://localhost:8082", mock, "plan9")

	err := l.OpenHost()

	if err == nil {
		t.Fatal("expected error for unsupported platform, got nil")
	}
	if !strings.Contains(err.Error(), "plan9") {
		t.Errorf("expected platform name in error, got: %v", err)
	}
	if mock.calls != 0 {
		t.Errorf("expected no command to run, got %d", mock.calls)
	}
}

func TestLauncher_CommandError(t *testing.T) {
	mock := &mockCommander{startError: fmt.Errorf("command execution failed")}
	l := NewLauncherWithCommander("http://localhost:8082", mock, "linux")

	err := l.OpenDisplay()

	if err == nil || err.Error() != "command execution failed" {
		t.Errorf("expected commander error, got: %v", err)
	}
}

func TestLauncher_PageURLs(t *testing.T) {
	testCases := []struct {
		name    string
		base    string
		host    string
		display string
	}{
		{"localhost", "http://localhost:8082", "http://localhost:8082/host", "http://localhost:8082/"},
		{"trailing slash", "http://192.168.1.100:8082/", "http://192.168.1.100:8082/host", "http://192.168.1.100:8082/"},
		{"HTTPS", "https://raffle.example.com", "https://raffle.example.com/host", "https://raffle.example.com/"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockCommander{}
			l := NewLauncherWithCommander(tc.base, mock, "darwin")

			if l.HostURL() != tc.host {
				t.Errorf("expected host URL %q, got %q", tc.host, l.HostURL())
			}
			if l.DisplayURL() != tc.display {
				t.Errorf("expected display URL %q, got %q", tc.display, l.DisplayURL())
			}

			l.OpenHost()
			if mock.lastArgs[0] != tc.host {
				t.Errorf("expected OpenHost to open %q, got %q", tc.host, mock.lastArgs[0])
			}
			l.OpenDisplay()
			if mock.lastArgs[0] != tc.display {
				t.Errorf("expected OpenDisplay to open %q, got %q", tc.display, mock.lastArgs[0])
			}
		})
	}
}

func TestRealCommander_Start(t *testing.T) {
	commander := RealCommander{}

	err := commander.Start("nonexistent-command-xyz-123")

	if err == nil {
		t.Error("expected error for a command that does not exist")
	}
}
