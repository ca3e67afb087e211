package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/abrezinsky/raffledraw/internal/browser"
	"github.com/abrezinsky/raffledraw/internal/logger"
)

type recordingCommander struct {
	args [][]string
}

func (c *recordingCommander) Start(name string, args ...string) error {
	c.args = append(c.args, append([]string{name}, args...))
	return nil
}

func newKeyTest() (*recordingCommander, *browser.Launcher, *logger.SlogLogger) {
	cmd := &recordingCommander{}
	launcher := browser.NewLauncherWithCommander("http://localhost:8082", cmd, "linux")
	return cmd, launcher, logger.NewWithWriter(io.Discard, slog.LevelInfo)
}

func TestHandleKey_OpensPages(t *testing.T) {
	cmd, launcher, log := newKeyTest()

	if handleKey('o', launcher, log) || handleKey('D', launcher, log) {
		t.Fatal("expected open keys not to quit")
	}

	if len(cmd.args) != 2 {
		t.Fatalf("expected two launches, got %v", cmd.args)
	}
	if cmd.args[0][1] != "http://localhost:8082/host" || cmd.args[1][1] != "http://localhost:8082/" {
		t.Errorf("unexpected URLs %v", cmd.args)
	}
}

func TestHandleKey_TogglesHTTPLogging(t *testing.T) {
	_, launcher, log := newKeyTest()
	initial := log.IsHTTPLoggingEnabled()

	handleKey('h', launcher, log)
	if log.IsHTTPLoggingEnabled() == initial {
		t.Error("expected HTTP logging toggled")
	}

	handleKey('h', launcher, log)
	if log.IsHTTPLoggingEnabled() != initial {
		t.Error("expected HTTP logging toggled back")
	}
}

func TestHandleKey_CyclesLogLevel(t *testing.T) {
	_, launcher, log := newKeyTest()

	handleKey('l', launcher, log)

	if got, want := log.GetLevel(), logger.NextLevel(slog.LevelInfo); got != want {
		t.Errorf("expected level %v, got %v", want, got)
	}
}

func TestHandleKey_Quit(t *testing.T) {
	_, launcher, log := newKeyTest()

	for _, key := range []byte{'q', 'Q', 3} {
		if !handleKey(key, launcher, log) {
			t.Errorf("expected %q to quit", key)
		}
	}
	if handleKey('x', launcher, log) {
		t.Error("expected unknown key to be ignored")
	}
}

func TestCenter(t *testing.T) {
	if got := center("ab", 6); got != "  ab  " {
		t.Errorf("got %q", got)
	}
	if got := center("abcdef", 4); got != "abcdef" {
		t.Errorf("got %q", got)
	}
}
