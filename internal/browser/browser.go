// Package browser opens the host console and the display page in the
// machine's default browser.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Commander starts external programs
type Commander interface {
	Start(name string, args ...string) error
}

// RealCommander executes actual commands
type RealCommander struct{}

// Start launches name without waiting for it to exit
func (RealCommander) Start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Launcher opens pages of one running server
type Launcher struct {
	baseURL   string
	commander Commander
	goos      string
}

// NewLauncher creates a Launcher for the server at baseURL using the OS browser
func NewLauncher(baseURL string) *Launcher {
	return NewLauncherWithCommander(baseURL, RealCommander{}, runtime.GOOS)
}

// NewLauncherWithCommander creates a Launcher with an explicit commander and OS
func NewLauncherWithCommander(baseURL string, commander Commander, goos string) *Launcher {
	return &Launcher{
		baseURL:   strings.TrimRight(baseURL, "/"),
		commander: commander,
		goos:      goos,
	}
}

// HostURL is the address of the host console
func (l *Launcher) HostURL() string {
	return l.baseURL + "/host"
}

// DisplayURL is the address of the audience display
func (l *Launcher) DisplayURL() string {
	return l.baseURL + "/"
}

// OpenHost opens the host console
func (l *Launcher) OpenHost() error {
	return l.Open(l.HostURL())
}

// OpenDisplay opens the audience display
func (l *Launcher) OpenDisplay() error {
	return l.Open(l.DisplayURL())
}

// Open opens url with the platform's URL handler
func (l *Launcher) Open(url string) error {
	name, args, err := command(l.goos, url)
	if err != nil {
		return err
	}
	return l.commander.Start(name, args...)
}

func command(goos, url string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{url}, nil
	case "darwin":
		return "open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}
