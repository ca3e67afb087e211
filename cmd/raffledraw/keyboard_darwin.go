//go:build darwin

package main

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/abrezinsky/raffledraw/internal/browser"
	"github.com/abrezinsky/raffledraw/internal/logger"
)

// listenForKeyboard reads single keystrokes from the terminal until a quit
// key is pressed, then signals quit
func listenForKeyboard(launcher *browser.Launcher, appLog logger.Logger, quit chan<- struct{}) {
	fd := int(os.Stdin.Fd())
	oldState, err := unix.IoctlGetTermios(fd, unix.TIOCGETA)
	if err != nil {
		// Can't get terminal state, silently return
		return
	}

	// Disable canonical mode (line buffering) and echo so keys arrive without
	// Enter. Output processing stays on so \n still returns the carriage.
	newState := *oldState
	newState.Lflag &^= unix.ICANON | unix.ECHO
	newState.Cc[unix.VMIN] = 1
	newState.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TIOCSETA, &newState); err != nil {
		return
	}
	defer unix.IoctlSetTermios(fd, unix.TIOCSETA, oldState)

	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		if handleKey(buf[0], launcher, appLog) {
			quit <- struct{}{}
			return
		}
	}
}
