//go:build windows

package main

import (
	"os"

	"golang.org/x/term"

	"github.com/abrezinsky/raffledraw/internal/browser"
	"github.com/abrezinsky/raffledraw/internal/logger"
)

// listenForKeyboard reads single keystrokes from the console until a quit
// key is pressed, then signals quit
func listenForKeyboard(launcher *browser.Launcher, appLog logger.Logger, quit chan<- struct{}) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return
	}
	defer term.Restore(fd, oldState)

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
