package main

import (
	"fmt"
	"strings"

	"github.com/abrezinsky/raffledraw/internal/browser"
	"github.com/abrezinsky/raffledraw/internal/logger"
)

// handleKey performs the shortcut bound to key. It reports whether the
// server should shut down.
func handleKey(key byte, launcher *browser.Launcher, appLog logger.Logger) bool {
	switch strings.ToLower(string(key)) {
	case "o":
		fmt.Printf("%sOpening host console in browser...%s\n", cyan, reset)
		if err := launcher.OpenHost(); err != nil {
			fmt.Printf("%sError opening browser: %v%s\n", red, err, reset)
		}
	case "d":
		fmt.Printf("%sOpening display in browser...%s\n", cyan, reset)
		if err := launcher.OpenDisplay(); err != nil {
			fmt.Printf("%sError opening browser: %v%s\n", red, err, reset)
		}
	case "h":
		if appLog.IsHTTPLoggingEnabled() {
			appLog.DisableHTTPLogging()
			fmt.Printf("%sHTTP logging disabled%s\n", yellow, reset)
		} else {
			appLog.EnableHTTPLogging()
			fmt.Printf("%sHTTP logging enabled%s\n", green, reset)
		}
	case "l":
		next := logger.NextLevel(appLog.GetLevel())
		appLog.SetLevel(next)
		fmt.Printf("%sLog level: %s%s%s\n", green, yellow, strings.ToLower(next.String()), reset)
	case "?":
		printKeyboardHelp()
	case "q", "\x03": // Ctrl+C arrives as a byte while echo is off
		fmt.Printf("%sShutting down server...%s\n", yellow, reset)
		return true
	}
	return false
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp() {
	fmt.Printf("\n%s%s  Keyboard shortcuts:%s\n", bold, green, reset)
	fmt.Printf("    %so%s      - Open host console in browser\n", cyan, reset)
	fmt.Printf("    %sd%s      - Open display in browser\n", cyan, reset)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Printf("    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	fmt.Printf("    %sq%s      - Quit server\n", cyan, reset)
	fmt.Printf("    %s?%s      - Show this help\n\n", cyan, reset)
}
