package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/abrezinsky/raffledraw/internal/app"
	"github.com/abrezinsky/raffledraw/internal/auth"
	"github.com/abrezinsky/raffledraw/internal/browser"
	"github.com/abrezinsky/raffledraw/internal/config"
	"github.com/abrezinsky/raffledraw/internal/logger"
	"github.com/abrezinsky/raffledraw/pkg/rosterfeed"
	"github.com/abrezinsky/raffledraw/web"
)

// ANSI escape codes
const (
	clearLine = "\033[2K"
	moveUp    = "\033[%dA"
	reset     = "\033[0m"
	yellow    = "\033[33m"
	red       = "\033[31m"
	green     = "\033[32m"
	cyan      = "\033[36m"
	magenta   = "\033[35m"
	bold      = "\033[1m"
)

const shutdownTimeout = 5 * time.Second

var (
	version = "dev"
)

// showBanner prints the logo and, unless skipSpin is set, a short drum roll
// that lands on a ticket number
func showBanner(skipSpin bool) {
	width := 62
	border := strings.Repeat("═", width)

	logo := []string{
		"   ____         __  __ _      ____                            ",
		"  |  _ \\ __ _  / _|/ _| | ___|  _ \\ _ __ __ ___      __      ",
		"  | |_) / _` || |_| |_| |/ _ \\ | | | '__/ _` \\ \\ /\\ / /      ",
		"  |  _ < (_| ||  _|  _| |  __/ |_| | | | (_| |\\ V  V /       ",
		"  |_| \\_\\__,_||_| |_| |_|\\___|____/|_|  \\__,_| \\_/\\_/        ",
	}

	fmt.Printf("\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		fmt.Printf("  %s║%s%-62s%s║%s\n", cyan, yellow, line, cyan, reset)
	}

	if skipSpin {
		fmt.Printf("  %s╚%s╝%s\n\n", cyan, border, reset)
		return
	}

	fmt.Printf("  %s╠%s╣%s\n", cyan, border, reset)
	fmt.Printf("  %s║%s║%s\n", cyan, strings.Repeat(" ", width), reset)
	fmt.Printf("  %s╚%s╝%s\n", cyan, border, reset)

	// Spin the ticket drum, slowing down towards the end
	ticket := 0
	for frame := 0; frame < 18; frame++ {
		ticket = (ticket*7 + 13 + frame*31) % 1000
		label := fmt.Sprintf("Drawing ticket... %03d", ticket)
		color := magenta
		if frame == 17 {
			label = fmt.Sprintf("Ticket %03d wins!", ticket)
			color = green
		}
		fmt.Printf(moveUp, 2)
		fmt.Printf("%s  %s║%s%s%s║%s\n", clearLine, cyan, color, center(label, width), cyan, reset)
		fmt.Printf("%s  %s╚%s╝%s\n", clearLine, cyan, border, reset)
		time.Sleep(time.Duration(40+frame*10) * time.Millisecond)
	}
	fmt.Println()
}

func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

func main() {
	defaults, err := config.Load()
	if err != nil {
		log.Fatal("Invalid environment configuration: ", err)
	}

	port := flag.Int("port", defaults.Port, "HTTP server port")
	dbPath := flag.String("db", defaults.DBPath, "SQLite database path")
	hostPw := flag.String("hostpw", defaults.HostPassword, "Host password (auto-generated if not set)")
	logLevel := flag.String("loglevel", defaults.LogLevel, "Log level (debug, info, warn, error)")
	noAnimate := flag.Bool("noanimate", false, "Show logo only, skip the drum roll")
	noKeyboard := flag.Bool("nokeyboard", false, "Disable keyboard shortcuts")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `RaffleDraw - Live Raffle Drawing

Usage:
  raffledraw [options]

Options:
  -port int      HTTP server port (default 8082, env RAFFLEDRAW_PORT)
  -db string     SQLite database path (default "raffles.db", env RAFFLEDRAW_DB_PATH)
  -hostpw str    Host password (auto-generated if not set, env RAFFLEDRAW_HOST_PASSWORD)
  -loglevel str  Log level: debug, info, warn, error (default "info", env RAFFLEDRAW_LOG_LEVEL)
  -noanimate     Show logo only, skip the drum roll
  -nokeyboard    Disable keyboard shortcuts
  -version       Show version and exit
  -help          Show this help message

Keyboard Shortcuts (when enabled):
  o              Open host console in browser
  d              Open display in browser
  h              Toggle HTTP request logging
  l              Cycle log level (debug → info → warn → error)
  q              Quit server
  ?              Show keyboard help

Examples:
  raffledraw                          # Run on port 8082 with raffles.db
  raffledraw -port 8080               # Run on port 8080
  raffledraw -db /data/gala.db        # Use custom database path
  raffledraw -hostpw secret123        # Use specific host password
  raffledraw -nokeyboard              # Disable keyboard shortcuts

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("raffledraw %s\n", version)
		os.Exit(0)
	}

	showBanner(*noAnimate)

	// Setup host authentication
	password := *hostPw
	if password == "" {
		password = auth.GeneratePassword()
	}
	hostAuth := auth.New(password)

	appLog := logger.NewWithLevel(logger.ParseLevel(*logLevel))

	a, err := app.New(appLog, *dbPath, rosterfeed.NewHTTPClient(appLog), web.GetTemplatesFS(), web.GetStaticFS(), hostAuth)
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}

	addr := fmt.Sprintf(":%d", *port)
	appLog.Info("Host password", "password", password)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Run(addr)
	}()

	// Wait a moment for server to start
	time.Sleep(100 * time.Millisecond)

	launcher := browser.NewLauncher(fmt.Sprintf("http://localhost:%d", *port))
	quit := make(chan struct{}, 1)

	switch {
	case *noKeyboard:
		fmt.Printf("\n%sKeyboard shortcuts disabled (use -nokeyboard=false to enable)%s\n\n", yellow, reset)
	case !term.IsTerminal(int(os.Stdin.Fd())):
		appLog.Debug("Stdin is not a terminal, keyboard shortcuts off")
	default:
		printKeyboardHelp()
		go listenForKeyboard(launcher, appLog, quit)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		a.Close()
		if err != nil {
			log.Fatal(err)
		}
		return
	case <-ctx.Done():
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		appLog.Warn("Shutdown did not complete cleanly", "error", err)
	}
	appLog.Info("Server stopped")
}
