// brickgame runs the handheld paddle game in the terminal.
//
// Usage:
//
//	brickgame menu             - Pick a mode interactively
//	brickgame play [mode]      - Play single, network or training directly
//	brickgame serve            - Start SSH server where players pair on channels
//	brickgame history [mode]   - Show recorded matches
//	brickgame settings         - Show or change the console settings
//
// Global flags:
//
//	--config <path>    - Game tuning YAML (default: embedded pong.yaml)
//	--settings <path>  - Settings file (default: ~/.brickgame/settings.yaml)
//	--db <path>        - History database (default: ~/.brickgame/history.db)
//	--log-file <path>  - Write logs to a file while the game owns the terminal
//	--debug            - Log at debug level
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/brickgame/internal/config"
	"github.com/vovakirdan/brickgame/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagSettings string
	flagDBPath   string
	flagLogFile  string
	flagDebug    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "brickgame",
	Short: "Brickgame - two-player paddle game for the terminal",
	Long: `Brickgame runs the handheld paddle game in your terminal. Play the
scripted opponent, practise against a wall, or pair two consoles over UDP
or over the built-in SSH server.

Available commands:
  menu      - Interactive mode picker
  play      - Play a mode directly
  serve     - Start SSH server for remote play
  history   - View recorded matches
  settings  - Show or change the console settings

Examples:
  brickgame menu
  brickgame play training
  brickgame play network --peer 192.168.1.20:7400
  brickgame serve --ssh :2222
  brickgame history network`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagSettings, "settings", "", "Path to settings file (default ~/.brickgame/settings.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath(), "Path to history database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log at debug level")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(settingsCmd)
}

// newLogger builds the logger for terminal commands. The game owns the
// screen, so logs are discarded unless --log-file is set.
func newLogger() (*log.Logger, func()) {
	var w io.Writer = io.Discard
	closeFn := func() {}

	if flagLogFile != "" {
		if err := os.MkdirAll(filepath.Dir(flagLogFile), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
		} else if f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		} else {
			w = f
			closeFn = func() { f.Close() }
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "brickgame",
		Level:           logLevel(),
	})
	return logger, closeFn
}

func logLevel() log.Level {
	if flagDebug {
		return log.DebugLevel
	}
	return log.InfoLevel
}

// mustLoadConfig loads the game tuning or exits.
func mustLoadConfig() config.GameConfig {
	cfg, err := config.LoadGame(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// mustLoadSettings loads the console settings or exits.
func mustLoadSettings() config.Settings {
	s, err := config.LoadSettings(flagSettings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return s
}

// openStore opens the history, or returns nil so play continues without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history database: %v\n", err)
		return nil
	}
	return store
}

// terminalSize returns the size of stdout, or 80x24.
func terminalSize() (int, int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}
