package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/brickgame/internal/config"
	"github.com/vovakirdan/brickgame/internal/game"
	"github.com/vovakirdan/brickgame/internal/platform/tui"
	"github.com/vovakirdan/brickgame/internal/radio"
	"github.com/vovakirdan/brickgame/internal/storage"
)

var (
	flagDeviceID int
	flagListen   string
	flagPeer     string
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a match",
	Long: `Start a match in the given mode (default: single).

Modes:
  single    - Scripted opponent at the far end
  training  - Full-width wall instead of an opponent
  network   - Another console over UDP (needs --peer)

Controls:
  ←/→ a/d    - Move the platform
  Esc/B      - End the match, leave the summary
  Q/Ctrl+C   - Quit immediately

In network mode device 0 hosts and serves the ball; device 1 joins.
Both consoles must point --peer at each other.

Examples:
  brickgame play
  brickgame play training
  brickgame play network --device-id 0 --listen :7400 --peer 192.168.1.21:7400
  brickgame play network --device-id 1 --listen :7400 --peer 192.168.1.20:7400`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagDeviceID, "device-id", -1, "Override the settings device id (0 hosts, 1 joins)")
	playCmd.Flags().StringVar(&flagListen, "listen", ":7400", "Local UDP address in network mode")
	playCmd.Flags().StringVar(&flagPeer, "peer", "", "Other console's UDP address in network mode")
}

func runPlay(_ *cobra.Command, args []string) {
	mode := game.ModeSingle
	if len(args) == 1 {
		m, err := game.ParseMode(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		mode = m
	}

	cfg := mustLoadConfig()
	settings := mustLoadSettings()
	if flagDeviceID >= 0 {
		settings.DeviceID = uint8(flagDeviceID) //nolint:gosec // validated below
		if err := settings.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	logger, closeLog := newLogger()
	defer closeLog()

	store := openStore()
	res, err := playMatch(cfg, settings, mode, store, logger)
	if store != nil {
		store.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
	printResult(res)
}

// playMatch runs one match, dialing the UDP link first in network mode.
func playMatch(cfg config.GameConfig, settings config.Settings, mode game.Mode, store *storage.Store, logger *log.Logger) (game.Result, error) {
	opts := tui.GameOptions{
		Config:   cfg,
		Settings: settings,
		Mode:     mode,
		Store:    store,
		Logger:   logger,
	}

	if mode == game.ModeNetwork {
		if flagPeer == "" {
			return game.Result{}, errors.New("network mode needs --peer")
		}
		link, err := radio.DialUDP(radio.UDPOptions{
			Listen: flagListen,
			Peer:   flagPeer,
			Logger: logger,
		})
		if err != nil {
			return game.Result{}, err
		}
		defer link.Close()
		opts.Link = link
	}

	return tui.RunGame(opts)
}

func printResult(res game.Result) {
	if !res.Started {
		fmt.Println("No match was played.")
		return
	}
	fmt.Printf("%s match: you %d - %d other (%s, %s)\n",
		res.Mode, res.Scored, res.Conceded, res.Reason, res.Duration.Round(time.Second))
}
