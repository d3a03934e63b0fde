package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brickgame/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode picker menu",
	Long: `Start in interactive menu mode, like the handheld's main menu.

Use arrow keys or j/k to navigate, Enter to select a mode.
After a match ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select mode
  Tab          - Match history
  Q            - Quit

The multiplayer entry reads "Host multi" on device 0 and "Join multi"
on device 1. It uses the --listen and --peer flags of the play command.

Examples:
  brickgame menu
  brickgame menu --peer 192.168.1.21:7400
  brickgame menu --db ./history.db`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagListen, "listen", ":7400", "Local UDP address for multiplayer")
	menuCmd.Flags().StringVar(&flagPeer, "peer", "", "Other console's UDP address for multiplayer")
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()
	settings := mustLoadSettings()

	logger, closeLog := newLogger()
	defer closeLog()

	store := openStore()
	width, height := terminalSize()

	for {
		menuResult, err := tui.RunMenu(tui.NetworkTitle(settings.DeviceID), width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		if menuResult.Quit {
			break
		}

		if menuResult.History {
			goBack, hErr := tui.RunHistory(store, width, height)
			if hErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", hErr)
			}
			if goBack {
				continue
			}
			break
		}

		if _, err := playMatch(cfg, settings, menuResult.Mode, store, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			logger.Error("match failed", "mode", menuResult.Mode, "error", err)
		}
	}

	if store != nil {
		store.Close()
	}
}
