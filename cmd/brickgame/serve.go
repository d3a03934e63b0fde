package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/brickgame/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagLoss        float64
	flagSeed        int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the brickgame SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own console with the mode menu. For
multiplayer, two users enter the same channel code: the first to tune
in hosts, the second joins. The code can also be passed as the SSH
command, e.g. "ssh -t host -p 23234 room7".
Matches are recorded in the server's history database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.brickgame/host_key

Examples:
  brickgame serve                           # Listen on :23234 with auto-generated key
  brickgame serve --ssh :2222               # Listen on port 2222
  brickgame serve --host-key ./my_host_key  # Use specific host key
  brickgame serve --loss 0.1                # Drop 10% of radio frames

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().Float64Var(&flagLoss, "loss", 0, "Probability in [0,1) that a radio frame is lost")
	serveCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed for radio losses (0 = time based)")
}

func runServe(_ *cobra.Command, _ []string) {
	if flagLoss < 0 || flagLoss >= 1 {
		fmt.Fprintf(os.Stderr, "Error: --loss must be in [0,1), got %v\n", flagLoss)
		os.Exit(1)
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "brickgame-ssh",
		Level:           logLevel(),
	})

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.Game = mustLoadConfig()
	cfg.Settings = mustLoadSettings()
	cfg.Loss = flagLoss
	cfg.Seed = seed
	cfg.Logger = logger

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting brickgame SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh -t localhost -p %s [channel]\n", portOf(cfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
