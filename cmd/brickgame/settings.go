package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brickgame/internal/config"
	"github.com/vovakirdan/brickgame/internal/netsync"
)

var (
	flagSetDeviceID   uint8
	flagSetVibrations bool
	flagSetSound      bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the console settings",
	Long: `Show the persisted console settings, or change them with flags.

Settings:
  device-id   - 0 hosts network matches, 1 joins them
  vibrations  - Haptic feedback on wall hits and points
  sound       - Tones on wall hits

Examples:
  brickgame settings
  brickgame settings --device-id 1
  brickgame settings --vibrations=false --sound=false`,
	Args: cobra.NoArgs,
	Run:  runSettings,
}

func init() {
	settingsCmd.Flags().Uint8Var(&flagSetDeviceID, "device-id", 0, "Device id (0 hosts, 1 joins)")
	settingsCmd.Flags().BoolVar(&flagSetVibrations, "vibrations", true, "Enable haptic feedback")
	settingsCmd.Flags().BoolVar(&flagSetSound, "sound", true, "Enable tones")
}

func runSettings(cmd *cobra.Command, _ []string) {
	s := mustLoadSettings()

	flags := cmd.Flags()
	changed := false
	if flags.Changed("device-id") {
		s.DeviceID = flagSetDeviceID
		changed = true
	}
	if flags.Changed("vibrations") {
		s.Vibrations = flagSetVibrations
		changed = true
	}
	if flags.Changed("sound") {
		s.Sound = flagSetSound
		changed = true
	}

	path := flagSettings
	if path == "" {
		path = config.DefaultSettingsPath()
	}

	if changed {
		if err := config.SaveSettings(path, s); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved %s\n\n", path)
	}

	fmt.Printf("  device-id   %d (%s)\n", s.DeviceID, netsync.RoleFromDevice(s.DeviceID))
	fmt.Printf("  vibrations  %s\n", onOff(s.Vibrations))
	fmt.Printf("  sound       %s\n", onOff(s.Sound))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
