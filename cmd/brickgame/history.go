package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brickgame/internal/game"
)

var (
	flagLimit int
	flagClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history [mode]",
	Short: "Show recorded matches",
	Long: `Display the most recent matches and per-mode totals.

A match counts as won when this console scored more than it conceded.

Examples:
  brickgame history
  brickgame history network --limit 20
  brickgame history training --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of matches to show")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the matches instead of showing them")
}

func runHistory(_ *cobra.Command, args []string) {
	mode := ""
	if len(args) == 1 {
		m, err := game.ParseMode(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		mode = m.String()
	}

	store := openStore()
	if store == nil {
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearMatches(mode); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing history: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("History cleared.")
		return
	}

	records, err := store.RecentMatches(mode, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving history: %v\n", err)
		os.Exit(1)
	}

	if len(records) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Run 'brickgame play' to record the first one!")
		return
	}

	fmt.Printf("  %-16s  %-8s  %-6s  %-7s  %-12s  %s\n", "Date", "Mode", "Role", "Score", "End", "Time")
	fmt.Printf("  %-16s  %-8s  %-6s  %-7s  %-12s  %s\n", "----", "----", "----", "-----", "---", "----")
	for _, r := range records {
		role := r.Role
		if role == "" {
			role = "-"
		}
		fmt.Printf("  %-16s  %-8s  %-6s  %-7s  %-12s  %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Mode,
			role,
			fmt.Sprintf("%d - %d", r.Scored, r.Conceded),
			r.EndReason,
			r.Duration.Round(time.Second),
		)
	}

	stats, err := store.Stats()
	if err != nil {
		return
	}
	modes := make([]string, 0, len(stats))
	for m := range stats {
		if mode == "" || m == mode {
			modes = append(modes, m)
		}
	}
	sort.Strings(modes)

	fmt.Println()
	for _, m := range modes {
		s := stats[m]
		fmt.Printf("%s: %d matches, %d won, %d scored, %d conceded, last %s\n",
			m, s.Matches, s.Wins, s.Scored, s.Conceded, s.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
}
