package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "sub", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveMatchAssignsID(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveMatch(MatchRecord{
		Mode:      "network",
		Role:      "host",
		Scored:    3,
		Conceded:  1,
		EndReason: "quit",
		Duration:  95 * time.Second,
	})
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("SaveMatch() id = %q, expected a UUID", id)
	}

	got, err := store.MatchByID(id)
	if err != nil {
		t.Fatalf("MatchByID() failed: %v", err)
	}
	if got.Mode != "network" || got.Role != "host" || got.Scored != 3 || got.Conceded != 1 {
		t.Errorf("MatchByID() = %+v", got)
	}
	if got.Duration != 95*time.Second {
		t.Errorf("Duration = %v, expected 95s", got.Duration)
	}
	if !got.Won() {
		t.Error("Won() = false, expected true")
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestMatchByIDNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.MatchByID("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("MatchByID() error = %v, expected ErrNotFound", err)
	}
}

func TestRecentMatches(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []MatchRecord{
		{Mode: "single", EndReason: "quit", Scored: 1, CreatedAt: base},
		{Mode: "training", EndReason: "quit", CreatedAt: base.Add(time.Minute)},
		{Mode: "single", EndReason: "match_over", Conceded: 100, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range records {
		if _, err := store.SaveMatch(r); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	tests := []struct {
		name     string
		mode     string
		limit    int
		expected []string
	}{
		{"all newest first", "", 10, []string{"match_over", "quit", "quit"}},
		{"limited", "", 1, []string{"match_over"}},
		{"by mode", "training", 10, []string{"quit"}},
		{"unknown mode", "network", 10, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := store.RecentMatches(tc.mode, tc.limit)
			if err != nil {
				t.Fatalf("RecentMatches() failed: %v", err)
			}
			if len(got) != len(tc.expected) {
				t.Fatalf("RecentMatches() returned %d records, expected %d", len(got), len(tc.expected))
			}
			for i, r := range got {
				if r.EndReason != tc.expected[i] {
					t.Errorf("record %d reason = %q, expected %q", i, r.EndReason, tc.expected[i])
				}
			}
		})
	}
}

func TestStats(t *testing.T) {
	store := openTestStore(t)

	for _, r := range []MatchRecord{
		{Mode: "single", EndReason: "quit", Scored: 5, Conceded: 2},
		{Mode: "single", EndReason: "quit", Scored: 1, Conceded: 4},
		{Mode: "network", Role: "client", EndReason: "disconnected", Scored: 2, Conceded: 0},
	} {
		if _, err := store.SaveMatch(r); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	single := stats["single"]
	if single == nil {
		t.Fatal("no stats for single")
	}
	if single.Matches != 2 || single.Wins != 1 || single.Scored != 6 || single.Conceded != 6 {
		t.Errorf("single stats = %+v", *single)
	}
	if stats["network"] == nil || stats["network"].Wins != 1 {
		t.Errorf("network stats = %+v", stats["network"])
	}
}

func TestClearMatches(t *testing.T) {
	store := openTestStore(t)

	for _, mode := range []string{"single", "training", "training"} {
		if _, err := store.SaveMatch(MatchRecord{Mode: mode, EndReason: "quit"}); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	if err := store.ClearMatches("training"); err != nil {
		t.Fatalf("ClearMatches() failed: %v", err)
	}
	left, _ := store.RecentMatches("", 10)
	if len(left) != 1 || left[0].Mode != "single" {
		t.Errorf("after clearing training: %+v", left)
	}

	if err := store.ClearMatches(""); err != nil {
		t.Fatalf("ClearMatches() failed: %v", err)
	}
	left, _ = store.RecentMatches("", 10)
	if len(left) != 0 {
		t.Errorf("after clearing all: %d records", len(left))
	}
}

func TestDuplicateIDRejected(t *testing.T) {
	store := openTestStore(t)

	r := MatchRecord{ID: uuid.NewString(), Mode: "single", EndReason: "quit"}
	if _, err := store.SaveMatch(r); err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	if _, err := store.SaveMatch(r); err == nil {
		t.Error("second SaveMatch() with the same id succeeded")
	}
}
