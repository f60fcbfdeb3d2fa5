package storage

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/benbeisheim/starchess-backend/internal/model"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("Failed to open storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPreferences(t *testing.T) {
	s := openTest(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if prefs.Nickname == "" || prefs.Seat != model.White {
		t.Fatalf("defaults %+v", prefs)
	}

	prefs.RelayURL = "http://10.0.0.2:3000"
	prefs.RoomID = "room-1"
	prefs.Seat = model.Black
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatal(err)
	}
	loaded, err := s.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Nickname != prefs.Nickname || loaded.RelayURL != prefs.RelayURL || loaded.Seat != model.Black || loaded.LastPlayed.IsZero() {
		t.Fatalf("loaded %+v, saved %+v", loaded, prefs)
	}
}

func TestSaveAndResumeGame(t *testing.T) {
	s := openTest(t)

	game, err := model.ReplayActions("g", []string{"e2e4:double-pawn-step", "e7e5:double-pawn-step", "g1f3:none"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveGame("opening", game.GetState()); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveGame("  ", game.GetState()); err == nil {
		t.Fatal("blank name accepted")
	}

	resumed, err := s.ResumeGame("opening")
	if err != nil {
		t.Fatal(err)
	}
	got, want := resumed.GetState(), game.GetState()
	if got.Board.Grid != want.Board.Grid || got.ToMove != model.Black || got.Ply != 3 {
		t.Fatalf("resumed ply=%d to move %s", got.Ply, got.ToMove)
	}

	if _, err := s.LoadGame("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("missing game: %v", err)
	}
}

func TestListAndDeleteGames(t *testing.T) {
	s := openTest(t)
	state := model.NewGame("g").GetState()
	for _, name := range []string{"b", "a", "c"} {
		if err := s.SaveGame(name, state); err != nil {
			t.Fatal(err)
		}
	}
	// Unrelated keys must not show up in the listing.
	if err := s.SavePreferences(DefaultPreferences()); err != nil {
		t.Fatal(err)
	}

	names, err := s.ListGames()
	if err != nil || len(names) != 3 || names[0] != "a" || names[2] != "c" {
		t.Fatalf("names %q, %v", names, err)
	}
	if err := s.DeleteGame("b"); err != nil {
		t.Fatal(err)
	}
	if names, _ := s.ListGames(); len(names) != 2 {
		t.Fatalf("after delete %q", names)
	}
}

func TestRecordResult(t *testing.T) {
	s := openTest(t)
	for _, r := range []model.Result{model.ResultWhiteWins, model.ResultNone, model.ResultBlackWins, model.ResultBlackWins} {
		if err := s.RecordResult(r); err != nil {
			t.Fatal(err)
		}
	}
	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 3 || stats.WhiteWins != 1 || stats.BlackWins != 2 {
		t.Fatalf("stats %+v", stats)
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveGame("kept", model.NewGame("g").GetState()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := s.LoadGame("kept"); err != nil {
		t.Fatalf("game lost across reopen: %v", err)
	}
}

func TestDatabaseDir(t *testing.T) {
	override := t.TempDir()
	dir, err := GetDatabaseDir(override)
	if err != nil || dir != filepath.Join(override, "db") {
		t.Fatalf("override: %q, %v", dir, err)
	}

	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("XDG_DATA_HOME only applies on Unix")
	}
	xdg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", xdg)
	dir, err = GetDatabaseDir("")
	if err != nil || dir != filepath.Join(xdg, "starchess", "db") {
		t.Fatalf("xdg: %q, %v", dir, err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("database dir not created: %v", err)
	}
}
