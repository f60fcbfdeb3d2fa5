package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/benbeisheim/starchess-backend/internal/model"
	"github.com/benbeisheim/starchess-backend/internal/play"
	"github.com/benbeisheim/starchess-backend/internal/storage"
	"github.com/fatih/color"
)

func newTestTerminal(t *testing.T) (*terminal, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	var out bytes.Buffer
	return newTerminal(play.NewLocal(model.NewGame("test")), store, &out), &out
}

func runLines(t *testing.T, term *terminal, lines ...string) {
	t.Helper()
	for _, line := range lines {
		if term.handle(line) {
			t.Fatalf("%q quit the client", line)
		}
	}
}

func TestTerminalPlaysAndRecordsFoolsMate(t *testing.T) {
	term, out := newTestTerminal(t)
	runLines(t, term, "f2 f3", "e7 e5", "g2g4", "d8 h4")

	if !strings.Contains(out.String(), "game over: black wins") {
		t.Fatalf("output:\n%s", out.String())
	}
	stats, err := term.store.LoadStats()
	if err != nil || stats.BlackWins != 1 {
		t.Fatalf("stats %+v, %v", stats, err)
	}

	out.Reset()
	runLines(t, term, "a2 a3")
	if !strings.Contains(out.String(), "the game is over") {
		t.Fatalf("move after mate: %s", out.String())
	}
}

func TestTerminalSaveAndLoad(t *testing.T) {
	term, out := newTestTerminal(t)
	runLines(t, term, "e2e4", "e7e5", "save opening", "reset", "load opening")

	if got := term.session.Game.GetState().Ply; got != 2 {
		t.Fatalf("loaded ply %d", got)
	}
	out.Reset()
	runLines(t, term, "games")
	if strings.TrimSpace(out.String()) != "opening" {
		t.Fatalf("games: %q", out.String())
	}
}

func TestTerminalReportsMistakes(t *testing.T) {
	term, out := newTestTerminal(t)
	runLines(t, term, "e2 e5", "e7 e5", "zz", "moves e1")
	for _, want := range []string{"that piece cannot move there", "pick one of your own pieces", "unknown command", "e1 has no legal moves"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("missing %q in:\n%s", want, out.String())
		}
	}
	if !term.handle("quit") {
		t.Fatal("quit did not exit")
	}
}
