package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/benbeisheim/starchess-backend/internal/model"
	"github.com/benbeisheim/starchess-backend/internal/play"
	"github.com/benbeisheim/starchess-backend/internal/render"
	"github.com/benbeisheim/starchess-backend/internal/storage"
	"github.com/benbeisheim/starchess-backend/internal/ws"
	"github.com/rs/zerolog/log"
)

type terminal struct {
	session  *play.Session
	store    *storage.Storage
	out      io.Writer
	recorded bool
}

func newTerminal(session *play.Session, store *storage.Storage, out io.Writer) *terminal {
	return &terminal{session: session, store: store, out: out}
}

func (t *terminal) perspective() model.Color {
	if seat, online := t.session.Seat(); online {
		return seat
	}
	return t.session.Game.GetState().ToMove
}

func (t *terminal) draw(marks ...model.Position) {
	render.Board(t.out, t.session.Game.GetState(), render.Options{
		Perspective: t.perspective(),
		Marks:       marks,
		HistoryLen:  12,
	})
}

func (t *terminal) report(events []model.Event) {
	for _, e := range events {
		if line := render.Event(e); line != "" {
			fmt.Fprintln(t.out, line)
		}
	}
	state := t.session.Game.GetState()
	if state.Result != model.ResultNone && !t.recorded {
		t.recorded = true
		if err := t.store.RecordResult(state.Result); err != nil {
			log.Warn().Err(err).Msg("failed to record result")
		}
	}
}

// handle runs one input line and reports whether the client should exit.
func (t *terminal) handle(line string) bool {
	cmd, err := play.ParseCommand(line)
	if err != nil {
		fmt.Fprintln(t.out, err)
		return false
	}

	switch cmd.Kind {
	case play.CommandQuit:
		return true
	case play.CommandHelp:
		fmt.Fprintln(t.out, play.Help)
	case play.CommandBoard:
		t.draw()
	case play.CommandHistory:
		fmt.Fprintln(t.out, render.History(t.session.Game.GetState(), 0))
	case play.CommandMoves:
		destinations := t.session.Game.LegalDestinations(cmd.From)
		if len(destinations) == 0 {
			fmt.Fprintf(t.out, "%s has no legal moves\n", cmd.From)
			break
		}
		t.draw(destinations...)
		fmt.Fprintf(t.out, "%s: %s\n", cmd.From, render.Destinations(destinations))
	case play.CommandMove:
		events, err := t.session.Move(cmd.From, cmd.To, cmd.Promotion)
		if err != nil {
			fmt.Fprintln(t.out, describe(err))
			break
		}
		// Online moves are drawn when the relay echoes them.
		if !t.session.Online() {
			t.draw()
			t.report(events)
		}
	case play.CommandReset:
		if err := t.session.Reset(); err != nil {
			fmt.Fprintln(t.out, err)
			break
		}
		if !t.session.Online() {
			t.recorded = false
			t.draw()
		}
	case play.CommandSave:
		if err := t.store.SaveGame(cmd.Name, t.session.Game.GetState()); err != nil {
			fmt.Fprintln(t.out, err)
			break
		}
		fmt.Fprintf(t.out, "saved %s\n", cmd.Name)
	case play.CommandLoad:
		if t.session.Online() {
			fmt.Fprintln(t.out, "saved games can only be loaded for local play")
			break
		}
		game, err := t.store.ResumeGame(cmd.Name)
		if err != nil {
			fmt.Fprintln(t.out, err)
			break
		}
		t.session = play.NewLocal(game)
		t.recorded = game.GetState().Result != model.ResultNone
		t.draw()
	case play.CommandGames:
		names, err := t.store.ListGames()
		if err != nil {
			fmt.Fprintln(t.out, err)
			break
		}
		if len(names) == 0 {
			fmt.Fprintln(t.out, "no saved games")
			break
		}
		fmt.Fprintln(t.out, strings.Join(names, "\n"))
	}
	return false
}

// receive applies a frame from the relay and redraws when it changed the game.
func (t *terminal) receive(msg ws.Message) {
	events, err := t.session.OnReceive(msg)
	switch {
	case err != nil:
		fmt.Fprintln(t.out, describe(err))
	case msg.Type == ws.MessageTypeReset:
		t.recorded = false
		t.draw()
	case msg.Type == ws.MessageTypeAction:
		t.draw()
		t.report(events)
	}
}

func describe(err error) string {
	switch {
	case errors.Is(err, play.ErrNotYourTurn):
		return "wait for your opponent"
	case errors.Is(err, model.ErrGameOver):
		return "the game is over; type reset to play again"
	case errors.Is(err, model.ErrIllegalDestination):
		return "that piece cannot move there"
	case errors.Is(err, model.ErrInvalidSelection):
		return "pick one of your own pieces that can move"
	}
	return err.Error()
}
