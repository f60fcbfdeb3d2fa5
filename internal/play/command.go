package play

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benbeisheim/starchess-backend/internal/model"
)

var ErrUnknownCommand = errors.New("unknown command")

type CommandKind string

const (
	CommandMove    CommandKind = "move"
	CommandMoves   CommandKind = "moves"
	CommandBoard   CommandKind = "board"
	CommandReset   CommandKind = "reset"
	CommandSave    CommandKind = "save"
	CommandLoad    CommandKind = "load"
	CommandGames   CommandKind = "games"
	CommandHistory CommandKind = "history"
	CommandHelp    CommandKind = "help"
	CommandQuit    CommandKind = "quit"
)

// Command is one parsed line of terminal input.
type Command struct {
	Kind      CommandKind
	From      model.Position
	To        model.Position
	Promotion model.PieceType
	Name      string
}

var promotionByLetter = map[string]model.PieceType{
	"q": model.Queen,
	"r": model.Rook,
	"b": model.Bishop,
	"n": model.Knight,
}

const Help = `commands:
  e2 e4 | e2e4      move (append q, r, b or n to choose a promotion: e7e8n)
  moves e2          list destinations of the piece on e2
  board             redraw the board
  history           print the move list
  reset             start a new game (for both players online)
  save <name>       save the current game
  load <name>       resume a saved game (local play)
  games             list saved games
  quit`

// ParseCommand reads lines like "e2 e4", "e7e8n", "moves g1" or "save opening".
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(line)))
	if len(fields) == 0 {
		return Command{Kind: CommandBoard}, nil
	}

	switch fields[0] {
	case "board", "b":
		return Command{Kind: CommandBoard}, nil
	case "reset", "new":
		return Command{Kind: CommandReset}, nil
	case "games":
		return Command{Kind: CommandGames}, nil
	case "history", "h":
		return Command{Kind: CommandHistory}, nil
	case "help", "?":
		return Command{Kind: CommandHelp}, nil
	case "quit", "exit":
		return Command{Kind: CommandQuit}, nil
	case "save", "load":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("usage: %s <name>", fields[0])
		}
		return Command{Kind: CommandKind(fields[0]), Name: fields[1]}, nil
	case "moves", "m":
		if len(fields) != 2 {
			return Command{}, errors.New("usage: moves <square>")
		}
		from, err := model.CoordToPosition(fields[1])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CommandMoves, From: from}, nil
	}

	return parseMove(strings.Join(fields, ""))
}

// parseMove accepts "e2e4" with an optional trailing promotion letter.
func parseMove(text string) (Command, error) {
	if len(text) != 4 && len(text) != 5 {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, text)
	}
	from, err := model.CoordToPosition(text[:2])
	if err != nil {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, text)
	}
	to, err := model.CoordToPosition(text[2:4])
	if err != nil {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, text)
	}
	cmd := Command{Kind: CommandMove, From: from, To: to}
	if len(text) == 5 {
		promotion, ok := promotionByLetter[text[4:]]
		if !ok {
			return Command{}, fmt.Errorf("%w: %q", model.ErrInvalidPromotion, text[4:])
		}
		cmd.Promotion = promotion
	}
	return cmd, nil
}
