package model

import (
	"testing"
)

var pieceLetters = map[byte]PieceType{
	'K': King, 'Q': Queen, 'R': Rook, 'B': Bishop, 'N': Knight, 'P': Pawn,
}

// boardWith places pieces written as "wKe1" or "bPd7". Pieces off their
// starting squares should be marked moved with a trailing "*", e.g. "wPe5*".
func boardWith(t *testing.T, placements ...string) *BoardState {
	t.Helper()
	board := newEmptyBoard()
	for _, p := range placements {
		if len(p) < 4 {
			t.Fatalf("bad placement %q", p)
		}
		color := White
		if p[0] == 'b' {
			color = Black
		}
		pieceType, ok := pieceLetters[p[1]]
		if !ok {
			t.Fatalf("bad piece letter in %q", p)
		}
		pos := mustPos(t, p[2:4])
		if board.Get(pos) != nil {
			t.Fatalf("square %s used twice", p[2:4])
		}
		piece := board.place(pieceType, color, pos)
		piece.HasMoved = len(p) > 4 && p[4] == '*'
	}
	return board
}

func gameFrom(board *BoardState, toMove Color, ply int) *Game {
	state := GameState{
		Board:          board,
		ToMove:         toMove,
		Ply:            ply,
		Phase:          PhaseAwaitingSelection,
		LegalMoves:     make([]Move, 0),
		MoveHistory:    make([]Ply, 0),
		Actions:        make([]string, 0),
		CapturedPieces: CapturedPieces{White: make([]Piece, 0), Black: make([]Piece, 0)},
	}
	state.refresh()
	return &Game{ID: "test", state: state}
}

func mustPos(t *testing.T, coord string) Position {
	t.Helper()
	pos, err := CoordToPosition(coord)
	if err != nil {
		t.Fatalf("invalid coordinate %q: %v", coord, err)
	}
	return pos
}

// play selects and commits each "e2e4"-style move, failing on the first error.
func play(t *testing.T, g *Game, moves ...string) []Event {
	t.Helper()
	var events []Event
	for _, m := range moves {
		if err := g.Select(mustPos(t, m[:2])); err != nil {
			t.Fatalf("select %s: %v", m, err)
		}
		promotion := PieceType("")
		if len(m) == 5 {
			for pieceType, letter := range promotionLetters {
				if letter == m[4:] {
					promotion = pieceType
				}
			}
		}
		evs, err := g.Commit(mustPos(t, m[2:4]), promotion)
		if err != nil {
			t.Fatalf("commit %s: %v", m, err)
		}
		events = evs
		if err := g.state.Board.Validate(); err != nil {
			t.Fatalf("after %s: %v", m, err)
		}
	}
	return events
}

func destinations(g *Game, t *testing.T, coord string) map[string]bool {
	t.Helper()
	set := map[string]bool{}
	for _, pos := range g.LegalDestinations(mustPos(t, coord)) {
		set[pos.String()] = true
	}
	return set
}

func hasEvent(events []Event, eventType EventType) bool {
	for _, e := range events {
		if e.Type == eventType {
			return true
		}
	}
	return false
}
