package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/benbeisheim/starchess-backend/internal/model"
)

// Status is a one-line summary of whose turn it is and how the game stands.
func Status(state model.GameState) string {
	switch state.Result {
	case model.ResultWhiteWins:
		return "game over: white wins"
	case model.ResultBlackWins:
		return "game over: black wins"
	}
	line := fmt.Sprintf("%s to move (ply %d)", state.ToMove, state.Ply)
	if state.Check[state.ToMove] {
		line += ", check"
	}
	if state.SelectedSquare != nil {
		line += fmt.Sprintf(", %s selected", state.SelectedSquare)
	}
	return line
}

// History joins the last n plies in numbered pairs. n <= 0 means all of them.
func History(state model.GameState, n int) string {
	plies := state.MoveHistory
	start := 0
	if n > 0 && len(plies) > n {
		start = len(plies) - n
		// Start on a white move so numbering stays paired.
		if start%2 == 1 {
			start--
		}
	}
	var b strings.Builder
	for i := start; i < len(plies); i++ {
		if i%2 == 0 {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d.", i/2+1)
		}
		b.WriteByte(' ')
		b.WriteString(plies[i].Notation)
	}
	return b.String()
}

// Destinations lists squares in notation order, e.g. "e3 e4".
func Destinations(squares []model.Position) string {
	names := make([]string, len(squares))
	for i, pos := range squares {
		names[i] = pos.String()
	}
	sort.Strings(names)
	return strings.Join(names, " ")
}

func captured(pieces []model.Piece) string {
	if len(pieces) == 0 {
		return "-"
	}
	glyphs := make([]string, len(pieces))
	for i := range pieces {
		glyphs[i] = Glyph(&pieces[i])
	}
	return strings.Join(glyphs, " ")
}

// Event is a short line describing what a commit did, or "" for plain moves.
func Event(e model.Event) string {
	switch e.Type {
	case model.EventPieceCaptured:
		return fmt.Sprintf("%s %s captured on %s", e.Side, e.Piece, e.Square)
	case model.EventRookCastled:
		return fmt.Sprintf("%s castled", e.Side)
	case model.EventPawnPromoted:
		return fmt.Sprintf("%s pawn promoted to %s on %s", e.Side, e.Piece, e.Square)
	case model.EventCheck:
		return fmt.Sprintf("%s is in check", e.Side)
	case model.EventGameOver:
		return fmt.Sprintf("game over: %s wins", e.Side)
	}
	return ""
}
