package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/benbeisheim/starchess-backend/internal/model"
	"github.com/fatih/color"
)

var glyphs = map[model.PieceType]string{
	model.King:   "K",
	model.Queen:  "Q",
	model.Rook:   "R",
	model.Bishop: "B",
	model.Knight: "N",
	model.Pawn:   "P",
}

// Square backgrounds.
const (
	lightSquare = color.BgHiWhite
	darkSquare  = color.BgGreen
	selected    = color.BgYellow
	destination = color.BgCyan
	lastMove    = color.BgHiYellow
	checked     = color.BgRed
)

var heading = color.New(color.FgHiBlue, color.Bold)

type Options struct {
	// Perspective is the side drawn at the bottom.
	Perspective model.Color
	// Marks holds extra destinations to highlight, e.g. from a "moves" query.
	Marks []model.Position
	// HistoryLen caps how many plies of notation are printed.
	HistoryLen int
}

// Glyph is the one-letter symbol of a piece: upper case for white.
func Glyph(p *model.Piece) string {
	if p == nil {
		return "."
	}
	g := glyphs[p.Type]
	if p.Color == model.Black {
		return strings.ToLower(g)
	}
	return g
}

// Board writes the position followed by status, captures and history.
func Board(w io.Writer, state model.GameState, opts Options) {
	marks := map[model.Position]color.Attribute{}
	if state.LastMove != nil {
		marks[state.LastMove.From] = lastMove
		marks[state.LastMove.To] = lastMove
	}
	for _, pos := range opts.Marks {
		marks[pos] = destination
	}
	for _, move := range state.LegalMoves {
		marks[move.To] = destination
	}
	if state.SelectedSquare != nil {
		marks[*state.SelectedSquare] = selected
	}
	for _, side := range []model.Color{model.White, model.Black} {
		if king := state.Board.King(side); king != nil && state.Check[side] {
			marks[king.Position] = checked
		}
	}

	rows, files := []int{0, 1, 2, 3, 4, 5, 6, 7}, "  a  b  c  d  e  f  g  h"
	if opts.Perspective == model.Black {
		rows = []int{7, 6, 5, 4, 3, 2, 1, 0}
		files = "  h  g  f  e  d  c  b  a"
	}
	for _, y := range rows {
		fmt.Fprintf(w, "%d ", 8-y)
		for i := 0; i < 8; i++ {
			x := i
			if opts.Perspective == model.Black {
				x = 7 - i
			}
			pos := model.Position{X: x, Y: y}
			fmt.Fprint(w, square(pos, state.Board.Get(pos), marks[pos]))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, files)

	fmt.Fprintln(w, Status(state))
	fmt.Fprintf(w, "white took: %s\n", captured(state.CapturedPieces.White))
	fmt.Fprintf(w, "black took: %s\n", captured(state.CapturedPieces.Black))
	if history := History(state, opts.HistoryLen); history != "" {
		fmt.Fprintln(w, heading.Sprint("moves:"), history)
	}
}

func square(pos model.Position, piece *model.Piece, mark color.Attribute) string {
	bg := lightSquare
	if (pos.X+pos.Y)%2 == 1 {
		bg = darkSquare
	}
	if mark != 0 {
		bg = mark
	}
	fg := color.FgBlack
	if piece != nil && piece.Color == model.White {
		fg = color.FgBlue
	}
	return color.New(bg, fg, color.Bold).Sprint(" " + Glyph(piece) + " ")
}
