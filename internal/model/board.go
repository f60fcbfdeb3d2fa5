package model

import (
	"fmt"
	"sort"
)

type PieceType string

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// CanPromoteTo reports whether a pawn may be replaced by p.
func (p PieceType) CanPromoteTo() bool {
	return p == Queen || p == Rook || p == Bishop || p == Knight
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// PieceID indexes the roster. The grid never owns a piece, it only refers to one.
type PieceID int

const NoPiece PieceID = 0

type Piece struct {
	ID       PieceID   `json:"id"`
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	Position Position  `json:"position"`
	HasMoved bool      `json:"hasMoved"`
	// EnPassantPly is the ply during which this pawn can be taken en passant.
	EnPassantPly int `json:"enPassantPly"`
}

// MovedTwoLastPly reports whether the pawn double-stepped on the ply right before ply.
func (p *Piece) MovedTwoLastPly(ply int) bool {
	return p.Type == Pawn && p.EnPassantPly != 0 && p.EnPassantPly == ply
}

func (p *Piece) forward() int {
	if p.Color == White {
		return -1
	}
	return 1
}

func (p *Piece) enPassantRow() int {
	if p.Color == White {
		return 3
	}
	return 4
}

func (p *Piece) promotionRow() int {
	if p.Color == White {
		return 0
	}
	return 7
}

type BoardState struct {
	Grid   [8][8]PieceID      `json:"grid"`
	Pieces map[PieceID]*Piece `json:"pieces"`
	nextID PieceID
}

func newEmptyBoard() *BoardState {
	return &BoardState{Pieces: make(map[PieceID]*Piece), nextID: 1}
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func newBoard() *BoardState {
	board := newEmptyBoard()
	for x := 0; x < 8; x++ {
		board.place(backRank[x], Black, Position{X: x, Y: 0})
		board.place(Pawn, Black, Position{X: x, Y: 1})
		board.place(Pawn, White, Position{X: x, Y: 6})
		board.place(backRank[x], White, Position{X: x, Y: 7})
	}
	return board
}

func (b *BoardState) InBounds(pos Position) bool {
	return boundaryCheck(pos)
}

// IsEmpty is false for squares off the board.
func (b *BoardState) IsEmpty(pos Position) bool {
	return boundaryCheck(pos) && b.Grid[pos.Y][pos.X] == NoPiece
}

func (b *BoardState) Get(pos Position) *Piece {
	if !boundaryCheck(pos) {
		return nil
	}
	id := b.Grid[pos.Y][pos.X]
	if id == NoPiece {
		return nil
	}
	return b.Pieces[id]
}

// Set writes a raw grid cell. Use place, remove and relocate to keep the roster in step.
func (b *BoardState) Set(pos Position, id PieceID) error {
	if !boundaryCheck(pos) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, pos)
	}
	b.Grid[pos.Y][pos.X] = id
	return nil
}

func (b *BoardState) place(t PieceType, color Color, pos Position) *Piece {
	piece := &Piece{ID: b.nextID, Type: t, Color: color, Position: pos}
	b.nextID++
	b.Pieces[piece.ID] = piece
	b.Grid[pos.Y][pos.X] = piece.ID
	return piece
}

func (b *BoardState) remove(id PieceID) *Piece {
	piece, ok := b.Pieces[id]
	if !ok {
		return nil
	}
	if b.Grid[piece.Position.Y][piece.Position.X] == id {
		b.Grid[piece.Position.Y][piece.Position.X] = NoPiece
	}
	delete(b.Pieces, id)
	return piece
}

func (b *BoardState) relocate(id PieceID, to Position) {
	piece := b.Pieces[id]
	b.Grid[piece.Position.Y][piece.Position.X] = NoPiece
	b.Grid[to.Y][to.X] = id
	piece.Position = to
}

func (b *BoardState) Roster(color Color) []*Piece {
	pieces := make([]*Piece, 0, 16)
	for _, piece := range b.Pieces {
		if piece.Color == color {
			pieces = append(pieces, piece)
		}
	}
	sort.Slice(pieces, func(i, j int) bool { return pieces[i].ID < pieces[j].ID })
	return pieces
}

func (b *BoardState) King(color Color) *Piece {
	for _, piece := range b.Pieces {
		if piece.Type == King && piece.Color == color {
			return piece
		}
	}
	return nil
}

func (b *BoardState) Clone() *BoardState {
	clone := &BoardState{
		Grid:   b.Grid,
		Pieces: make(map[PieceID]*Piece, len(b.Pieces)),
		nextID: b.nextID,
	}
	for id, piece := range b.Pieces {
		copied := *piece
		clone.Pieces[id] = &copied
	}
	return clone
}

// Validate checks that grid cells and roster entries describe the same pieces.
func (b *BoardState) Validate() error {
	seen := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			id := b.Grid[y][x]
			if id == NoPiece {
				continue
			}
			piece, ok := b.Pieces[id]
			if !ok {
				return fmt.Errorf("square %s refers to missing piece %d", Position{X: x, Y: y}, id)
			}
			if piece.Position != (Position{X: x, Y: y}) {
				return fmt.Errorf("piece %d is on %s but believes it is on %s", id, Position{X: x, Y: y}, piece.Position)
			}
			seen++
		}
	}
	if seen != len(b.Pieces) {
		return fmt.Errorf("grid holds %d pieces, roster holds %d", seen, len(b.Pieces))
	}
	return nil
}
