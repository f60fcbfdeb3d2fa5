package model

type MoveTag string

const (
	TagNone            MoveTag = "none"
	TagCastleKingside  MoveTag = "castle-kingside"
	TagCastleQueenside MoveTag = "castle-queenside"
	TagEnPassant       MoveTag = "en-passant"
	TagDoublePawnStep  MoveTag = "double-pawn-step"
	TagPromotion       MoveTag = "promotion"
)

// Move is the unit of state transition. Promotion is set only for TagPromotion.
type Move struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Tag       MoveTag   `json:"tag"`
	Promotion PieceType `json:"promotion,omitempty"`
}

// capturedSquare is where a capture removes a piece from, which differs from
// To only for en passant.
func (m Move) capturedSquare() Position {
	if m.Tag == TagEnPassant {
		return Position{X: m.To.X, Y: m.From.Y}
	}
	return m.To
}

type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

type Ply struct {
	Piece          Piece           `json:"piece"`
	From           Position        `json:"from"`
	To             Position        `json:"to"`
	Tag            MoveTag         `json:"tag"`
	CapturedPiece  *Piece          `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      PieceType       `json:"promotion"`
	Notation       string          `json:"notation"`
}

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

type EventType string

const (
	EventPieceMoved    EventType = "piece-moved"
	EventPieceCaptured EventType = "piece-captured"
	EventRookCastled   EventType = "rook-castled"
	EventPawnPromoted  EventType = "pawn-promoted"
	EventCheck         EventType = "check"
	EventGameOver      EventType = "game-over"
)

// Event tells presentation collaborators (sound, animation) what a commit did.
type Event struct {
	Type   EventType `json:"type"`
	Square Position  `json:"square"`
	From   Position  `json:"from"`
	To     Position  `json:"to"`
	Piece  PieceType `json:"piece,omitempty"`
	Side   Color     `json:"side,omitempty"`
	Winner Result    `json:"winner,omitempty"`
}
