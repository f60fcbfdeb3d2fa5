package model

import (
	"fmt"
	"strings"
)

// Action tokens have the fixed shape "<from><to>:<tag>[=<promo>]", for example
// "e2e4:double-pawn-step", "e1g1:castle-kingside" or "e7e8:promotion=q".

var promotionLetters = map[PieceType]string{
	Queen:  "q",
	Rook:   "r",
	Bishop: "b",
	Knight: "n",
}

var knownTags = map[MoveTag]bool{
	TagNone:            true,
	TagCastleKingside:  true,
	TagCastleQueenside: true,
	TagEnPassant:       true,
	TagDoublePawnStep:  true,
	TagPromotion:       true,
}

func SerializeAction(move Move) string {
	token := move.From.getSquareNotation() + move.To.getSquareNotation() + ":" + string(move.Tag)
	if move.Tag == TagPromotion {
		promotion := move.Promotion
		if !promotion.CanPromoteTo() {
			promotion = Queen
		}
		token += "=" + promotionLetters[promotion]
	}
	return token
}

func ParseAction(token string) (Move, error) {
	squares, tagPart, ok := strings.Cut(token, ":")
	if !ok || len(squares) != 4 {
		return Move{}, fmt.Errorf("%w: %q", ErrMalformedToken, token)
	}
	from, err := CoordToPosition(squares[:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q: %w", ErrMalformedToken, token, err)
	}
	to, err := CoordToPosition(squares[2:])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q: %w", ErrMalformedToken, token, err)
	}

	move := Move{From: from, To: to}
	tag, promo, hasPromo := strings.Cut(tagPart, "=")
	move.Tag = MoveTag(tag)
	if !knownTags[move.Tag] {
		return Move{}, fmt.Errorf("%w: unknown tag %q", ErrMalformedToken, tag)
	}
	if hasPromo != (move.Tag == TagPromotion) {
		return Move{}, fmt.Errorf("%w: promotion piece must accompany the promotion tag: %q", ErrMalformedToken, token)
	}
	if hasPromo {
		for pieceType, letter := range promotionLetters {
			if letter == promo {
				move.Promotion = pieceType
			}
		}
		if move.Promotion == "" {
			return Move{}, fmt.Errorf("%w: unknown promotion piece %q", ErrMalformedToken, promo)
		}
	}
	return move, nil
}

// FindMove returns the engine's own legal move matching from, to and promotion
// for the side to move, without touching the game.
func (g *Game) FindMove(from, to Position, promotion PieceType) (Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Phase == PhaseGameOver {
		return Move{}, ErrGameOver
	}
	piece := g.state.Board.Get(from)
	if piece == nil || piece.Color != g.state.ToMove {
		return Move{}, fmt.Errorf("%w: %s", ErrInvalidSelection, from)
	}
	move, ok := findMove(g.state.Moves[piece.ID], to)
	if !ok {
		return Move{}, fmt.Errorf("%w: %s cannot reach %s", ErrIllegalDestination, from, to)
	}
	if move.Tag == TagPromotion {
		if promotion == "" {
			promotion = Queen
		}
		if !promotion.CanPromoteTo() {
			return Move{}, fmt.Errorf("%w: %q", ErrInvalidPromotion, promotion)
		}
		move.Promotion = promotion
	}
	return move, nil
}

// ApplyAction decodes a token and runs it through Select and Commit. A token
// that does not parse, or that names a move the engine does not consider
// legal, leaves the game exactly as it was.
func (g *Game) ApplyAction(token string) ([]Event, error) {
	move, err := ParseAction(token)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Phase == PhaseGameOver {
		return nil, ErrGameOver
	}
	prevPhase, prevSquare, prevMoves := g.state.Phase, g.state.SelectedSquare, g.state.LegalMoves
	restore := func() {
		g.state.Phase, g.state.SelectedSquare, g.state.LegalMoves = prevPhase, prevSquare, prevMoves
	}

	g.deselect()
	if err := g.selectSquare(move.From); err != nil {
		restore()
		return nil, err
	}
	legal, ok := findMove(g.state.LegalMoves, move.To)
	if !ok || legal.Tag != move.Tag {
		restore()
		return nil, fmt.Errorf("%w: %q", ErrIllegalDestination, token)
	}
	events, err := g.commit(move.To, move.Promotion)
	if err != nil {
		restore()
		return nil, err
	}
	return events, nil
}

// ReplayActions builds a game by applying tokens in order from the start position.
func ReplayActions(id string, tokens []string) (*Game, error) {
	game := NewGame(id)
	for i, token := range tokens {
		if _, err := game.ApplyAction(token); err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
	}
	return game, nil
}
