package model

import (
	"fmt"
	"sync"
)

type Phase string

const (
	PhaseAwaitingSelection Phase = "awaiting-selection"
	PhasePieceSelected     Phase = "piece-selected"
	PhaseGameOver          Phase = "game-over"
)

type Result string

const (
	ResultNone      Result = ""
	ResultWhiteWins Result = "white-wins"
	ResultBlackWins Result = "black-wins"
)

func winFor(c Color) Result {
	if c == White {
		return ResultWhiteWins
	}
	return ResultBlackWins
}

// Game is driven by one caller at a time; the mutex only guards snapshots
// taken from other goroutines.
type Game struct {
	ID    string
	mu    sync.Mutex
	state GameState
}

type GameState struct {
	Board          *BoardState              `json:"boardState"`
	ToMove         Color                    `json:"toMove"`
	Ply            int                      `json:"ply"`
	Phase          Phase                    `json:"phase"`
	SelectedSquare *Position                `json:"selectedSquare"`
	LegalMoves     []Move                   `json:"legalMoves"`
	Moves          map[PieceID][]Move       `json:"moves"`
	Check          map[Color]bool           `json:"check"`
	Castling       map[Color]CastlingRights `json:"castling"`
	Result         Result                   `json:"result"`
	MoveHistory    []Ply                    `json:"moveHistory"`
	Actions        []string                 `json:"actions"`
	CapturedPieces CapturedPieces           `json:"capturedPieces"`
	LastMove       *SimpleMove              `json:"lastMove"`
}

// CapturedPieces lists what each side has taken.
type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:    id,
		state: newGameState(),
	}
}

func newGameState() GameState {
	state := GameState{
		Board:          newBoard(),
		ToMove:         White,
		Phase:          PhaseAwaitingSelection,
		LegalMoves:     make([]Move, 0),
		MoveHistory:    make([]Ply, 0),
		Actions:        make([]string, 0),
		CapturedPieces: CapturedPieces{White: make([]Piece, 0), Black: make([]Piece, 0)},
	}
	state.refresh()
	return state
}

// refresh recomputes everything derived from the board for the side to move.
func (s *GameState) refresh() {
	s.Moves = LegalMoves(s.Board, s.ToMove, s.Ply)
	s.Check = map[Color]bool{
		White: InCheck(s.Board, White),
		Black: InCheck(s.Board, Black),
	}
	s.Castling = make(map[Color]CastlingRights, 2)
	for _, color := range []Color{White, Black} {
		if king := s.Board.King(color); king != nil {
			s.Castling[color] = castlingAvailability(s.Board, king)
		}
	}
}

func (s GameState) clone() GameState {
	c := s
	c.Board = s.Board.Clone()
	if s.SelectedSquare != nil {
		selected := *s.SelectedSquare
		c.SelectedSquare = &selected
	}
	c.LegalMoves = append([]Move{}, s.LegalMoves...)
	c.Moves = make(map[PieceID][]Move, len(s.Moves))
	for id, moves := range s.Moves {
		c.Moves[id] = append([]Move{}, moves...)
	}
	c.Check = map[Color]bool{White: s.Check[White], Black: s.Check[Black]}
	c.Castling = make(map[Color]CastlingRights, len(s.Castling))
	for color, rights := range s.Castling {
		c.Castling[color] = rights
	}
	c.MoveHistory = append([]Ply{}, s.MoveHistory...)
	c.Actions = append([]string{}, s.Actions...)
	c.CapturedPieces = CapturedPieces{
		White: append([]Piece{}, s.CapturedPieces.White...),
		Black: append([]Piece{}, s.CapturedPieces.Black...),
	}
	if s.LastMove != nil {
		last := *s.LastMove
		c.LastMove = &last
	}
	return c
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state.clone()
}

// Reset replaces the whole state with a fresh starting position.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = newGameState()
}

func (g *Game) LegalDestinations(pos Position) []Position {
	g.mu.Lock()
	defer g.mu.Unlock()

	destinations := []Position{}
	piece := g.state.Board.Get(pos)
	if g.state.Phase == PhaseGameOver || piece == nil || piece.Color != g.state.ToMove {
		return destinations
	}
	for _, move := range g.state.Moves[piece.ID] {
		destinations = append(destinations, move.To)
	}
	return destinations
}

func (g *Game) Select(pos Position) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.selectSquare(pos)
}

func (g *Game) selectSquare(pos Position) error {
	switch g.state.Phase {
	case PhaseGameOver:
		return ErrGameOver
	case PhasePieceSelected:
		return fmt.Errorf("%w: %s is already selected", ErrInvalidSelection, g.state.SelectedSquare)
	}
	if !boundaryCheck(pos) {
		return fmt.Errorf("%w: %w", ErrInvalidSelection, ErrOutOfBounds)
	}
	piece := g.state.Board.Get(pos)
	if piece == nil {
		return fmt.Errorf("%w: %s is empty", ErrInvalidSelection, pos)
	}
	if piece.Color != g.state.ToMove {
		return fmt.Errorf("%w: %s holds a %s piece, %s to move", ErrInvalidSelection, pos, piece.Color, g.state.ToMove)
	}
	moves := g.state.Moves[piece.ID]
	if len(moves) == 0 {
		return fmt.Errorf("%w: %s on %s has no legal moves", ErrInvalidSelection, piece.Type, pos)
	}
	selected := pos
	g.state.SelectedSquare = &selected
	g.state.LegalMoves = append([]Move{}, moves...)
	g.state.Phase = PhasePieceSelected
	return nil
}

func (g *Game) Deselect() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.deselect()
}

func (g *Game) deselect() {
	if g.state.Phase != PhasePieceSelected {
		return
	}
	g.state.SelectedSquare = nil
	g.state.LegalMoves = make([]Move, 0)
	g.state.Phase = PhaseAwaitingSelection
}

// Commit moves the selected piece to to. promotion is only read when the move
// promotes a pawn; an empty value means queen.
func (g *Game) Commit(to Position, promotion PieceType) ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.commit(to, promotion)
}

func (g *Game) commit(to Position, promotion PieceType) ([]Event, error) {
	switch g.state.Phase {
	case PhaseGameOver:
		return nil, ErrGameOver
	case PhaseAwaitingSelection:
		return nil, ErrNoSelection
	}
	if !boundaryCheck(to) {
		return nil, fmt.Errorf("%w: %w", ErrIllegalDestination, ErrOutOfBounds)
	}
	move, ok := findMove(g.state.LegalMoves, to)
	if !ok {
		return nil, fmt.Errorf("%w: %s cannot reach %s", ErrIllegalDestination, g.state.SelectedSquare, to)
	}
	if move.Tag == TagPromotion {
		if promotion == "" {
			promotion = Queen
		}
		if !promotion.CanPromoteTo() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPromotion, promotion)
		}
		move.Promotion = promotion
	}
	return g.executeMove(move), nil
}

func findMove(moves []Move, to Position) (Move, bool) {
	for _, move := range moves {
		if move.To == to {
			return move, true
		}
	}
	return Move{}, false
}

// Click mirrors a board click: commit when a destination of the selected
// piece is clicked, otherwise drop the selection and try to select the square.
func (g *Game) Click(pos Position, promotion PieceType) ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Phase == PhasePieceSelected {
		if _, ok := findMove(g.state.LegalMoves, pos); ok {
			return g.commit(pos, promotion)
		}
		g.deselect()
	}
	return nil, g.selectSquare(pos)
}

func (g *Game) executeMove(move Move) []Event {
	state := &g.state
	ply := g.makePly(move)
	events := []Event{}

	outcome := applyMove(state.Board, move, state.Ply)
	mover := outcome.mover
	events = append(events, Event{Type: EventPieceMoved, From: move.From, To: move.To, Square: move.To, Piece: mover.Type, Side: mover.Color})

	kingCaptured := false
	if outcome.captured != nil {
		captured := *outcome.captured
		ply.CapturedPiece = &captured
		switch mover.Color {
		case White:
			state.CapturedPieces.White = append(state.CapturedPieces.White, captured)
		case Black:
			state.CapturedPieces.Black = append(state.CapturedPieces.Black, captured)
		}
		events = append(events, Event{Type: EventPieceCaptured, Square: captured.Position, Piece: captured.Type, Side: captured.Color})
		kingCaptured = captured.Type == King
	}
	if outcome.castle != nil {
		ply.CastleRookMove = outcome.castle
		events = append(events, Event{Type: EventRookCastled, From: outcome.castle.From, To: outcome.castle.To, Square: outcome.castle.To, Piece: Rook, Side: mover.Color})
	}
	if outcome.promoted != nil {
		ply.Promotion = outcome.promoted.Type
		ply.Notation += "=" + outcome.promoted.Type.getPieceNotation()
		events = append(events, Event{Type: EventPawnPromoted, Square: move.To, Piece: outcome.promoted.Type, Side: mover.Color})
	}

	state.Actions = append(state.Actions, SerializeAction(move))
	state.LastMove = &SimpleMove{From: move.From, To: move.To}
	state.Ply++
	g.deselect()
	g.switchTurn()

	if kingCaptured {
		state.MoveHistory = append(state.MoveHistory, ply)
		state.Moves = make(map[PieceID][]Move)
		return append(events, g.finish(mover.Color))
	}

	state.refresh()
	if state.Check[state.ToMove] {
		ply.Notation += "+"
		events = append(events, Event{Type: EventCheck, Square: state.Board.King(state.ToMove).Position, Side: state.ToMove})
	}
	state.MoveHistory = append(state.MoveHistory, ply)

	// No legal reply loses, whether or not the king is in check.
	if countMoves(state.Moves) == 0 {
		events = append(events, g.finish(mover.Color))
	}
	return events
}

func (g *Game) finish(winner Color) Event {
	g.state.Result = winFor(winner)
	g.state.Phase = PhaseGameOver
	return Event{Type: EventGameOver, Side: winner, Winner: g.state.Result}
}

func (g *Game) makePly(move Move) Ply {
	mover := g.state.Board.Get(move.From)
	return Ply{
		Piece:     *mover,
		From:      move.From,
		To:        move.To,
		Tag:       move.Tag,
		Promotion: move.Promotion,
		Notation:  g.getNotation(move),
	}
}

func (g *Game) getNotation(move Move) string {
	switch move.Tag {
	case TagCastleKingside:
		return "O-O"
	case TagCastleQueenside:
		return "O-O-O"
	}
	piece := g.state.Board.Get(move.From)
	pieceNotationPrefix := piece.Type.getPieceNotation()
	pieceNotationCapture := ""
	if target := g.state.Board.Get(move.capturedSquare()); target != nil && target.Color != piece.Color {
		pieceNotationCapture = "x"
	}
	pawnFileSpecifier := ""
	if piece.Type == Pawn && move.From.X != move.To.X {
		pawnFileSpecifier = move.From.getFileNotation()
	}
	return fmt.Sprintf("%s%s%s%s", pieceNotationPrefix, pawnFileSpecifier, pieceNotationCapture, move.To.getSquareNotation())
}

func (g *Game) switchTurn() {
	g.state.ToMove = g.state.ToMove.Opponent()
}
