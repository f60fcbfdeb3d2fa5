package model

type moveFunc func(b *BoardState, piece *Piece, ply int) []Move

var (
	rookDirs   = []Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	bishopDirs = []Position{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	knightDirs = []Position{{X: 2, Y: 1}, {X: 2, Y: -1}, {X: -2, Y: 1}, {X: -2, Y: -1}, {X: 1, Y: 2}, {X: 1, Y: -2}, {X: -1, Y: 2}, {X: -1, Y: -2}}
	kingDirs   = []Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	queenDirs  = append(append([]Position{}, rookDirs...), bishopDirs...)
)

// Filled in init: the king generator reaches back into this table through
// the attack set used for castling.
var pseudoLegalMoves map[PieceType]moveFunc

func init() {
	pseudoLegalMoves = map[PieceType]moveFunc{
		Pawn:   getPsuedoPawnMoves,
		Knight: getPsuedoKnightMoves,
		Bishop: getPsuedoBishopMoves,
		Rook:   getPsuedoRookMoves,
		Queen:  getPsuedoQueenMoves,
		King:   getPsuedoKingMoves,
	}
}

// PseudoLegalMoves ignores whether the move leaves the mover's own king attacked.
func PseudoLegalMoves(b *BoardState, piece *Piece, ply int) []Move {
	gen, ok := pseudoLegalMoves[piece.Type]
	if !ok {
		return nil
	}
	return gen(b, piece, ply)
}

func slide(b *BoardState, piece *Piece, dirs []Position) []Move {
	moves := []Move{}
	for _, dir := range dirs {
		targetPos := piece.Position.add(dir)
		for boundaryCheck(targetPos) {
			target := b.Get(targetPos)
			if target == nil {
				moves = append(moves, Move{From: piece.Position, To: targetPos, Tag: TagNone})
			} else if target.Color != piece.Color {
				moves = append(moves, Move{From: piece.Position, To: targetPos, Tag: TagNone})
				break
			} else {
				break
			}
			targetPos = targetPos.add(dir)
		}
	}
	return moves
}

func step(b *BoardState, piece *Piece, dirs []Position) []Move {
	moves := []Move{}
	for _, dir := range dirs {
		targetPos := piece.Position.add(dir)
		if !boundaryCheck(targetPos) {
			continue
		}
		if target := b.Get(targetPos); target == nil || target.Color != piece.Color {
			moves = append(moves, Move{From: piece.Position, To: targetPos, Tag: TagNone})
		}
	}
	return moves
}

func getPsuedoRookMoves(b *BoardState, piece *Piece, _ int) []Move {
	return slide(b, piece, rookDirs)
}

func getPsuedoBishopMoves(b *BoardState, piece *Piece, _ int) []Move {
	return slide(b, piece, bishopDirs)
}

func getPsuedoQueenMoves(b *BoardState, piece *Piece, _ int) []Move {
	return slide(b, piece, queenDirs)
}

func getPsuedoKnightMoves(b *BoardState, piece *Piece, _ int) []Move {
	return step(b, piece, knightDirs)
}

func getPsuedoPawnMoves(b *BoardState, piece *Piece, ply int) []Move {
	pawnMoves := []Move{}
	dir := piece.forward()
	advance := func(to Position, tag MoveTag) {
		if to.Y == piece.promotionRow() {
			pawnMoves = append(pawnMoves, Move{From: piece.Position, To: to, Tag: TagPromotion, Promotion: Queen})
			return
		}
		pawnMoves = append(pawnMoves, Move{From: piece.Position, To: to, Tag: tag})
	}

	one := piece.Position.add(Position{X: 0, Y: dir})
	if b.IsEmpty(one) {
		advance(one, TagNone)
		two := one.add(Position{X: 0, Y: dir})
		if !piece.HasMoved && b.IsEmpty(two) {
			advance(two, TagDoublePawnStep)
		}
	}

	for _, dx := range []int{-1, 1} {
		diag := piece.Position.add(Position{X: dx, Y: dir})
		if target := b.Get(diag); target != nil && target.Color != piece.Color {
			advance(diag, TagNone)
		}
	}

	if piece.Position.Y != piece.enPassantRow() {
		return pawnMoves
	}
	for _, dx := range []int{-1, 1} {
		beside := b.Get(piece.Position.add(Position{X: dx, Y: 0}))
		if beside == nil || beside.Color == piece.Color || !beside.MovedTwoLastPly(ply) {
			continue
		}
		to := piece.Position.add(Position{X: dx, Y: dir})
		if b.IsEmpty(to) {
			pawnMoves = append(pawnMoves, Move{From: piece.Position, To: to, Tag: TagEnPassant})
		}
	}
	return pawnMoves
}

func getPsuedoKingMoves(b *BoardState, piece *Piece, _ int) []Move {
	kingMoves := step(b, piece, kingDirs)
	rights := castlingAvailability(b, piece)
	if rights.Kingside {
		kingMoves = append(kingMoves, Move{From: piece.Position, To: piece.Position.add(Position{X: 2}), Tag: TagCastleKingside})
	}
	if rights.Queenside {
		kingMoves = append(kingMoves, Move{From: piece.Position, To: piece.Position.add(Position{X: -2}), Tag: TagCastleQueenside})
	}
	return kingMoves
}

type CastlingRights struct {
	Kingside  bool `json:"kingside"`
	Queenside bool `json:"queenside"`
}

func castlingAvailability(b *BoardState, king *Piece) CastlingRights {
	rights := CastlingRights{}
	if king.HasMoved {
		return rights
	}
	attacked := attackedSquares(b, king.Color.Opponent())
	if attacked[king.Position] {
		return rights
	}
	y := king.Position.Y
	canCastle := func(rookX, dir int) bool {
		rook := b.Get(Position{X: rookX, Y: y})
		if rook == nil || rook.Type != Rook || rook.Color != king.Color || rook.HasMoved {
			return false
		}
		for x := king.Position.X + dir; x != rookX; x += dir {
			if !b.IsEmpty(Position{X: x, Y: y}) {
				return false
			}
		}
		for i := 1; i <= 2; i++ {
			if attacked[Position{X: king.Position.X + dir*i, Y: y}] {
				return false
			}
		}
		return true
	}
	rights.Kingside = canCastle(7, 1)
	rights.Queenside = canCastle(0, -1)
	return rights
}

// castleRook returns where the partner rook starts and lands for a castling move.
func castleRook(m Move) CastleRookMove {
	if m.Tag == TagCastleKingside {
		return CastleRookMove{From: Position{X: 7, Y: m.From.Y}, To: Position{X: m.To.X - 1, Y: m.From.Y}}
	}
	return CastleRookMove{From: Position{X: 0, Y: m.From.Y}, To: Position{X: m.To.X + 1, Y: m.From.Y}}
}

// attackedSquares is the capture pattern of every piece of side, without
// castling and with pawns covering both diagonals whether or not they are occupied.
func attackedSquares(b *BoardState, side Color) map[Position]bool {
	attacked := make(map[Position]bool, 64)
	for _, piece := range b.Roster(side) {
		switch piece.Type {
		case Pawn:
			for _, dx := range []int{-1, 1} {
				diag := piece.Position.add(Position{X: dx, Y: piece.forward()})
				if boundaryCheck(diag) {
					attacked[diag] = true
				}
			}
		case King:
			for _, m := range step(b, piece, kingDirs) {
				attacked[m.To] = true
			}
		default:
			for _, m := range PseudoLegalMoves(b, piece, 0) {
				attacked[m.To] = true
			}
		}
	}
	return attacked
}

func IsSquareAttacked(b *BoardState, by Color, pos Position) bool {
	return attackedSquares(b, by)[pos]
}

func InCheck(b *BoardState, side Color) bool {
	king := b.King(side)
	if king == nil {
		return false
	}
	return IsSquareAttacked(b, side.Opponent(), king.Position)
}

// LegalMoves simulates every pseudo-legal move of side on a scratch board and
// keeps the ones that do not leave side's king attacked.
func LegalMoves(b *BoardState, side Color, ply int) map[PieceID][]Move {
	legal := make(map[PieceID][]Move)
	for _, piece := range b.Roster(side) {
		moves := []Move{}
		for _, move := range PseudoLegalMoves(b, piece, ply) {
			if !leavesKingAttacked(b, side, move, ply) {
				moves = append(moves, move)
			}
		}
		legal[piece.ID] = moves
	}
	return legal
}

func leavesKingAttacked(b *BoardState, side Color, move Move, ply int) bool {
	scratch := b.Clone()
	applyMove(scratch, move, ply)
	return InCheck(scratch, side)
}

func countMoves(legal map[PieceID][]Move) int {
	n := 0
	for _, moves := range legal {
		n += len(moves)
	}
	return n
}

var promotionChoices = []PieceType{Queen, Rook, Bishop, Knight}

// Perft counts leaf positions reachable in depth plies, with each promotion
// counted once per choice of piece.
func Perft(b *BoardState, side Color, ply int, depth int) int {
	if depth == 0 {
		return 1
	}
	nodes := 0
	for _, moves := range LegalMoves(b, side, ply) {
		for _, move := range moves {
			variants := []Move{move}
			if move.Tag == TagPromotion {
				variants = variants[:0]
				for _, promo := range promotionChoices {
					move.Promotion = promo
					variants = append(variants, move)
				}
			}
			for _, variant := range variants {
				if depth == 1 {
					nodes++
					continue
				}
				scratch := b.Clone()
				applyMove(scratch, variant, ply)
				nodes += Perft(scratch, side.Opponent(), ply+1, depth-1)
			}
		}
	}
	return nodes
}

type moveOutcome struct {
	mover    Piece
	captured *Piece
	castle   *CastleRookMove
	promoted *Piece
}

// applyMove performs move on b in one step: capture, relocation, and the
// compound effect named by the move tag. It trusts the caller about legality.
func applyMove(b *BoardState, move Move, ply int) moveOutcome {
	mover := b.Get(move.From)
	outcome := moveOutcome{mover: *mover}

	if target := b.Get(move.capturedSquare()); target != nil && target.Color != mover.Color {
		captured := *b.remove(target.ID)
		outcome.captured = &captured
	}

	b.relocate(mover.ID, move.To)
	mover.HasMoved = true

	switch move.Tag {
	case TagDoublePawnStep:
		mover.EnPassantPly = ply + 1
	case TagCastleKingside, TagCastleQueenside:
		rookMove := castleRook(move)
		if rook := b.Get(rookMove.From); rook != nil {
			b.relocate(rook.ID, rookMove.To)
			rook.HasMoved = true
			outcome.castle = &rookMove
		}
	case TagPromotion:
		promotion := move.Promotion
		if !promotion.CanPromoteTo() {
			promotion = Queen
		}
		b.remove(mover.ID)
		promoted := b.place(promotion, mover.Color, move.To)
		promoted.HasMoved = true
		outcome.promoted = promoted
	}
	return outcome
}
