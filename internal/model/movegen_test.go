package model

import (
	"testing"
)

func TestStartingPositionPerft(t *testing.T) {
	tests := []struct {
		depth int
		nodes int
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
	}
	for _, tt := range tests {
		got := Perft(newBoard(), White, 0, tt.depth)
		if got != tt.nodes {
			t.Errorf("perft(%d) = %d, want %d", tt.depth, got, tt.nodes)
		}
	}
}

// Reference positions with well-known perft counts. Pieces off their home
// squares carry a trailing "*" so pawns lose the double step and kings and
// rooks lose castling.
func TestReferencePositionsPerft(t *testing.T) {
	kiwipete := []string{
		"bRa8", "bKe8", "bRh8",
		"bPa7", "bPc7", "bPd7", "bQe7", "bPf7", "bBg7",
		"bBa6*", "bNb6*", "bPe6*", "bNf6*", "bPg6*",
		"wPd5*", "wNe5*",
		"bPb4*", "wPe4*",
		"wNc3*", "wQf3*", "bPh3*",
		"wPa2", "wPb2", "wPc2", "wBd2*", "wBe2*", "wPf2", "wPg2", "wPh2",
		"wRa1", "wKe1", "wRh1",
	}
	position3 := []string{
		"bPc7", "bPd6*", "wKa5*", "wPb5*", "bRh5*",
		"wRb4*", "bPf4*", "bKh4*", "wPe2", "wPg2",
	}
	tests := []struct {
		name   string
		pieces []string
		nodes  []int
	}{
		{"kiwipete", kiwipete, []int{48, 2039, 97862}},
		{"position 3", position3, []int{14, 191, 2812, 43238}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, want := range tt.nodes {
				board := boardWith(t, tt.pieces...)
				if got := Perft(board, White, 0, i+1); got != want {
					t.Errorf("perft(%d) = %d, want %d", i+1, got, want)
				}
			}
		})
	}
}

func TestStartingPositionHasTwentyLegalMoves(t *testing.T) {
	if got := countMoves(LegalMoves(newBoard(), White, 0)); got != 20 {
		t.Fatalf("white has %d legal moves, want 20", got)
	}
	if got := countMoves(LegalMoves(newBoard(), Black, 1)); got != 20 {
		t.Fatalf("black has %d legal moves, want 20", got)
	}
}

func TestNewBoardIsConsistent(t *testing.T) {
	board := newBoard()
	if err := board.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(board.Roster(White)) != 16 || len(board.Roster(Black)) != 16 {
		t.Fatalf("roster sizes %d/%d", len(board.Roster(White)), len(board.Roster(Black)))
	}
	if king := board.King(White); king == nil || king.Position.String() != "e1" {
		t.Fatalf("white king at %v", king)
	}
}

func TestGridQueries(t *testing.T) {
	board := boardWith(t, "wKe1", "bKe8")
	if board.IsEmpty(Position{X: -1, Y: 0}) {
		t.Error("off-board square reported empty")
	}
	if board.IsEmpty(mustPos(t, "e1")) {
		t.Error("occupied square reported empty")
	}
	if !board.IsEmpty(mustPos(t, "e4")) {
		t.Error("empty square reported occupied")
	}
	if board.Get(Position{X: 8, Y: 3}) != nil {
		t.Error("off-board get returned a piece")
	}
	if err := board.Set(Position{X: 3, Y: 9}, NoPiece); err == nil {
		t.Error("off-board set accepted")
	}
}

func TestSlidingPieceRays(t *testing.T) {
	tests := []struct {
		name  string
		specs []string
		from  string
		want  []string
		not   []string
	}{
		{
			name:  "rook stops on friendly and captures enemy",
			specs: []string{"wKa1", "bKh8", "wRd4*", "wPd6*", "bPf4*"},
			from:  "d4",
			want:  []string{"d5", "e4", "f4", "d1", "a4"},
			not:   []string{"d6", "d7", "g4"},
		},
		{
			name:  "bishop diagonals",
			specs: []string{"wKa1", "bKh8", "wBc1", "bNe3*"},
			from:  "c1",
			want:  []string{"d2", "e3", "b2", "a3"},
			not:   []string{"f4"},
		},
		{
			name:  "queen combines both",
			specs: []string{"wKa1", "bKh8", "wQd1"},
			from:  "d1",
			want:  []string{"d8", "h5", "b1", "h1"},
			not:   []string{"a1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gameFrom(boardWith(t, tt.specs...), White, 10)
			got := destinations(g, t, tt.from)
			for _, sq := range tt.want {
				if !got[sq] {
					t.Errorf("missing %s in %v", sq, got)
				}
			}
			for _, sq := range tt.not {
				if got[sq] {
					t.Errorf("unexpected %s in %v", sq, got)
				}
			}
		})
	}
}

func TestKnightAndKingOffsetsStayOnBoard(t *testing.T) {
	g := gameFrom(boardWith(t, "wKa1", "bKh8", "wNh1"), White, 10)
	if got := destinations(g, t, "h1"); len(got) != 2 || !got["g3"] || !got["f2"] {
		t.Fatalf("knight on h1 reaches %v", got)
	}
	if got := destinations(g, t, "a1"); len(got) != 3 {
		t.Fatalf("king on a1 reaches %v", got)
	}
}

func TestPawnAdvances(t *testing.T) {
	g := gameFrom(boardWith(t, "wKa1", "bKh8", "wPe2", "wPc2", "bPc3*", "wPg2", "bNg4*"), White, 10)
	if got := destinations(g, t, "e2"); len(got) != 2 || !got["e3"] || !got["e4"] {
		t.Errorf("e2 pawn reaches %v", got)
	}
	if got := destinations(g, t, "c2"); len(got) != 0 {
		t.Errorf("blocked c2 pawn reaches %v", got)
	}
	if got := destinations(g, t, "g2"); len(got) != 1 || !got["g3"] {
		t.Errorf("g2 pawn with g4 blocked reaches %v", got)
	}

	moved := gameFrom(boardWith(t, "wKa1", "bKh8", "wPe3*"), White, 10)
	if got := destinations(moved, t, "e3"); len(got) != 1 {
		t.Errorf("moved pawn reaches %v", got)
	}
}

func TestPinnedPieceCannotLeaveTheLine(t *testing.T) {
	g := gameFrom(boardWith(t, "wKe1", "wNe2", "bRe8*", "bKa8"), White, 10)
	if got := g.LegalDestinations(mustPos(t, "e2")); len(got) != 0 {
		t.Fatalf("pinned knight reaches %v", got)
	}
}

func TestKingMayNotStepIntoAttack(t *testing.T) {
	g := gameFrom(boardWith(t, "wKe1", "bRd8*", "bKa8"), White, 10)
	got := destinations(g, t, "e1")
	for _, sq := range []string{"d1", "d2"} {
		if got[sq] {
			t.Errorf("king may step onto attacked %s", sq)
		}
	}
	if !got["f2"] {
		t.Errorf("king cannot reach f2: %v", got)
	}
}

func TestCheckFlags(t *testing.T) {
	board := boardWith(t, "wKe1", "bRe8*", "bKa8")
	if !InCheck(board, White) {
		t.Error("white should be in check")
	}
	if InCheck(board, Black) {
		t.Error("black should not be in check")
	}
	g := gameFrom(board, White, 10)
	if !g.GetState().Check[White] {
		t.Error("state check flag not set")
	}
}

func TestCastlingConditions(t *testing.T) {
	tests := []struct {
		name      string
		specs     []string
		kingside  bool
		queenside bool
	}{
		{"both available", []string{"wKe1", "wRh1", "wRa1", "bKe8"}, true, true},
		{"king has moved", []string{"wKe1*", "wRh1", "wRa1", "bKe8"}, false, false},
		{"kingside rook moved", []string{"wKe1", "wRh1*", "wRa1", "bKe8"}, false, true},
		{"piece between", []string{"wKe1", "wRh1", "wNg1", "wRa1", "wBc1", "bKe8"}, false, false},
		{"only b1 blocked", []string{"wKe1", "wRa1", "wNb1", "bKe8"}, false, false},
		{"king in check", []string{"wKe1", "wRh1", "wRa1", "bRe7*", "bKa8"}, false, false},
		{"pass-through attacked", []string{"wKe1", "wRh1", "wRa1", "bRf8*", "bKa8"}, false, true},
		{"landing attacked", []string{"wKe1", "wRh1", "wRa1", "bRc8*", "bKh8"}, true, false},
		{"rook square attacked does not matter", []string{"wKe1", "wRh1", "wRa1", "bRb8*", "bKh8"}, true, true},
		{"pawn covers f1", []string{"wKe1", "wRh1", "bPg2*", "bKa8"}, false, false},
		{"rook missing", []string{"wKe1", "bKe8"}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gameFrom(boardWith(t, tt.specs...), White, 10)
			got := destinations(g, t, "e1")
			if got["g1"] != tt.kingside {
				t.Errorf("kingside castle offered = %v, want %v", got["g1"], tt.kingside)
			}
			if got["c1"] != tt.queenside {
				t.Errorf("queenside castle offered = %v, want %v", got["c1"], tt.queenside)
			}
			rights := g.GetState().Castling[White]
			if rights.Kingside != tt.kingside || rights.Queenside != tt.queenside {
				t.Errorf("castling rights %+v", rights)
			}
		})
	}
}

func TestBlackCastlingUsesItsOwnRank(t *testing.T) {
	g := gameFrom(boardWith(t, "wKe1", "bKe8", "bRa8", "bRh8"), Black, 11)
	got := destinations(g, t, "e8")
	if !got["g8"] || !got["c8"] {
		t.Fatalf("black castling destinations missing: %v", got)
	}
}

func TestPseudoLegalMovesHonourEnPassantWindow(t *testing.T) {
	board := boardWith(t, "wKa1", "bKh8", "wPe5*", "bPd5*")
	pawn := board.Get(mustPos(t, "e5"))
	board.Get(mustPos(t, "d5")).EnPassantPly = 7

	hasEnPassant := func(ply int) bool {
		for _, m := range PseudoLegalMoves(board, pawn, ply) {
			if m.Tag == TagEnPassant && m.To.String() == "d6" {
				return true
			}
		}
		return false
	}
	if !hasEnPassant(7) {
		t.Error("en passant missing on the reply ply")
	}
	if hasEnPassant(9) {
		t.Error("en passant offered after the window closed")
	}
}

func TestEnPassantDiscoveredCheckIsFiltered(t *testing.T) {
	// Taking d5 en passant would open the fifth rank onto the white king.
	board := boardWith(t, "wKa5*", "wPe5*", "bPd5*", "bRh5*", "bKh8")
	board.Get(mustPos(t, "d5")).EnPassantPly = 5
	g := gameFrom(board, White, 5)
	if got := destinations(g, t, "e5"); got["d6"] {
		t.Fatalf("en passant exposing the king was allowed: %v", got)
	}
}
