package model

import "fmt"

// Position is a square. X is the file (0 = a), Y counts rows down from
// black's back rank (0 = rank 8, 7 = rank 1).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string {
	if !boundaryCheck(p) {
		return fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return p.getSquareNotation()
}

func (p Position) getSquareNotation() string {
	return fmt.Sprintf("%c%d", p.X+97, 8-p.Y)
}

func (p Position) getFileNotation() string {
	return fmt.Sprintf("%c", p.X+97)
}

func (p Position) add(dir Position) Position {
	return Position{X: p.X + dir.X, Y: p.Y + dir.Y}
}

func boundaryCheck(position Position) bool {
	return position.X >= 0 && position.X < 8 && position.Y >= 0 && position.Y < 8
}

// CoordToPosition parses algebraic coordinates such as "e4".
func CoordToPosition(coord string) (Position, error) {
	if len(coord) != 2 {
		return Position{}, fmt.Errorf("%w: %q", ErrOutOfBounds, coord)
	}
	pos := Position{X: int(coord[0] - 'a'), Y: 8 - int(coord[1]-'0')}
	if coord[0] < 'a' || coord[1] < '0' || !boundaryCheck(pos) {
		return Position{}, fmt.Errorf("%w: %q", ErrOutOfBounds, coord)
	}
	return pos, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
