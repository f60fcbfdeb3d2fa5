package model

import "errors"

var (
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrIllegalDestination = errors.New("illegal destination")
	ErrNoSelection        = errors.New("no piece selected")
	ErrInvalidPromotion   = errors.New("invalid promotion piece")
	ErrMalformedToken     = errors.New("malformed action token")
	ErrOutOfBounds        = errors.New("square out of bounds")
	ErrGameOver           = errors.New("game is over")
)
