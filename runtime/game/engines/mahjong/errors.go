package mahjong

import "errors"

var (
	ErrMalformedInput       = errors.New("malformed input")
	ErrEmptyHand            = errors.New("empty hand")
	ErrIllegalClaim         = errors.New("illegal claim")
	ErrIllegalDecomposition = errors.New("illegal decomposition")
	ErrTileNotInHand        = errors.New("tile not in hand")
	ErrIllegalTransition    = errors.New("illegal turn transition")
	ErrConservation         = errors.New("tile conservation violated")
	ErrInvalidWall          = errors.New("invalid wall")
	ErrGameEnded            = errors.New("game already ended")
)
