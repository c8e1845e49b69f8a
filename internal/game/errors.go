package game

import "errors"

var (
	ErrNotEnoughSeats   = errors.New("at least 2 seats required")
	ErrTooManySeats     = errors.New("more seats than one deck can deal")
	ErrInvalidBlinds    = errors.New("invalid blind amounts")
	ErrDuplicateSeat    = errors.New("duplicate seat")
	ErrDealerOutOfRange = errors.New("dealer index out of range")
	ErrUnknownPot       = errors.New("unknown pot")
	ErrNoWinners        = errors.New("pot has no winners")
	ErrInvalidPot       = errors.New("invalid pot")

	// ErrHandInProgress is returned by configuration changes attempted mid-hand.
	ErrHandInProgress = errors.New("hand in progress")
)
