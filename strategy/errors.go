package strategy

import "errors"

var (
	// ErrInvalidParams indicates that a plan request carries unusable balance parameters.
	ErrInvalidParams = errors.New("invalid balance parameters")

	// ErrUnknownStrategy indicates that a strategy name is not recognized.
	ErrUnknownStrategy = errors.New("unknown boundary strategy")

	// ErrUnknownPolicy indicates that a negotiation policy name is not recognized.
	ErrUnknownPolicy = errors.New("unknown negotiation policy")
)
