package checkout

import "errors"

var (
	// ErrInvalidRequest covers malformed or missing input; surfaced as 400.
	ErrInvalidRequest = errors.New("invalid checkout request")
	// ErrProvider covers payment-provider failures; surfaced as 500.
	ErrProvider = errors.New("payment provider error")
)
