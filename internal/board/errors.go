package board

import "errors"

var (
	// ErrInvalidConfig is returned by New and SetContainer for unusable settings.
	ErrInvalidConfig = errors.New("invalid board config")
	// ErrDuplicateKey is returned when an item key is already on the board.
	ErrDuplicateKey = errors.New("duplicate item key")
	// ErrInvalidItem is returned for items without a key or body, or with a
	// non-finite position.
	ErrInvalidItem = errors.New("invalid item")
	// ErrUnknownKey is returned when an operation names an item that is not
	// on the board.
	ErrUnknownKey = errors.New("unknown item key")
)

// Reasons a connector attempt is refused. The board never surfaces these to
// the user; they are returned by ValidateConnection and logged.
var (
	ErrNoTarget           = errors.New("no item under the release point")
	ErrSelfLoop           = errors.New("connector would be a self-loop")
	ErrNotLinkable        = errors.New("endpoint is not linkable")
	ErrDuplicateConnector = errors.New("connector already exists")
)
