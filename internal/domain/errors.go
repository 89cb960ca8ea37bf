package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure: no infrastructure dependency.

var (
	// Lookup errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrItemNotFound   = errors.New("item not found")
	ErrPathNotFound   = errors.New("build path not found")

	// Input errors
	ErrInvalidName = errors.New("name is required")
	ErrInvalidTeam = errors.New(`team must be "teamA" or "teamB"`)

	// Phase errors
	ErrJoinBlocked   = errors.New("game already in progress; wait for the next round")
	ErrGameNotActive = errors.New("shop purchases are only allowed while the game is active")

	// Purchase errors
	ErrAlreadyOwned      = errors.New("item already owned")
	ErrInsufficientFunds = errors.New("not enough coins")
	ErrNoValidTarget     = errors.New("no enemy player has coins to steal")
)

// ErrorKind is the transport-facing class of an error.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindInvalidInput
	KindForbidden
	KindPurchaseRejected
)

// String returns a human-readable error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindForbidden:
		return "forbidden"
	case KindPurchaseRejected:
		return "purchase_rejected"
	default:
		return "internal"
	}
}

// Classify maps an error (possibly wrapped) onto its ErrorKind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrPlayerNotFound),
		errors.Is(err, ErrItemNotFound),
		errors.Is(err, ErrPathNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrInvalidTeam):
		return KindInvalidInput
	case errors.Is(err, ErrJoinBlocked):
		return KindForbidden
	case errors.Is(err, ErrGameNotActive),
		errors.Is(err, ErrAlreadyOwned),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrNoValidTarget):
		return KindPurchaseRejected
	default:
		return KindInternal
	}
}
