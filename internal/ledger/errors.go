package ledger

import "errors"

// Business-rule errors. Always recoverable and user-facing; handlers map them
// to specific HTTP statuses instead of a generic 500.
var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrExpired           = errors.New("outside return window")
	ErrDuplicateBarcode  = errors.New("barcode already exists")
)

// Infrastructure errors. Distinguished from business-rule errors so the UI can
// offer "try again" rather than "correct your input".
var (
	ErrConcurrencyConflict = errors.New("concurrent modification")
	ErrTransient           = errors.New("backend temporarily unavailable")
)
