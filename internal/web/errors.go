package web

import (
	"errors"

	"boutique-backend/internal/ledger"

	"github.com/gofiber/fiber/v2"
)

// LedgerError maps the ledger's typed errors onto HTTP statuses. Business
// errors keep their specific message so the till can show "Only 3 items
// available" instead of a generic failure; transient errors get a retry hint.
func LedgerError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInsufficientStock):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrInvalidQuantity):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrExpired):
		return fiber.NewError(fiber.StatusGone, err.Error())
	case errors.Is(err, ledger.ErrDuplicateBarcode):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrConcurrencyConflict):
		return fiber.NewError(fiber.StatusConflict, "The record was changed by someone else, please retry")
	case errors.Is(err, ledger.ErrTransient):
		return fiber.NewError(fiber.StatusServiceUnavailable, "Backend temporarily unavailable, please retry")
	default:
		return err
	}
}
