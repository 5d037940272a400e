package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finvault/ledger-engine/internal/apperrors"
	"github.com/finvault/ledger-engine/internal/middleware"
)

// Stable error kinds exposed across the boundary. Callers dispatch on
// these; messages are for humans and may change.
const (
	KindMalformedEntry     = "MALFORMED_ENTRY"
	KindUnbalanced         = "UNBALANCED_TRANSACTION"
	KindCurrencyMismatch   = "CURRENCY_MISMATCH"
	KindUnknownAccount     = "UNKNOWN_ACCOUNT"
	KindAccountConflict    = "ACCOUNT_CONFLICT"
	KindDuplicateTxn       = "DUPLICATE_TRANSACTION"
	KindRetryConflict      = "SERIALIZATION_CONFLICT"
	KindIntegrityViolation = "INTEGRITY_VIOLATION"
	KindNotFound           = "NOT_FOUND"
	KindValidationError    = "VALIDATION_ERROR"
	KindInternal           = "INTERNAL"
)

// respondError maps a service error onto a status code and stable kind.
// Internal details (storage errors, stack traces) never cross the boundary.
func respondError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	switch {
	case errors.Is(err, apperrors.ErrMalformedEntry):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": KindMalformedEntry})
	case errors.Is(err, apperrors.ErrUnbalanced):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": KindUnbalanced})
	case errors.Is(err, apperrors.ErrCurrencyMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": KindCurrencyMismatch})
	case errors.Is(err, apperrors.ErrUnknownAccount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": KindUnknownAccount})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": KindValidationError})
	case errors.Is(err, apperrors.ErrAccountConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "kind": KindAccountConflict})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "kind": KindDuplicateTxn})
	case errors.Is(err, apperrors.ErrSerialization):
		// Safe to retry as-is; nothing was written.
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "kind": KindRetryConflict})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found", "kind": KindNotFound})
	case errors.Is(err, apperrors.ErrIntegrity):
		// A broken invariant means a prior correctness failure; it is
		// logged loudly and never rendered as an ordinary report.
		logger.Error("Ledger integrity violation detected", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "kind": KindIntegrityViolation})
	default:
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "kind": KindInternal})
	}
}
