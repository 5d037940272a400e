package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finvault/ledger-engine/internal/core/domain"
	portssvc "github.com/finvault/ledger-engine/internal/core/ports/services"
	"github.com/finvault/ledger-engine/internal/dto"
	"github.com/finvault/ledger-engine/internal/middleware"
)

// ledgerHandler handles transaction posting and entry queries.
type ledgerHandler struct {
	postingService portssvc.PostingService
	queryService   portssvc.QueryService
}

func newLedgerHandler(postingService portssvc.PostingService, queryService portssvc.QueryService) *ledgerHandler {
	return &ledgerHandler{
		postingService: postingService,
		queryService:   queryService,
	}
}

// registerLedgerRoutes registers the posting and query routes.
func registerLedgerRoutes(rg *gin.RouterGroup, postingService portssvc.PostingService, queryService portssvc.QueryService) {
	h := newLedgerHandler(postingService, queryService)

	ledger := rg.Group("/ledger")
	{
		ledger.POST("/transactions", h.postTransaction)
		ledger.GET("/transactions/:transactionID", h.getTransaction)
		ledger.GET("/entries", h.listEntries)
	}
}

// postTransaction godoc
// @Summary Post a balanced transaction
// @Description Validates and atomically commits a balanced set of journal entries. Retrying with the same idempotency key returns the original result.
// @Tags ledger
// @Accept json
// @Produce json
// @Param transaction body dto.PostTransactionRequest true "Transaction to post"
// @Success 201 {object} dto.PostedTransactionResponse
// @Failure 400 {object} map[string]string "Malformed, unbalanced, currency mismatch or unknown account"
// @Failure 409 {object} map[string]string "Account conflict, reused transaction id or retryable serialization conflict"
// @Router /ledger/transactions [post]
func (h *ledgerHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PostTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind posting request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error(), "kind": KindValidationError})
		return
	}

	posted, err := h.postingService.Post(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	// Replays answer 201 with the original body so a timed-out retry is
	// indistinguishable from the first success.
	c.JSON(http.StatusCreated, dto.ToPostedTransactionResponse(posted))
}

// getTransaction godoc
// @Summary Get a committed transaction
// @Description Retrieves the full entry set of one committed transaction.
// @Tags ledger
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.PostedTransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /ledger/transactions/{transactionID} [get]
func (h *ledgerHandler) getTransaction(c *gin.Context) {
	txn, err := h.queryService.GetTransaction(c.Request.Context(), c.Param("transactionID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPostedTransactionResponse(txn))
}

// listEntries godoc
// @Summary List journal entries
// @Description Paginated, filterable listing of committed journal entries ordered by created_at then entry_id.
// @Tags ledger
// @Produce json
// @Param account_type query string false "Account type filter (ASSET, LIABILITY, EQUITY, REVENUE, EXPENSE)"
// @Param account_name query string false "Account name filter"
// @Param currency query string false "Currency filter (ISO 4217)"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param page query int false "Page number (1-based)"
// @Param per_page query int false "Page size, clamped to the configured maximum"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Malformed query parameters"
// @Router /ledger/entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	params, ok := parseListEntriesParams(c)
	if !ok {
		return
	}

	entries, pagination, err := h.queryService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListEntriesResponse{
		Entries:    dto.ToEntryResponses(entries),
		Pagination: pagination,
	})
}

// parseListEntriesParams validates the query string of GET /ledger/entries.
// On failure it writes the 400 response and returns ok=false.
func parseListEntriesParams(c *gin.Context) (dto.ListEntriesParams, bool) {
	var params dto.ListEntriesParams

	if raw := c.Query("account_type"); raw != "" {
		accountType, err := domain.ParseAccountType(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account_type: " + raw, "kind": KindValidationError})
			return params, false
		}
		params.AccountType = &accountType
	}
	if raw := c.Query("account_name"); raw != "" {
		params.AccountName = &raw
	}
	if raw := c.Query("currency"); raw != "" {
		if !domain.ValidCurrencyCode(raw) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid currency code: " + raw, "kind": KindValidationError})
			return params, false
		}
		params.Currency = &raw
	}

	for _, dateParam := range []struct {
		name   string
		target **time.Time
	}{
		{"start_date", &params.StartDate},
		{"end_date", &params.EndDate},
	} {
		if raw := c.Query(dateParam.name); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + dateParam.name + ". Use YYYY-MM-DD", "kind": KindValidationError})
				return params, false
			}
			*dateParam.target = &parsed
		}
	}

	var err error
	if params.Page, err = strconv.Atoi(c.DefaultQuery("page", "1")); err != nil || params.Page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page parameter", "kind": KindValidationError})
		return params, false
	}
	if params.PerPage, err = strconv.Atoi(c.DefaultQuery("per_page", "0")); err != nil || params.PerPage < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid per_page parameter", "kind": KindValidationError})
		return params, false
	}
	return params, true
}
