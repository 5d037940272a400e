package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finvault/ledger-engine/internal/core/domain"
	portssvc "github.com/finvault/ledger-engine/internal/core/ports/services"
	"github.com/finvault/ledger-engine/internal/dto"
)

// reportingHandler serves the four derived reports.
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

func newReportingHandler(reportingService portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

// registerReportingRoutes registers the report routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/trial-balance", h.trialBalance)
		ledger.GET("/balance-sheet", h.balanceSheet)
		ledger.GET("/income-statement", h.incomeStatement)
		ledger.GET("/cash-flow", h.cashFlow)
	}
}

// trialBalance godoc
// @Summary Trial balance
// @Description Per-account debit and credit totals as of a date, with the balancing check. A nonzero difference is an integrity violation.
// @Tags reports
// @Produce json
// @Param as_of_date query string false "As-of date (YYYY-MM-DD, defaults to today)"
// @Param currency query string true "Currency (ISO 4217)"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Malformed parameters"
// @Failure 500 {object} map[string]string "Integrity violation"
// @Router /ledger/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	asOf, currency, ok := parseAsOfParams(c)
	if !ok {
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), asOf, currency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

// balanceSheet godoc
// @Summary Balance sheet
// @Description Assets, liabilities and equity as of a date. Net income to date appears as the Current_Earnings equity line so the accounting identity holds.
// @Tags reports
// @Produce json
// @Param as_of_date query string false "As-of date (YYYY-MM-DD, defaults to today)"
// @Param currency query string true "Currency (ISO 4217)"
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} map[string]string "Malformed parameters"
// @Failure 500 {object} map[string]string "Integrity violation"
// @Router /ledger/balance-sheet [get]
func (h *reportingHandler) balanceSheet(c *gin.Context) {
	asOf, currency, ok := parseAsOfParams(c)
	if !ok {
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf, currency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report))
}

// incomeStatement godoc
// @Summary Income statement
// @Description Revenue and expense totals over an inclusive date window.
// @Tags reports
// @Produce json
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Param currency query string true "Currency (ISO 4217)"
// @Success 200 {object} dto.IncomeStatementResponse
// @Failure 400 {object} map[string]string "Malformed parameters"
// @Router /ledger/income-statement [get]
func (h *reportingHandler) incomeStatement(c *gin.Context) {
	period, currency, ok := parsePeriodParams(c)
	if !ok {
		return
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), period.Start, period.End, currency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToIncomeStatementResponse(report))
}

// cashFlow godoc
// @Summary Cash flow statement
// @Description Cash movements over an inclusive window, classified into operating, investing and financing activities by counter-account.
// @Tags reports
// @Produce json
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Param currency query string true "Currency (ISO 4217)"
// @Success 200 {object} dto.CashFlowResponse
// @Failure 400 {object} map[string]string "Malformed parameters"
// @Router /ledger/cash-flow [get]
func (h *reportingHandler) cashFlow(c *gin.Context) {
	period, currency, ok := parsePeriodParams(c)
	if !ok {
		return
	}

	report, err := h.reportingService.CashFlow(c.Request.Context(), period.Start, period.End, currency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCashFlowResponse(report))
}

// parseAsOfParams handles point-in-time reports: optional as_of_date
// (defaulting to today, UTC) plus a required currency.
func parseAsOfParams(c *gin.Context) (time.Time, string, bool) {
	currency, ok := requireCurrency(c)
	if !ok {
		return time.Time{}, "", false
	}

	asOf := time.Now().UTC()
	if raw := c.Query("as_of_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid as_of_date. Use YYYY-MM-DD", "kind": KindValidationError})
			return time.Time{}, "", false
		}
		asOf = parsed
	}
	return asOf, currency, true
}

// parsePeriodParams handles period reports: required start_date and
// end_date with end on or after start, plus a required currency.
func parsePeriodParams(c *gin.Context) (dto.ReportPeriod, string, bool) {
	var period dto.ReportPeriod

	currency, ok := requireCurrency(c)
	if !ok {
		return period, "", false
	}

	for _, dateParam := range []struct {
		name   string
		target *time.Time
	}{
		{"start_date", &period.Start},
		{"end_date", &period.End},
	} {
		raw := c.Query(dateParam.name)
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameter " + dateParam.name, "kind": KindValidationError})
			return period, "", false
		}
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + dateParam.name + ". Use YYYY-MM-DD", "kind": KindValidationError})
			return period, "", false
		}
		*dateParam.target = parsed
	}

	if period.End.Before(period.Start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must not precede start_date", "kind": KindValidationError})
		return period, "", false
	}
	return period, currency, true
}

func requireCurrency(c *gin.Context) (string, bool) {
	currency := c.Query("currency")
	if currency == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameter currency", "kind": KindValidationError})
		return "", false
	}
	if !domain.ValidCurrencyCode(currency) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid currency code: " + currency, "kind": KindValidationError})
		return "", false
	}
	return currency, true
}
