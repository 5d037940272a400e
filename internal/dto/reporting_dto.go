package dto

import (
	"time"

	"github.com/finvault/ledger-engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse is one account row of the trial balance.
type TrialBalanceRowResponse struct {
	AccountName string          `json:"account_name"`
	AccountType string          `json:"account_type"`
	Debits      decimal.Decimal `json:"debits"`
	Credits     decimal.Decimal `json:"credits"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceSummary carries the balancing check of the whole report.
type TrialBalanceSummary struct {
	TotalDebits  decimal.Decimal `json:"total_debits"`
	TotalCredits decimal.Decimal `json:"total_credits"`
	Difference   decimal.Decimal `json:"difference"`
	Balanced     bool            `json:"balanced"`
}

// TrialBalanceResponse is the body of GET /ledger/trial-balance.
type TrialBalanceResponse struct {
	AsOfDate string                    `json:"as_of_date"`
	Currency string                    `json:"currency"`
	Accounts []TrialBalanceRowResponse `json:"accounts"`
	Summary  TrialBalanceSummary       `json:"summary"`
}

// ToTrialBalanceResponse converts a domain trial balance report.
func ToTrialBalanceResponse(report *domain.TrialBalanceReport) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(report.Rows))
	for i, row := range report.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debits:      row.Debits,
			Credits:     row.Credits,
			Balance:     row.Balance,
		}
	}
	return TrialBalanceResponse{
		AsOfDate: report.AsOf.Format("2006-01-02"),
		Currency: report.Currency,
		Accounts: rows,
		Summary: TrialBalanceSummary{
			TotalDebits:  report.TotalDebits,
			TotalCredits: report.TotalCredits,
			Difference:   report.Difference,
			Balanced:     report.Difference.IsZero(),
		},
	}
}

// AccountBalanceResponse is one account line inside a report section.
type AccountBalanceResponse struct {
	AccountName string          `json:"account_name"`
	Balance     decimal.Decimal `json:"balance"`
}

func toAccountBalanceResponses(balances []domain.AccountBalance) []AccountBalanceResponse {
	out := make([]AccountBalanceResponse, len(balances))
	for i, b := range balances {
		out[i] = AccountBalanceResponse{AccountName: b.AccountName, Balance: b.Balance}
	}
	return out
}

// BalanceSheetTotals carries the accounting identity check.
type BalanceSheetTotals struct {
	TotalAssets               decimal.Decimal `json:"total_assets"`
	TotalLiabilitiesAndEquity decimal.Decimal `json:"total_liabilities_and_equity"`
	Balanced                  bool            `json:"balanced"`
}

// BalanceSheetResponse is the body of GET /ledger/balance-sheet.
type BalanceSheetResponse struct {
	AsOfDate    string                   `json:"as_of_date"`
	Currency    string                   `json:"currency"`
	Assets      []AccountBalanceResponse `json:"assets"`
	Liabilities []AccountBalanceResponse `json:"liabilities"`
	Equity      []AccountBalanceResponse `json:"equity"`
	Totals      BalanceSheetTotals       `json:"totals"`
}

// ToBalanceSheetResponse converts a domain balance sheet report.
func ToBalanceSheetResponse(report *domain.BalanceSheetReport) BalanceSheetResponse {
	liabilitiesAndEquity := report.TotalLiabilities.Add(report.TotalEquity)
	return BalanceSheetResponse{
		AsOfDate:    report.AsOf.Format("2006-01-02"),
		Currency:    report.Currency,
		Assets:      toAccountBalanceResponses(report.Assets),
		Liabilities: toAccountBalanceResponses(report.Liabilities),
		Equity:      toAccountBalanceResponses(report.Equity),
		Totals: BalanceSheetTotals{
			TotalAssets:               report.TotalAssets,
			TotalLiabilitiesAndEquity: liabilitiesAndEquity,
			Balanced:                  report.TotalAssets.Equal(liabilitiesAndEquity),
		},
	}
}

// IncomeStatementResponse is the body of GET /ledger/income-statement.
type IncomeStatementResponse struct {
	StartDate string                   `json:"start_date"`
	EndDate   string                   `json:"end_date"`
	Currency  string                   `json:"currency"`
	Revenue   []AccountBalanceResponse `json:"revenue"`
	Expenses  []AccountBalanceResponse `json:"expenses"`
	Summary   struct {
		TotalRevenue  decimal.Decimal `json:"total_revenue"`
		TotalExpenses decimal.Decimal `json:"total_expenses"`
		NetIncome     decimal.Decimal `json:"net_income"`
	} `json:"summary"`
}

// ToIncomeStatementResponse converts a domain income statement report.
func ToIncomeStatementResponse(report *domain.IncomeStatementReport) IncomeStatementResponse {
	resp := IncomeStatementResponse{
		StartDate: report.StartDate.Format("2006-01-02"),
		EndDate:   report.EndDate.Format("2006-01-02"),
		Currency:  report.Currency,
		Revenue:   toAccountBalanceResponses(report.Revenue),
		Expenses:  toAccountBalanceResponses(report.Expenses),
	}
	resp.Summary.TotalRevenue = report.TotalRevenue
	resp.Summary.TotalExpenses = report.TotalExpenses
	resp.Summary.NetIncome = report.NetIncome
	return resp
}

// CashFlowResponse is the body of GET /ledger/cash-flow.
type CashFlowResponse struct {
	StartDate string                   `json:"start_date"`
	EndDate   string                   `json:"end_date"`
	Currency  string                   `json:"currency"`
	Operating []AccountBalanceResponse `json:"operating"`
	Investing []AccountBalanceResponse `json:"investing"`
	Financing []AccountBalanceResponse `json:"financing"`
	Summary   struct {
		TotalOperating decimal.Decimal `json:"total_operating"`
		TotalInvesting decimal.Decimal `json:"total_investing"`
		TotalFinancing decimal.Decimal `json:"total_financing"`
		NetCashFlow    decimal.Decimal `json:"net_cash_flow"`
	} `json:"summary"`
}

// ToCashFlowResponse converts a domain cash flow report.
func ToCashFlowResponse(report *domain.CashFlowReport) CashFlowResponse {
	resp := CashFlowResponse{
		StartDate: report.StartDate.Format("2006-01-02"),
		EndDate:   report.EndDate.Format("2006-01-02"),
		Currency:  report.Currency,
		Operating: toAccountBalanceResponses(report.Operating),
		Investing: toAccountBalanceResponses(report.Investing),
		Financing: toAccountBalanceResponses(report.Financing),
	}
	resp.Summary.TotalOperating = report.TotalOperating
	resp.Summary.TotalInvesting = report.TotalInvesting
	resp.Summary.TotalFinancing = report.TotalFinancing
	resp.Summary.NetCashFlow = report.NetCashFlow
	return resp
}

// ReportPeriod is the parsed, validated date window of a period report.
type ReportPeriod struct {
	Start time.Time
	End   time.Time
}
