package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow holds the debit/credit aggregates for one account with
// activity on or before the report date.
type TrialBalanceRow struct {
	AccountName string
	AccountType AccountType
	Debits      decimal.Decimal
	Credits     decimal.Decimal
	// Balance follows the account's normal side: debits-credits for
	// debit-normal accounts, credits-debits otherwise.
	Balance decimal.Decimal
}

// TrialBalanceReport lists every account balance in one currency plus the
// summary totals used to verify the books are balanced.
type TrialBalanceReport struct {
	AsOf         time.Time
	Currency     string
	Rows         []TrialBalanceRow
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
	Difference   decimal.Decimal
}

// AccountBalance is one account line inside a report section.
type AccountBalance struct {
	AccountName string
	Balance     decimal.Decimal
}

// BalanceSheetReport partitions account balances as of a date. Current
// earnings (revenue minus expenses to date) appear as a synthetic equity
// line so the accounting identity holds at any date.
type BalanceSheetReport struct {
	AsOf             time.Time
	Currency         string
	Assets           []AccountBalance
	Liabilities      []AccountBalance
	Equity           []AccountBalance
	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
	TotalEquity      decimal.Decimal
}

// IncomeStatementReport sums revenue and expense activity strictly within
// the report window.
type IncomeStatementReport struct {
	StartDate     time.Time
	EndDate       time.Time
	Currency      string
	Revenue       []AccountBalance
	Expenses      []AccountBalance
	TotalRevenue  decimal.Decimal
	TotalExpenses decimal.Decimal
	NetIncome     decimal.Decimal
}

// CashFlowReport classifies cash movement over a window into operating,
// investing and financing activities, keyed on the counter-account of each
// cash-touching transaction.
type CashFlowReport struct {
	StartDate      time.Time
	EndDate        time.Time
	Currency       string
	Operating      []AccountBalance
	Investing      []AccountBalance
	Financing      []AccountBalance
	TotalOperating decimal.Decimal
	TotalInvesting decimal.Decimal
	TotalFinancing decimal.Decimal
	NetCashFlow    decimal.Decimal
}

// AccountTypeNet is one aggregated reporting row: the net signed movement
// (debits minus credits) of an account over a window.
type AccountTypeNet struct {
	AccountName string
	AccountType AccountType
	Net         decimal.Decimal
}

// CashFlowEntry is one journal entry row of a cash-touching transaction,
// fetched for classification.
type CashFlowEntry struct {
	TransactionID string
	AccountName   string
	AccountType   AccountType
	DebitAmount   decimal.Decimal
	CreditAmount  decimal.Decimal
}
