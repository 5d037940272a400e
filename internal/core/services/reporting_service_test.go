package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finvault/ledger-engine/internal/apperrors"
	"github.com/finvault/ledger-engine/internal/core/domain"
	portssvc "github.com/finvault/ledger-engine/internal/core/ports/services"
	"github.com/finvault/ledger-engine/internal/core/services"
)

// MockReportingRepository is a mock type for the ReportingRepository interface
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time, currency string) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, asOf, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetAccountNetData(ctx context.Context, from, to time.Time, currency string, types []domain.AccountType) ([]domain.AccountTypeNet, error) {
	args := m.Called(ctx, from, to, currency, types)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountTypeNet), args.Error(1)
}

func (m *MockReportingRepository) GetCashFlowEntries(ctx context.Context, from, to time.Time, currency string, cashAccounts []string) ([]domain.CashFlowEntry, error) {
	args := m.Called(ctx, from, to, currency, cashAccounts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashFlowEntry), args.Error(1)
}

// --- Test Suite Setup ---

type ReportingServiceTestSuite struct {
	suite.Suite
	mockRepo *MockReportingRepository
	service  portssvc.ReportingService
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockReportingRepository)
	policy := domain.NewCashFlowPolicy([]string{"Cash_and_Bank"})
	suite.service = services.NewReportingService(suite.mockRepo, policy)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// --- Trial Balance ---

func (suite *ReportingServiceTestSuite) TestTrialBalance_Balanced() {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	rows := []domain.TrialBalanceRow{
		{AccountName: "Cash_and_Bank", AccountType: domain.Asset, Debits: dec("500.00"), Credits: dec("200.00")},
		{AccountName: "Sales_Revenue", AccountType: domain.Revenue, Debits: dec("0"), Credits: dec("500.00")},
		{AccountName: "Rent_Expense", AccountType: domain.Expense, Debits: dec("200.00"), Credits: dec("0")},
	}
	suite.mockRepo.On("GetTrialBalanceData", ctx, asOf, "USD").Return(rows, nil).Once()

	report, err := suite.service.TrialBalance(ctx, asOf, "USD")

	suite.Require().NoError(err)
	suite.True(report.TotalDebits.Equal(dec("700.00")))
	suite.True(report.TotalCredits.Equal(dec("700.00")))
	suite.True(report.Difference.IsZero())

	// Balance follows each account's normal side.
	suite.True(report.Rows[0].Balance.Equal(dec("300.00")))
	suite.True(report.Rows[1].Balance.Equal(dec("500.00")))
	suite.True(report.Rows[2].Balance.Equal(dec("200.00")))
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_IntegrityViolation() {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	rows := []domain.TrialBalanceRow{
		{AccountName: "Cash_and_Bank", AccountType: domain.Asset, Debits: dec("500.00"), Credits: dec("0")},
		{AccountName: "Sales_Revenue", AccountType: domain.Revenue, Debits: dec("0"), Credits: dec("499.00")},
	}
	suite.mockRepo.On("GetTrialBalanceData", ctx, asOf, "USD").Return(rows, nil).Once()

	report, err := suite.service.TrialBalance(ctx, asOf, "USD")

	suite.Nil(report)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_EmptyStore() {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	suite.mockRepo.On("GetTrialBalanceData", ctx, asOf, "USD").Return([]domain.TrialBalanceRow{}, nil).Once()

	report, err := suite.service.TrialBalance(ctx, asOf, "USD")

	suite.Require().NoError(err)
	suite.Empty(report.Rows)
	suite.True(report.TotalDebits.IsZero())
	suite.True(report.TotalCredits.IsZero())
}

// --- Balance Sheet ---

func (suite *ReportingServiceTestSuite) TestBalanceSheet_FoldsCurrentEarningsIntoEquity() {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	// Seed capital 1000, revenue 500, expenses 200: cash nets to 1300 and
	// the 300 of retained activity must show up as current earnings.
	nets := []domain.AccountTypeNet{
		{AccountName: "Cash_and_Bank", AccountType: domain.Asset, Net: dec("1300.00")},
		{AccountName: "Owner_Capital", AccountType: domain.Equity, Net: dec("-1000.00")},
		{AccountName: "Sales_Revenue", AccountType: domain.Revenue, Net: dec("-500.00")},
		{AccountName: "Rent_Expense", AccountType: domain.Expense, Net: dec("200.00")},
	}
	suite.mockRepo.On("GetAccountNetData", ctx, time.Time{}, asOf, "USD", mock.AnythingOfType("[]domain.AccountType")).Return(nets, nil).Once()

	report, err := suite.service.BalanceSheet(ctx, asOf, "USD")

	suite.Require().NoError(err)
	suite.True(report.TotalAssets.Equal(dec("1300.00")))
	suite.True(report.TotalLiabilities.IsZero())
	suite.True(report.TotalEquity.Equal(dec("1300.00")))

	suite.Require().Len(report.Equity, 2)
	suite.Equal(services.CurrentEarningsLine, report.Equity[1].AccountName)
	suite.True(report.Equity[1].Balance.Equal(dec("300.00")))
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_IdentityViolation() {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	nets := []domain.AccountTypeNet{
		{AccountName: "Cash_and_Bank", AccountType: domain.Asset, Net: dec("1000.00")},
		{AccountName: "Owner_Capital", AccountType: domain.Equity, Net: dec("-900.00")},
	}
	suite.mockRepo.On("GetAccountNetData", ctx, time.Time{}, asOf, "USD", mock.AnythingOfType("[]domain.AccountType")).Return(nets, nil).Once()

	report, err := suite.service.BalanceSheet(ctx, asOf, "USD")

	suite.Nil(report)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
}

// --- Income Statement ---

func (suite *ReportingServiceTestSuite) TestIncomeStatement_Success() {
	ctx := context.Background()
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	nets := []domain.AccountTypeNet{
		{AccountName: "Sales_Revenue", AccountType: domain.Revenue, Net: dec("-750.00")},
		{AccountName: "Rent_Expense", AccountType: domain.Expense, Net: dec("300.00")},
		{AccountName: "Salaries_Expense", AccountType: domain.Expense, Net: dec("250.00")},
	}
	suite.mockRepo.On("GetAccountNetData", ctx, from, to, "USD", []domain.AccountType{domain.Revenue, domain.Expense}).Return(nets, nil).Once()

	report, err := suite.service.IncomeStatement(ctx, from, to, "USD")

	suite.Require().NoError(err)
	suite.True(report.TotalRevenue.Equal(dec("750.00")))
	suite.True(report.TotalExpenses.Equal(dec("550.00")))
	suite.True(report.NetIncome.Equal(dec("200.00")))
	suite.Len(report.Revenue, 1)
	suite.Len(report.Expenses, 2)
}

func (suite *ReportingServiceTestSuite) TestIncomeStatement_InvalidWindow() {
	ctx := context.Background()
	from := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	report, err := suite.service.IncomeStatement(ctx, from, to, "USD")

	suite.Nil(report)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "GetAccountNetData")
}

// --- Cash Flow ---

func (suite *ReportingServiceTestSuite) TestCashFlow_ClassifiesByCounterAccount() {
	ctx := context.Background()
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	// Three cash-touching transactions: a 500 sale, a 200 equipment
	// purchase, and a 1000 loan received.
	entries := []domain.CashFlowEntry{
		{TransactionID: "t1", AccountName: "Cash_and_Bank", AccountType: domain.Asset, DebitAmount: dec("500"), CreditAmount: dec("0")},
		{TransactionID: "t1", AccountName: "Sales_Revenue", AccountType: domain.Revenue, DebitAmount: dec("0"), CreditAmount: dec("500")},
		{TransactionID: "t2", AccountName: "Equipment", AccountType: domain.Asset, DebitAmount: dec("200"), CreditAmount: dec("0")},
		{TransactionID: "t2", AccountName: "Cash_and_Bank", AccountType: domain.Asset, DebitAmount: dec("0"), CreditAmount: dec("200")},
		{TransactionID: "t3", AccountName: "Cash_and_Bank", AccountType: domain.Asset, DebitAmount: dec("1000"), CreditAmount: dec("0")},
		{TransactionID: "t3", AccountName: "Bank_Loan", AccountType: domain.Liability, DebitAmount: dec("0"), CreditAmount: dec("1000")},
	}
	suite.mockRepo.On("GetCashFlowEntries", ctx, from, to, "USD", []string{"Cash_and_Bank"}).Return(entries, nil).Once()

	report, err := suite.service.CashFlow(ctx, from, to, "USD")

	suite.Require().NoError(err)
	suite.True(report.TotalOperating.Equal(dec("500")))
	suite.True(report.TotalInvesting.Equal(dec("-200")))
	suite.True(report.TotalFinancing.Equal(dec("1000")))
	// Net cash flow equals the exact change in cash: 500 - 200 + 1000.
	suite.True(report.NetCashFlow.Equal(dec("1300")))
}

func (suite *ReportingServiceTestSuite) TestCashFlow_CashToCashTransferIsNeutral() {
	ctx := context.Background()
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	policy := domain.NewCashFlowPolicy([]string{"Cash_and_Bank", "Petty_Cash"})
	service := services.NewReportingService(suite.mockRepo, policy)

	entries := []domain.CashFlowEntry{
		{TransactionID: "t1", AccountName: "Petty_Cash", AccountType: domain.Asset, DebitAmount: dec("50"), CreditAmount: dec("0")},
		{TransactionID: "t1", AccountName: "Cash_and_Bank", AccountType: domain.Asset, DebitAmount: dec("0"), CreditAmount: dec("50")},
	}
	suite.mockRepo.On("GetCashFlowEntries", ctx, from, to, "USD", []string{"Cash_and_Bank", "Petty_Cash"}).Return(entries, nil).Once()

	report, err := service.CashFlow(ctx, from, to, "USD")

	suite.Require().NoError(err)
	suite.True(report.NetCashFlow.IsZero())
	suite.Empty(report.Operating)
	suite.Empty(report.Investing)
	suite.Empty(report.Financing)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
