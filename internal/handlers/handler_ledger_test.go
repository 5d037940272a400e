package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finvault/ledger-engine/internal/apperrors"
	"github.com/finvault/ledger-engine/internal/core/domain"
	portssvc "github.com/finvault/ledger-engine/internal/core/ports/services"
	"github.com/finvault/ledger-engine/internal/dto"
	"github.com/finvault/ledger-engine/internal/handlers"
	"github.com/finvault/ledger-engine/pkg/config"
)

// --- Mock PostingService ---
type MockPostingService struct {
	mock.Mock
}

func (m *MockPostingService) Post(ctx context.Context, req dto.PostTransactionRequest) (*domain.PostedTransaction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostedTransaction), args.Error(1)
}

var _ portssvc.PostingService = (*MockPostingService)(nil)

// --- Mock QueryService ---
type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) ListEntries(ctx context.Context, params dto.ListEntriesParams) ([]domain.JournalEntry, dto.Pagination, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(dto.Pagination), args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), args.Get(1).(dto.Pagination), args.Error(2)
}

func (m *MockQueryService) GetTransaction(ctx context.Context, transactionID string) (*domain.PostedTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostedTransaction), args.Error(1)
}

var _ portssvc.QueryService = (*MockQueryService)(nil)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetOrCreate(ctx context.Context, name string, accountType domain.AccountType, currency string) (*domain.Account, error) {
	args := m.Called(ctx, name, accountType, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) Get(ctx context.Context, name string) (*domain.Account, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetMany(ctx context.Context, names []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) List(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) Deactivate(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

var _ portssvc.AccountService = (*MockAccountService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) TrialBalance(ctx context.Context, asOf time.Time, currency string) (*domain.TrialBalanceReport, error) {
	args := m.Called(ctx, asOf, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalanceReport), args.Error(1)
}

func (m *MockReportingService) BalanceSheet(ctx context.Context, asOf time.Time, currency string) (*domain.BalanceSheetReport, error) {
	args := m.Called(ctx, asOf, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheetReport), args.Error(1)
}

func (m *MockReportingService) IncomeStatement(ctx context.Context, from, to time.Time, currency string) (*domain.IncomeStatementReport, error) {
	args := m.Called(ctx, from, to, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeStatementReport), args.Error(1)
}

func (m *MockReportingService) CashFlow(ctx context.Context, from, to time.Time, currency string) (*domain.CashFlowReport, error) {
	args := m.Called(ctx, from, to, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashFlowReport), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

type stubPinger struct{}

func (stubPinger) Ping(ctx context.Context) error { return nil }

// --- Test Suite Setup ---

type LedgerHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockPosting   *MockPostingService
	mockQuery     *MockQueryService
	mockAccounts  *MockAccountService
	mockReporting *MockReportingService
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.mockPosting = new(MockPostingService)
	suite.mockQuery = new(MockQueryService)
	suite.mockAccounts = new(MockAccountService)
	suite.mockReporting = new(MockReportingService)

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, &config.Config{IsProduction: true}, &portssvc.ServiceContainer{
		Account:   suite.mockAccounts,
		Posting:   suite.mockPosting,
		Query:     suite.mockQuery,
		Reporting: suite.mockReporting,
	}, stubPinger{})
}

func (suite *LedgerHandlerTestSuite) serve(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *LedgerHandlerTestSuite) errorKind(w *httptest.ResponseRecorder) string {
	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	kind, _ := body["kind"].(string)
	return kind
}

// --- Test Cases ---

func (suite *LedgerHandlerTestSuite) TestPostTransaction_Success() {
	createdAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	posted := &domain.PostedTransaction{
		TransactionID: "txn-1",
		CreatedAt:     createdAt,
		Entries: []domain.JournalEntry{
			{EntryID: "e1", TransactionID: "txn-1", AccountName: "Cash_and_Bank", DebitAmount: decimal.RequireFromString("100.00"), Currency: "USD", CreatedAt: createdAt},
			{EntryID: "e2", TransactionID: "txn-1", AccountName: "Sales_Revenue", CreditAmount: decimal.RequireFromString("100.00"), Currency: "USD", CreatedAt: createdAt},
		},
	}
	suite.mockPosting.On("Post", mock.Anything, mock.AnythingOfType("dto.PostTransactionRequest")).Return(posted, nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/ledger/transactions", dto.PostTransactionRequest{
		IdempotencyKey: "key-1",
		Entries: []dto.PostEntryRequest{
			{AccountName: "Cash_and_Bank", DebitAmount: decimal.RequireFromString("100.00"), Currency: "USD"},
			{AccountName: "Sales_Revenue", CreditAmount: decimal.RequireFromString("100.00"), Currency: "USD"},
		},
	})

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.PostedTransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("txn-1", resp.TransactionID)
	suite.Len(resp.Entries, 2)
	suite.mockPosting.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestPostTransaction_BindingRejectsMissingKey() {
	w := suite.serve(http.MethodPost, "/api/v1/ledger/transactions", map[string]any{
		"entries": []map[string]any{
			{"account_name": "Cash_and_Bank", "debit_amount": "100.00", "currency": "USD"},
			{"account_name": "Sales_Revenue", "credit_amount": "100.00", "currency": "USD"},
		},
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("VALIDATION_ERROR", suite.errorKind(w))
	suite.mockPosting.AssertNotCalled(suite.T(), "Post")
}

func (suite *LedgerHandlerTestSuite) TestPostTransaction_UnbalancedMapsTo400() {
	suite.mockPosting.On("Post", mock.Anything, mock.AnythingOfType("dto.PostTransactionRequest")).
		Return(nil, fmt.Errorf("%w: USD debits 100 != credits 99", apperrors.ErrUnbalanced)).Once()

	w := suite.serve(http.MethodPost, "/api/v1/ledger/transactions", dto.PostTransactionRequest{
		IdempotencyKey: "key-1",
		Entries: []dto.PostEntryRequest{
			{AccountName: "Cash_and_Bank", DebitAmount: decimal.RequireFromString("100"), Currency: "USD"},
			{AccountName: "Sales_Revenue", CreditAmount: decimal.RequireFromString("99"), Currency: "USD"},
		},
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("UNBALANCED_TRANSACTION", suite.errorKind(w))
}

func (suite *LedgerHandlerTestSuite) TestPostTransaction_DuplicateTransactionIDMapsTo409() {
	suite.mockPosting.On("Post", mock.Anything, mock.AnythingOfType("dto.PostTransactionRequest")).
		Return(nil, fmt.Errorf("%w: transaction txn-1 was already posted", apperrors.ErrDuplicate)).Once()

	w := suite.serve(http.MethodPost, "/api/v1/ledger/transactions", dto.PostTransactionRequest{
		TransactionID:  "txn-1",
		IdempotencyKey: "key-2",
		Entries: []dto.PostEntryRequest{
			{AccountName: "Cash_and_Bank", DebitAmount: decimal.RequireFromString("100"), Currency: "USD"},
			{AccountName: "Sales_Revenue", CreditAmount: decimal.RequireFromString("100"), Currency: "USD"},
		},
	})

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("DUPLICATE_TRANSACTION", suite.errorKind(w))
}

func (suite *LedgerHandlerTestSuite) TestPostTransaction_SerializationConflictMapsTo409() {
	suite.mockPosting.On("Post", mock.Anything, mock.AnythingOfType("dto.PostTransactionRequest")).
		Return(nil, fmt.Errorf("%w: transaction txn-1", apperrors.ErrSerialization)).Once()

	w := suite.serve(http.MethodPost, "/api/v1/ledger/transactions", dto.PostTransactionRequest{
		IdempotencyKey: "key-3",
		Entries: []dto.PostEntryRequest{
			{AccountName: "Cash_and_Bank", DebitAmount: decimal.RequireFromString("100"), Currency: "USD"},
			{AccountName: "Sales_Revenue", CreditAmount: decimal.RequireFromString("100"), Currency: "USD"},
		},
	})

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("SERIALIZATION_CONFLICT", suite.errorKind(w))
}

func (suite *LedgerHandlerTestSuite) TestGetTransaction_NotFound() {
	suite.mockQuery.On("GetTransaction", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.serve(http.MethodGet, "/api/v1/ledger/transactions/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("NOT_FOUND", suite.errorKind(w))
}

func (suite *LedgerHandlerTestSuite) TestListEntries_PassesParsedParams() {
	suite.mockQuery.On("ListEntries", mock.Anything, mock.MatchedBy(func(params dto.ListEntriesParams) bool {
		return params.AccountType != nil && *params.AccountType == domain.Asset &&
			params.Currency != nil && *params.Currency == "USD" &&
			params.Page == 2 && params.PerPage == 10
	})).Return([]domain.JournalEntry{}, dto.Pagination{Page: 2, PerPage: 10}, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/ledger/entries?account_type=ASSET&currency=USD&page=2&per_page=10", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockQuery.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestListEntries_RejectsBadAccountType() {
	w := suite.serve(http.MethodGet, "/api/v1/ledger/entries?account_type=BANK", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("VALIDATION_ERROR", suite.errorKind(w))
	suite.mockQuery.AssertNotCalled(suite.T(), "ListEntries")
}

func (suite *LedgerHandlerTestSuite) TestListEntries_RejectsBadDate() {
	w := suite.serve(http.MethodGet, "/api/v1/ledger/entries?start_date=30-08-2026", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("VALIDATION_ERROR", suite.errorKind(w))
}

func (suite *LedgerHandlerTestSuite) TestTrialBalance_RequiresCurrency() {
	w := suite.serve(http.MethodGet, "/api/v1/ledger/trial-balance", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("VALIDATION_ERROR", suite.errorKind(w))
	suite.mockReporting.AssertNotCalled(suite.T(), "TrialBalance")
}

func (suite *LedgerHandlerTestSuite) TestTrialBalance_Success() {
	asOf := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	report := &domain.TrialBalanceReport{
		AsOf:     asOf,
		Currency: "USD",
		Rows: []domain.TrialBalanceRow{
			{AccountName: "Cash_and_Bank", AccountType: domain.Asset, Debits: decimal.RequireFromString("100"), Credits: decimal.Zero, Balance: decimal.RequireFromString("100")},
		},
		TotalDebits:  decimal.RequireFromString("100"),
		TotalCredits: decimal.RequireFromString("100"),
	}
	suite.mockReporting.On("TrialBalance", mock.Anything, asOf, "USD").Return(report, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/ledger/trial-balance?currency=USD&as_of_date=2026-08-30", nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.TrialBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("2026-08-30", resp.AsOfDate)
	suite.True(resp.Summary.Balanced)
}

func (suite *LedgerHandlerTestSuite) TestTrialBalance_IntegrityViolationMapsTo500() {
	asOf := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	suite.mockReporting.On("TrialBalance", mock.Anything, asOf, "USD").
		Return(nil, fmt.Errorf("%w: trial balance difference 1 USD", apperrors.ErrIntegrity)).Once()

	w := suite.serve(http.MethodGet, "/api/v1/ledger/trial-balance?currency=USD&as_of_date=2026-08-30", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("INTEGRITY_VIOLATION", suite.errorKind(w))
}

func (suite *LedgerHandlerTestSuite) TestIncomeStatement_RequiresWindow() {
	w := suite.serve(http.MethodGet, "/api/v1/ledger/income-statement?currency=USD", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("VALIDATION_ERROR", suite.errorKind(w))
}

func (suite *LedgerHandlerTestSuite) TestCreateAccount_Conflict() {
	suite.mockAccounts.On("GetOrCreate", mock.Anything, "Cash_and_Bank", domain.Expense, "USD").
		Return(nil, fmt.Errorf("%w: account Cash_and_Bank is ASSET/USD", apperrors.ErrAccountConflict)).Once()

	w := suite.serve(http.MethodPost, "/api/v1/ledger/accounts", dto.CreateAccountRequest{
		Name: "Cash_and_Bank", AccountType: "EXPENSE", Currency: "USD",
	})

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("ACCOUNT_CONFLICT", suite.errorKind(w))
}

func (suite *LedgerHandlerTestSuite) TestHealthz() {
	w := suite.serve(http.MethodGet, "/healthz", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func TestLedgerHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
