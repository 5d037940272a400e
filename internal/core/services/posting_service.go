package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finvault/ledger-engine/internal/apperrors"
	"github.com/finvault/ledger-engine/internal/core/domain"
	portsrepo "github.com/finvault/ledger-engine/internal/core/ports/repositories"
	portssvc "github.com/finvault/ledger-engine/internal/core/ports/services"
	"github.com/finvault/ledger-engine/internal/dto"
	"github.com/finvault/ledger-engine/internal/metrics"
	"github.com/finvault/ledger-engine/internal/middleware"
)

// postingService validates and atomically commits balanced transactions.
// All validation happens before any write; on failure nothing is written
// and the caller gets a typed error.
type postingService struct {
	accountSvc portssvc.AccountService
	entryRepo  portsrepo.EntryRepository
	// lazyCreate allows auto-registration of unknown accounts when the
	// request entry carries an explicit account_type.
	lazyCreate bool
}

// NewPostingService creates the posting engine.
func NewPostingService(entryRepo portsrepo.EntryRepository, accountSvc portssvc.AccountService, lazyCreate bool) portssvc.PostingService {
	return &postingService{
		accountSvc: accountSvc,
		entryRepo:  entryRepo,
		lazyCreate: lazyCreate,
	}
}

var _ portssvc.PostingService = (*postingService)(nil)

// Post validates the request, resolves every account, and commits the full
// entry set plus the idempotency key in one atomic storage transaction.
// A repeated idempotency key returns the originally committed transaction
// unchanged instead of posting again.
func (s *postingService) Post(ctx context.Context, req dto.PostTransactionRequest) (*domain.PostedTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	start := time.Now()
	defer func() { metrics.PostingDuration.Observe(time.Since(start).Seconds()) }()

	posted, err := s.post(ctx, logger, req)
	if err != nil {
		metrics.PostingFailures.WithLabelValues(failureKind(err)).Inc()
		return nil, err
	}
	return posted, nil
}

func (s *postingService) post(ctx context.Context, logger *slog.Logger, req dto.PostTransactionRequest) (*domain.PostedTransaction, error) {
	if req.IdempotencyKey == "" {
		return nil, fmt.Errorf("%w: idempotency key is required", apperrors.ErrValidation)
	}
	if len(req.Entries) < 2 {
		return nil, fmt.Errorf("%w: a transaction needs at least two entries", apperrors.ErrMalformedEntry)
	}

	txnID := req.TransactionID
	if txnID == "" {
		txnID = uuid.NewString()
	}
	createdAt := time.Now().UTC()

	entries := make([]domain.JournalEntry, len(req.Entries))
	accountSet := make(map[string]struct{}, len(req.Entries))
	for i, entryReq := range req.Entries {
		entries[i] = domain.JournalEntry{
			EntryID:       uuid.NewString(),
			TransactionID: txnID,
			AccountName:   entryReq.AccountName,
			DebitAmount:   entryReq.DebitAmount,
			CreditAmount:  entryReq.CreditAmount,
			Currency:      entryReq.Currency,
			Description:   entryReq.Description,
			CreatedAt:     createdAt,
		}
		if err := entries[i].Validate(); err != nil {
			return nil, err
		}
		accountSet[entryReq.AccountName] = struct{}{}
	}
	if len(accountSet) < 2 {
		return nil, fmt.Errorf("%w: a transaction must affect at least two different accounts", apperrors.ErrMalformedEntry)
	}

	accounts, err := s.resolveAccounts(ctx, req.Entries)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		account := accounts[entry.AccountName]
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s is deactivated", apperrors.ErrMalformedEntry, entry.AccountName)
		}
		if account.Currency != entry.Currency {
			return nil, fmt.Errorf("%w: account %s holds %s, entry is %s",
				apperrors.ErrCurrencyMismatch, entry.AccountName, account.Currency, entry.Currency)
		}
	}

	// The central correctness invariant: per currency, debits == credits.
	if err := domain.BalanceByCurrency(entries); err != nil {
		return nil, err
	}

	replayedTxnID, err := s.entryRepo.SaveTransaction(ctx, req.IdempotencyKey, entries)
	if err != nil {
		logger.Error("Failed to commit transaction", slog.String("transaction_id", txnID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to commit transaction %s: %w", txnID, err)
	}

	if replayedTxnID != "" {
		committed, err := s.entryRepo.FindEntriesByTransactionID(ctx, replayedTxnID)
		if err != nil {
			return nil, fmt.Errorf("failed to load replayed transaction %s: %w", replayedTxnID, err)
		}
		if len(committed) == 0 {
			return nil, fmt.Errorf("%w: idempotency key maps to missing transaction %s", apperrors.ErrInternal, replayedTxnID)
		}
		metrics.IdempotentReplays.Inc()
		logger.Info("Idempotent replay", slog.String("idempotency_key", req.IdempotencyKey), slog.String("transaction_id", replayedTxnID))
		return &domain.PostedTransaction{
			TransactionID: replayedTxnID,
			Entries:       committed,
			CreatedAt:     committed[0].CreatedAt,
		}, nil
	}

	metrics.TransactionsPosted.Inc()
	metrics.EntriesWritten.Add(float64(len(entries)))
	logger.Info("Transaction posted",
		slog.String("transaction_id", txnID),
		slog.Int("entry_count", len(entries)))
	return &domain.PostedTransaction{
		TransactionID: txnID,
		Entries:       entries,
		CreatedAt:     createdAt,
	}, nil
}

// resolveAccounts fetches the referenced accounts in one batch, then lazily
// creates the missing ones when the deployment allows it and the entries
// carry an explicit type. An unresolvable account fails the whole post, as
// do conflicting account_type declarations for the same account within one
// request.
func (s *postingService) resolveAccounts(ctx context.Context, entryReqs []dto.PostEntryRequest) (map[string]domain.Account, error) {
	names := make([]string, 0, len(entryReqs))
	declaredTypes := make(map[string]string, len(entryReqs))
	declaredCurrencies := make(map[string]string, len(entryReqs))
	for _, entryReq := range entryReqs {
		declared, seen := declaredTypes[entryReq.AccountName]
		if !seen {
			names = append(names, entryReq.AccountName)
			declaredTypes[entryReq.AccountName] = entryReq.AccountType
			declaredCurrencies[entryReq.AccountName] = entryReq.Currency
			continue
		}
		if entryReq.AccountType == "" {
			continue
		}
		if declared == "" {
			declaredTypes[entryReq.AccountName] = entryReq.AccountType
			continue
		}
		if declared != entryReq.AccountType {
			return nil, fmt.Errorf("%w: account %s declared as both %s and %s",
				apperrors.ErrMalformedEntry, entryReq.AccountName, declared, entryReq.AccountType)
		}
	}

	accounts, err := s.accountSvc.GetMany(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve accounts: %w", err)
	}

	for _, name := range names {
		if _, ok := accounts[name]; ok {
			continue
		}
		if !s.lazyCreate || declaredTypes[name] == "" {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, name)
		}
		accountType, err := domain.ParseAccountType(declaredTypes[name])
		if err != nil {
			return nil, err
		}
		created, err := s.accountSvc.GetOrCreate(ctx, name, accountType, declaredCurrencies[name])
		if err != nil {
			return nil, err
		}
		accounts[name] = *created
	}
	return accounts, nil
}

// failureKind maps a posting error to its stable metric label.
func failureKind(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrMalformedEntry):
		return "malformed_entry"
	case errors.Is(err, apperrors.ErrUnbalanced):
		return "unbalanced_transaction"
	case errors.Is(err, apperrors.ErrCurrencyMismatch):
		return "currency_mismatch"
	case errors.Is(err, apperrors.ErrUnknownAccount):
		return "unknown_account"
	case errors.Is(err, apperrors.ErrAccountConflict):
		return "account_conflict"
	case errors.Is(err, apperrors.ErrDuplicate):
		return "duplicate_transaction"
	case errors.Is(err, apperrors.ErrSerialization):
		return "serialization_conflict"
	case errors.Is(err, apperrors.ErrValidation):
		return "validation_error"
	default:
		return "internal"
	}
}
