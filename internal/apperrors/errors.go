package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrMalformedEntry indicates a journal entry that violates the
// exactly-one-of-debit-or-credit rule or is otherwise structurally invalid.
var ErrMalformedEntry = errors.New("malformed journal entry")

// ErrUnbalanced indicates a transaction whose debits and credits do not
// sum to the same amount for every currency present.
var ErrUnbalanced = errors.New("unbalanced transaction")

// ErrCurrencyMismatch indicates an entry whose currency differs from the
// currency of the account it references.
var ErrCurrencyMismatch = errors.New("entry currency does not match account currency")

// ErrUnknownAccount indicates a posting against an account that is not
// registered and could not be lazily created.
var ErrUnknownAccount = errors.New("unknown account")

// ErrAccountConflict indicates an attempt to re-register an account with a
// different type or currency than the existing record.
var ErrAccountConflict = errors.New("account type or currency conflict")

// ErrIntegrity indicates a detected breach of the double-entry invariant
// while deriving a report. It means a prior correctness failure happened
// elsewhere and must never be rendered as an ordinary report.
var ErrIntegrity = errors.New("ledger integrity violation")

// ErrSerialization indicates a storage-level serialization conflict
// between concurrent posts. Nothing was written; the same request can be
// retried as-is.
var ErrSerialization = errors.New("concurrent posting conflict, retry")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
