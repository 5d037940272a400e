package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository holds the shared connection pool for the pgx adapters.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// RepositoryContainer wires every repository over one pool.
type RepositoryContainer struct {
	Account   *AccountRepository
	Entry     *EntryRepository
	Reporting *ReportingRepository
}

// NewRepositoryContainer creates all repositories over the given pool.
func NewRepositoryContainer(pool *pgxpool.Pool) *RepositoryContainer {
	return &RepositoryContainer{
		Account:   NewAccountRepository(pool),
		Entry:     NewEntryRepository(pool),
		Reporting: NewReportingRepository(pool),
	}
}
