package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/ledgerpost/ledgerpost/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the pgx repositories over one shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	entryRepo := newPgxJournalEntryRepository(dbPool, accountRepo)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		JournalEntryRepo: entryRepo,
		AccountRepo:      accountRepo,
		UserRepo:         userRepo,
	}
}
