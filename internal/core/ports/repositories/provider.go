package repositories

// RepositoryProvider bundles the concrete repositories handed to the service
// layer at startup.
type RepositoryProvider struct {
	JournalEntryRepo JournalEntryRepository
	AccountRepo      AccountRepository
	UserRepo         UserRepository
}
