package services

// ServiceContainer groups the service interfaces for injection into route
// registration.
type ServiceContainer struct {
	Journal JournalEntrySvc
	Account AccountSvc
	Auth    AuthSvc
}
