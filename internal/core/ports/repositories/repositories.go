package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	ProjectRepo   ProjectRepositoryFacade
	LedgerRepo    LedgerRepositoryFacade
	AuditRepo     AuditRepositoryFacade
	UserRepo      UserRepositoryFacade
	StaffingRepo  StaffingRepositoryFacade
	InventoryRepo InventoryRepositoryFacade
	ChecklistRepo ChecklistRepositoryFacade
	DocumentRepo  DocumentRepositoryFacade
	ListingRepo   ListingRepositoryFacade
	ReportingRepo ReportingReader
}
