package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Project   ProjectSvcFacade
	Ledger    LedgerSvcFacade
	Audit     AuditSvcFacade
	User      UserSvcFacade
	Auth      AuthSvcFacade
	Staffing  StaffingSvcFacade
	Inventory InventorySvcFacade
	Checklist ChecklistSvcFacade
	Document  DocumentSvcFacade
	Listing   ListingSvcFacade
	Reporting ReportingSvcFacade
	Access    AccessGate
}
