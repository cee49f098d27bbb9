package pgsql

import (
	portsrepo "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires all pgsql repositories onto one pool. The
// ledger repository gets the project repository injected so it can lock
// project rows inside its own transactions.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	projectRepo := newPgxProjectRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool, projectRepo)
	auditRepo := newPgxAuditRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	staffingRepo := newPgxStaffingRepository(dbPool)
	inventoryRepo := newPgxInventoryRepository(dbPool)
	checklistRepo := newPgxChecklistRepository(dbPool)
	documentRepo := newPgxDocumentRepository(dbPool)
	listingRepo := newPgxListingRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		ProjectRepo:   projectRepo,
		LedgerRepo:    ledgerRepo,
		AuditRepo:     auditRepo,
		UserRepo:      userRepo,
		StaffingRepo:  staffingRepo,
		InventoryRepo: inventoryRepo,
		ChecklistRepo: checklistRepo,
		DocumentRepo:  documentRepo,
		ListingRepo:   listingRepo,
		ReportingRepo: reportingRepo,
	}
}
