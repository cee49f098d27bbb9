package services

import (
	portsrepo "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/repositories"
	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The access gate comes first since almost every service consumes it.
	container.Access = NewAccessService(repos.UserRepo, repos.StaffingRepo)

	container.User = NewUserService(repos.UserRepo, container.Access)
	container.Audit = NewAuditService(repos.AuditRepo, repos.UserRepo, container.Access)
	container.Project = NewProjectService(repos.ProjectRepo, container.Access)
	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.ProjectRepo, container.Access)
	container.Staffing = NewStaffingService(repos.StaffingRepo, repos.ProjectRepo, repos.UserRepo, container.Access)
	container.Inventory = NewInventoryService(repos.InventoryRepo, repos.ProjectRepo, container.Access)
	container.Checklist = NewChecklistService(repos.ChecklistRepo, repos.ProjectRepo, repos.UserRepo, container.Access, cfg.UploadDir)
	container.Document = NewDocumentService(repos.DocumentRepo, repos.ProjectRepo, container.Access, container.Audit, cfg.UploadDir)
	container.Listing = NewListingService(repos.ListingRepo, container.Access, cfg.UploadDir)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.ProjectRepo, container.Access)

	tokenSvc := NewTokenService(cfg)
	container.Auth = NewAuthService(container.User, tokenSvc, container.Audit)

	return container
}
