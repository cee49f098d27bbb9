package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/buildtrack-app/buildtrack-backend/internal/apperrors"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	portsrepo "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/repositories"
	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
)

// reportingService serves dashboard aggregates. All heavy lifting happens
// in SQL; this layer only gates access and clamps parameters.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingReader
	projectRepo   portsrepo.ProjectReader
	access        portssvc.AccessGate
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingReader, projectRepo portsrepo.ProjectReader, access portssvc.AccessGate) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo: reportingRepo,
		projectRepo:   projectRepo,
		access:        access,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// GetGlobalKPIs computes headline numbers across all projects. Managers and
// admins only.
func (s *reportingService) GetGlobalKPIs(ctx context.Context, requestingUserID string) (*domain.GlobalKPIs, error) {
	if err := s.access.AuthorizeManager(ctx, requestingUserID); err != nil {
		return nil, err
	}
	kpis, err := s.reportingRepo.GetGlobalKPIs(ctx)
	if err != nil {
		s.LogError(ctx, err, "failed to compute global KPIs")
		return nil, fmt.Errorf("failed to compute global KPIs: %w", err)
	}
	return kpis, nil
}

// GetMonthlyCashflow computes the per-month credit/debit report.
func (s *reportingService) GetMonthlyCashflow(ctx context.Context, requestingUserID string, params dto.CashflowParams) ([]domain.CashflowBucket, error) {
	if params.ProjectID != "" {
		if _, err := s.projectRepo.FindProjectByID(ctx, params.ProjectID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, params.ProjectID)
			}
			return nil, fmt.Errorf("failed to fetch project: %w", err)
		}
		if err := s.access.AuthorizeProjectRead(ctx, requestingUserID, params.ProjectID); err != nil {
			return nil, err
		}
	} else if err := s.access.AuthorizeManager(ctx, requestingUserID); err != nil {
		return nil, err
	}

	months := params.Months
	if months <= 0 || months > 60 {
		months = 12
	}
	buckets, err := s.reportingRepo.GetMonthlyCashflow(ctx, params.ProjectID, months)
	if err != nil {
		s.LogError(ctx, err, "failed to compute cashflow report")
		return nil, fmt.Errorf("failed to compute cashflow report: %w", err)
	}
	return buckets, nil
}

// GetProjectLedgerSummary recomputes one project's active sums next to the
// stored budget figures.
func (s *reportingService) GetProjectLedgerSummary(ctx context.Context, projectID string, requestingUserID string) (*domain.ProjectLedgerSummary, error) {
	if _, err := s.projectRepo.FindProjectByID(ctx, projectID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID)
		}
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}
	if err := s.access.AuthorizeProjectRead(ctx, requestingUserID, projectID); err != nil {
		return nil, err
	}
	summary, err := s.reportingRepo.GetProjectLedgerSummary(ctx, projectID)
	if err != nil {
		s.LogError(ctx, err, "failed to compute project ledger summary")
		return nil, fmt.Errorf("failed to compute project ledger summary: %w", err)
	}
	return summary, nil
}
