package dto

import (
	"time"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Project DTOs ---

// CreateProjectRequest defines data for creating a new project.
type CreateProjectRequest struct {
	Name          string           `json:"name" binding:"required"`
	Address       string           `json:"address"`
	Owner         string           `json:"owner"`
	InitialBudget *decimal.Decimal `json:"initialBudget"` // Defaults to zero when omitted
}

// UpdateProjectRequest defines data for updating a project.
// Pointers distinguish omitted fields from zero-value fields.
type UpdateProjectRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Owner   *string `json:"owner"`
	Status  *string `json:"status"`
	// StatusReason must accompany a status change; it is written to the
	// audit trail, not stored on the project itself.
	StatusReason *string `json:"statusReason"`
}

// ProjectResponse defines data returned for a project.
type ProjectResponse struct {
	ProjectID      string          `json:"projectID"`
	Name           string          `json:"name"`
	Address        string          `json:"address"`
	Owner          string          `json:"owner"`
	InitialBudget  decimal.Decimal `json:"initialBudget"`
	CurrentBudget  decimal.Decimal `json:"currentBudget"`
	Status         string          `json:"status"`
	IsStockDefault bool            `json:"isStockDefault"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
	LastUpdatedAt  time.Time       `json:"lastUpdatedAt"`
}

// ToProjectResponse converts domain.Project to DTO.
func ToProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ProjectID:      p.ProjectID,
		Name:           p.Name,
		Address:        p.Address,
		Owner:          p.Owner,
		InitialBudget:  p.InitialBudget,
		CurrentBudget:  p.CurrentBudget,
		Status:         string(p.Status),
		IsStockDefault: p.IsStockDefault,
		CreatedAt:      p.CreatedAt,
		CreatedBy:      p.CreatedBy,
		LastUpdatedAt:  p.LastUpdatedAt,
	}
}

// ListProjectsParams defines query parameters for listing projects.
type ListProjectsParams struct {
	Status string `form:"status"`
	Limit  int    `form:"limit,default=20"`
	Offset int    `form:"offset,default=0"`
}

// ListProjectsResponse wraps the list of projects.
type ListProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

// ToListProjectsResponse converts a slice of domain.Project to DTO.
func ToListProjectsResponse(projects []domain.Project) ListProjectsResponse {
	responses := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		responses[i] = ToProjectResponse(&p)
	}
	return ListProjectsResponse{Projects: responses}
}
