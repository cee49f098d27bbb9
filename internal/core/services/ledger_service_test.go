package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/buildtrack-app/buildtrack-backend/internal/apperrors"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	portsrepo "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/repositories"
	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

// Ensure MockLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByProject(ctx context.Context, projectID string, status string, limit int, offset int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, projectID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry, audit domain.AuditRecord) error {
	args := m.Called(ctx, entry, audit)
	return args.Error(0)
}

func (m *MockLedgerRepository) CancelEntry(ctx context.Context, entry domain.LedgerEntry, audit domain.AuditRecord) error {
	args := m.Called(ctx, entry, audit)
	return args.Error(0)
}

// --- Mock AccessGate ---
type MockAccessGate struct {
	mock.Mock
}

var _ portssvc.AccessGate = (*MockAccessGate)(nil)

func (m *MockAccessGate) AuthorizeProjectRead(ctx context.Context, userID string, projectID string) error {
	args := m.Called(ctx, userID, projectID)
	return args.Error(0)
}

func (m *MockAccessGate) AuthorizeProjectWrite(ctx context.Context, userID string, projectID string) error {
	args := m.Called(ctx, userID, projectID)
	return args.Error(0)
}

func (m *MockAccessGate) AuthorizeManager(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAccessGate) AuthorizeAdmin(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Test Suite Setup ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo  *MockLedgerRepository
	mockProjectRepo *MockProjectRepository
	mockAccess      *MockAccessGate
	service         portssvc.LedgerSvcFacade
	project         domain.Project
	userID          string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockProjectRepo = new(MockProjectRepository)
	suite.mockAccess = new(MockAccessGate)
	suite.service = services.NewLedgerService(suite.mockLedgerRepo, suite.mockProjectRepo, suite.mockAccess)

	suite.userID = uuid.NewString()
	suite.project = domain.Project{
		ProjectID:     uuid.NewString(),
		Name:          "Riverside Apartments",
		InitialBudget: decimal.NewFromInt(1000),
		CurrentBudget: decimal.NewFromInt(1000),
		Status:        domain.ProjectInProgress,
	}
}

func (suite *LedgerServiceTestSuite) activeEntry(entryType domain.EntryType, amount int64) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		ProjectID:   suite.project.ProjectID,
		EntryType:   entryType,
		Amount:      decimal.NewFromInt(amount),
		Description: "Material purchase",
		Status:      domain.EntryActive,
		AuditFields: domain.AuditFields{
			CreatedAt: time.Now().UTC().Add(-time.Hour),
			CreatedBy: suite.userID,
		},
	}
}

// --- Test Cases ---

func (suite *LedgerServiceTestSuite) TestCreateEntry_SuccessCredit() {
	ctx := context.Background()
	req := dto.CreateLedgerEntryRequest{
		EntryType:   "credit",
		Amount:      decimal.NewFromInt(500),
		Description: "Owner deposit",
	}

	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.project.ProjectID).Return(&suite.project, nil).Once()
	suite.mockAccess.On("AuthorizeProjectWrite", ctx, suite.userID, suite.project.ProjectID).Return(nil).Once()
	suite.mockLedgerRepo.On("SaveEntry", ctx, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.ProjectID == suite.project.ProjectID &&
			e.EntryType == domain.Credit &&
			e.Amount.Equal(decimal.NewFromInt(500)) &&
			e.Status == domain.EntryActive &&
			e.CreatedBy == suite.userID
	}), mock.MatchedBy(func(a domain.AuditRecord) bool {
		return a.ActionKind == domain.ActionCreate &&
			a.ResourceKind == domain.ResourceLedgerEntry &&
			a.ActorID != nil && *a.ActorID == suite.userID
	})).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.project.ProjectID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.Credit, entry.EntryType)
	suite.True(entry.BudgetDelta().Equal(decimal.NewFromInt(500)))
	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockAccess.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_SuccessDebit() {
	ctx := context.Background()
	req := dto.CreateLedgerEntryRequest{
		EntryType:   "DEBIT",
		Amount:      decimal.NewFromInt(200),
		Description: "Cement delivery",
	}

	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.project.ProjectID).Return(&suite.project, nil).Once()
	suite.mockAccess.On("AuthorizeProjectWrite", ctx, suite.userID, suite.project.ProjectID).Return(nil).Once()
	suite.mockLedgerRepo.On("SaveEntry", ctx, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.EntryType == domain.Debit && e.BudgetDelta().Equal(decimal.NewFromInt(-200))
	}), mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.project.ProjectID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Debit, entry.EntryType)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_RejectsNonPositiveAmount() {
	ctx := context.Background()
	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-50)} {
		req := dto.CreateLedgerEntryRequest{
			EntryType:   "CREDIT",
			Amount:      amount,
			Description: "Bad amount",
		}

		entry, err := suite.service.CreateEntry(ctx, suite.project.ProjectID, req, suite.userID)

		suite.Require().Error(err)
		suite.Nil(entry)
		suite.ErrorIs(err, apperrors.ErrInvalidAmount)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_RejectsUnknownType() {
	ctx := context.Background()
	req := dto.CreateLedgerEntryRequest{
		EntryType:   "TRANSFER",
		Amount:      decimal.NewFromInt(100),
		Description: "Not a real type",
	}

	entry, err := suite.service.CreateEntry(ctx, suite.project.ProjectID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrInvalidType)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_AmountCheckedBeforeType() {
	// Both fields are wrong; the amount failure must win.
	ctx := context.Background()
	req := dto.CreateLedgerEntryRequest{
		EntryType:   "TRANSFER",
		Amount:      decimal.NewFromInt(-1),
		Description: "Everything wrong",
	}

	_, err := suite.service.CreateEntry(ctx, suite.project.ProjectID, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.NotErrorIs(err, apperrors.ErrInvalidType)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_RejectsBlankDescription() {
	ctx := context.Background()
	req := dto.CreateLedgerEntryRequest{
		EntryType:   "DEBIT",
		Amount:      decimal.NewFromInt(100),
		Description: "   ",
	}

	_, err := suite.service.CreateEntry(ctx, suite.project.ProjectID, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrMissingField)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_ProjectNotFound() {
	ctx := context.Background()
	projectID := uuid.NewString()
	req := dto.CreateLedgerEntryRequest{
		EntryType:   "CREDIT",
		Amount:      decimal.NewFromInt(100),
		Description: "Orphan entry",
	}

	suite.mockProjectRepo.On("FindProjectByID", ctx, projectID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateEntry(ctx, projectID, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_Forbidden() {
	ctx := context.Background()
	req := dto.CreateLedgerEntryRequest{
		EntryType:   "CREDIT",
		Amount:      decimal.NewFromInt(100),
		Description: "Contractor attempt",
	}

	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.project.ProjectID).Return(&suite.project, nil).Once()
	suite.mockAccess.On("AuthorizeProjectWrite", ctx, suite.userID, suite.project.ProjectID).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.CreateEntry(ctx, suite.project.ProjectID, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_RepoFailureSurfaces() {
	// When the transactional write fails, nothing may pretend it succeeded.
	ctx := context.Background()
	req := dto.CreateLedgerEntryRequest{
		EntryType:   "CREDIT",
		Amount:      decimal.NewFromInt(100),
		Description: "Doomed entry",
	}
	dbErr := errors.New("connection reset")

	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.project.ProjectID).Return(&suite.project, nil).Once()
	suite.mockAccess.On("AuthorizeProjectWrite", ctx, suite.userID, suite.project.ProjectID).Return(nil).Once()
	suite.mockLedgerRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.LedgerEntry"), mock.AnythingOfType("domain.AuditRecord")).Return(dbErr).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.project.ProjectID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, dbErr)
}

func (suite *LedgerServiceTestSuite) TestCancelEntry_SuccessReversesCredit() {
	ctx := context.Background()
	entry := suite.activeEntry(domain.Credit, 500)

	suite.mockLedgerRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockAccess.On("AuthorizeProjectWrite", ctx, suite.userID, suite.project.ProjectID).Return(nil).Once()
	suite.mockLedgerRepo.On("CancelEntry", ctx, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.EntryID == entry.EntryID &&
			e.Status == domain.EntryCancelled &&
			e.CancelledBy != nil && *e.CancelledBy == suite.userID &&
			e.CancellationReason != nil && *e.CancellationReason == "duplicate entry"
	}), mock.MatchedBy(func(a domain.AuditRecord) bool {
		return a.ActionKind == domain.ActionCancel && a.Details["reversedAmount"] == "-500"
	})).Return(nil).Once()

	cancelled, err := suite.service.CancelEntry(ctx, suite.project.ProjectID, entry.EntryID, "duplicate entry", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.EntryCancelled, cancelled.Status)
	suite.NotNil(cancelled.CancelledAt)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCancelEntry_SuccessReversesDebit() {
	// Cancelling a debit gives the money back to the budget.
	ctx := context.Background()
	entry := suite.activeEntry(domain.Debit, 200)

	suite.mockLedgerRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockAccess.On("AuthorizeProjectWrite", ctx, suite.userID, suite.project.ProjectID).Return(nil).Once()
	suite.mockLedgerRepo.On("CancelEntry", ctx, mock.AnythingOfType("domain.LedgerEntry"), mock.MatchedBy(func(a domain.AuditRecord) bool {
		return a.Details["reversedAmount"] == "200"
	})).Return(nil).Once()

	_, err := suite.service.CancelEntry(ctx, suite.project.ProjectID, entry.EntryID, "wrong project", suite.userID)

	suite.Require().NoError(err)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCancelEntry_NotFound() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockLedgerRepo.On("FindEntryByID", ctx, entryID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CancelEntry(ctx, suite.project.ProjectID, entryID, "some reason", suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestCancelEntry_ProjectMismatchIsNotFound() {
	// An entry belonging to a different project must not leak its existence.
	ctx := context.Background()
	entry := suite.activeEntry(domain.Credit, 100)
	otherProjectID := uuid.NewString()

	suite.mockLedgerRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.CancelEntry(ctx, otherProjectID, entry.EntryID, "some reason", suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "CancelEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCancelEntry_RequiresReason() {
	ctx := context.Background()
	entry := suite.activeEntry(domain.Credit, 100)

	suite.mockLedgerRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.CancelEntry(ctx, suite.project.ProjectID, entry.EntryID, "  ", suite.userID)

	suite.ErrorIs(err, apperrors.ErrMissingField)
}

func (suite *LedgerServiceTestSuite) TestCancelEntry_AlreadyCancelledConflicts() {
	ctx := context.Background()
	entry := suite.activeEntry(domain.Credit, 100)
	entry.Status = domain.EntryCancelled

	suite.mockLedgerRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockAccess.On("AuthorizeProjectWrite", ctx, suite.userID, suite.project.ProjectID).Return(nil).Once()

	_, err := suite.service.CancelEntry(ctx, suite.project.ProjectID, entry.EntryID, "again", suite.userID)

	suite.ErrorIs(err, apperrors.ErrAlreadyCancelled)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "CancelEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCancelEntry_RepoConflictSurfaces() {
	// A concurrent cancellation detected inside the transaction still maps
	// to a conflict for the caller.
	ctx := context.Background()
	entry := suite.activeEntry(domain.Credit, 100)

	suite.mockLedgerRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockAccess.On("AuthorizeProjectWrite", ctx, suite.userID, suite.project.ProjectID).Return(nil).Once()
	suite.mockLedgerRepo.On("CancelEntry", ctx, mock.AnythingOfType("domain.LedgerEntry"), mock.AnythingOfType("domain.AuditRecord")).Return(apperrors.ErrAlreadyCancelled).Once()

	_, err := suite.service.CancelEntry(ctx, suite.project.ProjectID, entry.EntryID, "race", suite.userID)

	suite.ErrorIs(err, apperrors.ErrAlreadyCancelled)
}

func (suite *LedgerServiceTestSuite) TestGetEntryByID_ScopedToProject() {
	ctx := context.Background()
	entry := suite.activeEntry(domain.Debit, 75)
	otherProjectID := uuid.NewString()

	suite.mockAccess.On("AuthorizeProjectRead", ctx, suite.userID, otherProjectID).Return(nil).Once()
	suite.mockLedgerRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.GetEntryByID(ctx, otherProjectID, entry.EntryID, suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestListEntries_ReturnsBudgetFigures() {
	ctx := context.Background()
	suite.project.CurrentBudget = decimal.NewFromInt(1300)
	entries := []domain.LedgerEntry{
		*suite.activeEntry(domain.Credit, 500),
		*suite.activeEntry(domain.Debit, 200),
	}

	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.project.ProjectID).Return(&suite.project, nil).Once()
	suite.mockAccess.On("AuthorizeProjectRead", ctx, suite.userID, suite.project.ProjectID).Return(nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByProject", ctx, suite.project.ProjectID, "", 50, 0).Return(entries, nil).Once()

	resp, err := suite.service.ListEntries(ctx, suite.project.ProjectID, suite.userID, dto.ListLedgerEntriesParams{})

	suite.Require().NoError(err)
	suite.Len(resp.Entries, 2)
	suite.True(resp.InitialBudget.Equal(decimal.NewFromInt(1000)))
	suite.True(resp.CurrentBudget.Equal(decimal.NewFromInt(1300)))
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestListEntries_RejectsUnknownStatus() {
	ctx := context.Background()

	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.project.ProjectID).Return(&suite.project, nil).Once()
	suite.mockAccess.On("AuthorizeProjectRead", ctx, suite.userID, suite.project.ProjectID).Return(nil).Once()

	_, err := suite.service.ListEntries(ctx, suite.project.ProjectID, suite.userID, dto.ListLedgerEntriesParams{Status: "PENDING"})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestListEntries_StatusFilterUppercased() {
	ctx := context.Background()

	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.project.ProjectID).Return(&suite.project, nil).Once()
	suite.mockAccess.On("AuthorizeProjectRead", ctx, suite.userID, suite.project.ProjectID).Return(nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByProject", ctx, suite.project.ProjectID, "CANCELLED", 50, 0).Return([]domain.LedgerEntry{}, nil).Once()

	resp, err := suite.service.ListEntries(ctx, suite.project.ProjectID, suite.userID, dto.ListLedgerEntriesParams{Status: "cancelled"})

	suite.Require().NoError(err)
	suite.Empty(resp.Entries)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
