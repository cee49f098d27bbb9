package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/buildtrack-app/buildtrack-backend/internal/apperrors"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	portsrepo "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/repositories"
	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
	"github.com/buildtrack-app/buildtrack-backend/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AuditRepository ---
type MockAuditRepository struct {
	mock.Mock
}

// Ensure MockAuditRepository implements portsrepo.AuditRepositoryFacade
var _ portsrepo.AuditRepositoryFacade = (*MockAuditRepository)(nil)

func (m *MockAuditRepository) SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAuditRepository) FindRecordsByResource(ctx context.Context, resourceKind string, resourceID string, limit int, before time.Time) ([]domain.AuditRecord, error) {
	args := m.Called(ctx, resourceKind, resourceID, limit, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditRecord), args.Error(1)
}

func (m *MockAuditRepository) FindRecordsByActor(ctx context.Context, actorID string, limit int, before time.Time) ([]domain.AuditRecord, error) {
	args := m.Called(ctx, actorID, limit, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditRecord), args.Error(1)
}

func (m *MockAuditRepository) FindRecords(ctx context.Context, limit int, before time.Time) ([]domain.AuditRecord, error) {
	args := m.Called(ctx, limit, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditRecord), args.Error(1)
}

// --- Test Suite Setup ---
type AuditServiceTestSuite struct {
	suite.Suite
	mockAuditRepo *MockAuditRepository
	mockUserRepo  *MockUserRepository
	mockAccess    *MockAccessGate
	service       portssvc.AuditSvcFacade
	actor         domain.User
	callerID      string
}

func (suite *AuditServiceTestSuite) SetupTest() {
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockAccess = new(MockAccessGate)
	suite.service = services.NewAuditService(suite.mockAuditRepo, suite.mockUserRepo, suite.mockAccess)

	suite.callerID = uuid.NewString()
	suite.actor = domain.User{
		UserID:   uuid.NewString(),
		Username: "foreman",
		Name:     "Dana Reyes",
		Role:     domain.RoleManager,
	}
}

func (suite *AuditServiceTestSuite) records(n int, actorID *string) []domain.AuditRecord {
	out := make([]domain.AuditRecord, n)
	base := time.Now().UTC()
	for i := range out {
		out[i] = domain.AuditRecord{
			RecordID:     uuid.NewString(),
			ActorID:      actorID,
			ActionKind:   domain.ActionUpdate,
			ResourceKind: domain.ResourceProject,
			ResourceID:   uuid.NewString(),
			Timestamp:    base.Add(-time.Duration(i) * time.Minute),
		}
	}
	return out
}

// --- Test Cases ---

func (suite *AuditServiceTestSuite) TestRecordAction_Success() {
	ctx := context.Background()

	suite.mockAuditRepo.On("SaveAuditRecord", ctx, mock.MatchedBy(func(r domain.AuditRecord) bool {
		return r.RecordID != "" &&
			r.ActorID != nil && *r.ActorID == suite.actor.UserID &&
			r.ActionKind == domain.ActionLogin &&
			r.ResourceKind == domain.ResourceUser &&
			!r.Timestamp.IsZero()
	})).Return(nil).Once()

	err := suite.service.RecordAction(ctx, &suite.actor.UserID, domain.ActionLogin, domain.ResourceUser, suite.actor.UserID, map[string]any{"success": true})

	suite.Require().NoError(err)
	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestRecordAction_RequiresActionAndResourceKind() {
	ctx := context.Background()

	err := suite.service.RecordAction(ctx, nil, "", domain.ResourceUser, "x", nil)
	suite.ErrorIs(err, apperrors.ErrMissingField)

	err = suite.service.RecordAction(ctx, nil, domain.ActionCreate, " ", "x", nil)
	suite.ErrorIs(err, apperrors.ErrMissingField)

	suite.mockAuditRepo.AssertNotCalled(suite.T(), "SaveAuditRecord", mock.Anything, mock.Anything)
}

func (suite *AuditServiceTestSuite) TestListResourceHistory_ResolvesActorNames() {
	ctx := context.Background()
	records := suite.records(2, &suite.actor.UserID)
	resourceID := records[0].ResourceID

	suite.mockAccess.On("AuthorizeManager", ctx, suite.callerID).Return(nil).Once()
	suite.mockAuditRepo.On("FindRecordsByResource", ctx, domain.ResourceProject, resourceID, 50, time.Time{}).Return(records, nil).Once()
	// Two records, one actor: the lookup must be cached.
	suite.mockUserRepo.On("FindUserByID", ctx, suite.actor.UserID).Return(&suite.actor, nil).Once()

	resp, err := suite.service.ListResourceHistory(ctx, domain.ResourceProject, resourceID, suite.callerID, dto.ListAuditRecordsParams{})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Records, 2)
	suite.Equal("Dana Reyes", resp.Records[0].ActorName)
	suite.Equal("Dana Reyes", resp.Records[1].ActorName)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestListResourceHistory_SystemActor() {
	ctx := context.Background()
	records := suite.records(1, nil)
	resourceID := records[0].ResourceID

	suite.mockAccess.On("AuthorizeManager", ctx, suite.callerID).Return(nil).Once()
	suite.mockAuditRepo.On("FindRecordsByResource", ctx, domain.ResourceProject, resourceID, 50, time.Time{}).Return(records, nil).Once()

	resp, err := suite.service.ListResourceHistory(ctx, domain.ResourceProject, resourceID, suite.callerID, dto.ListAuditRecordsParams{})

	suite.Require().NoError(err)
	suite.Equal("system", resp.Records[0].ActorName)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUserByID", mock.Anything, mock.Anything)
}

func (suite *AuditServiceTestSuite) TestListResourceHistory_MissingActorFallsBackToID() {
	ctx := context.Background()
	goneActorID := uuid.NewString()
	records := suite.records(2, &goneActorID)
	resourceID := records[0].ResourceID

	suite.mockAccess.On("AuthorizeManager", ctx, suite.callerID).Return(nil).Once()
	suite.mockAuditRepo.On("FindRecordsByResource", ctx, domain.ResourceProject, resourceID, 50, time.Time{}).Return(records, nil).Once()
	// Actor row is gone; the id itself keeps the rows attributable. The
	// failed lookup is cached the same as a successful one.
	suite.mockUserRepo.On("FindUserByID", ctx, goneActorID).Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.ListResourceHistory(ctx, domain.ResourceProject, resourceID, suite.callerID, dto.ListAuditRecordsParams{})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Records, 2)
	suite.Equal(goneActorID, resp.Records[0].ActorName)
	suite.Equal(goneActorID, resp.Records[1].ActorName)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestListResourceHistory_FullPageEmitsNextToken() {
	ctx := context.Background()
	records := suite.records(2, nil)

	suite.mockAccess.On("AuthorizeManager", ctx, suite.callerID).Return(nil).Once()
	suite.mockAuditRepo.On("FindRecordsByResource", ctx, domain.ResourceProject, "res-1", 2, time.Time{}).Return(records, nil).Once()

	resp, err := suite.service.ListResourceHistory(ctx, domain.ResourceProject, "res-1", suite.callerID, dto.ListAuditRecordsParams{Limit: 2})

	suite.Require().NoError(err)
	suite.Require().NotEmpty(resp.NextToken)

	// The token must decode to the oldest timestamp of the page.
	before, err := pagination.DecodeDateBasedToken(resp.NextToken)
	suite.Require().NoError(err)
	suite.True(before.Equal(records[1].Timestamp))
}

func (suite *AuditServiceTestSuite) TestListResourceHistory_PartialPageHasNoNextToken() {
	ctx := context.Background()
	records := suite.records(1, nil)

	suite.mockAccess.On("AuthorizeManager", ctx, suite.callerID).Return(nil).Once()
	suite.mockAuditRepo.On("FindRecordsByResource", ctx, domain.ResourceProject, "res-1", 50, time.Time{}).Return(records, nil).Once()

	resp, err := suite.service.ListResourceHistory(ctx, domain.ResourceProject, "res-1", suite.callerID, dto.ListAuditRecordsParams{})

	suite.Require().NoError(err)
	suite.Empty(resp.NextToken)
}

func (suite *AuditServiceTestSuite) TestListResourceHistory_BadTokenIsValidationError() {
	ctx := context.Background()

	suite.mockAccess.On("AuthorizeManager", ctx, suite.callerID).Return(nil).Once()

	_, err := suite.service.ListResourceHistory(ctx, domain.ResourceProject, "res-1", suite.callerID, dto.ListAuditRecordsParams{NextToken: "not-a-token"})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "FindRecordsByResource", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuditServiceTestSuite) TestListResourceHistory_ContractorForbidden() {
	ctx := context.Background()

	suite.mockAccess.On("AuthorizeManager", ctx, suite.callerID).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.ListResourceHistory(ctx, domain.ResourceProject, "res-1", suite.callerID, dto.ListAuditRecordsParams{})

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AuditServiceTestSuite) TestListActorHistory_UnknownActorNotFound() {
	ctx := context.Background()
	ghostID := uuid.NewString()

	suite.mockAccess.On("AuthorizeManager", ctx, suite.callerID).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, ghostID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListActorHistory(ctx, ghostID, suite.callerID, dto.ListAuditRecordsParams{})

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AuditServiceTestSuite) TestListAll_AdminOnly() {
	ctx := context.Background()

	suite.mockAccess.On("AuthorizeAdmin", ctx, suite.callerID).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.ListAll(ctx, suite.callerID, dto.ListAuditRecordsParams{})

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "FindRecords", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuditServiceTestSuite) TestListAll_ClampsLimit() {
	ctx := context.Background()

	suite.mockAccess.On("AuthorizeAdmin", ctx, suite.callerID).Return(nil).Once()
	suite.mockAuditRepo.On("FindRecords", ctx, 50, time.Time{}).Return([]domain.AuditRecord{}, nil).Once()

	_, err := suite.service.ListAll(ctx, suite.callerID, dto.ListAuditRecordsParams{Limit: 5000})

	suite.Require().NoError(err)
	suite.mockAuditRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestAuditService(t *testing.T) {
	suite.Run(t, new(AuditServiceTestSuite))
}
