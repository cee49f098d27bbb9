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
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

// Ensure MockUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User, audit domain.AuditRecord) error {
	args := m.Called(ctx, user, audit)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User, audit domain.AuditRecord) error {
	args := m.Called(ctx, user, audit)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, audit domain.AuditRecord) error {
	args := m.Called(ctx, userID, deletedAt, audit)
	return args.Error(0)
}

// --- Mock StaffingRepository ---
type MockStaffingRepository struct {
	mock.Mock
}

// Ensure MockStaffingRepository implements portsrepo.StaffingRepositoryFacade
var _ portsrepo.StaffingRepositoryFacade = (*MockStaffingRepository)(nil)

func (m *MockStaffingRepository) FindAssignmentByID(ctx context.Context, assignmentID string) (*domain.StaffAssignment, error) {
	args := m.Called(ctx, assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffAssignment), args.Error(1)
}

func (m *MockStaffingRepository) FindAssignmentsByProject(ctx context.Context, projectID string) ([]domain.StaffAssignment, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StaffAssignment), args.Error(1)
}

func (m *MockStaffingRepository) IsUserAssignedToProject(ctx context.Context, projectID string, userID string) (bool, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStaffingRepository) SaveAssignment(ctx context.Context, assignment domain.StaffAssignment, audit domain.AuditRecord) error {
	args := m.Called(ctx, assignment, audit)
	return args.Error(0)
}

func (m *MockStaffingRepository) UpdateAssignment(ctx context.Context, assignment domain.StaffAssignment, audit domain.AuditRecord) error {
	args := m.Called(ctx, assignment, audit)
	return args.Error(0)
}

func (m *MockStaffingRepository) DeleteAssignment(ctx context.Context, assignmentID string, audit domain.AuditRecord) error {
	args := m.Called(ctx, assignmentID, audit)
	return args.Error(0)
}

// --- Test Suite Setup ---
type AccessServiceTestSuite struct {
	suite.Suite
	mockUserRepo     *MockUserRepository
	mockStaffingRepo *MockStaffingRepository
	service          portssvc.AccessGate
	admin            domain.User
	manager          domain.User
	contractor       domain.User
	projectID        string
}

func (suite *AccessServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockStaffingRepo = new(MockStaffingRepository)
	suite.service = services.NewAccessService(suite.mockUserRepo, suite.mockStaffingRepo)

	suite.projectID = uuid.NewString()
	suite.admin = domain.User{UserID: uuid.NewString(), Username: "site-admin", Role: domain.RoleAdmin}
	suite.manager = domain.User{UserID: uuid.NewString(), Username: "foreman", Role: domain.RoleManager}
	suite.contractor = domain.User{UserID: uuid.NewString(), Username: "sparky", Role: domain.RoleContractor}
}

// --- Test Cases ---

func (suite *AccessServiceTestSuite) TestProjectRead_ManagingRolesAlwaysPass() {
	ctx := context.Background()
	for _, user := range []domain.User{suite.admin, suite.manager} {
		u := user
		suite.mockUserRepo.On("FindUserByID", ctx, u.UserID).Return(&u, nil).Once()

		err := suite.service.AuthorizeProjectRead(ctx, u.UserID, suite.projectID)

		suite.NoError(err)
	}
	suite.mockStaffingRepo.AssertNotCalled(suite.T(), "IsUserAssignedToProject", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccessServiceTestSuite) TestProjectRead_AssignedContractorPasses() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.contractor.UserID).Return(&suite.contractor, nil).Once()
	suite.mockStaffingRepo.On("IsUserAssignedToProject", ctx, suite.projectID, suite.contractor.UserID).Return(true, nil).Once()

	err := suite.service.AuthorizeProjectRead(ctx, suite.contractor.UserID, suite.projectID)

	suite.NoError(err)
	suite.mockStaffingRepo.AssertExpectations(suite.T())
}

func (suite *AccessServiceTestSuite) TestProjectRead_UnassignedContractorForbidden() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.contractor.UserID).Return(&suite.contractor, nil).Once()
	suite.mockStaffingRepo.On("IsUserAssignedToProject", ctx, suite.projectID, suite.contractor.UserID).Return(false, nil).Once()

	err := suite.service.AuthorizeProjectRead(ctx, suite.contractor.UserID, suite.projectID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AccessServiceTestSuite) TestProjectWrite_ContractorForbiddenEvenWhenAssigned() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.contractor.UserID).Return(&suite.contractor, nil).Once()

	err := suite.service.AuthorizeProjectWrite(ctx, suite.contractor.UserID, suite.projectID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockStaffingRepo.AssertNotCalled(suite.T(), "IsUserAssignedToProject", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccessServiceTestSuite) TestUnknownUserIsUnauthorized() {
	ctx := context.Background()
	ghostID := uuid.NewString()
	suite.mockUserRepo.On("FindUserByID", ctx, ghostID).Return(nil, apperrors.ErrNotFound).Times(4)

	suite.ErrorIs(suite.service.AuthorizeProjectRead(ctx, ghostID, suite.projectID), apperrors.ErrUnauthorized)
	suite.ErrorIs(suite.service.AuthorizeProjectWrite(ctx, ghostID, suite.projectID), apperrors.ErrUnauthorized)
	suite.ErrorIs(suite.service.AuthorizeManager(ctx, ghostID), apperrors.ErrUnauthorized)
	suite.ErrorIs(suite.service.AuthorizeAdmin(ctx, ghostID), apperrors.ErrUnauthorized)
}

func (suite *AccessServiceTestSuite) TestDeletedUserIsUnauthorized() {
	// A soft-deleted user keeps their row but loses every permission.
	ctx := context.Background()
	deletedAt := time.Now().UTC()
	deleted := suite.manager
	deleted.DeletedAt = &deletedAt
	suite.mockUserRepo.On("FindUserByID", ctx, deleted.UserID).Return(&deleted, nil).Once()

	err := suite.service.AuthorizeProjectWrite(ctx, deleted.UserID, suite.projectID)

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AccessServiceTestSuite) TestAuthorizeManager_ContractorForbidden() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.contractor.UserID).Return(&suite.contractor, nil).Once()

	err := suite.service.AuthorizeManager(ctx, suite.contractor.UserID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AccessServiceTestSuite) TestAuthorizeAdmin_ManagerForbidden() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.manager.UserID).Return(&suite.manager, nil).Once()

	err := suite.service.AuthorizeAdmin(ctx, suite.manager.UserID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AccessServiceTestSuite) TestAuthorizeAdmin_AdminPasses() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.admin.UserID).Return(&suite.admin, nil).Once()

	suite.NoError(suite.service.AuthorizeAdmin(ctx, suite.admin.UserID))
}

// --- Run Suite ---
func TestAccessService(t *testing.T) {
	suite.Run(t, new(AccessServiceTestSuite))
}
