package services_test

import (
	"context"
	"testing"

	"github.com/buildtrack-app/buildtrack-backend/internal/apperrors"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
	"github.com/buildtrack-app/buildtrack-backend/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	mockAccess   *MockAccessGate
	service      portssvc.UserSvcFacade
	adminID      string
	user         domain.User
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockAccess = new(MockAccessGate)
	suite.service = services.NewUserService(suite.mockUserRepo, suite.mockAccess)

	suite.adminID = uuid.NewString()
	suite.user = domain.User{
		UserID:   uuid.NewString(),
		Username: "sparky",
		Name:     "Sam Okafor",
		Email:    "sam@example.com",
		Role:     domain.RoleContractor,
	}
}

// --- Test Cases ---

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Username: "newhire",
		Password: "correct-horse-battery",
		Name:     "Priya Nair",
		Role:     "manager",
	}

	suite.mockAccess.On("AuthorizeAdmin", ctx, suite.adminID).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "newhire").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		// The hash must verify against the original password and never equal it.
		return u.Role == domain.RoleManager &&
			u.PasswordHash != req.Password &&
			utils.CheckPasswordHash(req.Password, u.PasswordHash)
	}), mock.MatchedBy(func(a domain.AuditRecord) bool {
		_, leaked := a.Details["password"]
		return a.ActionKind == domain.ActionCreate && a.ResourceKind == domain.ResourceUser && !leaked
	})).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, req, suite.adminID)

	suite.Require().NoError(err)
	suite.Equal(domain.RoleManager, user.Role)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateUsername() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Username: suite.user.Username,
		Password: "irrelevant-pass",
		Name:     "Copycat",
		Role:     "CONTRACTOR",
	}

	suite.mockAccess.On("AuthorizeAdmin", ctx, suite.adminID).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByUsername", ctx, suite.user.Username).Return(&suite.user, nil).Once()

	_, err := suite.service.CreateUser(ctx, req, suite.adminID)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUser_RejectsUnknownRole() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Username: "intern",
		Password: "irrelevant-pass",
		Name:     "Eager Intern",
		Role:     "SUPERVISOR",
	}

	suite.mockAccess.On("AuthorizeAdmin", ctx, suite.adminID).Return(nil).Once()

	_, err := suite.service.CreateUser(ctx, req, suite.adminID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *UserServiceTestSuite) TestCreateUser_NonAdminForbidden() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Username: "x", Password: "irrelevant-pass", Name: "X", Role: "ADMIN"}

	suite.mockAccess.On("AuthorizeAdmin", ctx, suite.adminID).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.CreateUser(ctx, req, suite.adminID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestUpdateUser_SelfContactDetails() {
	// Users edit their own contact details with no admin check.
	ctx := context.Background()
	phone := "+15550100"
	req := dto.UpdateUserRequest{Phone: &phone}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.user.UserID).Return(&suite.user, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Phone == phone
	}), mock.MatchedBy(func(a domain.AuditRecord) bool {
		after := a.Details["after"].(map[string]any)
		return after["phone"] == phone
	})).Return(nil).Once()

	updated, err := suite.service.UpdateUser(ctx, suite.user.UserID, req, suite.user.UserID)

	suite.Require().NoError(err)
	suite.Equal(phone, updated.Phone)
	suite.mockAccess.AssertNotCalled(suite.T(), "AuthorizeAdmin", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestUpdateUser_SelfRoleChangeNeedsAdmin() {
	ctx := context.Background()
	role := "ADMIN"
	req := dto.UpdateUserRequest{Role: &role}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.user.UserID).Return(&suite.user, nil).Once()
	suite.mockAccess.On("AuthorizeAdmin", ctx, suite.user.UserID).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.UpdateUser(ctx, suite.user.UserID, req, suite.user.UserID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestDeleteUser_Success() {
	ctx := context.Background()

	suite.mockAccess.On("AuthorizeAdmin", ctx, suite.adminID).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.user.UserID).Return(&suite.user, nil).Once()
	suite.mockUserRepo.On("MarkUserDeleted", ctx, suite.user.UserID, mock.AnythingOfType("time.Time"), mock.MatchedBy(func(a domain.AuditRecord) bool {
		return a.ActionKind == domain.ActionDelete && a.Details["username"] == suite.user.Username
	})).Return(nil).Once()

	err := suite.service.DeleteUser(ctx, suite.user.UserID, suite.adminID)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestDeleteUser_SelfDeletionRejected() {
	ctx := context.Background()

	suite.mockAccess.On("AuthorizeAdmin", ctx, suite.adminID).Return(nil).Once()

	err := suite.service.DeleteUser(ctx, suite.adminID, suite.adminID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "MarkUserDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestListUsers_ManagerGateApplies() {
	ctx := context.Background()

	suite.mockAccess.On("AuthorizeManager", ctx, suite.user.UserID).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.ListUsers(ctx, suite.user.UserID, dto.ListUsersParams{})

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- Run Suite ---
func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
