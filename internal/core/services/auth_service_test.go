package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

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

// --- Mock UserReaderSvc ---
type MockUserReaderSvc struct {
	mock.Mock
}

var _ portssvc.UserReaderSvc = (*MockUserReaderSvc)(nil)

func (m *MockUserReaderSvc) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserReaderSvc) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserReaderSvc) ListUsers(ctx context.Context, requestingUserID string, params dto.ListUsersParams) ([]domain.User, error) {
	args := m.Called(ctx, requestingUserID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// --- Mock AuditRecorder ---
type MockAuditRecorder struct {
	mock.Mock
}

var _ portssvc.AuditRecorderSvc = (*MockAuditRecorder)(nil)

func (m *MockAuditRecorder) RecordAction(ctx context.Context, actorID *string, action domain.ActionKind, resourceKind string, resourceID string, details map[string]any) error {
	args := m.Called(ctx, actorID, action, resourceKind, resourceID, details)
	return args.Error(0)
}

// --- Test Suite Setup ---
type AuthServiceTestSuite struct {
	suite.Suite
	mockUserSvc  *MockUserReaderSvc
	mockTokenSvc *MockTokenService
	mockAuditSvc *MockAuditRecorder
	service      portssvc.AuthSvcFacade
	user         domain.User
	password     string
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockUserSvc = new(MockUserReaderSvc)
	suite.mockTokenSvc = new(MockTokenService)
	suite.mockAuditSvc = new(MockAuditRecorder)
	suite.service = services.NewAuthService(suite.mockUserSvc, suite.mockTokenSvc, suite.mockAuditSvc)

	suite.password = "correct-horse-battery"
	hash, err := utils.HashPassword(suite.password)
	suite.Require().NoError(err)
	suite.user = domain.User{
		UserID:       uuid.NewString(),
		Username:     "foreman",
		Name:         "Dana Reyes",
		Role:         domain.RoleManager,
		PasswordHash: hash,
	}
}

// --- Test Cases ---

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	req := dto.LoginRequest{Username: suite.user.Username, Password: suite.password}

	suite.mockUserSvc.On("GetUserByUsername", ctx, suite.user.Username).Return(&suite.user, nil).Once()
	suite.mockTokenSvc.On("GenerateAccessToken", ctx, &suite.user).Return("signed.jwt.token", time.Now().Add(12*time.Hour), nil).Once()
	suite.mockAuditSvc.On("RecordAction", ctx, &suite.user.UserID, domain.ActionLogin, domain.ResourceUser, suite.user.UserID, mock.MatchedBy(func(d map[string]any) bool {
		return d["success"] == true
	})).Return(nil).Once()

	resp, err := suite.service.Login(ctx, req)

	suite.Require().NoError(err)
	suite.Equal("signed.jwt.token", resp.Token)
	suite.Equal(suite.user.UserID, resp.User.UserID)
	suite.mockAuditSvc.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPasswordAudited() {
	ctx := context.Background()
	req := dto.LoginRequest{Username: suite.user.Username, Password: "wrong"}

	suite.mockUserSvc.On("GetUserByUsername", ctx, suite.user.Username).Return(&suite.user, nil).Once()
	suite.mockAuditSvc.On("RecordAction", ctx, &suite.user.UserID, domain.ActionLogin, domain.ResourceUser, suite.user.UserID, mock.MatchedBy(func(d map[string]any) bool {
		return d["success"] == false
	})).Return(nil).Once()

	resp, err := suite.service.Login(ctx, req)

	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockTokenSvc.AssertNotCalled(suite.T(), "GenerateAccessToken", mock.Anything, mock.Anything)
	suite.mockAuditSvc.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownUserAuditedAsSystem() {
	// No user row exists, so the attempt is recorded without an actor.
	ctx := context.Background()
	req := dto.LoginRequest{Username: "nobody", Password: "whatever"}

	suite.mockUserSvc.On("GetUserByUsername", ctx, "nobody").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAuditSvc.On("RecordAction", ctx, (*string)(nil), domain.ActionLogin, domain.ResourceUser, "nobody", mock.Anything).Return(nil).Once()

	_, err := suite.service.Login(ctx, req)

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockAuditSvc.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLogin_DeletedUserRejected() {
	ctx := context.Background()
	deletedAt := time.Now().UTC()
	deleted := suite.user
	deleted.DeletedAt = &deletedAt
	req := dto.LoginRequest{Username: deleted.Username, Password: suite.password}

	suite.mockUserSvc.On("GetUserByUsername", ctx, deleted.Username).Return(&deleted, nil).Once()
	suite.mockAuditSvc.On("RecordAction", ctx, (*string)(nil), domain.ActionLogin, domain.ResourceUser, deleted.Username, mock.Anything).Return(nil).Once()

	_, err := suite.service.Login(ctx, req)

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_AuditFailureDoesNotBlockLogin() {
	// The attempt record is best-effort; a broken audit store must not lock
	// everyone out.
	ctx := context.Background()
	req := dto.LoginRequest{Username: suite.user.Username, Password: suite.password}

	suite.mockUserSvc.On("GetUserByUsername", ctx, suite.user.Username).Return(&suite.user, nil).Once()
	suite.mockTokenSvc.On("GenerateAccessToken", ctx, &suite.user).Return("signed.jwt.token", time.Now().Add(12*time.Hour), nil).Once()
	suite.mockAuditSvc.On("RecordAction", ctx, &suite.user.UserID, domain.ActionLogin, domain.ResourceUser, suite.user.UserID, mock.Anything).Return(errors.New("audit store down")).Once()

	resp, err := suite.service.Login(ctx, req)

	suite.Require().NoError(err)
	suite.Equal("signed.jwt.token", resp.Token)
}

func (suite *AuthServiceTestSuite) TestLogin_TokenFailureSurfaces() {
	ctx := context.Background()
	req := dto.LoginRequest{Username: suite.user.Username, Password: suite.password}
	signErr := errors.New("key unavailable")

	suite.mockUserSvc.On("GetUserByUsername", ctx, suite.user.Username).Return(&suite.user, nil).Once()
	suite.mockTokenSvc.On("GenerateAccessToken", ctx, &suite.user).Return("", time.Time{}, signErr).Once()

	resp, err := suite.service.Login(ctx, req)

	suite.Nil(resp)
	suite.ErrorIs(err, signErr)
}

// --- Run Suite ---
func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
