package services_test

import (
	"context"
	"os"
	"strings"
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

// --- Mock ChecklistRepository ---
type MockChecklistRepository struct {
	mock.Mock
}

// Ensure MockChecklistRepository implements portsrepo.ChecklistRepositoryFacade
var _ portsrepo.ChecklistRepositoryFacade = (*MockChecklistRepository)(nil)

func (m *MockChecklistRepository) FindItemByID(ctx context.Context, itemID string) (*domain.ChecklistItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChecklistItem), args.Error(1)
}

func (m *MockChecklistRepository) FindItemsByProject(ctx context.Context, projectID string) ([]domain.ChecklistItem, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChecklistItem), args.Error(1)
}

func (m *MockChecklistRepository) FindAttachmentByID(ctx context.Context, attachmentID string) (*domain.ChecklistAttachment, error) {
	args := m.Called(ctx, attachmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChecklistAttachment), args.Error(1)
}

func (m *MockChecklistRepository) FindAttachmentsByItem(ctx context.Context, itemID string) ([]domain.ChecklistAttachment, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChecklistAttachment), args.Error(1)
}

func (m *MockChecklistRepository) SaveItem(ctx context.Context, item domain.ChecklistItem, audit domain.AuditRecord) error {
	args := m.Called(ctx, item, audit)
	return args.Error(0)
}

func (m *MockChecklistRepository) UpdateItem(ctx context.Context, item domain.ChecklistItem, audit domain.AuditRecord) error {
	args := m.Called(ctx, item, audit)
	return args.Error(0)
}

func (m *MockChecklistRepository) DeleteItem(ctx context.Context, itemID string, audit domain.AuditRecord) error {
	args := m.Called(ctx, itemID, audit)
	return args.Error(0)
}

func (m *MockChecklistRepository) SaveAttachment(ctx context.Context, attachment domain.ChecklistAttachment, audit domain.AuditRecord) error {
	args := m.Called(ctx, attachment, audit)
	return args.Error(0)
}

func (m *MockChecklistRepository) DeleteAttachment(ctx context.Context, attachmentID string, audit domain.AuditRecord) error {
	args := m.Called(ctx, attachmentID, audit)
	return args.Error(0)
}

// --- Test Suite Setup ---
type ChecklistServiceTestSuite struct {
	suite.Suite
	mockChecklistRepo *MockChecklistRepository
	mockProjectRepo   *MockProjectRepository
	mockUserRepo      *MockUserRepository
	mockAccess        *MockAccessGate
	service           portssvc.ChecklistSvcFacade
	item              domain.ChecklistItem
	userID            string
	uploadDir         string
}

func (suite *ChecklistServiceTestSuite) SetupTest() {
	suite.mockChecklistRepo = new(MockChecklistRepository)
	suite.mockProjectRepo = new(MockProjectRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockAccess = new(MockAccessGate)
	suite.uploadDir = suite.T().TempDir()
	suite.service = services.NewChecklistService(suite.mockChecklistRepo, suite.mockProjectRepo, suite.mockUserRepo, suite.mockAccess, suite.uploadDir)

	suite.userID = uuid.NewString()
	suite.item = domain.ChecklistItem{
		ItemID:    uuid.NewString(),
		ProjectID: uuid.NewString(),
		Title:     "Pour foundation",
		Status:    domain.ChecklistPending,
		AuditFields: domain.AuditFields{
			CreatedAt: time.Now().UTC().Add(-time.Hour),
			CreatedBy: suite.userID,
		},
	}
}

// --- Test Cases ---

func (suite *ChecklistServiceTestSuite) TestAddAttachment_Success() {
	ctx := context.Background()

	suite.mockChecklistRepo.On("FindItemByID", ctx, suite.item.ItemID).Return(&suite.item, nil).Once()
	suite.mockAccess.On("AuthorizeProjectWrite", ctx, suite.userID, suite.item.ProjectID).Return(nil).Once()

	var storedPath string
	suite.mockChecklistRepo.On("SaveAttachment", ctx,
		mock.MatchedBy(func(a domain.ChecklistAttachment) bool {
			storedPath = a.StoragePath
			return a.ItemID == suite.item.ItemID &&
				a.Filename == "foundation.jpg" &&
				a.UploadedBy == suite.userID &&
				a.StoragePath != ""
		}),
		mock.MatchedBy(func(r domain.AuditRecord) bool {
			return r.ActionKind == domain.ActionCreate &&
				r.ResourceKind == domain.ResourceChecklistItem &&
				r.ResourceID == suite.item.ItemID &&
				r.Details["filename"] == "foundation.jpg" &&
				r.Details["attachmentID"] != ""
		}),
	).Return(nil).Once()

	attachment, err := suite.service.AddAttachment(ctx, suite.item.ProjectID, suite.item.ItemID, "foundation.jpg", strings.NewReader("jpeg-bytes"), suite.userID)

	suite.Require().NoError(err)
	suite.Equal("foundation.jpg", attachment.Filename)
	content, readErr := os.ReadFile(storedPath)
	suite.Require().NoError(readErr)
	suite.Equal("jpeg-bytes", string(content))
	suite.mockChecklistRepo.AssertExpectations(suite.T())
}

func (suite *ChecklistServiceTestSuite) TestAddAttachment_RejectsNonImage() {
	ctx := context.Background()

	suite.mockChecklistRepo.On("FindItemByID", ctx, suite.item.ItemID).Return(&suite.item, nil).Once()
	suite.mockAccess.On("AuthorizeProjectWrite", ctx, suite.userID, suite.item.ProjectID).Return(nil).Once()

	_, err := suite.service.AddAttachment(ctx, suite.item.ProjectID, suite.item.ItemID, "report.pdf", strings.NewReader("pdf-bytes"), suite.userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockChecklistRepo.AssertNotCalled(suite.T(), "SaveAttachment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ChecklistServiceTestSuite) TestAddAttachment_WrongProjectIsNotFound() {
	ctx := context.Background()
	otherProjectID := uuid.NewString()

	suite.mockChecklistRepo.On("FindItemByID", ctx, suite.item.ItemID).Return(&suite.item, nil).Once()

	_, err := suite.service.AddAttachment(ctx, otherProjectID, suite.item.ItemID, "foundation.jpg", strings.NewReader("jpeg-bytes"), suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAccess.AssertNotCalled(suite.T(), "AuthorizeProjectWrite", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ChecklistServiceTestSuite) TestRemoveAttachment_DeletesStoredFile() {
	ctx := context.Background()
	storedPath := suite.uploadDir + "/evidence.jpg"
	suite.Require().NoError(os.WriteFile(storedPath, []byte("jpeg-bytes"), 0o644))
	attachment := &domain.ChecklistAttachment{
		AttachmentID: uuid.NewString(),
		ItemID:       suite.item.ItemID,
		Filename:     "foundation.jpg",
		StoragePath:  storedPath,
		UploadedBy:   suite.userID,
	}

	suite.mockChecklistRepo.On("FindItemByID", ctx, suite.item.ItemID).Return(&suite.item, nil).Once()
	suite.mockAccess.On("AuthorizeProjectWrite", ctx, suite.userID, suite.item.ProjectID).Return(nil).Once()
	suite.mockChecklistRepo.On("FindAttachmentByID", ctx, attachment.AttachmentID).Return(attachment, nil).Once()
	suite.mockChecklistRepo.On("DeleteAttachment", ctx, attachment.AttachmentID,
		mock.MatchedBy(func(r domain.AuditRecord) bool {
			return r.ActionKind == domain.ActionDelete &&
				r.ResourceKind == domain.ResourceChecklistItem &&
				r.Details["attachmentID"] == attachment.AttachmentID
		}),
	).Return(nil).Once()

	err := suite.service.RemoveAttachment(ctx, suite.item.ProjectID, suite.item.ItemID, attachment.AttachmentID, suite.userID)

	suite.Require().NoError(err)
	suite.NoFileExists(storedPath)
	suite.mockChecklistRepo.AssertExpectations(suite.T())
}

func (suite *ChecklistServiceTestSuite) TestRemoveAttachment_WrongItemIsNotFound() {
	ctx := context.Background()
	attachment := &domain.ChecklistAttachment{
		AttachmentID: uuid.NewString(),
		ItemID:       uuid.NewString(),
		Filename:     "foundation.jpg",
	}

	suite.mockChecklistRepo.On("FindItemByID", ctx, suite.item.ItemID).Return(&suite.item, nil).Once()
	suite.mockAccess.On("AuthorizeProjectWrite", ctx, suite.userID, suite.item.ProjectID).Return(nil).Once()
	suite.mockChecklistRepo.On("FindAttachmentByID", ctx, attachment.AttachmentID).Return(attachment, nil).Once()

	err := suite.service.RemoveAttachment(ctx, suite.item.ProjectID, suite.item.ItemID, attachment.AttachmentID, suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockChecklistRepo.AssertNotCalled(suite.T(), "DeleteAttachment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ChecklistServiceTestSuite) TestListAttachments_RequiresProjectRead() {
	ctx := context.Background()
	outsiderID := uuid.NewString()

	suite.mockChecklistRepo.On("FindItemByID", ctx, suite.item.ItemID).Return(&suite.item, nil).Once()
	suite.mockAccess.On("AuthorizeProjectRead", ctx, outsiderID, suite.item.ProjectID).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.ListAttachments(ctx, suite.item.ProjectID, suite.item.ItemID, outsiderID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockChecklistRepo.AssertNotCalled(suite.T(), "FindAttachmentsByItem", mock.Anything, mock.Anything)
}

// --- Run Suite ---
func TestChecklistService(t *testing.T) {
	suite.Run(t, new(ChecklistServiceTestSuite))
}
