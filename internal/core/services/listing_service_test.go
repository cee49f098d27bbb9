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
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ListingRepository ---
type MockListingRepository struct {
	mock.Mock
}

// Ensure MockListingRepository implements portsrepo.ListingRepositoryFacade
var _ portsrepo.ListingRepositoryFacade = (*MockListingRepository)(nil)

func (m *MockListingRepository) FindListingByID(ctx context.Context, listingID string) (*domain.Listing, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingRepository) FindListings(ctx context.Context) ([]domain.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *MockListingRepository) FindPhotoByID(ctx context.Context, photoID string) (*domain.ListingPhoto, error) {
	args := m.Called(ctx, photoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ListingPhoto), args.Error(1)
}

func (m *MockListingRepository) FindPhotosByListing(ctx context.Context, listingID string) ([]domain.ListingPhoto, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ListingPhoto), args.Error(1)
}

func (m *MockListingRepository) SaveListing(ctx context.Context, listing domain.Listing, audit domain.AuditRecord) error {
	args := m.Called(ctx, listing, audit)
	return args.Error(0)
}

func (m *MockListingRepository) UpdateListing(ctx context.Context, listing domain.Listing, audit domain.AuditRecord) error {
	args := m.Called(ctx, listing, audit)
	return args.Error(0)
}

func (m *MockListingRepository) DeleteListing(ctx context.Context, listingID string, audit domain.AuditRecord) error {
	args := m.Called(ctx, listingID, audit)
	return args.Error(0)
}

func (m *MockListingRepository) SavePhoto(ctx context.Context, photo domain.ListingPhoto, audit domain.AuditRecord) error {
	args := m.Called(ctx, photo, audit)
	return args.Error(0)
}

func (m *MockListingRepository) DeletePhoto(ctx context.Context, photoID string, audit domain.AuditRecord) error {
	args := m.Called(ctx, photoID, audit)
	return args.Error(0)
}

// --- Test Suite Setup ---
type ListingServiceTestSuite struct {
	suite.Suite
	mockListingRepo *MockListingRepository
	mockAccess      *MockAccessGate
	service         portssvc.ListingSvcFacade
	managerID       string
	uploadDir       string
}

func (suite *ListingServiceTestSuite) SetupTest() {
	suite.mockListingRepo = new(MockListingRepository)
	suite.mockAccess = new(MockAccessGate)
	suite.uploadDir = suite.T().TempDir()
	suite.service = services.NewListingService(suite.mockListingRepo, suite.mockAccess, suite.uploadDir)

	suite.managerID = uuid.NewString()
}

func (suite *ListingServiceTestSuite) listing() *domain.Listing {
	return &domain.Listing{
		ListingID: uuid.NewString(),
		Title:     "Corner House",
		Address:   "12 Harbor Street",
		District:  "Old Town",
		Status:    domain.ListingForSale,
		AuditFields: domain.AuditFields{
			CreatedAt:     time.Now().UTC().Add(-time.Hour),
			CreatedBy:     suite.managerID,
			LastUpdatedAt: time.Now().UTC().Add(-time.Hour),
			LastUpdatedBy: suite.managerID,
		},
	}
}

// --- Test Cases ---

func (suite *ListingServiceTestSuite) TestCreateListing_DefaultsToForSale() {
	ctx := context.Background()
	req := dto.CreateListingRequest{
		Title:   "Corner House",
		Address: "12 Harbor Street",
	}

	suite.mockAccess.On("AuthorizeManager", ctx, suite.managerID).Return(nil).Once()
	suite.mockListingRepo.On("SaveListing", ctx,
		mock.MatchedBy(func(l domain.Listing) bool {
			return l.ListingID != "" &&
				l.Title == "Corner House" &&
				l.Status == domain.ListingForSale &&
				l.CoverPath == nil &&
				l.CreatedBy == suite.managerID
		}),
		mock.MatchedBy(func(a domain.AuditRecord) bool {
			return a.ActionKind == domain.ActionCreate &&
				a.ResourceKind == domain.ResourceListing &&
				a.Details["title"] == "Corner House"
		}),
	).Return(nil).Once()

	resp, err := suite.service.CreateListing(ctx, req, "", nil, suite.managerID)

	suite.Require().NoError(err)
	suite.Equal("FOR_SALE", resp.Status)
	suite.False(resp.HasCover)
	suite.mockListingRepo.AssertExpectations(suite.T())
}

func (suite *ListingServiceTestSuite) TestCreateListing_StoresCoverImage() {
	ctx := context.Background()
	req := dto.CreateListingRequest{Title: "Corner House"}

	suite.mockAccess.On("AuthorizeManager", ctx, suite.managerID).Return(nil).Once()

	var storedPath string
	suite.mockListingRepo.On("SaveListing", ctx,
		mock.MatchedBy(func(l domain.Listing) bool {
			if l.CoverPath == nil {
				return false
			}
			storedPath = *l.CoverPath
			return strings.HasSuffix(*l.CoverPath, ".jpg")
		}),
		mock.AnythingOfType("domain.AuditRecord"),
	).Return(nil).Once()

	resp, err := suite.service.CreateListing(ctx, req, "front.JPG", strings.NewReader("jpeg-bytes"), suite.managerID)

	suite.Require().NoError(err)
	suite.True(resp.HasCover)
	content, readErr := os.ReadFile(storedPath)
	suite.Require().NoError(readErr)
	suite.Equal("jpeg-bytes", string(content))
}

func (suite *ListingServiceTestSuite) TestCreateListing_RejectsNonImageCover() {
	ctx := context.Background()
	req := dto.CreateListingRequest{Title: "Corner House"}

	suite.mockAccess.On("AuthorizeManager", ctx, suite.managerID).Return(nil).Once()

	_, err := suite.service.CreateListing(ctx, req, "notes.txt", strings.NewReader("not an image"), suite.managerID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockListingRepo.AssertNotCalled(suite.T(), "SaveListing", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ListingServiceTestSuite) TestCreateListing_RequiresTitle() {
	ctx := context.Background()

	suite.mockAccess.On("AuthorizeManager", ctx, suite.managerID).Return(nil).Once()

	_, err := suite.service.CreateListing(ctx, dto.CreateListingRequest{Title: "   "}, "", nil, suite.managerID)

	suite.ErrorIs(err, apperrors.ErrMissingField)
	suite.mockListingRepo.AssertNotCalled(suite.T(), "SaveListing", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ListingServiceTestSuite) TestCreateListing_RejectsUnknownStatus() {
	ctx := context.Background()
	req := dto.CreateListingRequest{Title: "Corner House", Status: "DEMOLISHED"}

	suite.mockAccess.On("AuthorizeManager", ctx, suite.managerID).Return(nil).Once()

	_, err := suite.service.CreateListing(ctx, req, "", nil, suite.managerID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ListingServiceTestSuite) TestCreateListing_NonManagerForbidden() {
	ctx := context.Background()
	contractorID := uuid.NewString()

	suite.mockAccess.On("AuthorizeManager", ctx, contractorID).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.CreateListing(ctx, dto.CreateListingRequest{Title: "Corner House"}, "", nil, contractorID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockListingRepo.AssertNotCalled(suite.T(), "SaveListing", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ListingServiceTestSuite) TestUpdateListing_AuditsStatusChange() {
	ctx := context.Background()
	listing := suite.listing()
	newStatus := "SOLD"

	suite.mockAccess.On("AuthorizeManager", ctx, suite.managerID).Return(nil).Once()
	suite.mockListingRepo.On("FindListingByID", ctx, listing.ListingID).Return(listing, nil).Once()
	suite.mockListingRepo.On("UpdateListing", ctx,
		mock.MatchedBy(func(l domain.Listing) bool {
			return l.Status == domain.ListingSold && l.LastUpdatedBy == suite.managerID
		}),
		mock.MatchedBy(func(a domain.AuditRecord) bool {
			before, beforeOk := a.Details["before"].(map[string]any)
			after, afterOk := a.Details["after"].(map[string]any)
			return a.ActionKind == domain.ActionUpdate &&
				beforeOk && afterOk &&
				before["status"] == "FOR_SALE" &&
				after["status"] == "SOLD"
		}),
	).Return(nil).Once()
	suite.mockListingRepo.On("FindPhotosByListing", ctx, listing.ListingID).Return([]domain.ListingPhoto{}, nil).Once()

	resp, err := suite.service.UpdateListing(ctx, listing.ListingID, dto.UpdateListingRequest{Status: &newStatus}, suite.managerID)

	suite.Require().NoError(err)
	suite.Equal("SOLD", resp.Status)
	suite.mockListingRepo.AssertExpectations(suite.T())
}

func (suite *ListingServiceTestSuite) TestUpdateListing_NoChangesSkipsWrite() {
	ctx := context.Background()
	listing := suite.listing()
	sameTitle := listing.Title

	suite.mockAccess.On("AuthorizeManager", ctx, suite.managerID).Return(nil).Once()
	suite.mockListingRepo.On("FindListingByID", ctx, listing.ListingID).Return(listing, nil).Once()
	suite.mockListingRepo.On("FindPhotosByListing", ctx, listing.ListingID).Return([]domain.ListingPhoto{}, nil).Once()

	_, err := suite.service.UpdateListing(ctx, listing.ListingID, dto.UpdateListingRequest{Title: &sameTitle}, suite.managerID)

	suite.Require().NoError(err)
	suite.mockListingRepo.AssertNotCalled(suite.T(), "UpdateListing", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ListingServiceTestSuite) TestDeleteListing_RemovesStoredImages() {
	ctx := context.Background()
	listing := suite.listing()

	coverPath := suite.uploadDir + "/cover_test.jpg"
	photoPath := suite.uploadDir + "/gallery_test.png"
	suite.Require().NoError(os.WriteFile(coverPath, []byte("cover"), 0o644))
	suite.Require().NoError(os.WriteFile(photoPath, []byte("photo"), 0o644))
	listing.CoverPath = &coverPath
	photos := []domain.ListingPhoto{{
		PhotoID:     uuid.NewString(),
		ListingID:   listing.ListingID,
		Filename:    "site.png",
		StoragePath: photoPath,
	}}

	suite.mockAccess.On("AuthorizeManager", ctx, suite.managerID).Return(nil).Once()
	suite.mockListingRepo.On("FindListingByID", ctx, listing.ListingID).Return(listing, nil).Once()
	suite.mockListingRepo.On("FindPhotosByListing", ctx, listing.ListingID).Return(photos, nil).Once()
	suite.mockListingRepo.On("DeleteListing", ctx, listing.ListingID,
		mock.MatchedBy(func(a domain.AuditRecord) bool {
			return a.ActionKind == domain.ActionDelete &&
				a.ResourceKind == domain.ResourceListing &&
				a.Details["photoCount"] == 1
		}),
	).Return(nil).Once()

	err := suite.service.DeleteListing(ctx, listing.ListingID, suite.managerID)

	suite.Require().NoError(err)
	suite.NoFileExists(coverPath)
	suite.NoFileExists(photoPath)
}

func (suite *ListingServiceTestSuite) TestAddPhoto_Success() {
	ctx := context.Background()
	listing := suite.listing()

	suite.mockAccess.On("AuthorizeManager", ctx, suite.managerID).Return(nil).Once()
	suite.mockListingRepo.On("FindListingByID", ctx, listing.ListingID).Return(listing, nil).Once()
	suite.mockListingRepo.On("SavePhoto", ctx,
		mock.MatchedBy(func(p domain.ListingPhoto) bool {
			return p.ListingID == listing.ListingID &&
				p.Filename == "garden.png" &&
				p.UploadedBy == suite.managerID
		}),
		mock.MatchedBy(func(a domain.AuditRecord) bool {
			return a.ActionKind == domain.ActionUpdate &&
				a.ResourceID == listing.ListingID &&
				a.Details["filename"] == "garden.png"
		}),
	).Return(nil).Once()

	photo, err := suite.service.AddPhoto(ctx, listing.ListingID, "garden.png", strings.NewReader("png-bytes"), suite.managerID)

	suite.Require().NoError(err)
	suite.Equal("garden.png", photo.Filename)
	suite.mockListingRepo.AssertExpectations(suite.T())
}

func (suite *ListingServiceTestSuite) TestAddPhoto_RejectsNonImage() {
	ctx := context.Background()
	listing := suite.listing()

	suite.mockAccess.On("AuthorizeManager", ctx, suite.managerID).Return(nil).Once()
	suite.mockListingRepo.On("FindListingByID", ctx, listing.ListingID).Return(listing, nil).Once()

	_, err := suite.service.AddPhoto(ctx, listing.ListingID, "contract.pdf", strings.NewReader("pdf-bytes"), suite.managerID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockListingRepo.AssertNotCalled(suite.T(), "SavePhoto", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ListingServiceTestSuite) TestRemovePhoto_WrongListingIsNotFound() {
	ctx := context.Background()
	photo := &domain.ListingPhoto{
		PhotoID:   uuid.NewString(),
		ListingID: uuid.NewString(),
		Filename:  "garden.png",
	}
	otherListingID := uuid.NewString()

	suite.mockAccess.On("AuthorizeManager", ctx, suite.managerID).Return(nil).Once()
	suite.mockListingRepo.On("FindPhotoByID", ctx, photo.PhotoID).Return(photo, nil).Once()

	err := suite.service.RemovePhoto(ctx, otherListingID, photo.PhotoID, suite.managerID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockListingRepo.AssertNotCalled(suite.T(), "DeletePhoto", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ListingServiceTestSuite) TestListListings_EmbedsGalleries() {
	ctx := context.Background()
	first := *suite.listing()
	second := *suite.listing()
	photos := []domain.ListingPhoto{{
		PhotoID:    uuid.NewString(),
		ListingID:  first.ListingID,
		Filename:   "garden.png",
		UploadedBy: suite.managerID,
		UploadedAt: time.Now().UTC(),
	}}

	suite.mockListingRepo.On("FindListings", ctx).Return([]domain.Listing{first, second}, nil).Once()
	suite.mockListingRepo.On("FindPhotosByListing", ctx, first.ListingID).Return(photos, nil).Once()
	suite.mockListingRepo.On("FindPhotosByListing", ctx, second.ListingID).Return([]domain.ListingPhoto{}, nil).Once()

	resp, err := suite.service.ListListings(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(resp.Listings, 2)
	suite.Len(resp.Listings[0].Photos, 1)
	suite.Empty(resp.Listings[1].Photos)
	suite.mockAccess.AssertNotCalled(suite.T(), "AuthorizeManager", mock.Anything, mock.Anything)
}

// --- Run Suite ---
func TestListingService(t *testing.T) {
	suite.Run(t, new(ListingServiceTestSuite))
}
