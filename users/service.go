package users

import (
	"context"
	"strings"

	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/apperror"
	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/auth"
	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/media"
)

// Service provides profile operations over the shared user store accessor.
type Service struct {
	repo     auth.UserRepository
	uploader media.Uploader
}

// NewService creates the profile service.
func NewService(repo auth.UserRepository, uploader media.Uploader) *Service {
	return &Service{repo: repo, uploader: uploader}
}

// GetCurrentUser returns the sanitized profile of the authenticated user.
func (s *Service) GetCurrentUser(ctx context.Context, userID string) (*auth.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

// UpdateAccountDetails sets the display name and email. Both fields are
// required; the email is stored lowercased and its uniqueness is enforced by
// the store.
func (s *Service) UpdateAccountDetails(ctx context.Context, userID string, req UpdateAccountRequest) (*auth.UserResponse, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if fullName == "" || email == "" {
		return nil, apperror.NewValidationError("all fields are required", nil)
	}

	user, err := s.repo.UpdateAccountDetails(ctx, userID, fullName, email)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

// UpdateAvatar uploads the new avatar to the media host and stores its URL.
func (s *Service) UpdateAvatar(ctx context.Context, userID string, file *auth.FileUpload) (*auth.UserResponse, error) {
	if file == nil {
		return nil, apperror.NewValidationError("avatar file is missing", nil)
	}

	url, err := s.uploader.Upload(ctx, "avatars", file.Name, file.ContentType, file.Body)
	if err != nil {
		return nil, apperror.NewExternalServiceError("error while uploading avatar", err)
	}

	user, err := s.repo.UpdateAvatar(ctx, userID, url)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

// UpdateCoverImage uploads the new cover image and stores its URL.
func (s *Service) UpdateCoverImage(ctx context.Context, userID string, file *auth.FileUpload) (*auth.UserResponse, error) {
	if file == nil {
		return nil, apperror.NewValidationError("cover image file is missing", nil)
	}

	url, err := s.uploader.Upload(ctx, "covers", file.Name, file.ContentType, file.Body)
	if err != nil {
		return nil, apperror.NewExternalServiceError("error while uploading cover image", err)
	}

	user, err := s.repo.UpdateCoverImage(ctx, userID, url)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}
