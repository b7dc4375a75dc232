package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/apperror"
	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/config"
	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/media"
)

// Service orchestrates registration, login, logout, refresh, and
// password-change flows by composing the store accessor, the credential
// verifier, and the token issuer. Each request is handled independently;
// the user row in the store is the only shared mutable state.
type Service struct {
	repo     UserRepository
	tokens   *TokenIssuer
	uploader media.Uploader
	cfg      config.AuthConfig
}

// NewService creates the lifecycle service. All collaborators are injected;
// the service holds no process-wide state beyond the configuration it was
// constructed with.
func NewService(repo UserRepository, tokens *TokenIssuer, uploader media.Uploader, cfg config.AuthConfig) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		uploader: uploader,
		cfg:      cfg,
	}
}

// Register creates a new account. The avatar upload is awaited before the
// user row is written, and user creation is the final step after every
// validation has passed, so a failure never leaves a partial user behind.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*UserResponse, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.ToLower(strings.TrimSpace(in.Username))

	// The password is hashed exactly as typed. Trimming it here would make
	// registration and login disagree on whitespace-padded passwords; the
	// trim applies to the emptiness check only.
	if fullName == "" || email == "" || username == "" || strings.TrimSpace(in.Password) == "" {
		return nil, apperror.NewValidationError("all fields are required", nil)
	}

	// Best-effort duplicate pre-check for a friendly error. The unique
	// constraints in the store remain authoritative: two concurrent
	// registrations can both pass this lookup, and the loser of the insert
	// race still gets a Conflict from Create.
	if _, err := s.repo.GetByUsernameOrEmail(ctx, username, email); err == nil {
		return nil, apperror.NewConflictError("user with email or username already exists", nil)
	} else if !apperror.IsNotFound(err) {
		return nil, err
	}

	if in.Avatar == nil {
		return nil, apperror.NewValidationError("avatar file is required", nil)
	}

	avatarURL, err := s.uploader.Upload(ctx, "avatars", in.Avatar.Name, in.Avatar.ContentType, in.Avatar.Body)
	if err != nil {
		return nil, apperror.NewValidationError("avatar file is required", err)
	}

	// A failed cover upload does not block registration; the cover is
	// optional and simply left unset.
	coverURL := ""
	if in.CoverImage != nil {
		coverURL, err = s.uploader.Upload(ctx, "covers", in.CoverImage.Name, in.CoverImage.ContentType, in.CoverImage.Body)
		if err != nil {
			log.Printf("cover image upload failed for %s: %v", username, err)
			coverURL = ""
		}
	}

	passwordHash, err := HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &User{
		Username:      username,
		Email:         email,
		FullName:      fullName,
		PasswordHash:  passwordHash,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
	})
	if err != nil {
		return nil, err
	}

	return created.Profile(), nil
}

// Login authenticates a user by username or email and issues a fresh token
// pair. Persisting the refresh token overwrites any prior value, which
// revokes a previously active session: there is a single active session per
// user.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if username == "" && email == "" {
		return nil, apperror.NewValidationError("username or email is required", nil)
	}

	user, err := s.repo.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}

	ok, err := CheckPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewAuthError("password is incorrect", nil)
	}

	accessToken, refreshToken, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, err
	}

	return &LoginResponse{
		User:         user.Profile(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair, rotating the
// persisted token. A valid signature is not sufficient: the presented token
// must equal the stored one exactly, which is what makes a rotated-away token
// unusable even before its expiry. The rotation itself is a compare-and-swap
// in the store, so concurrent refreshes with the same token yield exactly one
// winner.
func (s *Service) Refresh(ctx context.Context, incomingToken string) (*TokenPairResponse, error) {
	if incomingToken == "" {
		return nil, apperror.NewAuthError("unauthorized request", nil)
	}

	claims, err := s.tokens.VerifyRefreshToken(incomingToken)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, apperror.NewAuthError("refresh token is expired", err)
		}
		return nil, apperror.NewAuthError("invalid refresh token", err)
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewAuthError("invalid refresh token", nil)
		}
		return nil, err
	}

	if user.RefreshToken == "" || user.RefreshToken != incomingToken {
		return nil, apperror.NewAuthError("refresh token is expired or used", nil)
	}

	accessToken, refreshToken, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	rotated, err := s.repo.RotateRefreshToken(ctx, user.ID, incomingToken, refreshToken)
	if err != nil {
		return nil, err
	}
	if !rotated {
		// A concurrent refresh rotated the token between our read and this
		// write; this caller's token is already used.
		return nil, apperror.NewAuthError("refresh token is expired or used", nil)
	}

	return &TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout clears the stored refresh token for the user. Logging out twice is
// not an error.
func (s *Service) Logout(ctx context.Context, userID string) error {
	return s.repo.ClearRefreshToken(ctx, userID)
}

// ChangePassword verifies the old password and persists a hash of the new
// one. The existing refresh token is deliberately left in place: changing the
// password does not end the active session.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := CheckPassword(oldPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewValidationError("invalid old password", nil)
	}

	// Same rule as registration: the new password is hashed verbatim, the
	// trim guards against an all-whitespace value only.
	if strings.TrimSpace(newPassword) == "" {
		return apperror.NewValidationError("password must not be empty", nil)
	}

	passwordHash, err := HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// issueTokenPair signs a fresh access and refresh token for the user.
func (s *Service) issueTokenPair(user *User) (string, string, error) {
	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return "", "", apperror.NewInternalError("something went wrong while generating tokens", err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return "", "", apperror.NewInternalError("something went wrong while generating tokens", err)
	}

	return accessToken, refreshToken, nil
}
