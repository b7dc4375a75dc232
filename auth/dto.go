// Data transfer objects for the auth endpoints: request payloads as decoded
// from the wire and response shapes placed in the success envelope.
package auth

import (
	"io"
	"time"
)

// FileUpload carries one uploaded file from the multipart form to the media
// collaborator. Body is consumed exactly once during upload.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// RegisterInput carries the registration fields. The avatar is required; the
// cover image is optional.
type RegisterInput struct {
	FullName   string
	Email      string
	Username   string
	Password   string
	Avatar     *FileUpload
	CoverImage *FileUpload
}

// LoginRequest is the login payload. Either username or email identifies the
// account; at least one must be supplied.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenRequest is the body form of the refresh payload; the handler
// also accepts the token from the refreshToken cookie.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest is the password-change payload.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// UserResponse is the sanitized user projection returned by every read path;
// it never carries the password hash or the refresh token.
type UserResponse struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// LoginResponse is returned on successful login. The tokens also travel as
// HttpOnly cookies; they are included in the body for non-browser clients.
type LoginResponse struct {
	User         *UserResponse `json:"user"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
}

// TokenPairResponse is returned on successful refresh.
type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
