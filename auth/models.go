// Package auth implements the credential verification and session-token
// lifecycle subsystem: password hashing and verification, signed access and
// refresh token issuance, refresh-token persistence and rotation, and session
// invalidation.
package auth

import "time"

// User is the persisted account entity. Username and email are stored
// lowercased and are unique across all users. RefreshToken holds the single
// currently-valid refresh token for the user's active session, or is empty
// when no session is live; it is overwritten on login and on every successful
// refresh and cleared on logout.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage,omitempty"`
	PasswordHash  string    `json:"-"` // never exposed in any response path
	RefreshToken  string    `json:"-"` // never exposed in any response path
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Profile returns the sanitized projection of the user: the fields safe to
// return to clients, with the password hash and refresh token excluded.
func (u *User) Profile() *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
