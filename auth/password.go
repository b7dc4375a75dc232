package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/apperror"
)

// HashPassword hashes a plaintext password with bcrypt at the given cost. The
// per-call random salt is baked into the output. An empty password is the only
// malformed input.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", apperror.NewValidationError("password must not be empty", nil)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", apperror.NewInternalError("failed to hash password", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a presented password against a stored bcrypt hash.
// bcrypt performs the comparison in constant time. A wrong password returns
// (false, nil); an error is returned only for corrupted hash input.
func CheckPassword(password, passwordHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, apperror.NewInternalError("stored password hash is malformed", err)
}
