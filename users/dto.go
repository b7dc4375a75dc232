// Package users handles profile management for authenticated users: reading
// the current profile and updating account details, avatar, and cover image.
// Credential and session state belong to the auth package; this module only
// touches display fields.
package users

// UpdateAccountRequest is the payload for updating account details. Both
// fields are required.
type UpdateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}
