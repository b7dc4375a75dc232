// HTTP handlers for profile endpoints. All routes in this module sit behind
// the auth middleware; the user identity comes from the verified claims in
// the request context.
package users

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/apperror"
	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/auth"
)

const maxMultipartMemory = 32 << 20

// Handlers wraps the profile Service with HTTP handlers.
type Handlers struct {
	service *Service
}

// NewHandlers creates a Handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleCurrentUser godoc
// @Summary Get the current user
// @Description Returns the authenticated user's sanitized profile.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.ApiResponse "User fetched successfully"
// @Failure 401 {object} apperror.ErrorResponse "Not authenticated"
// @Router /api/v1/users/current-user [get]
func (h *Handlers) HandleCurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("unauthorized request", nil))
			return
		}

		profile, err := h.service.GetCurrentUser(r.Context(), claims.UserID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, profile, "User fetched successfully")
	}
}

// HandleUpdateAccount godoc
// @Summary Update account details
// @Description Updates the full name and email of the authenticated user. Both fields are required.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.ApiResponse "Account details updated successfully"
// @Failure 400 {object} apperror.ErrorResponse "Missing fields"
// @Failure 409 {object} apperror.ErrorResponse "Email already in use"
// @Router /api/v1/users/update-account [patch]
func (h *Handlers) HandleUpdateAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("unauthorized request", nil))
			return
		}

		var req UpdateAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		profile, err := h.service.UpdateAccountDetails(r.Context(), claims.UserID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, profile, "Account details updated successfully")
	}
}

// HandleUpdateAvatar godoc
// @Summary Update avatar
// @Description Uploads a new avatar image and stores its URL.
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.ApiResponse "Avatar updated successfully"
// @Failure 400 {object} apperror.ErrorResponse "Avatar file is missing"
// @Router /api/v1/users/avatar [patch]
func (h *Handlers) HandleUpdateAvatar() http.HandlerFunc {
	return h.fileUpdateHandler("avatar", "Avatar updated successfully", h.service.UpdateAvatar)
}

// HandleUpdateCoverImage godoc
// @Summary Update cover image
// @Description Uploads a new cover image and stores its URL.
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.ApiResponse "Cover image updated successfully"
// @Failure 400 {object} apperror.ErrorResponse "Cover image file is missing"
// @Router /api/v1/users/cover-image [patch]
func (h *Handlers) HandleUpdateCoverImage() http.HandlerFunc {
	return h.fileUpdateHandler("coverImage", "Cover image updated successfully", h.service.UpdateCoverImage)
}

// fileUpdateHandler factors the shared shape of the avatar and cover-image
// endpoints: one required file field, one service call, one envelope.
func (h *Handlers) fileUpdateHandler(
	field, message string,
	update func(ctx context.Context, userID string, file *auth.FileUpload) (*auth.UserResponse, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("unauthorized request", nil))
			return
		}

		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid multipart form", err))
			return
		}

		file, closeFile, err := auth.FormFile(r, field)
		if err != nil {
			auth.WriteError(w, r, apperror.NewValidationError(field+" file is missing", err))
			return
		}
		defer closeFile()

		profile, err := update(r.Context(), claims.UserID, file)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, profile, message)
	}
}
