// HTTP handlers for the auth endpoints. This layer translates lifecycle
// results into transport concerns only: status codes, the uniform response
// envelope, and the token cookies. It never invents error kinds of its own.
package auth

import (
	"encoding/json"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/apperror"
	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/config"
)

const (
	// AccessTokenCookie is the cookie carrying the access token.
	AccessTokenCookie = "accessToken"
	// RefreshTokenCookie is the cookie carrying the refresh token.
	RefreshTokenCookie = "refreshToken"

	// maxMultipartMemory bounds in-memory buffering of multipart uploads;
	// larger files spill to disk.
	maxMultipartMemory = 32 << 20
)

// ApiResponse is the uniform success envelope.
type ApiResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// Handlers wraps the lifecycle Service with HTTP handlers.
type Handlers struct {
	service *Service
	cfg     config.AuthConfig
}

// NewHandlers creates a Handlers instance. The auth configuration supplies
// the cookie lifetimes, which track the token lifetimes.
func NewHandlers(service *Service, cfg config.AuthConfig) *Handlers {
	return &Handlers{service: service, cfg: cfg}
}

// HandleRegister godoc
// @Summary Register a new user
// @Description Registers a new account from a multipart form with a required avatar and optional cover image.
// @Tags auth
// @Accept mpfd
// @Produce json
// @Success 201 {object} ApiResponse "User registered successfully"
// @Failure 400 {object} apperror.ErrorResponse "Missing fields or avatar"
// @Failure 409 {object} apperror.ErrorResponse "Username or email already taken"
// @Failure 500 {object} apperror.ErrorResponse "Internal server error"
// @Router /api/v1/users/register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			WriteError(w, r, apperror.NewValidationError("invalid multipart form", err))
			return
		}

		in := RegisterInput{
			FullName: r.FormValue("fullName"),
			Email:    r.FormValue("email"),
			Username: r.FormValue("username"),
			Password: r.FormValue("password"),
		}

		avatar, avatarClose, err := FormFile(r, "avatar")
		if err != nil {
			WriteError(w, r, apperror.NewValidationError("avatar file is required", err))
			return
		}
		defer avatarClose()
		in.Avatar = avatar

		// Cover image is optional; a missing file is not an error.
		if cover, coverClose, err := FormFile(r, "coverImage"); err == nil {
			defer coverClose()
			in.CoverImage = cover
		}

		user, err := h.service.Register(r.Context(), in)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		WriteJSON(w, http.StatusCreated, user, "User registered successfully")
	}
}

// HandleLogin godoc
// @Summary Log in
// @Description Authenticates with username or email plus password and returns both tokens, also set as HttpOnly cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} ApiResponse "User logged in successfully"
// @Failure 400 {object} apperror.ErrorResponse "Missing identifier"
// @Failure 401 {object} apperror.ErrorResponse "Incorrect password"
// @Failure 404 {object} apperror.ErrorResponse "User does not exist"
// @Router /api/v1/users/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewValidationError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		resp, err := h.service.Login(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		h.setTokenCookies(w, resp.AccessToken, resp.RefreshToken)
		WriteJSON(w, http.StatusOK, resp, "User logged in successfully")
	}
}

// HandleRefreshToken godoc
// @Summary Refresh the session
// @Description Exchanges a valid refresh token, read from the refreshToken cookie or the JSON body, for a new token pair. The old refresh token becomes unusable.
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} ApiResponse "Access token refreshed"
// @Failure 401 {object} apperror.ErrorResponse "Missing, invalid, expired, or already used refresh token"
// @Router /api/v1/users/refresh-token [post]
func (h *Handlers) HandleRefreshToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		incoming := ""
		if c, err := r.Cookie(RefreshTokenCookie); err == nil {
			incoming = c.Value
		}
		if incoming == "" {
			var req RefreshTokenRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
				incoming = req.RefreshToken
			}
			defer r.Body.Close()
		}

		resp, err := h.service.Refresh(r.Context(), incoming)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		h.setTokenCookies(w, resp.AccessToken, resp.RefreshToken)
		WriteJSON(w, http.StatusOK, resp, "Access token refreshed successfully")
	}
}

// HandleLogout godoc
// @Summary Log out
// @Description Clears the stored refresh token and both cookies. Requires authentication. Idempotent.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ApiResponse "User logged out"
// @Failure 401 {object} apperror.ErrorResponse "Not authenticated"
// @Router /api/v1/users/logout [post]
func (h *Handlers) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("unauthorized request", nil))
			return
		}

		if err := h.service.Logout(r.Context(), claims.UserID); err != nil {
			WriteError(w, r, err)
			return
		}

		h.clearTokenCookies(w)
		WriteJSON(w, http.StatusOK, struct{}{}, "User logged out")
	}
}

// HandleChangePassword godoc
// @Summary Change password
// @Description Verifies the current password and replaces it. The active session's refresh token stays valid.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ApiResponse "Password changed successfully"
// @Failure 400 {object} apperror.ErrorResponse "Invalid old password"
// @Failure 401 {object} apperror.ErrorResponse "Not authenticated"
// @Router /api/v1/users/change-password [post]
func (h *Handlers) HandleChangePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("unauthorized request", nil))
			return
		}

		var req ChangePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewValidationError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if err := h.service.ChangePassword(r.Context(), claims.UserID, req.OldPassword, req.NewPassword); err != nil {
			WriteError(w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, struct{}{}, "Password changed successfully")
	}
}

// FormFile extracts one uploaded file from the parsed multipart form. The
// returned closer must be deferred by the caller.
func FormFile(r *http.Request, field string) (*FileUpload, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, err
	}
	return &FileUpload{
		Name:        header.Filename,
		ContentType: fileContentType(header),
		Size:        header.Size,
		Body:        file,
	}, func() { file.Close() }, nil
}

func fileContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func (h *Handlers) setTokenCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(h.cfg.AccessTokenDuration.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(h.cfg.RefreshTokenDuration.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// WriteJSON writes the uniform success envelope.
func WriteJSON(w http.ResponseWriter, status int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := ApiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < 400,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// WriteError writes the uniform error envelope. Errors that are not AppErrors
// are wrapped as internal failures so no raw error detail leaks to clients.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}

	if appErr.StatusCode() >= http.StatusInternalServerError {
		log.Printf("error processing %s %s: %v", r.Method, r.URL.Path, appErr)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		log.Printf("failed to encode error response: %v", err)
	}
}
