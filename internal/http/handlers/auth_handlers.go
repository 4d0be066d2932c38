package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/kasir/internal/i18n"
	"github.com/rogerio-castellano/kasir/internal/repo"
	"github.com/rogerio-castellano/kasir/internal/service"
)

// writeAuthError maps account errors; anything unknown is logged as a 500.
func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrMissingCredentials):
		fail(w, r, http.StatusBadRequest, i18n.CredentialsRequired)
	case errors.Is(err, service.ErrWeakCredentials):
		fail(w, r, http.StatusBadRequest, i18n.CredentialsTooShort)
	case errors.Is(err, service.ErrInvalidRole):
		http.Error(w, "role must be admin or user", http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidCredentials):
		fail(w, r, http.StatusUnauthorized, i18n.InvalidCredentials)
	case errors.Is(err, repo.ErrDuplicatedValueUnique):
		fail(w, r, http.StatusConflict, i18n.UsernameTaken)
	default:
		internalError(w, r, err, i18n.InternalError)
	}
}

// RegisterHandler godoc
// @Summary Register new user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body UserLogin true "username (min 3) and password (min 6)"
// @Success 201 {object} RegisterResult
// @Failure 400 {string} string "Invalid input"
// @Failure 409 {string} string "User exists"
// @Failure 429 {string} string "Too many requests"
// @Router /register [post]
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var creds UserLogin
	if err := readJSON(w, r, &creds); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	token, err := authService.Register(r.Context(), creds.Username, creds.Password)
	if err != nil {
		writeAuthError(w, r, err)
		return
	}

	logFor(r, log.Info()).Str("username", creds.Username).Msg("user registered")
	respond(w, r, http.StatusCreated, RegisterResult{Message: "user registered", Token: token})
}

// LoginHandler godoc
// @Summary Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body UserLogin true "Login credentials"
// @Success 200 {object} LoginResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Invalid credentials"
// @Failure 429 {string} string "Too many requests"
// @Router /login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds UserLogin
	if err := readJSON(w, r, &creds); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if creds.Username == "" || creds.Password == "" {
		fail(w, r, http.StatusBadRequest, i18n.CredentialsRequired)
		return
	}

	token, err := authService.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			logFor(r, log.Warn()).Str("username", creds.Username).Msg("failed login")
		}
		writeAuthError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, LoginResult{Token: token})
}

// RegisterAsAdminHandler godoc
// @Summary Create user with custom role
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param user body RegisterAsAdminRequest true "User to create with role"
// @Success 201 {object} UserResponse
// @Failure 400 {string} string "Invalid input"
// @Failure 403 {string} string "Forbidden"
// @Failure 409 {string} string "User exists"
// @Failure 500 {string} string "Server error"
// @Router /admin/users [post]
func RegisterAsAdminHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterAsAdminRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	user, err := authService.CreateUser(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		writeAuthError(w, r, err)
		return
	}

	logFor(r, log.Info()).Str("username", user.Username).Str("role", user.Role).Msg("user created")
	respond(w, r, http.StatusCreated, UserResponse{ID: user.ID, Username: user.Username, Role: user.Role})
}
