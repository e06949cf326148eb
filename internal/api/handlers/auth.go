package handlers

import (
	"errors"
	"net/http"

	"github.com/ashgrove-hs/housepoints/internal/api/respond"
	"github.com/ashgrove-hs/housepoints/internal/audit"
	"github.com/ashgrove-hs/housepoints/internal/domain/auth"
	"github.com/ashgrove-hs/housepoints/internal/domain/roster"
	"github.com/ashgrove-hs/housepoints/internal/storage"
)

type AuthHandler struct {
	Auth   *auth.Service
	Roster *roster.Service
	Audit  *audit.Logger
}

func NewAuthHandler(authService *auth.Service, rosterService *roster.Service, auditor *audit.Logger) *AuthHandler {
	return &AuthHandler{Auth: authService, Roster: rosterService, Audit: auditor}
}

type loginRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	UseGoogle bool   `json:"useGoogle"`
}

// Login exchanges credentials for the account's bearer token. The username
// field carries the account email; with useGoogle set, the password field
// carries the external subject instead.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid request", err)
		return
	}

	token, user, err := h.Auth.Login(r.Context(), req.Username, req.Password, req.UseGoogle)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.Audit.Failure(r.Context(), r, "Invalid login attempt", nil, &req.Username, http.StatusUnauthorized, nil)
			respond.Error(w, r, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}
		h.Audit.Failure(r.Context(), r, "Login failed", nil, &req.Username, http.StatusInternalServerError, err)
		respond.Error(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	h.Audit.Info(r.Context(), r, "User logged in successfully", &user.ID, &req.Username, http.StatusOK)
	respond.JSON(w, http.StatusOK, map[string]string{"token": token})
}

// CurrentUser resolves the caller's token to their account summary. It does
// not run behind the gate because a miss maps to 404, not 401.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if header == "" {
		h.Audit.Failure(r.Context(), r, "Token is missing for current user", nil, nil, http.StatusUnauthorized, nil)
		respond.Error(w, r, http.StatusUnauthorized, "Token is missing", nil)
		return
	}

	user, err := h.Auth.ResolveToken(r.Context(), auth.ExtractToken(header))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.Audit.Failure(r.Context(), r, "User not found for current user", nil, nil, http.StatusNotFound, nil)
			respond.Error(w, r, http.StatusNotFound, "User not found", nil)
			return
		}
		respond.Error(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	h.Audit.Info(r.Context(), r, "Current user resolved successfully", &user.ID, &user.Name, http.StatusOK)
	respond.JSON(w, http.StatusOK, map[string]any{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

// IsAdmin reports whether the caller's token belongs to an admin. An
// unknown token answers false rather than failing; only a missing header is
// an error.
func (h *AuthHandler) IsAdmin(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if header == "" {
		h.Audit.Failure(r.Context(), r, "Token is missing for admin check", nil, nil, http.StatusUnauthorized, nil)
		respond.Error(w, r, http.StatusUnauthorized, "Token is missing", nil)
		return
	}

	isAdmin := false
	user, err := h.Auth.ResolveToken(r.Context(), auth.ExtractToken(header))
	if err == nil {
		isAdmin = user.Admin
		h.Audit.Info(r.Context(), r, "Admin check executed successfully", &user.ID, &user.Name, http.StatusOK)
	} else if !errors.Is(err, storage.ErrNotFound) {
		respond.Error(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]bool{"is_admin": isAdmin})
}

// AdminPage is the admin landing probe. Unlike the shared gate it answers
// 403 "Access denied" for both unknown tokens and non-admins.
func (h *AuthHandler) AdminPage(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if header == "" {
		h.Audit.Failure(r.Context(), r, "Token is missing for admin page", nil, nil, http.StatusUnauthorized, nil)
		respond.Error(w, r, http.StatusUnauthorized, "Token is missing", nil)
		return
	}

	user, err := h.Auth.ResolveToken(r.Context(), auth.ExtractToken(header))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.Audit.Failure(r.Context(), r, "Access denied for admin page", nil, nil, http.StatusForbidden, nil)
			respond.Error(w, r, http.StatusForbidden, "Access denied", nil)
			return
		}
		respond.Error(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}
	if !user.Admin {
		h.Audit.Failure(r.Context(), r, "Access denied for admin page", &user.ID, &user.Name, http.StatusForbidden, nil)
		respond.Error(w, r, http.StatusForbidden, "Access denied", nil)
		return
	}

	h.Audit.Info(r.Context(), r, "Admin accessed admin page", &user.ID, &user.Name, http.StatusOK)
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Welcome to the admin page"})
}

type editSelfRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	CurrentPassword *string `json:"currentPassword"`
	NewPassword     *string `json:"newPassword"`
}

// EditSelf lets the caller change their own name, email, or password. A
// password change requires the current password and fails the whole edit on
// mismatch.
func (h *AuthHandler) EditSelf(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if header == "" {
		h.Audit.Failure(r.Context(), r, "Token is missing for self edit", nil, nil, http.StatusUnauthorized, nil)
		respond.Error(w, r, http.StatusUnauthorized, "Token is missing", nil)
		return
	}

	user, err := h.Auth.ResolveToken(r.Context(), auth.ExtractToken(header))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.Audit.Failure(r.Context(), r, "Invalid token for self edit", nil, nil, http.StatusUnauthorized, nil)
			respond.Error(w, r, http.StatusUnauthorized, "Invalid token", nil)
			return
		}
		respond.Error(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	var req editSelfRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid request", err)
		return
	}

	changed, err := h.Roster.EditSelf(r.Context(), user, roster.SelfUpdate{
		Name:            req.Name,
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		if errors.Is(err, roster.ErrWrongPassword) {
			h.Audit.Failure(r.Context(), r, "Invalid current password for self edit", &user.ID, &user.Name, http.StatusUnauthorized, nil)
			respond.Error(w, r, http.StatusUnauthorized, "Invalid current password", nil)
			return
		}
		h.Audit.Failure(r.Context(), r, "Error editing user", &user.ID, &user.Name, http.StatusInternalServerError, err)
		respond.Error(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	if !changed {
		h.Audit.Info(r.Context(), r, "No changes made for self edit", &user.ID, &user.Name, http.StatusOK)
		respond.JSON(w, http.StatusOK, map[string]string{"status": "no changes made"})
		return
	}
	h.Audit.Info(r.Context(), r, "User edited successfully", &user.ID, &user.Name, http.StatusOK)
	respond.JSON(w, http.StatusOK, statusSuccess)
}
