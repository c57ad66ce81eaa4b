package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/terra-clan/challenge-hub/internal/models"
	"github.com/terra-clan/challenge-hub/internal/users"
)

// authResponse carries the issued token after register or login
type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	u, err := s.users.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			respondError(w, http.StatusBadRequest, "email_taken", "an account with this email already exists")
			return
		}
		if errors.Is(err, users.ErrValidation) {
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		slog.Error("failed to register user", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to register user")
		return
	}

	token, err := s.tokens.Issue(r.Context(), u.ID)
	if err != nil {
		slog.Error("failed to issue token", "error", err, "user_id", u.ID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to issue token")
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, User: u})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	u, err := s.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
			return
		}
		slog.Error("failed to authenticate user", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to log in")
		return
	}

	token, err := s.tokens.Issue(r.Context(), u.ID)
	if err != nil {
		slog.Error("failed to issue token", "error", err, "user_id", u.ID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to issue token")
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, User: u})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := extractToken(r); token != "" {
		if err := s.tokens.Revoke(r.Context(), token); err != nil {
			slog.Error("failed to revoke token", "error", err)
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to log out")
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "logged out",
	})
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	u, err := s.users.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		slog.Error("failed to get user", "error", err, "user_id", userID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get user")
		return
	}

	created, err := s.users.CreatedChallenges(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list created challenges", "error", err, "user_id", userID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get user")
		return
	}

	participating, err := s.users.ParticipatingChallenges(r.Context(), u)
	if err != nil {
		slog.Error("failed to resolve participating challenges", "error", err, "user_id", userID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":                    u,
		"createdChallenges":       created,
		"participatingChallenges": participating,
	})
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	var req models.UpdateProfileRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	u, err := s.users.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		if errors.Is(err, users.ErrValidation) {
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		slog.Error("failed to update profile", "error", err, "user_id", userID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, u)
}

// reviewerView is the public projection of a reviewer account
type reviewerView struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Email        string                 `json:"email"`
	Expertise    []models.ChallengeType `json:"expertise"`
	Organization *models.Organization   `json:"organization,omitempty"`
}

func (s *Server) handleListReviewers(w http.ResponseWriter, r *http.Request) {
	reviewers, err := s.users.Reviewers(r.Context())
	if err != nil {
		slog.Error("failed to list reviewers", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list reviewers")
		return
	}

	views := make([]reviewerView, 0, len(reviewers))
	for _, u := range reviewers {
		views = append(views, reviewerView{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			Expertise:    u.Expertise,
			Organization: u.Organization,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reviewers": views,
		"total":     len(views),
	})
}
