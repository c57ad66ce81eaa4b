package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/challenge-hub/internal/challenge"
	"github.com/terra-clan/challenge-hub/internal/models"
)

func (s *Server) handleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	var req models.CreateChallengeRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	c, err := s.engine.Create(r.Context(), UserIDFromContext(r.Context()), req)
	if err != nil {
		if errors.Is(err, challenge.ErrValidation) {
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		slog.Error("failed to create challenge", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create challenge")
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleGetChallenge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "challenge id is required")
		return
	}

	c, err := s.engine.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, challenge.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "challenge not found")
			return
		}
		slog.Error("failed to get challenge", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get challenge")
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	filters := models.ListFilters{
		CreatorID:     r.URL.Query().Get("creator_id"),
		ChallengeType: models.ChallengeType(r.URL.Query().Get("type")),
		Status:        models.ChallengeStatus(r.URL.Query().Get("status")),
		Limit:         50, // default
		Offset:        0,
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filters.Limit = limit
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filters.Offset = offset
		}
	}

	challenges, err := s.engine.List(r.Context(), filters)
	if err != nil {
		slog.Error("failed to list challenges", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list challenges")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"challenges": challenges,
		"total":      len(challenges),
	})
}

func (s *Server) handleUpdateChallenge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "challenge id is required")
		return
	}

	var req models.UpdateChallengeRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	c, err := s.engine.Update(r.Context(), id, UserIDFromContext(r.Context()), req)
	if err != nil {
		switch {
		case errors.Is(err, challenge.ErrNotFound):
			respondError(w, http.StatusNotFound, "not_found", "challenge not found")
		case errors.Is(err, challenge.ErrNotCreator):
			// 401 rather than 403 so existing clients keep their
			// redirect-to-login behavior on ownership failures.
			respondError(w, http.StatusUnauthorized, "unauthorized", "only the creator can modify this challenge")
		case errors.Is(err, challenge.ErrValidation):
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		default:
			slog.Error("failed to update challenge", "error", err, "id", id)
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to update challenge")
		}
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "challenge id is required")
		return
	}

	var req models.AnnouncementRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	announcements, err := s.engine.Announce(r.Context(), id, UserIDFromContext(r.Context()), req)
	if err != nil {
		switch {
		case errors.Is(err, challenge.ErrNotFound):
			respondError(w, http.StatusNotFound, "not_found", "challenge not found")
		case errors.Is(err, challenge.ErrNotCreator):
			respondError(w, http.StatusUnauthorized, "unauthorized", "only the creator can post announcements")
		case errors.Is(err, challenge.ErrValidation):
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		default:
			slog.Error("failed to post announcement", "error", err, "id", id)
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to post announcement")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"announcements": announcements,
		"total":         len(announcements),
	})
}

func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "challenge id is required")
		return
	}

	var req models.SubmissionRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	sub, err := s.engine.Submit(r.Context(), id, UserIDFromContext(r.Context()), req)
	if err != nil {
		switch {
		case errors.Is(err, challenge.ErrNotFound):
			respondError(w, http.StatusNotFound, "not_found", "challenge not found")
		case errors.Is(err, challenge.ErrSubmissionClosed):
			respondError(w, http.StatusBadRequest, "submissions_closed", "challenge is not open for submissions")
		case errors.Is(err, challenge.ErrValidation):
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		default:
			slog.Error("failed to create submission", "error", err, "id", id)
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to create submission")
		}
		return
	}

	respondJSON(w, http.StatusOK, sub)
}

// Blueprint handlers

func (s *Server) handleListBlueprints(w http.ResponseWriter, r *http.Request) {
	list := s.blueprintLoader.List()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"blueprints": list,
		"total":      len(list),
	})
}

func (s *Server) handleGetBlueprint(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "blueprint id is required")
		return
	}

	bp := s.blueprintLoader.Get(id)
	if bp == nil {
		respondError(w, http.StatusNotFound, "not_found", "blueprint not found")
		return
	}

	respondJSON(w, http.StatusOK, bp)
}
