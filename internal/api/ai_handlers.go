package api

import (
	"log/slog"
	"net/http"

	"github.com/terra-clan/challenge-hub/internal/ai"
)

// suggestionResponse carries the raw text returned by the generative service
type suggestionResponse struct {
	Suggestion string `json:"suggestion"`
}

// gatewayReady reports whether the suggestion gateway is wired; when it is
// not, handlers return the same generic 500 that upstream failures produce.
func (s *Server) gatewayReady(w http.ResponseWriter) bool {
	if s.gateway == nil {
		slog.Error("suggestion request rejected", "error", ai.ErrNotConfigured)
		respondError(w, http.StatusInternalServerError, "internal_error", "suggestion service unavailable")
		return false
	}
	return true
}

func (s *Server) respondSuggestion(w http.ResponseWriter, text string, err error, op string) {
	if err != nil {
		slog.Error("suggestion request failed", "operation", op, "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "suggestion service unavailable")
		return
	}
	respondJSON(w, http.StatusOK, suggestionResponse{Suggestion: text})
}

func (s *Server) handleAnalyzeProblem(w http.ResponseWriter, r *http.Request) {
	if !s.gatewayReady(w) {
		return
	}

	var input ai.AnalyzeProblemInput
	if !s.decodeAndValidate(w, r, &input) {
		return
	}

	text, err := s.gateway.AnalyzeProblem(r.Context(), input)
	s.respondSuggestion(w, text, err, "analyze_problem")
}

func (s *Server) handleValidateRequirements(w http.ResponseWriter, r *http.Request) {
	if !s.gatewayReady(w) {
		return
	}

	var input ai.ValidateRequirementsInput
	if !s.decodeAndValidate(w, r, &input) {
		return
	}

	text, err := s.gateway.ValidateRequirements(r.Context(), input)
	s.respondSuggestion(w, text, err, "validate_requirements")
}

func (s *Server) handleSuggestPrize(w http.ResponseWriter, r *http.Request) {
	if !s.gatewayReady(w) {
		return
	}

	var input ai.SuggestPrizeInput
	if !s.decodeAndValidate(w, r, &input) {
		return
	}

	text, err := s.gateway.SuggestPrize(r.Context(), input)
	s.respondSuggestion(w, text, err, "suggest_prize")
}

func (s *Server) handleEvaluationCriteria(w http.ResponseWriter, r *http.Request) {
	if !s.gatewayReady(w) {
		return
	}

	var input ai.EvaluationCriteriaInput
	if !s.decodeAndValidate(w, r, &input) {
		return
	}

	text, err := s.gateway.EvaluationCriteria(r.Context(), input)
	s.respondSuggestion(w, text, err, "evaluation_criteria")
}
