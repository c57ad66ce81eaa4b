package challenge

import (
	"fmt"
	"time"

	"github.com/terra-clan/challenge-hub/internal/models"
)

// Guard functions for the challenge invariants. Each guard is standalone so
// every mutation entry point (create, update, submit) applies the same rules
// instead of re-deriving them per endpoint.

// ValidateIdentity checks title, problem statement, goals and challenge type
func ValidateIdentity(title, problemStatement string, goals []string, challengeType models.ChallengeType) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if problemStatement == "" {
		return fmt.Errorf("%w: problem statement is required", ErrValidation)
	}
	if len(goals) == 0 {
		return fmt.Errorf("%w: at least one goal is required", ErrValidation)
	}
	for i, g := range goals {
		if g == "" {
			return fmt.Errorf("%w: goal %d is empty", ErrValidation, i+1)
		}
	}
	if !challengeType.Valid() {
		return fmt.Errorf("%w: unknown challenge type %q", ErrValidation, challengeType)
	}
	return nil
}

// ValidateAudience checks team settings and language requirements.
// requireLanguages is true at creation time only; updates may omit languages
// for sections they do not touch.
func ValidateAudience(a models.Audience, requireLanguages bool) error {
	if requireLanguages && len(a.Languages) == 0 {
		return fmt.Errorf("%w: at least one language is required", ErrValidation)
	}
	if a.TeamsAllowed && a.MaxTeamSize <= 1 {
		return fmt.Errorf("%w: max team size must be greater than 1 when teams are allowed", ErrValidation)
	}
	return nil
}

// ValidateSubmissionSpec checks the submission format and requirements
func ValidateSubmissionSpec(s models.SubmissionSpec) error {
	if !s.Format.Valid() {
		return fmt.Errorf("%w: unknown submission format %q", ErrValidation, s.Format)
	}
	if len(s.Requirements) == 0 {
		return fmt.Errorf("%w: at least one submission requirement is required", ErrValidation)
	}
	for i, r := range s.Requirements {
		if r == "" {
			return fmt.Errorf("%w: submission requirement %d is empty", ErrValidation, i+1)
		}
	}
	return nil
}

// ValidatePrizes checks the prize structure, entries and pool total.
// The total must equal the sum of entry amounts exactly.
func ValidatePrizes(p models.Prizes) error {
	if !p.Structure.Valid() {
		return fmt.Errorf("%w: unknown prize structure %q", ErrValidation, p.Structure)
	}
	if len(p.Amounts) == 0 {
		return fmt.Errorf("%w: at least one prize entry is required", ErrValidation)
	}
	for i, a := range p.Amounts {
		if a.Amount <= 0 {
			return fmt.Errorf("%w: prize entry %d must have a positive amount", ErrValidation, i+1)
		}
	}
	if p.TotalPrize <= 0 {
		return fmt.Errorf("%w: total prize must be positive", ErrValidation)
	}
	if sum := p.Sum(); sum != p.TotalPrize {
		return fmt.Errorf("%w: prize amounts sum to %g but total prize is %g", ErrValidation, sum, p.TotalPrize)
	}
	return nil
}

// ValidateTimeline checks date ordering and milestone completeness.
// The future-start rule applies at creation only, so the reference time is
// passed by the caller; a zero value skips that check.
func ValidateTimeline(t models.Timeline, notBefore time.Time) error {
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	if !notBefore.IsZero() && !t.StartDate.After(notBefore) {
		return fmt.Errorf("%w: start date must be in the future", ErrValidation)
	}
	if !t.EndDate.After(t.StartDate) {
		return fmt.Errorf("%w: end date must be after start date", ErrValidation)
	}
	for i, m := range t.Milestones {
		if m.Name == "" || m.Date.IsZero() || m.Description == "" {
			return fmt.Errorf("%w: milestone %d must be fully specified", ErrValidation, i+1)
		}
	}
	return nil
}

// ValidateCriteria reports whether the criteria list is usable for scoring:
// non-empty, every entry named, described and positively weighted, and the
// weights summing to exactly 100.
func ValidateCriteria(criteria []models.Criterion) error {
	if len(criteria) == 0 {
		return fmt.Errorf("%w: at least one criterion is required", ErrValidation)
	}
	total := 0
	for i, c := range criteria {
		if c.Name == "" || c.Description == "" {
			return fmt.Errorf("%w: criterion %d must have a name and description", ErrValidation, i+1)
		}
		if c.Weight <= 0 {
			return fmt.Errorf("%w: criterion %d must have a positive weight", ErrValidation, i+1)
		}
		total += c.Weight
	}
	if total != 100 {
		return fmt.Errorf("%w: criteria weights must sum to 100, got %d", ErrValidation, total)
	}
	return nil
}

// IsValidCriteria is the boolean form of ValidateCriteria
func IsValidCriteria(criteria []models.Criterion) bool {
	return ValidateCriteria(criteria) == nil
}

// ValidateEvaluation checks the evaluation model, reviewers and criteria.
// Criteria are optional; when present they must pass ValidateCriteria.
func ValidateEvaluation(e models.Evaluation) error {
	if !e.Model.Valid() {
		return fmt.Errorf("%w: unknown evaluation model %q", ErrValidation, e.Model)
	}
	for i, r := range e.Reviewers {
		if r.Email == "" {
			return fmt.Errorf("%w: reviewer %d must have an email", ErrValidation, i+1)
		}
		if !r.Role.Valid() {
			return fmt.Errorf("%w: reviewer %d has unknown role %q", ErrValidation, i+1, r.Role)
		}
	}
	if len(e.Criteria) > 0 {
		if err := ValidateCriteria(e.Criteria); err != nil {
			return err
		}
	}
	if e.MinReviews < 1 {
		return fmt.Errorf("%w: minimum reviews must be at least 1", ErrValidation)
	}
	if e.Rubric.ScoringSystem != "" && !e.Rubric.ScoringSystem.Valid() {
		return fmt.Errorf("%w: unknown scoring system %q", ErrValidation, e.Rubric.ScoringSystem)
	}
	return nil
}

// ValidateDocument applies every persisted-state invariant to a full challenge
// document. asOf bounds the future-start rule; pass zero to skip it (reads and
// updates of already-running challenges).
func ValidateDocument(c *models.Challenge, asOf time.Time) error {
	if err := ValidateIdentity(c.Title, c.ProblemStatement, c.Goals, c.ChallengeType); err != nil {
		return err
	}
	if err := ValidateAudience(c.Audience, false); err != nil {
		return err
	}
	if err := ValidateSubmissionSpec(c.Submission); err != nil {
		return err
	}
	if err := ValidatePrizes(c.Prizes); err != nil {
		return err
	}
	if err := ValidateTimeline(c.Timeline, asOf); err != nil {
		return err
	}
	if err := ValidateEvaluation(c.Evaluation); err != nil {
		return err
	}
	if !c.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, c.Status)
	}
	return nil
}
