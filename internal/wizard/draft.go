package wizard

import (
	"fmt"
	"time"

	"github.com/terra-clan/challenge-hub/internal/blueprints"
	"github.com/terra-clan/challenge-hub/internal/challenge"
	"github.com/terra-clan/challenge-hub/internal/models"
)

// Draft is the explicit, serializable accumulation of challenge fields across
// the creation wizard's steps. Each step function takes the draft by value and
// returns the advanced draft, so callers thread state forward instead of
// mutating shared form state. A step is re-runnable; re-applying replaces the
// section.
type Draft struct {
	Title            string                 `json:"title,omitempty"`
	ProblemStatement string                 `json:"problemStatement,omitempty"`
	Goals            []string               `json:"goals,omitempty"`
	ChallengeType    models.ChallengeType   `json:"challengeType,omitempty"`
	Audience         *models.Audience       `json:"audience,omitempty"`
	Communication    *models.Communication  `json:"communication,omitempty"`
	Submission       *models.SubmissionSpec `json:"submission,omitempty"`
	Prizes           *models.Prizes         `json:"prizes,omitempty"`
	Timeline         *models.Timeline       `json:"timeline,omitempty"`
	Evaluation       *models.Evaluation     `json:"evaluation,omitempty"`
}

// New returns an empty draft
func New() Draft {
	return Draft{}
}

// FromBlueprint seeds a draft with a blueprint's sections. Empty blueprint
// sections are left unset so the corresponding steps still run.
func FromBlueprint(bp *blueprints.Blueprint) Draft {
	d := Draft{
		ChallengeType: bp.ChallengeType,
		Goals:         append([]string(nil), bp.Goals...),
	}

	if bp.Audience.Languages != nil || bp.Audience.TeamsAllowed {
		a := bp.Audience
		d.Audience = &a
	}
	if bp.Submission.Format != "" {
		s := bp.Submission
		d.Submission = &s
	}
	if bp.Prizes.Structure != "" {
		p := bp.Prizes
		d.Prizes = &p
	}
	if len(bp.Criteria) > 0 {
		d.Evaluation = &models.Evaluation{
			Model:      models.EvaluationPostSubmission,
			Criteria:   append([]models.Criterion(nil), bp.Criteria...),
			MinReviews: 1,
			Rubric:     models.Rubric{ScoringSystem: models.ScoringPoints},
		}
	}

	return d
}

// WithIntake records the identity step
func (d Draft) WithIntake(title, problemStatement string, goals []string, challengeType models.ChallengeType) (Draft, error) {
	if err := challenge.ValidateIdentity(title, problemStatement, goals, challengeType); err != nil {
		return d, err
	}
	d.Title = title
	d.ProblemStatement = problemStatement
	d.Goals = goals
	d.ChallengeType = challengeType
	return d, nil
}

// WithAudience records the audience and communication step
func (d Draft) WithAudience(a models.Audience, c models.Communication) (Draft, error) {
	if err := challenge.ValidateAudience(a, true); err != nil {
		return d, err
	}
	d.Audience = &a
	d.Communication = &c
	return d, nil
}

// WithSubmission records the submission step
func (d Draft) WithSubmission(s models.SubmissionSpec) (Draft, error) {
	if err := challenge.ValidateSubmissionSpec(s); err != nil {
		return d, err
	}
	d.Submission = &s
	return d, nil
}

// WithPrizes records the prize step
func (d Draft) WithPrizes(p models.Prizes) (Draft, error) {
	if err := challenge.ValidatePrizes(p); err != nil {
		return d, err
	}
	d.Prizes = &p
	return d, nil
}

// WithTimeline records the timeline step. The future-start rule belongs to
// the creation call, not the step, so only ordering and milestone
// completeness are checked here.
func (d Draft) WithTimeline(t models.Timeline) (Draft, error) {
	if err := challenge.ValidateTimeline(t, time.Time{}); err != nil {
		return d, err
	}
	d.Timeline = &t
	return d, nil
}

// WithEvaluation records the evaluation step
func (d Draft) WithEvaluation(e models.Evaluation) (Draft, error) {
	if err := challenge.ValidateEvaluation(e); err != nil {
		return d, err
	}
	d.Evaluation = &e
	return d, nil
}

// MissingSteps names the steps that still need to run before Complete
func (d Draft) MissingSteps() []string {
	var missing []string
	if d.Title == "" || d.ProblemStatement == "" || len(d.Goals) == 0 || d.ChallengeType == "" {
		missing = append(missing, "intake")
	}
	if d.Audience == nil {
		missing = append(missing, "audience")
	}
	if d.Submission == nil {
		missing = append(missing, "submission")
	}
	if d.Prizes == nil {
		missing = append(missing, "prizes")
	}
	if d.Timeline == nil {
		missing = append(missing, "timeline")
	}
	if d.Evaluation == nil {
		missing = append(missing, "evaluation")
	}
	return missing
}

// Complete assembles the creation payload once every step has run
func (d Draft) Complete() (models.CreateChallengeRequest, error) {
	if missing := d.MissingSteps(); len(missing) > 0 {
		return models.CreateChallengeRequest{}, fmt.Errorf("draft is incomplete: missing %v", missing)
	}

	return models.CreateChallengeRequest{
		Title:            d.Title,
		ProblemStatement: d.ProblemStatement,
		Goals:            d.Goals,
		ChallengeType:    d.ChallengeType,
		Audience:         *d.Audience,
		Communication:    d.Communication,
		Submission:       d.Submission,
		Prizes:           d.Prizes,
		Timeline:         d.Timeline,
		Evaluation:       d.Evaluation,
	}, nil
}
