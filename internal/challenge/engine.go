package challenge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/terra-clan/challenge-hub/internal/models"
	"github.com/terra-clan/challenge-hub/internal/storage"
)

// AnnouncementListener receives announcements as they are created
type AnnouncementListener func(challengeID string, a models.Announcement)

// Engine validates and transitions challenge documents. Every mutation entry
// point runs the guard functions from validate.go before the write; the store
// only sees documents that satisfy the invariants.
type Engine struct {
	repo      storage.Repository
	now       func() time.Time
	listeners []AnnouncementListener
}

// NewEngine creates a challenge lifecycle engine
func NewEngine(repo storage.Repository) *Engine {
	return &Engine{
		repo: repo,
		now:  time.Now,
	}
}

// WithClock overrides the engine clock; used by tests
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// OnAnnouncement registers a listener for new announcements. Listeners are
// called synchronously after the write succeeds; registration is not safe
// for concurrent use and should happen at wiring time.
func (e *Engine) OnAnnouncement(l AnnouncementListener) {
	e.listeners = append(e.listeners, l)
}

// defaultEvaluation is applied when the creation payload omits evaluation
func defaultEvaluation() models.Evaluation {
	return models.Evaluation{
		Model:      models.EvaluationPostSubmission,
		MinReviews: 1,
		Rubric:     models.Rubric{ScoringSystem: models.ScoringPoints},
	}
}

// Create validates the complete payload and persists a new challenge with
// status active, bound to the creator identity.
func (e *Engine) Create(ctx context.Context, creatorID string, req models.CreateChallengeRequest) (*models.Challenge, error) {
	if req.Submission == nil {
		return nil, fmt.Errorf("%w: submission is required", ErrValidation)
	}
	if req.Prizes == nil {
		return nil, fmt.Errorf("%w: prizes are required", ErrValidation)
	}
	if req.Timeline == nil {
		return nil, fmt.Errorf("%w: timeline is required", ErrValidation)
	}

	now := e.now().UTC()

	c := &models.Challenge{
		ID:               uuid.NewString(),
		Title:            req.Title,
		ProblemStatement: req.ProblemStatement,
		Goals:            req.Goals,
		ChallengeType:    req.ChallengeType,
		Audience:         req.Audience,
		Submission:       *req.Submission,
		Prizes:           *req.Prizes,
		Timeline:         *req.Timeline,
		Evaluation:       defaultEvaluation(),
		Status:           models.StatusActive,
		CreatorID:        creatorID,
		Announcements:    []models.Announcement{},
		Submissions:      []models.Submission{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	// Communication defaults to both channels enabled, matching the wizard
	if req.Communication != nil {
		c.Communication = *req.Communication
	} else {
		c.Communication = models.Communication{ForumEnabled: true, QuestionBoardEnabled: true}
	}
	if req.Evaluation != nil {
		c.Evaluation = *req.Evaluation
	}

	if err := ValidateAudience(c.Audience, true); err != nil {
		return nil, err
	}
	if err := ValidateDocument(c, now); err != nil {
		return nil, err
	}

	if err := e.repo.CreateChallenge(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to persist challenge: %w", err)
	}

	slog.Info("challenge created",
		"id", c.ID,
		"type", c.ChallengeType,
		"creator", creatorID,
		"total_prize", c.Prizes.TotalPrize,
	)

	return c, nil
}

// Get returns a challenge with its creator summary and reviewer identities
// populated
func (e *Engine) Get(ctx context.Context, id string) (*models.Challenge, error) {
	c, err := e.repo.GetChallenge(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if c == nil {
		return nil, ErrNotFound
	}

	e.populateCreator(ctx, c)
	e.populateReviewers(ctx, c)
	return c, nil
}

// List returns challenges newest first with creator summaries populated
func (e *Engine) List(ctx context.Context, filters models.ListFilters) ([]*models.Challenge, error) {
	challenges, err := e.repo.ListChallenges(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}

	creators := make(map[string]*models.Summary)
	for _, c := range challenges {
		if s, ok := creators[c.CreatorID]; ok {
			c.Creator = s
			continue
		}
		e.populateCreator(ctx, c)
		creators[c.CreatorID] = c.Creator
	}

	return challenges, nil
}

// Update applies a shallow section merge over the stored document and re-runs
// the invariant guards on the merged result. Only the creator may update; the
// creator binding itself is immutable. Status changes must follow the state
// machine.
func (e *Engine) Update(ctx context.Context, id, callerID string, req models.UpdateChallengeRequest) (*models.Challenge, error) {
	c, err := e.repo.GetChallenge(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if c == nil {
		return nil, ErrNotFound
	}
	if c.CreatorID != callerID {
		return nil, ErrNotCreator
	}

	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.ProblemStatement != nil {
		c.ProblemStatement = *req.ProblemStatement
	}
	if req.Goals != nil {
		c.Goals = *req.Goals
	}
	if req.ChallengeType != nil {
		c.ChallengeType = *req.ChallengeType
	}
	if req.Audience != nil {
		c.Audience = *req.Audience
	}
	if req.Communication != nil {
		c.Communication = *req.Communication
	}
	if req.Submission != nil {
		c.Submission = *req.Submission
	}
	if req.Prizes != nil {
		c.Prizes = *req.Prizes
	}
	if req.Timeline != nil {
		c.Timeline = *req.Timeline
	}
	if req.Evaluation != nil {
		c.Evaluation = *req.Evaluation
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *req.Status)
		}
		if !c.Status.CanTransitionTo(*req.Status) {
			return nil, fmt.Errorf("%w: cannot transition from %s to %s", ErrValidation, c.Status, *req.Status)
		}
		c.Status = *req.Status
	}

	// The future-start rule is creation-only; updates validate ordering and
	// completeness but not the clock.
	if err := ValidateDocument(c, time.Time{}); err != nil {
		return nil, err
	}

	c.UpdatedAt = e.now().UTC()

	if err := e.repo.UpdateChallenge(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update challenge: %w", err)
	}

	slog.Info("challenge updated", "id", c.ID, "status", c.Status)

	e.populateCreator(ctx, c)
	return c, nil
}

// Announce prepends a creator-authored announcement with a server timestamp
// and returns the updated announcement list, newest first.
func (e *Engine) Announce(ctx context.Context, id, callerID string, req models.AnnouncementRequest) ([]models.Announcement, error) {
	c, err := e.repo.GetChallenge(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if c == nil {
		return nil, ErrNotFound
	}
	if c.CreatorID != callerID {
		return nil, ErrNotCreator
	}
	if req.Title == "" || req.Content == "" {
		return nil, fmt.Errorf("%w: announcement title and content are required", ErrValidation)
	}

	a := models.Announcement{
		Title:   req.Title,
		Content: req.Content,
		Date:    e.now().UTC(),
	}

	c.Announcements = append([]models.Announcement{a}, c.Announcements...)
	c.UpdatedAt = a.Date

	if err := e.repo.UpdateChallenge(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to append announcement: %w", err)
	}

	for _, l := range e.listeners {
		l(c.ID, a)
	}

	slog.Info("announcement posted", "challenge_id", c.ID, "title", a.Title)

	return c.Announcements, nil
}

// Submit appends a solution record to an active challenge. Submissions are
// append-only and a user may submit more than once; the submitter is also
// recorded as a participant on their first submission.
func (e *Engine) Submit(ctx context.Context, id, callerID string, req models.SubmissionRequest) (*models.Submission, error) {
	c, err := e.repo.GetChallenge(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if c == nil {
		return nil, ErrNotFound
	}
	if c.Status != models.StatusActive {
		return nil, ErrSubmissionClosed
	}
	if req.URL == "" {
		return nil, fmt.Errorf("%w: submission url is required", ErrValidation)
	}

	now := e.now().UTC()
	sub := models.Submission{
		Submitter:   callerID,
		URL:         req.URL,
		Description: req.Description,
		CreatedAt:   now,
	}

	c.Submissions = append(c.Submissions, sub)
	c.UpdatedAt = now

	if err := e.repo.UpdateChallenge(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to append submission: %w", err)
	}

	e.recordParticipation(ctx, callerID, c.ID, now)

	slog.Info("submission recorded",
		"challenge_id", c.ID,
		"submitter", callerID,
		"total", len(c.Submissions),
	)

	return &sub, nil
}

// recordParticipation adds the challenge to the submitter's participations.
// Failures are logged, not surfaced: the submission itself already succeeded.
func (e *Engine) recordParticipation(ctx context.Context, userID, challengeID string, joinedAt time.Time) {
	u, err := e.repo.GetUserByID(ctx, userID)
	if err != nil || u == nil {
		slog.Warn("failed to load submitter for participation", "user_id", userID, "error", err)
		return
	}
	if u.IsParticipating(challengeID) {
		return
	}

	u.Participations = append(u.Participations, models.Participation{
		ChallengeID: challengeID,
		Role:        models.ParticipationParticipant,
		JoinedAt:    joinedAt,
	})

	if err := e.repo.UpdateUser(ctx, u); err != nil {
		slog.Warn("failed to record participation", "user_id", userID, "challenge_id", challengeID, "error", err)
	}
}

// populateReviewers resolves reviewer emails against the user directory for
// the detail view. Invited reviewers without an account keep a bare ref.
func (e *Engine) populateReviewers(ctx context.Context, c *models.Challenge) {
	for i, ref := range c.Evaluation.Reviewers {
		u, err := e.repo.GetUserByEmail(ctx, strings.ToLower(ref.Email))
		if err != nil {
			slog.Warn("failed to resolve reviewer", "challenge_id", c.ID, "email", ref.Email, "error", err)
			continue
		}
		if u == nil {
			continue
		}
		c.Evaluation.Reviewers[i].Name = u.Name
		c.Evaluation.Reviewers[i].Expertise = u.Expertise
	}
}

func (e *Engine) populateCreator(ctx context.Context, c *models.Challenge) {
	u, err := e.repo.GetUserByID(ctx, c.CreatorID)
	if err != nil || u == nil {
		slog.Warn("failed to populate creator", "challenge_id", c.ID, "creator_id", c.CreatorID, "error", err)
		return
	}
	s := u.Summary()
	c.Creator = &s
}
