package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/challenge-hub/internal/models"
)

func TestMemoryRepositoryCopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	stored := &models.Challenge{
		ID:    "c1",
		Title: "Build a mobile app",
		Goals: []string{"Working prototype"},
		Audience: models.Audience{
			Languages:             []string{"en"},
			GeographicConstraints: []string{"EU"},
		},
		Submission: models.SubmissionSpec{
			Format:       models.FormatGit,
			Requirements: []string{"Public repository"},
		},
		Prizes: models.Prizes{
			Structure:  models.PrizeTiered,
			TotalPrize: 100,
			Amounts:    []models.PrizeAmount{{Rank: 1, Amount: 100}},
		},
		Timeline: models.Timeline{
			StartDate:  start,
			EndDate:    start.AddDate(0, 1, 0),
			Milestones: []models.Milestone{{Name: "Midpoint", Date: start.AddDate(0, 0, 14), Description: "Check-in"}},
		},
		Evaluation: models.Evaluation{
			Model:      models.EvaluationPostSubmission,
			MinReviews: 1,
			Reviewers:  []models.ReviewerRef{{Email: "rita@example.com", Role: models.ReviewerExpert}},
			Criteria:   []models.Criterion{{Name: "Quality", Weight: 100}},
		},
		Status: models.StatusActive,
	}
	require.NoError(t, repo.CreateChallenge(ctx, stored))

	got, err := repo.GetChallenge(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)

	// Mutating nested slices of a returned copy must not leak into the store
	got.Goals[0] = "mutated"
	got.Audience.Languages[0] = "mutated"
	got.Audience.GeographicConstraints[0] = "mutated"
	got.Submission.Requirements[0] = "mutated"
	got.Prizes.Amounts[0].Amount = 0
	got.Timeline.Milestones[0].Name = "mutated"
	got.Evaluation.Reviewers[0].Email = "mutated"
	got.Evaluation.Criteria[0].Weight = 0

	fresh, err := repo.GetChallenge(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Working prototype", fresh.Goals[0])
	assert.Equal(t, "en", fresh.Audience.Languages[0])
	assert.Equal(t, "EU", fresh.Audience.GeographicConstraints[0])
	assert.Equal(t, "Public repository", fresh.Submission.Requirements[0])
	assert.Equal(t, float64(100), fresh.Prizes.Amounts[0].Amount)
	assert.Equal(t, "Midpoint", fresh.Timeline.Milestones[0].Name)
	assert.Equal(t, "rita@example.com", fresh.Evaluation.Reviewers[0].Email)
	assert.Equal(t, 100, fresh.Evaluation.Criteria[0].Weight)
}

func TestMemoryRepositoryUserCopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	require.NoError(t, repo.CreateUser(ctx, &models.User{
		ID:             "u1",
		Name:           "Alice",
		Email:          "alice@example.com",
		Expertise:      []models.ChallengeType{models.TypeDesign},
		Participations: []models.Participation{{ChallengeID: "c1", Role: models.ParticipationParticipant}},
	}))

	got, err := repo.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)

	got.Expertise[0] = models.TypeIdeation
	got.Participations[0].ChallengeID = "mutated"

	fresh, err := repo.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.TypeDesign, fresh.Expertise[0])
	assert.Equal(t, "c1", fresh.Participations[0].ChallengeID)
}
