package challenge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/challenge-hub/internal/models"
)

func validTimeline(base time.Time) models.Timeline {
	return models.Timeline{
		StartDate: base.Add(24 * time.Hour),
		EndDate:   base.Add(14 * 24 * time.Hour),
	}
}

func TestValidateIdentity(t *testing.T) {
	goals := []string{"ship it"}

	t.Run("Valid", func(t *testing.T) {
		require.NoError(t, ValidateIdentity("Build an app", "We need an app", goals, models.TypeDevelopment))
	})

	t.Run("MissingTitle", func(t *testing.T) {
		err := ValidateIdentity("", "We need an app", goals, models.TypeDevelopment)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("EmptyGoals", func(t *testing.T) {
		err := ValidateIdentity("Build an app", "We need an app", nil, models.TypeDevelopment)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("UnknownType", func(t *testing.T) {
		err := ValidateIdentity("Build an app", "We need an app", goals, "Gardening")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestValidateAudience(t *testing.T) {
	t.Run("TeamsNeedSize", func(t *testing.T) {
		err := ValidateAudience(models.Audience{
			Languages:    []string{"en"},
			TeamsAllowed: true,
		}, true)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("TeamSizeOfOneRejected", func(t *testing.T) {
		err := ValidateAudience(models.Audience{
			Languages:    []string{"en"},
			TeamsAllowed: true,
			MaxTeamSize:  1,
		}, true)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("TeamsWithSize", func(t *testing.T) {
		require.NoError(t, ValidateAudience(models.Audience{
			Languages:    []string{"en"},
			TeamsAllowed: true,
			MaxTeamSize:  4,
		}, true))
	})

	t.Run("LanguagesRequiredAtCreation", func(t *testing.T) {
		err := ValidateAudience(models.Audience{}, true)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("LanguagesOptionalOtherwise", func(t *testing.T) {
		require.NoError(t, ValidateAudience(models.Audience{}, false))
	})
}

func TestValidatePrizes(t *testing.T) {
	t.Run("SumMatchesTotal", func(t *testing.T) {
		require.NoError(t, ValidatePrizes(models.Prizes{
			Structure:  models.PrizeTiered,
			TotalPrize: 100,
			Amounts: []models.PrizeAmount{
				{Rank: 1, Amount: 60},
				{Rank: 2, Amount: 40},
			},
		}))
	})

	t.Run("SumBelowTotalRejected", func(t *testing.T) {
		err := ValidatePrizes(models.Prizes{
			Structure:  models.PrizeTiered,
			TotalPrize: 100,
			Amounts: []models.PrizeAmount{
				{Rank: 1, Amount: 50},
				{Rank: 2, Amount: 40},
			},
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("NonPositiveEntryRejected", func(t *testing.T) {
		err := ValidatePrizes(models.Prizes{
			Structure:  models.PrizeSingle,
			TotalPrize: 100,
			Amounts: []models.PrizeAmount{
				{Rank: 1, Amount: 100},
				{Rank: 2, Amount: 0},
			},
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("NoEntriesRejected", func(t *testing.T) {
		err := ValidatePrizes(models.Prizes{
			Structure:  models.PrizeSingle,
			TotalPrize: 100,
		})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestValidateTimeline(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Valid", func(t *testing.T) {
		require.NoError(t, ValidateTimeline(validTimeline(now), now))
	})

	t.Run("StartInPastRejected", func(t *testing.T) {
		tl := models.Timeline{
			StartDate: now.Add(-time.Hour),
			EndDate:   now.Add(14 * 24 * time.Hour),
		}
		assert.ErrorIs(t, ValidateTimeline(tl, now), ErrValidation)
	})

	t.Run("PastStartAllowedWithoutReference", func(t *testing.T) {
		// Updates of running challenges skip the clock check
		tl := models.Timeline{
			StartDate: now.Add(-time.Hour),
			EndDate:   now.Add(14 * 24 * time.Hour),
		}
		require.NoError(t, ValidateTimeline(tl, time.Time{}))
	})

	t.Run("EndBeforeStartRejected", func(t *testing.T) {
		tl := models.Timeline{
			StartDate: now.Add(48 * time.Hour),
			EndDate:   now.Add(24 * time.Hour),
		}
		assert.ErrorIs(t, ValidateTimeline(tl, now), ErrValidation)
	})

	t.Run("EndEqualToStartRejected", func(t *testing.T) {
		start := now.Add(24 * time.Hour)
		tl := models.Timeline{StartDate: start, EndDate: start}
		assert.ErrorIs(t, ValidateTimeline(tl, now), ErrValidation)
	})

	t.Run("PartialMilestoneRejected", func(t *testing.T) {
		tl := validTimeline(now)
		tl.Milestones = []models.Milestone{
			{Name: "Checkpoint", Date: now.Add(5 * 24 * time.Hour)},
		}
		assert.ErrorIs(t, ValidateTimeline(tl, now), ErrValidation)
	})

	t.Run("CompleteMilestoneAccepted", func(t *testing.T) {
		tl := validTimeline(now)
		tl.Milestones = []models.Milestone{
			{Name: "Checkpoint", Date: now.Add(5 * 24 * time.Hour), Description: "Mid-point review"},
		}
		require.NoError(t, ValidateTimeline(tl, now))
	})
}

func TestValidateCriteria(t *testing.T) {
	t.Run("WeightsSummingTo100", func(t *testing.T) {
		criteria := []models.Criterion{
			{Name: "Quality", Weight: 30, Description: "code quality"},
			{Name: "Design", Weight: 30, Description: "architecture"},
			{Name: "Impact", Weight: 40, Description: "usefulness"},
		}
		require.NoError(t, ValidateCriteria(criteria))
		assert.True(t, IsValidCriteria(criteria))
	})

	t.Run("WeightsSummingTo60Rejected", func(t *testing.T) {
		criteria := []models.Criterion{
			{Name: "Quality", Weight: 30, Description: "code quality"},
			{Name: "Design", Weight: 30, Description: "architecture"},
		}
		assert.ErrorIs(t, ValidateCriteria(criteria), ErrValidation)
		assert.False(t, IsValidCriteria(criteria))
	})

	t.Run("ZeroWeightRejected", func(t *testing.T) {
		criteria := []models.Criterion{
			{Name: "Quality", Weight: 100, Description: "code quality"},
			{Name: "Design", Weight: 0, Description: "architecture"},
		}
		assert.ErrorIs(t, ValidateCriteria(criteria), ErrValidation)
	})

	t.Run("EmptyListRejected", func(t *testing.T) {
		assert.ErrorIs(t, ValidateCriteria(nil), ErrValidation)
	})
}

func TestValidateEvaluation(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		require.NoError(t, ValidateEvaluation(models.Evaluation{
			Model:      models.EvaluationRolling,
			MinReviews: 2,
			Reviewers: []models.ReviewerRef{
				{Email: "expert@example.com", Role: models.ReviewerExpert},
			},
			Rubric: models.Rubric{ScoringSystem: models.ScoringPoints},
		}))
	})

	t.Run("UnknownModel", func(t *testing.T) {
		err := ValidateEvaluation(models.Evaluation{Model: "continuous", MinReviews: 1})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("ReviewerWithoutEmail", func(t *testing.T) {
		err := ValidateEvaluation(models.Evaluation{
			Model:      models.EvaluationRolling,
			MinReviews: 1,
			Reviewers:  []models.ReviewerRef{{Role: models.ReviewerPeer}},
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("BadCriteriaPropagate", func(t *testing.T) {
		err := ValidateEvaluation(models.Evaluation{
			Model:      models.EvaluationRolling,
			MinReviews: 1,
			Criteria:   []models.Criterion{{Name: "Only", Weight: 50, Description: "half"}},
		})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to models.ChallengeStatus
		want     bool
	}{
		{models.StatusDraft, models.StatusActive, true},
		{models.StatusDraft, models.StatusCancelled, true},
		{models.StatusDraft, models.StatusCompleted, false},
		{models.StatusActive, models.StatusCompleted, true},
		{models.StatusActive, models.StatusCancelled, true},
		{models.StatusActive, models.StatusDraft, false},
		{models.StatusCompleted, models.StatusActive, false},
		{models.StatusCancelled, models.StatusActive, false},
		{models.StatusActive, models.StatusActive, true},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equal(t, tc.want, got, "%s -> %s", tc.from, tc.to)
	}
}
