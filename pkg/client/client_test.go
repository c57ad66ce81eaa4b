package client

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/challenge-hub/internal/api"
	"github.com/terra-clan/challenge-hub/internal/auth"
	"github.com/terra-clan/challenge-hub/internal/blueprints"
	"github.com/terra-clan/challenge-hub/internal/challenge"
	"github.com/terra-clan/challenge-hub/internal/config"
	"github.com/terra-clan/challenge-hub/internal/models"
	"github.com/terra-clan/challenge-hub/internal/storage"
	"github.com/terra-clan/challenge-hub/internal/users"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	repo := storage.NewMemoryRepository()
	srv := api.NewServer(
		config.ServerConfig{Host: "127.0.0.1", Port: 0},
		users.NewService(repo),
		challenge.NewEngine(repo),
		auth.NewMemoryTokenStore(time.Hour),
		nil,
		blueprints.NewLoader(),
		repo,
	)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func TestClientEndToEnd(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t)

	alice := NewClient(ts.URL)
	bob := NewClient(ts.URL)

	require.NoError(t, alice.Health(ctx))

	// Alice registers and creates a challenge
	_, err := alice.Register(ctx, models.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, alice.Token())

	start := time.Now().Add(24 * time.Hour)
	created, err := alice.CreateChallenge(ctx, models.CreateChallengeRequest{
		Title:            "Build a mobile app",
		ProblemStatement: "Users need to track workouts",
		Goals:            []string{"Working prototype"},
		ChallengeType:    models.TypeDevelopment,
		Audience:         models.Audience{Languages: []string{"en"}},
		Submission: &models.SubmissionSpec{
			Format:       models.FormatGit,
			Requirements: []string{"Public repository"},
		},
		Prizes: &models.Prizes{
			Structure:  models.PrizeSingle,
			TotalPrize: 1000,
			Amounts:    []models.PrizeAmount{{Rank: 1, Amount: 1000}},
		},
		Timeline: &models.Timeline{
			StartDate: start,
			EndDate:   start.Add(30 * 24 * time.Hour),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, created.Status)

	// Bob registers and submits a solution
	_, err = bob.Register(ctx, models.RegisterRequest{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	sub, err := bob.SubmitSolution(ctx, created.ID, models.SubmissionRequest{
		URL:         "https://git.example.com/bob/app",
		Description: "My take on the tracker",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://git.example.com/bob/app", sub.URL)

	// Bob cannot edit Alice's challenge
	title := "hijacked"
	_, err = bob.UpdateChallenge(ctx, created.ID, models.UpdateChallengeRequest{Title: &title})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	// Alice posts an announcement and sees the submission
	announcements, err := alice.PostAnnouncement(ctx, created.ID, models.AnnouncementRequest{
		Title:   "First entry is in",
		Content: "Keep them coming",
	})
	require.NoError(t, err)
	require.Len(t, announcements, 1)

	got, err := alice.GetChallenge(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Submissions, 1)
	assert.Equal(t, "https://git.example.com/bob/app", got.Submissions[0].URL)

	// Listing shows the challenge with its creator summary
	list, err := bob.ListChallenges(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Creator)
	assert.Equal(t, "Alice", list[0].Creator.Name)

	// Alice's profile reflects the created challenge; Bob's reflects his participation
	profile, err := alice.Me(ctx)
	require.NoError(t, err)
	require.Len(t, profile.CreatedChallenges, 1)

	bobProfile, err := bob.Me(ctx)
	require.NoError(t, err)
	require.Len(t, bobProfile.User.Participations, 1)
	assert.Equal(t, created.ID, bobProfile.User.Participations[0].ChallengeID)
	require.Len(t, bobProfile.ParticipatingChallenges, 1)
	assert.Equal(t, created.ID, bobProfile.ParticipatingChallenges[0].ID)

	// Login again after logout
	require.NoError(t, alice.Logout(ctx))
	assert.Empty(t, alice.Token())

	_, err = alice.Login(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)

	_, err = alice.Me(ctx)
	require.NoError(t, err)
}

func TestClientReviewers(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t)

	c := NewClient(ts.URL)
	_, err := c.Register(ctx, models.RegisterRequest{
		Name:      "Rita",
		Email:     "rita@example.com",
		Password:  "secret123",
		Role:      models.RoleReviewer,
		Expertise: []models.ChallengeType{models.TypeDesign},
	})
	require.NoError(t, err)

	reviewers, err := c.Reviewers(ctx)
	require.NoError(t, err)
	require.Len(t, reviewers, 1)
	assert.Equal(t, "Rita", reviewers[0].Name)
	assert.Equal(t, []models.ChallengeType{models.TypeDesign}, reviewers[0].Expertise)
}
