package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/terra-clan/challenge-hub/internal/models"
	"github.com/terra-clan/challenge-hub/internal/storage"
)

func validRegisterRequest() models.RegisterRequest {
	return models.RegisterRequest{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "secret123",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := storage.NewMemoryRepository()
		svc := NewService(repo)

		u, err := svc.Register(ctx, validRegisterRequest())
		require.NoError(t, err)

		assert.NotEmpty(t, u.ID)
		assert.Equal(t, "alice@example.com", u.Email, "emails are stored lowercase")
		assert.Equal(t, models.RoleParticipant, u.Role, "role defaults to participant")
		assert.NotNil(t, u.Participations)
		assert.Empty(t, u.Participations)
		assert.Equal(t, models.DefaultPreferences(), u.Preferences)

		// Password is stored hashed, never plain
		assert.NotEqual(t, "secret123", u.PasswordHash)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")))
	})

	t.Run("DuplicateEmailRejected", func(t *testing.T) {
		repo := storage.NewMemoryRepository()
		svc := NewService(repo)

		_, err := svc.Register(ctx, validRegisterRequest())
		require.NoError(t, err)

		req := validRegisterRequest()
		req.Email = "ALICE@example.com" // different casing, same account
		_, err = svc.Register(ctx, req)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("UnknownRoleRejected", func(t *testing.T) {
		repo := storage.NewMemoryRepository()
		svc := NewService(repo)

		req := validRegisterRequest()
		req.Role = "overlord"
		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("UnknownExpertiseRejected", func(t *testing.T) {
		repo := storage.NewMemoryRepository()
		svc := NewService(repo)

		req := validRegisterRequest()
		req.Expertise = []models.ChallengeType{"Gardening"}
		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryRepository()
	svc := NewService(repo)

	_, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		u, err := svc.Authenticate(ctx, "alice@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "Alice", u.Name)
	})

	t.Run("CaseInsensitiveEmail", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ALICE@EXAMPLE.COM", "secret123")
		require.NoError(t, err)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "alice@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody@example.com", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryRepository()
	svc := NewService(repo)

	u, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	t.Run("ShallowMerge", func(t *testing.T) {
		name := "Alice Cooper"
		org := &models.Organization{Name: "Acme", Role: "CTO"}

		updated, err := svc.UpdateProfile(ctx, u.ID, models.UpdateProfileRequest{
			Name:         &name,
			Organization: org,
		})
		require.NoError(t, err)

		assert.Equal(t, "Alice Cooper", updated.Name)
		require.NotNil(t, updated.Organization)
		assert.Equal(t, "Acme", updated.Organization.Name)
		// Untouched fields survive
		assert.Equal(t, "alice@example.com", updated.Email)
		assert.Equal(t, models.DefaultPreferences(), updated.Preferences)
	})

	t.Run("EmptyNameRejected", func(t *testing.T) {
		empty := ""
		_, err := svc.UpdateProfile(ctx, u.ID, models.UpdateProfileRequest{Name: &empty})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("UnknownExpertiseRejected", func(t *testing.T) {
		exp := []models.ChallengeType{"Gardening"}
		_, err := svc.UpdateProfile(ctx, u.ID, models.UpdateProfileRequest{Expertise: &exp})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("NotFound", func(t *testing.T) {
		name := "ghost"
		_, err := svc.UpdateProfile(ctx, "no-such-id", models.UpdateProfileRequest{Name: &name})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestReviewers(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryRepository()
	svc := NewService(repo)

	_, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	reviewer := models.RegisterRequest{
		Name:      "Rita",
		Email:     "rita@example.com",
		Password:  "secret123",
		Role:      models.RoleReviewer,
		Expertise: []models.ChallengeType{models.TypeDesign},
	}
	_, err = svc.Register(ctx, reviewer)
	require.NoError(t, err)

	reviewers, err := svc.Reviewers(ctx)
	require.NoError(t, err)
	require.Len(t, reviewers, 1)
	assert.Equal(t, "Rita", reviewers[0].Name)
}

func TestParticipatingChallenges(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryRepository()
	svc := NewService(repo)

	u, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	require.NoError(t, repo.CreateChallenge(ctx, &models.Challenge{
		ID:    "c1",
		Title: "Build a mobile app",
	}))

	u.Participations = append(u.Participations,
		models.Participation{ChallengeID: "c1", Role: models.ParticipationParticipant},
		models.Participation{ChallengeID: "gone", Role: models.ParticipationParticipant},
	)
	require.NoError(t, repo.UpdateUser(ctx, u))

	participating, err := svc.ParticipatingChallenges(ctx, u)
	require.NoError(t, err)

	// The dangling reference is skipped, the live one resolves to the document
	require.Len(t, participating, 1)
	assert.Equal(t, "Build a mobile app", participating[0].Title)
}
