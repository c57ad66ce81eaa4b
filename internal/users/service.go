package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/terra-clan/challenge-hub/internal/models"
	"github.com/terra-clan/challenge-hub/internal/storage"
)

var (
	// ErrEmailTaken indicates the email is already registered
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidCredentials indicates a failed login attempt
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound indicates the user id does not resolve to an account
	ErrNotFound = errors.New("user not found")

	// ErrValidation is wrapped by all input violations
	ErrValidation = errors.New("validation failed")
)

// Service manages the user directory
type Service struct {
	repo storage.Repository
	now  func() time.Time
}

// NewService creates a user directory service
func NewService(repo storage.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Register creates a new account. Emails are case-insensitive; passwords are
// stored as bcrypt hashes. The role defaults to participant.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	role := req.Role
	if role == "" {
		role = models.RoleParticipant
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	for _, e := range req.Expertise {
		if !e.Valid() {
			return nil, fmt.Errorf("%w: unknown expertise %q", ErrValidation, e)
		}
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Email:          email,
		PasswordHash:   string(hash),
		Role:           role,
		Expertise:      req.Expertise,
		Organization:   req.Organization,
		Preferences:    models.DefaultPreferences(),
		Participations: []models.Participation{},
		CreatedAt:      s.now().UTC(),
	}
	if u.Expertise == nil {
		u.Expertise = []models.ChallengeType{}
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "id", u.ID, "role", u.Role)

	return u, nil
}

// Authenticate verifies email and password and returns the account
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// Get returns the account by id
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// UpdateProfile applies a shallow merge of the supplied fields
func (s *Service) UpdateProfile(ctx context.Context, id string, req models.UpdateProfileRequest) (*models.User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
		}
		u.Name = *req.Name
	}
	if req.Expertise != nil {
		for _, e := range *req.Expertise {
			if !e.Valid() {
				return nil, fmt.Errorf("%w: unknown expertise %q", ErrValidation, e)
			}
		}
		u.Expertise = *req.Expertise
	}
	if req.Organization != nil {
		u.Organization = req.Organization
	}
	if req.Preferences != nil {
		u.Preferences = *req.Preferences
	}

	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

// Reviewers returns all accounts with the reviewer role
func (s *Service) Reviewers(ctx context.Context) ([]*models.User, error) {
	reviewers, err := s.repo.ListUsersByRole(ctx, models.RoleReviewer)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviewers: %w", err)
	}
	return reviewers, nil
}

// CreatedChallenges returns the challenges created by the user, newest first
func (s *Service) CreatedChallenges(ctx context.Context, id string) ([]*models.Challenge, error) {
	created, err := s.repo.ListChallenges(ctx, models.ListFilters{CreatorID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to list created challenges: %w", err)
	}
	return created, nil
}

// ParticipatingChallenges resolves the user's participations to the challenge
// documents, in participation order. Participations whose challenge no longer
// exists are skipped.
func (s *Service) ParticipatingChallenges(ctx context.Context, u *models.User) ([]*models.Challenge, error) {
	out := make([]*models.Challenge, 0, len(u.Participations))
	for _, p := range u.Participations {
		c, err := s.repo.GetChallenge(ctx, p.ChallengeID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve participation %s: %w", p.ChallengeID, err)
		}
		if c == nil {
			slog.Warn("participation references a missing challenge", "user_id", u.ID, "challenge_id", p.ChallengeID)
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
