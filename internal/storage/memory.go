package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/terra-clan/challenge-hub/internal/models"
)

// MemoryRepository is an in-process Repository for tests and single-node
// development runs. Values are copied on the way in and out so callers
// cannot mutate stored state through shared pointers.
type MemoryRepository struct {
	mu         sync.RWMutex
	users      map[string]*models.User
	challenges map[string]*models.Challenge
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:      make(map[string]*models.User),
		challenges: make(map[string]*models.Challenge),
	}
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Expertise = append([]models.ChallengeType(nil), u.Expertise...)
	cp.Participations = append([]models.Participation(nil), u.Participations...)
	if u.Organization != nil {
		org := *u.Organization
		cp.Organization = &org
	}
	return &cp
}

func copyChallenge(c *models.Challenge) *models.Challenge {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Goals = append([]string(nil), c.Goals...)
	cp.Announcements = append([]models.Announcement(nil), c.Announcements...)
	cp.Submissions = append([]models.Submission(nil), c.Submissions...)
	cp.Audience.GeographicConstraints = append([]string(nil), c.Audience.GeographicConstraints...)
	cp.Audience.Languages = append([]string(nil), c.Audience.Languages...)
	cp.Submission.Requirements = append([]string(nil), c.Submission.Requirements...)
	cp.Prizes.Amounts = append([]models.PrizeAmount(nil), c.Prizes.Amounts...)
	cp.Timeline.Milestones = append([]models.Milestone(nil), c.Timeline.Milestones...)
	cp.Evaluation.Reviewers = append([]models.ReviewerRef(nil), c.Evaluation.Reviewers...)
	for i := range cp.Evaluation.Reviewers {
		cp.Evaluation.Reviewers[i].Expertise = append([]models.ChallengeType(nil), cp.Evaluation.Reviewers[i].Expertise...)
	}
	cp.Evaluation.Criteria = append([]models.Criterion(nil), c.Evaluation.Criteria...)
	return &cp
}

// CreateUser stores a new user
func (r *MemoryRepository) CreateUser(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = copyUser(u)
	return nil
}

// GetUserByID returns the user or (nil, nil) when absent
func (r *MemoryRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyUser(r.users[id]), nil
}

// GetUserByEmail returns the user or (nil, nil) when absent
func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

// UpdateUser replaces the stored user
func (r *MemoryRepository) UpdateUser(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = copyUser(u)
	return nil
}

// ListUsersByRole returns users with the given role
func (r *MemoryRepository) ListUsersByRole(ctx context.Context, role models.UserRole) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, copyUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// CreateChallenge stores a new challenge
func (r *MemoryRepository) CreateChallenge(ctx context.Context, c *models.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.challenges[c.ID] = copyChallenge(c)
	return nil
}

// GetChallenge returns the challenge or (nil, nil) when absent
func (r *MemoryRepository) GetChallenge(ctx context.Context, id string) (*models.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyChallenge(r.challenges[id]), nil
}

// UpdateChallenge replaces the stored challenge
func (r *MemoryRepository) UpdateChallenge(ctx context.Context, c *models.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.challenges[c.ID] = copyChallenge(c)
	return nil
}

// ListChallenges returns challenges newest first with the given filters
func (r *MemoryRepository) ListChallenges(ctx context.Context, filters models.ListFilters) ([]*models.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.Challenge
	for _, c := range r.challenges {
		if filters.CreatorID != "" && c.CreatorID != filters.CreatorID {
			continue
		}
		if filters.ChallengeType != "" && c.ChallengeType != filters.ChallengeType {
			continue
		}
		if filters.Status != "" && c.Status != filters.Status {
			continue
		}
		out = append(out, copyChallenge(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			return nil, nil
		}
		out = out[filters.Offset:]
	}
	if filters.Limit > 0 && filters.Limit < len(out) {
		out = out[:filters.Limit]
	}

	return out, nil
}

// Ping always succeeds
func (r *MemoryRepository) Ping(ctx context.Context) error { return nil }

// Close is a no-op
func (r *MemoryRepository) Close() error { return nil }
