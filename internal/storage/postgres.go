package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/terra-clan/challenge-hub/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL. Challenge
// sub-documents are stored as JSONB columns; the engine enforces the
// cross-field invariants before any write reaches this layer.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 25 // default
	}

	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 5 // default
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// --- Users ---

// CreateUser creates a new user record
func (r *PostgresRepository) CreateUser(ctx context.Context, u *models.User) error {
	expertiseJSON, err := json.Marshal(u.Expertise)
	if err != nil {
		return fmt.Errorf("failed to marshal expertise: %w", err)
	}

	organizationJSON, err := marshalOrganization(u.Organization)
	if err != nil {
		return fmt.Errorf("failed to marshal organization: %w", err)
	}

	preferencesJSON, err := json.Marshal(u.Preferences)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	participationsJSON, err := json.Marshal(u.Participations)
	if err != nil {
		return fmt.Errorf("failed to marshal participations: %w", err)
	}

	query := `
		INSERT INTO users (id, name, email, password_hash, role, expertise, organization, preferences, participations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.pool.Exec(ctx, query,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		string(u.Role),
		expertiseJSON,
		organizationJSON,
		preferencesJSON,
		participationsJSON,
		u.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

const userColumns = `id, name, email, password_hash, role, expertise, organization, preferences, participations, created_at`

// GetUserByID retrieves a user by id
func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.getUser(ctx, "id", id)
}

// GetUserByEmail retrieves a user by lowercased email
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, "email", email)
}

func (r *PostgresRepository) getUser(ctx context.Context, field, value string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, field)

	u, err := scanUser(r.pool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// UpdateUser updates an existing user
func (r *PostgresRepository) UpdateUser(ctx context.Context, u *models.User) error {
	expertiseJSON, err := json.Marshal(u.Expertise)
	if err != nil {
		return fmt.Errorf("failed to marshal expertise: %w", err)
	}

	organizationJSON, err := marshalOrganization(u.Organization)
	if err != nil {
		return fmt.Errorf("failed to marshal organization: %w", err)
	}

	preferencesJSON, err := json.Marshal(u.Preferences)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	participationsJSON, err := json.Marshal(u.Participations)
	if err != nil {
		return fmt.Errorf("failed to marshal participations: %w", err)
	}

	query := `
		UPDATE users
		SET name = $2, role = $3, expertise = $4, organization = $5, preferences = $6, participations = $7
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		u.ID,
		u.Name,
		string(u.Role),
		expertiseJSON,
		organizationJSON,
		preferencesJSON,
		participationsJSON,
	)

	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", u.ID)
	}

	return nil
}

// ListUsersByRole returns all users with the given role
func (r *PostgresRepository) ListUsersByRole(ctx context.Context, role models.UserRole) ([]*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE role = $1 ORDER BY created_at DESC`, userColumns)

	rows, err := r.pool.Query(ctx, query, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var roleStr string
	var expertiseJSON, organizationJSON, preferencesJSON, participationsJSON []byte

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&roleStr,
		&expertiseJSON,
		&organizationJSON,
		&preferencesJSON,
		&participationsJSON,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.Role = models.UserRole(roleStr)

	if err := json.Unmarshal(expertiseJSON, &u.Expertise); err != nil {
		return nil, fmt.Errorf("failed to unmarshal expertise: %w", err)
	}
	if organizationJSON != nil {
		if err := json.Unmarshal(organizationJSON, &u.Organization); err != nil {
			return nil, fmt.Errorf("failed to unmarshal organization: %w", err)
		}
	}
	if err := json.Unmarshal(preferencesJSON, &u.Preferences); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	if err := json.Unmarshal(participationsJSON, &u.Participations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal participations: %w", err)
	}

	return &u, nil
}

// --- Challenges ---

const challengeColumns = `id, title, problem_statement, goals, challenge_type, audience, communication, submission, prizes, timeline, evaluation, status, creator_id, announcements, submissions, created_at, updated_at`

// CreateChallenge creates a new challenge record
func (r *PostgresRepository) CreateChallenge(ctx context.Context, c *models.Challenge) error {
	docs, err := marshalChallengeDocs(c)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO challenges (id, title, problem_statement, goals, challenge_type, audience, communication, submission, prizes, timeline, evaluation, status, creator_id, announcements, submissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err = r.pool.Exec(ctx, query,
		c.ID,
		c.Title,
		c.ProblemStatement,
		docs.goals,
		string(c.ChallengeType),
		docs.audience,
		docs.communication,
		docs.submission,
		docs.prizes,
		docs.timeline,
		docs.evaluation,
		string(c.Status),
		c.CreatorID,
		docs.announcements,
		docs.submissions,
		c.CreatedAt,
		c.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}

	return nil
}

// GetChallenge retrieves a challenge by id
func (r *PostgresRepository) GetChallenge(ctx context.Context, id string) (*models.Challenge, error) {
	query := fmt.Sprintf(`SELECT %s FROM challenges WHERE id = $1`, challengeColumns)

	c, err := scanChallenge(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	return c, nil
}

// UpdateChallenge updates an existing challenge. The creator binding is
// immutable and deliberately absent from the SET list.
func (r *PostgresRepository) UpdateChallenge(ctx context.Context, c *models.Challenge) error {
	docs, err := marshalChallengeDocs(c)
	if err != nil {
		return err
	}

	query := `
		UPDATE challenges
		SET title = $2, problem_statement = $3, goals = $4, challenge_type = $5, audience = $6, communication = $7, submission = $8, prizes = $9, timeline = $10, evaluation = $11, status = $12, announcements = $13, submissions = $14, updated_at = $15
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		c.ID,
		c.Title,
		c.ProblemStatement,
		docs.goals,
		string(c.ChallengeType),
		docs.audience,
		docs.communication,
		docs.submission,
		docs.prizes,
		docs.timeline,
		docs.evaluation,
		string(c.Status),
		docs.announcements,
		docs.submissions,
		c.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update challenge: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("challenge not found: %s", c.ID)
	}

	return nil
}

// ListChallenges returns challenges matching filters, newest first
func (r *PostgresRepository) ListChallenges(ctx context.Context, filters models.ListFilters) ([]*models.Challenge, error) {
	query := fmt.Sprintf(`SELECT %s FROM challenges WHERE 1=1`, challengeColumns)
	args := make([]interface{}, 0)
	argNum := 1

	if filters.CreatorID != "" {
		query += fmt.Sprintf(" AND creator_id = $%d", argNum)
		args = append(args, filters.CreatorID)
		argNum++
	}

	if filters.ChallengeType != "" {
		query += fmt.Sprintf(" AND challenge_type = $%d", argNum)
		args = append(args, string(filters.ChallengeType))
		argNum++
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, string(filters.Status))
		argNum++
	}

	query += " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filters.Limit)
		argNum++
	}

	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, filters.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*models.Challenge

	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating challenges: %w", err)
	}

	return challenges, nil
}

type challengeDocs struct {
	goals         []byte
	audience      []byte
	communication []byte
	submission    []byte
	prizes        []byte
	timeline      []byte
	evaluation    []byte
	announcements []byte
	submissions   []byte
}

func marshalChallengeDocs(c *models.Challenge) (*challengeDocs, error) {
	var docs challengeDocs
	var err error

	fields := []struct {
		name string
		dst  *[]byte
		src  interface{}
	}{
		{"goals", &docs.goals, c.Goals},
		{"audience", &docs.audience, c.Audience},
		{"communication", &docs.communication, c.Communication},
		{"submission", &docs.submission, c.Submission},
		{"prizes", &docs.prizes, c.Prizes},
		{"timeline", &docs.timeline, c.Timeline},
		{"evaluation", &docs.evaluation, c.Evaluation},
		{"announcements", &docs.announcements, c.Announcements},
		{"submissions", &docs.submissions, c.Submissions},
	}

	for _, f := range fields {
		*f.dst, err = json.Marshal(f.src)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", f.name, err)
		}
	}

	return &docs, nil
}

func scanChallenge(row pgx.Row) (*models.Challenge, error) {
	var c models.Challenge
	var typeStr, statusStr string
	var goalsJSON, audienceJSON, communicationJSON, submissionJSON []byte
	var prizesJSON, timelineJSON, evaluationJSON []byte
	var announcementsJSON, submissionsJSON []byte

	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.ProblemStatement,
		&goalsJSON,
		&typeStr,
		&audienceJSON,
		&communicationJSON,
		&submissionJSON,
		&prizesJSON,
		&timelineJSON,
		&evaluationJSON,
		&statusStr,
		&c.CreatorID,
		&announcementsJSON,
		&submissionsJSON,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.ChallengeType = models.ChallengeType(typeStr)
	c.Status = models.ChallengeStatus(statusStr)

	fields := []struct {
		name string
		src  []byte
		dst  interface{}
	}{
		{"goals", goalsJSON, &c.Goals},
		{"audience", audienceJSON, &c.Audience},
		{"communication", communicationJSON, &c.Communication},
		{"submission", submissionJSON, &c.Submission},
		{"prizes", prizesJSON, &c.Prizes},
		{"timeline", timelineJSON, &c.Timeline},
		{"evaluation", evaluationJSON, &c.Evaluation},
		{"announcements", announcementsJSON, &c.Announcements},
		{"submissions", submissionsJSON, &c.Submissions},
	}

	for _, f := range fields {
		if f.src == nil {
			continue
		}
		if err := json.Unmarshal(f.src, f.dst); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", f.name, err)
		}
	}

	if c.Announcements == nil {
		c.Announcements = []models.Announcement{}
	}
	if c.Submissions == nil {
		c.Submissions = []models.Submission{}
	}

	return &c, nil
}

// marshalOrganization maps a nil organization to SQL NULL
func marshalOrganization(o *models.Organization) ([]byte, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}
