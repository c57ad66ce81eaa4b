package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/terra-clan/challenge-hub/internal/models"
)

// Client is a Go SDK for the challenge-hub API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithToken sets the bearer token for authenticated calls
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a new challenge-hub client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Token returns the current bearer token; empty until Register or Login
func (c *Client) Token() string {
	return c.token
}

// SetToken replaces the bearer token for subsequent calls
func (c *Client) SetToken(token string) {
	c.token = token
}

// AuthResult is the register/login response
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Profile is the authenticated account view returned by Me
type Profile struct {
	User                    *models.User        `json:"user"`
	CreatedChallenges       []*models.Challenge `json:"createdChallenges"`
	ParticipatingChallenges []*models.Challenge `json:"participatingChallenges"`
}

// Reviewer is the public projection of a reviewer account
type Reviewer struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Email        string                 `json:"email"`
	Expertise    []models.ChallengeType `json:"expertise"`
	Organization *models.Organization   `json:"organization,omitempty"`
}

// ListOptions contains options for listing challenges
type ListOptions struct {
	CreatorID string
	Type      string
	Status    string
	Limit     int
	Offset    int
}

// Register creates an account and stores the issued token on the client
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*AuthResult, error) {
	var result AuthResult
	if err := c.call(ctx, "POST", "/api/users/register", req, &result); err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}

// Login authenticates and stores the issued token on the client
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var result AuthResult
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.call(ctx, "POST", "/api/users/login", req, &result); err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}

// Logout revokes the current token
func (c *Client) Logout(ctx context.Context) error {
	if err := c.call(ctx, "POST", "/api/users/logout", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// Me returns the authenticated account with its created challenges
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var result Profile
	if err := c.call(ctx, "GET", "/api/users/me", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateProfile applies a partial profile update
func (c *Client) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error) {
	var result models.User
	if err := c.call(ctx, "PUT", "/api/users/me", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Reviewers lists accounts with the reviewer role
func (c *Client) Reviewers(ctx context.Context) ([]*Reviewer, error) {
	var result struct {
		Reviewers []*Reviewer `json:"reviewers"`
		Total     int         `json:"total"`
	}
	if err := c.call(ctx, "GET", "/api/users/reviewers", nil, &result); err != nil {
		return nil, err
	}
	return result.Reviewers, nil
}

// CreateChallenge creates a new challenge
func (c *Client) CreateChallenge(ctx context.Context, req models.CreateChallengeRequest) (*models.Challenge, error) {
	var result models.Challenge
	if err := c.call(ctx, "POST", "/api/challenges", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetChallenge retrieves a challenge by ID
func (c *Client) GetChallenge(ctx context.Context, id string) (*models.Challenge, error) {
	var result models.Challenge
	if err := c.call(ctx, "GET", "/api/challenges/"+id, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListChallenges retrieves challenges, newest first
func (c *Client) ListChallenges(ctx context.Context, opts ListOptions) ([]*models.Challenge, error) {
	path := "/api/challenges?"
	if opts.CreatorID != "" {
		path += fmt.Sprintf("creator_id=%s&", opts.CreatorID)
	}
	if opts.Type != "" {
		path += fmt.Sprintf("type=%s&", opts.Type)
	}
	if opts.Status != "" {
		path += fmt.Sprintf("status=%s&", opts.Status)
	}
	if opts.Limit > 0 {
		path += fmt.Sprintf("limit=%d&", opts.Limit)
	}
	if opts.Offset > 0 {
		path += fmt.Sprintf("offset=%d&", opts.Offset)
	}

	var result struct {
		Challenges []*models.Challenge `json:"challenges"`
		Total      int                 `json:"total"`
	}
	if err := c.call(ctx, "GET", path, nil, &result); err != nil {
		return nil, err
	}
	return result.Challenges, nil
}

// UpdateChallenge applies a partial update; creator only
func (c *Client) UpdateChallenge(ctx context.Context, id string, req models.UpdateChallengeRequest) (*models.Challenge, error) {
	var result models.Challenge
	if err := c.call(ctx, "PUT", "/api/challenges/"+id, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PostAnnouncement posts an announcement; creator only. Returns the full
// announcement list, newest first.
func (c *Client) PostAnnouncement(ctx context.Context, id string, req models.AnnouncementRequest) ([]models.Announcement, error) {
	var result struct {
		Announcements []models.Announcement `json:"announcements"`
		Total         int                   `json:"total"`
	}
	if err := c.call(ctx, "POST", "/api/challenges/"+id+"/announcements", req, &result); err != nil {
		return nil, err
	}
	return result.Announcements, nil
}

// SubmitSolution submits a solution to an active challenge
func (c *Client) SubmitSolution(ctx context.Context, id string, req models.SubmissionRequest) (*models.Submission, error) {
	var result models.Submission
	if err := c.call(ctx, "POST", "/api/challenges/"+id+"/submissions", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	_, err := c.doRequest(ctx, "GET", "/health", nil)
	return err
}

// call performs a request and unmarshals the envelope's data into out
func (c *Client) call(ctx context.Context, method, path string, reqBody, out interface{}) error {
	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	var result struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success {
		if result.Error != nil {
			return fmt.Errorf("API error: %s - %s", result.Error.Code, result.Error.Message)
		}
		return fmt.Errorf("API error: request failed")
	}

	if out != nil && len(result.Data) > 0 {
		if err := json.Unmarshal(result.Data, out); err != nil {
			return fmt.Errorf("failed to unmarshal response data: %w", err)
		}
	}

	return nil
}

// doRequest performs an HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
