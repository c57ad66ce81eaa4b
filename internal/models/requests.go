package models

// RegisterRequest is the payload for user registration
type RegisterRequest struct {
	Name         string          `json:"name" validate:"required"`
	Email        string          `json:"email" validate:"required,email"`
	Password     string          `json:"password" validate:"required,min=6"`
	Role         UserRole        `json:"role,omitempty"`
	Expertise    []ChallengeType `json:"expertise,omitempty"`
	Organization *Organization   `json:"organization,omitempty"`
}

// LoginRequest is the payload for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries an issued bearer token
type TokenResponse struct {
	Token string `json:"token"`
}

// UpdateProfileRequest is a partial profile update; nil fields are left untouched
type UpdateProfileRequest struct {
	Name         *string          `json:"name,omitempty"`
	Expertise    *[]ChallengeType `json:"expertise,omitempty"`
	Organization *Organization    `json:"organization,omitempty"`
	Preferences  *Preferences     `json:"preferences,omitempty"`
}

// CreateChallengeRequest is the complete payload assembled by the wizard
type CreateChallengeRequest struct {
	Title            string          `json:"title" validate:"required"`
	ProblemStatement string          `json:"problemStatement" validate:"required"`
	Goals            []string        `json:"goals" validate:"required,min=1"`
	ChallengeType    ChallengeType   `json:"challengeType" validate:"required"`
	Audience         Audience        `json:"audience"`
	Communication    *Communication  `json:"communication,omitempty"`
	Submission       *SubmissionSpec `json:"submission" validate:"required"`
	Prizes           *Prizes         `json:"prizes" validate:"required"`
	Timeline         *Timeline       `json:"timeline" validate:"required"`
	Evaluation       *Evaluation     `json:"evaluation,omitempty"`
}

// UpdateChallengeRequest is a partial update applied as a shallow section merge
type UpdateChallengeRequest struct {
	Title            *string          `json:"title,omitempty"`
	ProblemStatement *string          `json:"problemStatement,omitempty"`
	Goals            *[]string        `json:"goals,omitempty"`
	ChallengeType    *ChallengeType   `json:"challengeType,omitempty"`
	Audience         *Audience        `json:"audience,omitempty"`
	Communication    *Communication   `json:"communication,omitempty"`
	Submission       *SubmissionSpec  `json:"submission,omitempty"`
	Prizes           *Prizes          `json:"prizes,omitempty"`
	Timeline         *Timeline        `json:"timeline,omitempty"`
	Evaluation       *Evaluation      `json:"evaluation,omitempty"`
	Status           *ChallengeStatus `json:"status,omitempty"`
}

// AnnouncementRequest is the payload for posting an announcement
type AnnouncementRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// SubmissionRequest is the payload for submitting a solution
type SubmissionRequest struct {
	URL         string `json:"url" validate:"required"`
	Description string `json:"description,omitempty"`
}
