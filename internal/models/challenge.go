package models

import (
	"time"
)

// ChallengeType classifies a challenge
type ChallengeType string

const (
	TypeIdeation    ChallengeType = "Ideation"
	TypeDesign      ChallengeType = "Design"
	TypeDevelopment ChallengeType = "Development"
	TypeDataScience ChallengeType = "Data Science"
)

// Valid reports whether the challenge type is a recognized value
func (t ChallengeType) Valid() bool {
	switch t {
	case TypeIdeation, TypeDesign, TypeDevelopment, TypeDataScience:
		return true
	}
	return false
}

// SubmissionFormat is the accepted delivery format for solutions
type SubmissionFormat string

const (
	FormatZip  SubmissionFormat = "zip"
	FormatGit  SubmissionFormat = "git"
	FormatURL  SubmissionFormat = "url"
	FormatFile SubmissionFormat = "file"
)

// Valid reports whether the format is a recognized value
func (f SubmissionFormat) Valid() bool {
	switch f {
	case FormatZip, FormatGit, FormatURL, FormatFile:
		return true
	}
	return false
}

// PrizeStructure describes how the prize pool is split
type PrizeStructure string

const (
	PrizeSingle    PrizeStructure = "single"
	PrizeTiered    PrizeStructure = "tiered"
	PrizeMilestone PrizeStructure = "milestone"
)

// Valid reports whether the prize structure is a recognized value
func (p PrizeStructure) Valid() bool {
	switch p {
	case PrizeSingle, PrizeTiered, PrizeMilestone:
		return true
	}
	return false
}

// EvaluationModel describes when submissions are reviewed
type EvaluationModel string

const (
	EvaluationRolling        EvaluationModel = "rolling"
	EvaluationPostSubmission EvaluationModel = "post-submission"
)

// Valid reports whether the evaluation model is a recognized value
func (m EvaluationModel) Valid() bool {
	return m == EvaluationRolling || m == EvaluationPostSubmission
}

// ReviewerRole classifies an invited reviewer
type ReviewerRole string

const (
	ReviewerExpert    ReviewerRole = "expert"
	ReviewerPeer      ReviewerRole = "peer"
	ReviewerModerator ReviewerRole = "moderator"
)

// Valid reports whether the reviewer role is a recognized value
func (r ReviewerRole) Valid() bool {
	switch r {
	case ReviewerExpert, ReviewerPeer, ReviewerModerator:
		return true
	}
	return false
}

// ScoringSystem describes how criteria scores are expressed
type ScoringSystem string

const (
	ScoringPoints     ScoringSystem = "points"
	ScoringPercentage ScoringSystem = "percentage"
	ScoringCustom     ScoringSystem = "custom"
)

// Valid reports whether the scoring system is a recognized value
func (s ScoringSystem) Valid() bool {
	switch s {
	case ScoringPoints, ScoringPercentage, ScoringCustom:
		return true
	}
	return false
}

// ChallengeStatus represents the lifecycle state of a challenge
type ChallengeStatus string

const (
	StatusDraft     ChallengeStatus = "draft"
	StatusActive    ChallengeStatus = "active"
	StatusCompleted ChallengeStatus = "completed"
	StatusCancelled ChallengeStatus = "cancelled"
)

// Valid reports whether the status is a recognized value
func (s ChallengeStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if the status is a terminal state
func (s ChallengeStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether a status change is permitted.
// draft → active → completed; draft and active may also be cancelled.
func (s ChallengeStatus) CanTransitionTo(next ChallengeStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusDraft:
		return next == StatusActive || next == StatusCancelled
	case StatusActive:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}

// Audience constrains who may participate. The yaml tags cover blueprint
// files, which reuse these sub-documents.
type Audience struct {
	GeographicConstraints []string `json:"geographicConstraints,omitempty" yaml:"geographic_constraints"`
	Languages             []string `json:"languages" yaml:"languages"`
	TeamsAllowed          bool     `json:"teamsAllowed" yaml:"teams_allowed"`
	MaxTeamSize           int      `json:"maxTeamSize,omitempty" yaml:"max_team_size"`
}

// Communication toggles participant communication channels
type Communication struct {
	ForumEnabled         bool `json:"forumEnabled"`
	QuestionBoardEnabled bool `json:"questionBoardEnabled"`
}

// SubmissionSpec describes what participants must deliver
type SubmissionSpec struct {
	Format       SubmissionFormat `json:"format" yaml:"format"`
	Requirements []string         `json:"requirements" yaml:"requirements"`
}

// PrizeAmount is a single prize entry
type PrizeAmount struct {
	Rank        int     `json:"rank" yaml:"rank"`
	Amount      float64 `json:"amount" yaml:"amount"`
	Description string  `json:"description,omitempty" yaml:"description"`
}

// Prizes describes the prize pool
type Prizes struct {
	Structure  PrizeStructure `json:"structure" yaml:"structure"`
	Amounts    []PrizeAmount  `json:"amounts" yaml:"amounts"`
	TotalPrize float64        `json:"totalPrize" yaml:"total_prize"`
}

// Sum returns the total of all prize entry amounts
func (p Prizes) Sum() float64 {
	var total float64
	for _, a := range p.Amounts {
		total += a.Amount
	}
	return total
}

// Milestone is a dated checkpoint within the timeline
type Milestone struct {
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

// Timeline bounds the challenge in time
type Timeline struct {
	StartDate  time.Time   `json:"startDate"`
	EndDate    time.Time   `json:"endDate"`
	Milestones []Milestone `json:"milestones,omitempty"`
}

// ReviewerRef references an invited reviewer by email. Name and Expertise are
// not stored; they are resolved from the user directory when a single
// challenge is read.
type ReviewerRef struct {
	Email     string          `json:"email"`
	Role      ReviewerRole    `json:"role"`
	Name      string          `json:"name,omitempty"`
	Expertise []ChallengeType `json:"expertise,omitempty"`
}

// Criterion is a named, weighted evaluation dimension
type Criterion struct {
	Name        string `json:"name" yaml:"name"`
	Weight      int    `json:"weight" yaml:"weight"`
	Description string `json:"description" yaml:"description"`
}

// Rubric holds review-mode flags
type Rubric struct {
	UseAIReview   bool          `json:"useAIReview"`
	UsePeerReview bool          `json:"usePeerReview"`
	ScoringSystem ScoringSystem `json:"scoringSystem,omitempty"`
}

// Evaluation describes how submissions are judged
type Evaluation struct {
	Model      EvaluationModel `json:"model"`
	Reviewers  []ReviewerRef   `json:"reviewers,omitempty"`
	Criteria   []Criterion     `json:"criteria,omitempty"`
	MinReviews int             `json:"minReviews"`
	Rubric     Rubric          `json:"rubric"`
}

// Announcement is a creator-authored update, newest first
type Announcement struct {
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
}

// Submission is a participant's solution record, append-only
type Submission struct {
	Submitter   string    `json:"submitter"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Challenge is the root aggregate
type Challenge struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	ProblemStatement string          `json:"problemStatement"`
	Goals            []string        `json:"goals"`
	ChallengeType    ChallengeType   `json:"challengeType"`
	Audience         Audience        `json:"audience"`
	Communication    Communication   `json:"communication"`
	Submission       SubmissionSpec  `json:"submission"`
	Prizes           Prizes          `json:"prizes"`
	Timeline         Timeline        `json:"timeline"`
	Evaluation       Evaluation      `json:"evaluation"`
	Status           ChallengeStatus `json:"status"`
	CreatorID        string          `json:"creator_id"`
	Creator          *Summary        `json:"creator,omitempty"`
	Announcements    []Announcement  `json:"announcements"`
	Submissions      []Submission    `json:"submissions"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ListFilters defines filters for listing challenges
type ListFilters struct {
	CreatorID     string
	ChallengeType ChallengeType
	Status        ChallengeStatus
	Limit         int
	Offset        int
}
