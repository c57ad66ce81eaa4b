package models

import (
	"time"
)

// UserRole represents the platform-level role of a user
type UserRole string

const (
	RoleParticipant   UserRole = "participant"
	RoleReviewer      UserRole = "reviewer"
	RoleAdministrator UserRole = "administrator"
)

// Valid reports whether the role is a recognized value
func (r UserRole) Valid() bool {
	switch r {
	case RoleParticipant, RoleReviewer, RoleAdministrator:
		return true
	}
	return false
}

// ParticipationRole represents a user's role within a single challenge
type ParticipationRole string

const (
	ParticipationParticipant ParticipationRole = "participant"
	ParticipationReviewer    ParticipationRole = "reviewer"
	ParticipationMentor      ParticipationRole = "mentor"
)

// Valid reports whether the participation role is a recognized value
func (r ParticipationRole) Valid() bool {
	switch r {
	case ParticipationParticipant, ParticipationReviewer, ParticipationMentor:
		return true
	}
	return false
}

// Organization describes the user's affiliation
type Organization struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// NotificationPreferences controls notification channels
type NotificationPreferences struct {
	Email    bool `json:"email"`
	Platform bool `json:"platform"`
}

// Preferences holds user notification and language preferences
type Preferences struct {
	Notifications NotificationPreferences `json:"notifications"`
	Language      string                  `json:"language"`
}

// DefaultPreferences returns the preferences applied at registration
func DefaultPreferences() Preferences {
	return Preferences{
		Notifications: NotificationPreferences{Email: true, Platform: true},
		Language:      "en",
	}
}

// Participation links a user to a challenge they take part in
type Participation struct {
	ChallengeID string            `json:"challenge_id"`
	Role        ParticipationRole `json:"role"`
	JoinedAt    time.Time         `json:"joined_at"`
}

// User represents a registered account.
// PasswordHash is never serialized.
type User struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	PasswordHash   string          `json:"-"`
	Role           UserRole        `json:"role"`
	Expertise      []ChallengeType `json:"expertise"`
	Organization   *Organization   `json:"organization,omitempty"`
	Preferences    Preferences     `json:"preferences"`
	Participations []Participation `json:"participating_challenges"`
	CreatedAt      time.Time       `json:"created_at"`
}

// IsParticipating reports whether the user already participates in the challenge
func (u *User) IsParticipating(challengeID string) bool {
	for _, p := range u.Participations {
		if p.ChallengeID == challengeID {
			return true
		}
	}
	return false
}

// Summary is the public projection of a user embedded in challenge responses
type Summary struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Organization *Organization `json:"organization,omitempty"`
}

// Summary returns the public projection of the user
func (u *User) Summary() Summary {
	return Summary{
		ID:           u.ID,
		Name:         u.Name,
		Organization: u.Organization,
	}
}
