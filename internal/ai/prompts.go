package ai

import (
	"fmt"
	"strings"
)

// Prompt templates are fixed per operation and parameterized only by the
// input fields; the response comes back unmodified.

// AnalyzeProblemInput feeds the challenge-setup recommendation prompt
type AnalyzeProblemInput struct {
	ProblemStatement string   `json:"problemStatement" validate:"required"`
	Goals            []string `json:"goals" validate:"required,min=1"`
}

// Prompt renders the fixed template for this operation
func (in AnalyzeProblemInput) Prompt() string {
	return fmt.Sprintf(
		"Based on the following problem statement and goals, provide recommendations for challenge setup:\n\n"+
			"Problem Statement: %s\n"+
			"Goals: %s\n\n"+
			"Please provide recommendations for:\n"+
			"1. Challenge type\n"+
			"2. Target audience\n"+
			"3. Submission format\n"+
			"4. Prize structure\n"+
			"5. Timeline suggestions",
		in.ProblemStatement,
		strings.Join(in.Goals, ", "),
	)
}

// ValidateRequirementsInput feeds the requirements-review prompt
type ValidateRequirementsInput struct {
	Requirements []string `json:"requirements" validate:"required,min=1"`
}

// Prompt renders the fixed template for this operation
func (in ValidateRequirementsInput) Prompt() string {
	var b strings.Builder
	for i, r := range in.Requirements {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}
	return fmt.Sprintf(
		"Review and validate the following challenge submission requirements:\n"+
			"%s\n"+
			"Please check for:\n"+
			"1. Clarity and completeness\n"+
			"2. Technical feasibility\n"+
			"3. Potential improvements\n"+
			"4. Best practices alignment",
		b.String(),
	)
}

// SuggestPrizeInput feeds the prize-structure suggestion prompt
type SuggestPrizeInput struct {
	ChallengeType string `json:"challengeType" validate:"required"`
	Complexity    string `json:"complexity" validate:"required"`
	Duration      string `json:"duration" validate:"required"`
}

// Prompt renders the fixed template for this operation
func (in SuggestPrizeInput) Prompt() string {
	return fmt.Sprintf(
		"Suggest an appropriate prize structure for a challenge with the following parameters:\n"+
			"Type: %s\n"+
			"Complexity: %s\n"+
			"Duration: %s\n\n"+
			"Please provide:\n"+
			"1. Recommended prize structure (single/tiered/milestone)\n"+
			"2. Suggested prize amounts\n"+
			"3. Justification for the recommendation\n"+
			"4. Industry benchmarks if applicable",
		in.ChallengeType,
		in.Complexity,
		in.Duration,
	)
}

// EvaluationCriteriaInput feeds the criteria generation prompt
type EvaluationCriteriaInput struct {
	ChallengeType string   `json:"challengeType" validate:"required"`
	Goals         []string `json:"goals" validate:"required,min=1"`
}

// Prompt renders the fixed template for this operation
func (in EvaluationCriteriaInput) Prompt() string {
	return fmt.Sprintf(
		"Create evaluation criteria for a %s challenge with the following goals:\n"+
			"%s\n\n"+
			"Please provide:\n"+
			"1. Specific evaluation criteria\n"+
			"2. Suggested weights for each criterion\n"+
			"3. Scoring guidelines\n"+
			"4. Recommended evaluation approach (AI/peer/expert review)",
		in.ChallengeType,
		strings.Join(in.Goals, "\n"),
	)
}
