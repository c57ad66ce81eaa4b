package blueprints

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/terra-clan/challenge-hub/internal/models"
)

// Blueprint is a pre-baked challenge outline the creation wizard offers as a
// starting point. Blueprints are read-only; the wizard copies their sections
// into a draft.
type Blueprint struct {
	ID            string                `yaml:"id" json:"id"`
	Name          string                `yaml:"name" json:"name"`
	Description   string                `yaml:"description" json:"description"`
	ChallengeType models.ChallengeType  `yaml:"challenge_type" json:"challengeType"`
	Goals         []string              `yaml:"goals" json:"goals,omitempty"`
	Audience      models.Audience       `yaml:"audience" json:"audience"`
	Submission    models.SubmissionSpec `yaml:"submission" json:"submission"`
	Prizes        models.Prizes         `yaml:"prizes" json:"prizes"`
	DurationDays  int                   `yaml:"duration_days" json:"durationDays"`
	Criteria      []models.Criterion    `yaml:"criteria" json:"criteria,omitempty"`
}

// Loader manages loading and caching of challenge blueprints
type Loader struct {
	mu         sync.RWMutex
	blueprints map[string]*Blueprint
}

// NewLoader creates a new blueprint loader
func NewLoader() *Loader {
	return &Loader{
		blueprints: make(map[string]*Blueprint),
	}
}

// LoadFromDir loads all YAML blueprints from a directory
func (l *Loader) LoadFromDir(dir string) error {
	slog.Info("loading blueprints from directory", "dir", dir)

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}

	loaded := 0
	for _, file := range files {
		if err := l.LoadFromFile(file); err != nil {
			slog.Warn("failed to load blueprint", "file", file, "error", err)
			continue
		}
		loaded++
	}

	slog.Info("blueprints loaded", "count", loaded, "total_files", len(files))

	return nil
}

// LoadFromFile loads a single blueprint file. The blueprint id defaults to
// the file name without extension.
func (l *Loader) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read blueprint file: %w", err)
	}

	var bp Blueprint
	if err := yaml.Unmarshal(data, &bp); err != nil {
		return fmt.Errorf("failed to parse blueprint yaml: %w", err)
	}

	if bp.ID == "" {
		base := filepath.Base(path)
		bp.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if err := bp.Validate(); err != nil {
		return fmt.Errorf("invalid blueprint %s: %w", bp.ID, err)
	}

	l.mu.Lock()
	l.blueprints[bp.ID] = &bp
	l.mu.Unlock()

	return nil
}

// Validate checks the blueprint's enumerated fields. Sections the blueprint
// leaves empty are filled in by the wizard, so only present values are checked.
func (bp *Blueprint) Validate() error {
	if bp.Name == "" {
		return fmt.Errorf("blueprint name is required")
	}
	if !bp.ChallengeType.Valid() {
		return fmt.Errorf("unknown challenge type %q", bp.ChallengeType)
	}
	if bp.Submission.Format != "" && !bp.Submission.Format.Valid() {
		return fmt.Errorf("unknown submission format %q", bp.Submission.Format)
	}
	if bp.Prizes.Structure != "" && !bp.Prizes.Structure.Valid() {
		return fmt.Errorf("unknown prize structure %q", bp.Prizes.Structure)
	}
	return nil
}

// Get returns a blueprint by id, or nil if not found
func (l *Loader) Get(id string) *Blueprint {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.blueprints[id]
}

// List returns all blueprints sorted by id
func (l *Loader) List() []*Blueprint {
	l.mu.RLock()
	defer l.mu.RUnlock()

	list := make([]*Blueprint, 0, len(l.blueprints))
	for _, bp := range l.blueprints {
		list = append(list, bp)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})

	return list
}
