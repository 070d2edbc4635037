package domain

import (
	"fmt"
	"strings"
)

// Skill is a packaged set of instructions for an AI coding assistant.
// It is the unit that is indexed and displayed. Only Name is tokenized;
// every other field is stored verbatim for display and ranking.
type Skill struct {
	// Source identifies the origin repository or namespace, e.g. "owner/repo".
	Source string `json:"source"`

	// SkillID is unique within Source.
	SkillID string `json:"skillId"`

	// Name is the display name and the only searchable field.
	Name string `json:"name"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// Installs counts installations and breaks ranking ties.
	Installs int64 `json:"installs"`

	// Technologies is an ordered list of tags.
	Technologies []string `json:"technologies"`
}

// SkillKey is the identity of a skill across the whole catalog.
type SkillKey struct {
	Source  string
	SkillID string
}

// String renders the key as "source:skillId".
func (k SkillKey) String() string {
	return k.Source + ":" + k.SkillID
}

// Key returns the identity of the skill.
func (s Skill) Key() SkillKey {
	return SkillKey{Source: s.Source, SkillID: s.SkillID}
}

// Validate checks the required stored fields.
// The returned error wraps ErrMalformedRecord.
func (s Skill) Validate() error {
	switch {
	case strings.TrimSpace(s.Source) == "":
		return fmt.Errorf("%w: missing source", ErrMalformedRecord)
	case strings.TrimSpace(s.SkillID) == "":
		return fmt.Errorf("%w: missing skillId", ErrMalformedRecord)
	case strings.TrimSpace(s.Name) == "":
		return fmt.Errorf("%w: missing name", ErrMalformedRecord)
	case s.Installs < 0:
		return fmt.Errorf("%w: negative installs %d", ErrMalformedRecord, s.Installs)
	}
	return nil
}

// Clone returns a deep copy. Technologies is never nil in the copy.
func (s Skill) Clone() Skill {
	c := s
	c.Technologies = make([]string, len(s.Technologies))
	copy(c.Technologies, s.Technologies)
	return c
}
