package model

import (
	"fmt"
	"strings"
)

// JobPosting is the raw job description given to the pipeline.
type JobPosting struct {
	Description string `json:"description"`
}

// Achievement is one quantified accomplishment in a candidate profile.
type Achievement struct {
	Summary string `json:"summary"`
	Impact  string `json:"impact"`
	Metrics string `json:"metrics,omitempty"`
}

// CandidateProfile is the structured record describing the applicant.
type CandidateProfile struct {
	Name         string        `json:"name"`
	CurrentRole  string        `json:"current_role"`
	Skills       []string      `json:"skills"`
	Achievements []Achievement `json:"achievements"`
	Summary      string        `json:"summary,omitempty"`
}

// ValidationError reports malformed pipeline input. It is fatal to the run:
// no agent executes and no partial output is produced.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// Validate checks a job posting for well-formedness.
func (j JobPosting) Validate() error {
	if strings.TrimSpace(j.Description) == "" {
		return &ValidationError{Field: "job.description", Reason: "must not be empty"}
	}
	return nil
}

// Validate checks a candidate profile for well-formedness.
func (p CandidateProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "profile.name", Reason: "must not be empty"}
	}
	if len(p.Skills) == 0 && len(p.Achievements) == 0 {
		return &ValidationError{Field: "profile", Reason: "needs at least one skill or achievement"}
	}
	return nil
}
