package model

import (
	"errors"
	"testing"
)

func TestJobPostingValidate(t *testing.T) {
	if err := (JobPosting{Description: "Senior Go engineer"}).Validate(); err != nil {
		t.Errorf("valid posting rejected: %v", err)
	}

	err := (JobPosting{Description: "   \n\t"}).Validate()
	if err == nil {
		t.Fatal("expected validation error for blank description")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if vErr.Field != "job.description" {
		t.Errorf("unexpected field: %q", vErr.Field)
	}
}

func TestCandidateProfileValidate(t *testing.T) {
	valid := CandidateProfile{Name: "Alex", Skills: []string{"Go"}}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid profile rejected: %v", err)
	}

	if err := (CandidateProfile{Skills: []string{"Go"}}).Validate(); err == nil {
		t.Error("expected error for missing name")
	}
	if err := (CandidateProfile{Name: "Alex"}).Validate(); err == nil {
		t.Error("expected error for profile with no skills or achievements")
	}

	withAchievement := CandidateProfile{
		Name:         "Alex",
		Achievements: []Achievement{{Summary: "scaled service 5x"}},
	}
	if err := withAchievement.Validate(); err != nil {
		t.Errorf("profile with achievement rejected: %v", err)
	}
}
