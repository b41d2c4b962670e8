package domain

import (
	"errors"
	"testing"
	"time"
)

func validVoter() *Voter {
	return &Voter{
		Name:        "Ravi",
		Gender:      GenderMale,
		Age:         34,
		Area:        "Kothrud",
		BoothNumber: "12",
	}
}

func TestVoter_Validate(t *testing.T) {
	if err := validVoter().Validate(); err != nil {
		t.Fatalf("valid voter rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Voter)
	}{
		{"missing name", func(v *Voter) { v.Name = "" }},
		{"zero age", func(v *Voter) { v.Age = 0 }},
		{"negative age", func(v *Voter) { v.Age = -1 }},
		{"age too large", func(v *Voter) { v.Age = 151 }},
		{"unknown gender", func(v *Voter) { v.Gender = "unknown" }},
		{"missing area", func(v *Voter) { v.Area = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := validVoter()
			tc.mutate(v)
			if err := v.Validate(); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestVoter_ApplyDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	v := validVoter()
	v.Surname = "Patil"
	v.ApplyDefaults(now)

	if v.FavorScore != 50.0 || v.FavorCategory != FavorNeutral {
		t.Fatalf("unexpected favor defaults: %v/%s", v.FavorScore, v.FavorCategory)
	}
	if v.VisitedStatus || v.VotedStatus || v.VisitCount != 0 {
		t.Fatalf("fresh voter must start unvisited: %+v", v)
	}
	if v.Tags == nil || v.Notes == nil || v.SurveyHistory == nil {
		t.Fatalf("collections must be initialized")
	}
	if v.FullName != "Ravi Patil" {
		t.Fatalf("unexpected full name: %q", v.FullName)
	}
	if !v.CreatedAt.Equal(now) || !v.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps not stamped: %+v", v)
	}
}

func TestVoter_ApplyDefaults_FullNamePreserved(t *testing.T) {
	v := validVoter()
	v.FullName = "Shri Ravi Patil"
	v.ApplyDefaults(time.Now())
	if v.FullName != "Shri Ravi Patil" {
		t.Fatalf("explicit full name overwritten: %q", v.FullName)
	}
}
