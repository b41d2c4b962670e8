package domain

import (
	"fmt"
	"time"
)

// Gender is the normalized gender classification of a voter.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// FavorCategory buckets the 0–100 favor score.
type FavorCategory string

const (
	FavorSupporter  FavorCategory = "supporter"
	FavorNeutral    FavorCategory = "neutral"
	FavorOpposition FavorCategory = "opposition"
)

// VoterNote is a free-form annotation left by a user on a voter.
type VoterNote struct {
	Text      string    `json:"text" bson:"text"`
	CreatedBy string    `json:"created_by" bson:"created_by"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// GPSCoordinates is a geographic point captured during field work.
type GPSCoordinates struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// Voter is the core record of the platform. AdminID is the tenant owner set
// at import/creation time and immutable thereafter; AssignedTo is the
// (nullable) karyakarta owner for field operations. The two are independent
// scoping axes.
type Voter struct {
	ID             string          `json:"id"`
	VoterID        string          `json:"voter_id,omitempty"`
	Name           string          `json:"name"`
	Surname        string          `json:"surname,omitempty"`
	FullName       string          `json:"full_name"`
	Gender         Gender          `json:"gender"`
	Age            int             `json:"age"`
	DateOfBirth    string          `json:"date_of_birth,omitempty"`
	Caste          string          `json:"caste,omitempty"`
	Religion       string          `json:"religion,omitempty"`
	Area           string          `json:"area"`
	Ward           string          `json:"ward,omitempty"`
	BoothNumber    string          `json:"booth_number"`
	BoothName      string          `json:"booth_name,omitempty"`
	Address        string          `json:"address,omitempty"`
	Pincode        string          `json:"pincode,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Email          string          `json:"email,omitempty"`
	FamilyID       string          `json:"family_id,omitempty"`
	AdminID        string          `json:"admin_id,omitempty"`
	FavorScore     float64         `json:"favor_score"`
	FavorCategory  FavorCategory   `json:"favor_category"`
	VisitedStatus  bool            `json:"visited_status"`
	VisitedBy      string          `json:"visited_by,omitempty"`
	VisitedDate    *time.Time      `json:"visited_date,omitempty"`
	VisitCount     int             `json:"visit_count"`
	VotedStatus    bool            `json:"voted_status"`
	VotedTimestamp *time.Time      `json:"voted_timestamp,omitempty"`
	AssignedTo     string          `json:"assigned_to,omitempty"`
	AssignedBy     string          `json:"assigned_by,omitempty"`
	AssignedDate   *time.Time      `json:"assigned_date,omitempty"`
	GPSCoordinates *GPSCoordinates `json:"gps_coordinates,omitempty"`
	Tags           []string        `json:"tags"`
	Notes          []VoterNote     `json:"notes"`
	SurveyHistory  []string        `json:"survey_history"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	ImportedAt     *time.Time      `json:"imported_at,omitempty"`
}

// Validate checks field presence once, at the store boundary.
func (v *Voter) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if v.Age <= 0 || v.Age > 150 {
		return fmt.Errorf("%w: age %d out of range", ErrValidation, v.Age)
	}
	switch v.Gender {
	case GenderMale, GenderFemale, GenderOther:
	default:
		return fmt.Errorf("%w: unknown gender %q", ErrValidation, v.Gender)
	}
	if v.Area == "" {
		return fmt.Errorf("%w: area is required", ErrValidation)
	}
	return nil
}

// ApplyDefaults stamps the server-assigned fields a fresh voter record gets.
func (v *Voter) ApplyDefaults(now time.Time) {
	v.FavorScore = 50.0
	v.FavorCategory = FavorNeutral
	v.VisitedStatus = false
	v.VotedStatus = false
	v.VisitCount = 0
	if v.Tags == nil {
		v.Tags = []string{}
	}
	if v.Notes == nil {
		v.Notes = []VoterNote{}
	}
	if v.SurveyHistory == nil {
		v.SurveyHistory = []string{}
	}
	if v.FullName == "" {
		v.FullName = v.Name
		if v.Surname != "" {
			v.FullName = v.Name + " " + v.Surname
		}
	}
	v.CreatedAt = now
	v.UpdatedAt = now
}

// VoterFilter composes optional predicates ANDed together by the repository.
// The Scope is set by the service layer from the requester's claims.
type VoterFilter struct {
	Scope         Scope
	Gender        Gender
	AgeMin        *int
	AgeMax        *int
	Area          string
	Ward          string
	BoothNumber   string
	Caste         string
	FamilyID      string
	FavorScoreMin *float64
	FavorScoreMax *float64
	Visited       *bool
	Voted         *bool
	AssignedTo    string
	Search        string
}
