package domain

import "time"

// QuestionType enumerates the supported survey question kinds.
type QuestionType string

const (
	QuestionMCQ      QuestionType = "mcq"
	QuestionYesNo    QuestionType = "yesno"
	QuestionRating   QuestionType = "rating"
	QuestionText     QuestionType = "text"
	QuestionNumber   QuestionType = "number"
	QuestionDropdown QuestionType = "dropdown"
	QuestionPhone    QuestionType = "phone"
)

// SurveyQuestion is a single question within a template.
type SurveyQuestion struct {
	ID           string       `json:"id" bson:"id"`
	Type         QuestionType `json:"type" bson:"type"`
	QuestionText string       `json:"question_text" bson:"question_text"`
	// QuestionTextMarathi carries the alternate-language rendering shown to
	// field workers.
	QuestionTextMarathi string   `json:"question_text_marathi,omitempty" bson:"question_text_marathi,omitempty"`
	Options             []string `json:"options" bson:"options"`
	Required            bool     `json:"required" bson:"required"`
}

// SurveyTemplate is a reusable questionnaire.
type SurveyTemplate struct {
	ID              string           `json:"id"`
	TemplateName    string           `json:"template_name"`
	Questions       []SurveyQuestion `json:"questions"`
	ConsentQuestion string           `json:"consent_question,omitempty"`
	IsDefault       bool             `json:"is_default"`
	CreatedBy       string           `json:"created_by"`
	ActiveStatus    bool             `json:"active_status"`
	CreatedAt       time.Time        `json:"created_at"`
}

// SurveyAnswer is one answer within a submission.
type SurveyAnswer struct {
	QuestionID string `json:"question_id" bson:"question_id"`
	Answer     any    `json:"answer" bson:"answer"`
}

// Survey is a completed questionnaire for a voter.
type Survey struct {
	ID               string          `json:"id"`
	VoterID          string          `json:"voter_id"`
	TemplateID       string          `json:"template_id"`
	KaryakartaID     string          `json:"karyakarta_id"`
	Responses        []SurveyAnswer  `json:"responses"`
	GPSLocation      *GPSCoordinates `json:"gps_location,omitempty"`
	DeviceID         string          `json:"device_id,omitempty"`
	Timestamp        time.Time       `json:"timestamp"`
	FavorScoreImpact float64         `json:"favor_score_impact"`
}
