package domain

import "time"

// Family groups voters sharing a household, keyed by a unique family id.
type Family struct {
	ID                string   `json:"id"`
	FamilyID          string   `json:"family_id"`
	FamilyHeadName    string   `json:"family_head_name"`
	FamilyHeadVoterID string   `json:"family_head_voter_id,omitempty"`
	Members           []string `json:"members"`
	TotalMembers      int      `json:"total_members"`
	FamilyFavorScore  float64  `json:"family_favor_score"`
	Area              string   `json:"area,omitempty"`
	BoothNumber       string   `json:"booth_number,omitempty"`
	AllVisited        bool     `json:"all_visited"`
	AllVoted          bool     `json:"all_voted"`
}

// Influencer is a locally influential person tracked per area.
type Influencer struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	VoterID        string    `json:"voter_id,omitempty"`
	Area           string    `json:"area"`
	NetworkSize    int       `json:"network_size"`
	InfluenceLevel int       `json:"influence_level"`
	LinkedVoters   []string  `json:"linked_voters"`
	Notes          string    `json:"notes,omitempty"`
	ContactInfo    string    `json:"contact_info,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// IssueStatus is the resolution state of a reported issue.
type IssueStatus string

const (
	IssueOpen     IssueStatus = "open"
	IssueResolved IssueStatus = "resolved"
)

// Issue is a voter-linked grievance reported by a field worker.
type Issue struct {
	ID          string      `json:"id"`
	VoterID     string      `json:"voter_id"`
	IssueType   string      `json:"issue_type"`
	Description string      `json:"description"`
	Priority    int         `json:"priority"`
	ReportedBy  string      `json:"reported_by"`
	Status      IssueStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	ResolvedAt  *time.Time  `json:"resolved_at,omitempty"`
}
