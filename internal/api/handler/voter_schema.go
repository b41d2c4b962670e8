package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/votegrid/voter-platform/internal/core/domain"
)

// --- Request / Response types ---

type voterRequest struct {
	VoterID     string `json:"voter_id"`
	Name        string `json:"name"         validate:"required"`
	Surname     string `json:"surname"`
	FullName    string `json:"full_name"`
	Gender      string `json:"gender"       validate:"required,oneof=male female other"`
	Age         int    `json:"age"          validate:"required,gt=0,lte=150"`
	DateOfBirth string `json:"date_of_birth"`
	Caste       string `json:"caste"`
	Religion    string `json:"religion"`
	Area        string `json:"area"         validate:"required"`
	Ward        string `json:"ward"`
	BoothNumber string `json:"booth_number"`
	BoothName   string `json:"booth_name"`
	Address     string `json:"address"`
	Pincode     string `json:"pincode"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	FamilyID    string `json:"family_id"`
}

// updateVoterRequest is a partial payload: absent fields stay nil and are
// never written to the stored voter.
type updateVoterRequest struct {
	VoterID     *string `json:"voter_id"`
	Name        *string `json:"name"`
	Surname     *string `json:"surname"`
	FullName    *string `json:"full_name"`
	Gender      *string `json:"gender" validate:"omitempty,oneof=male female other"`
	Age         *int    `json:"age"    validate:"omitempty,gt=0,lte=150"`
	DateOfBirth *string `json:"date_of_birth"`
	Caste       *string `json:"caste"`
	Religion    *string `json:"religion"`
	Area        *string `json:"area"`
	Ward        *string `json:"ward"`
	BoothNumber *string `json:"booth_number"`
	BoothName   *string `json:"booth_name"`
	Address     *string `json:"address"`
	Pincode     *string `json:"pincode"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	FamilyID    *string `json:"family_id"`
}

type assignVotersRequest struct {
	VoterIDs     []string `json:"voter_ids"     validate:"required,min=1"`
	KaryakartaID string   `json:"karyakarta_id" validate:"required"`
}

type bulkUpdateRequest struct {
	VoterIDs []string       `json:"voter_ids" validate:"required,min=1"`
	Updates  map[string]any `json:"updates"   validate:"required,min=1"`
}

type listVotersResponse struct {
	Items []*domain.Voter `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Pages int             `json:"pages"`
}

type assignVotersResponse struct {
	ModifiedCount int64 `json:"modified_count"`
}

type bulkUpdateResponse struct {
	ModifiedCount int64 `json:"modified_count"`
}

// --- Query parsing ---

// voterFilterFromQuery builds a VoterFilter from query parameters. The
// visibility scope is not set here; the service layer derives it from the
// requester's claims.
func voterFilterFromQuery(c echo.Context) domain.VoterFilter {
	filter := domain.VoterFilter{
		Gender:      domain.Gender(c.QueryParam("gender")),
		Area:        c.QueryParam("area"),
		Ward:        c.QueryParam("ward"),
		BoothNumber: c.QueryParam("booth_number"),
		Caste:       c.QueryParam("caste"),
		FamilyID:    c.QueryParam("family_id"),
		AssignedTo:  c.QueryParam("assigned_to"),
		Search:      c.QueryParam("search"),
	}

	filter.AgeMin = intQuery(c, "age_min")
	filter.AgeMax = intQuery(c, "age_max")
	filter.FavorScoreMin = floatQuery(c, "favor_score_min")
	filter.FavorScoreMax = floatQuery(c, "favor_score_max")
	filter.Visited = boolQuery(c, "visited")
	filter.Voted = boolQuery(c, "voted")

	return filter
}

func intQuery(c echo.Context, name string) *int {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func floatQuery(c echo.Context, name string) *float64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func boolQuery(c echo.Context, name string) *bool {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
