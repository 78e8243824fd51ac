package catalog

import "github.com/jobdeck/jobdeck/pkg/models"

// Wire types shared with the catalog server. Domain entities travel as
// pkg/models values; these cover the request/response envelopes around them.

type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user,omitempty"`
}

type ParseJobRequest struct {
	RawContent string `json:"raw_content"`
	SourceType string `json:"source_type,omitempty"`
}

type CartCountResponse struct {
	Count int64 `json:"count"`
}

type CartMutationResponse struct {
	Added   bool  `json:"added,omitempty"`
	Removed bool  `json:"removed,omitempty"`
	Count   int64 `json:"count"`
}

type AnalyticsItem struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type AnalyticsReport struct {
	GroupBy string          `json:"group_by"`
	Total   int             `json:"total"`
	Items   []AnalyticsItem `json:"items"`
}

type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type MatchRequest struct {
	ResumeID string `json:"resume_id"`
	Limit    int    `json:"limit,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
