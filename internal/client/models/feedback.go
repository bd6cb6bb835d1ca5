package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Category classifies a feedback record.
type Category string

const (
	CategoryGeneral     Category = "General"
	CategoryBug         Category = "Bug"
	CategoryFeature     Category = "Feature"
	CategoryImprovement Category = "Improvement"
)

// Categories lists all categories in display order.
var Categories = []Category{CategoryGeneral, CategoryBug, CategoryFeature, CategoryImprovement}

// ParseCategory matches s case-insensitively against the known categories.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, true
		}
	}
	return "", false
}

// Owner is the submitting user as attached to records in admin listings.
// Non-admin listings may carry only the owner id as a bare string.
type Owner struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (o *Owner) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &o.ID)
	}
	type owner Owner
	return json.Unmarshal(b, (*owner)(o))
}

// FeedbackRecord is the client's working copy of a server-owned record.
// CreatedAt is assigned by the server and never changes across edits.
type FeedbackRecord struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	Owner       *Owner    `json:"user,omitempty"`
}
