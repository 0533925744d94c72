package classifier

import (
	"github.com/fixora/helpdesk/internal/domain"
)

// Payload is the classification fragment of a webhook response. All fields
// are free text produced by an external system and must never be trusted
// to be well-formed.
type Payload struct {
	Category      string  `json:"category"`
	Priority      string  `json:"priority"`
	Confidence    string  `json:"confidence"`
	SuggestedTeam *string `json:"suggested_team,omitempty"`
	Reasoning     *string `json:"reasoning,omitempty"`
}

// Result is a classification normalized into domain values.
type Result struct {
	Category   domain.TicketCategory
	Priority   domain.TicketPriority
	Confidence float64
	Reasoning  string
}

// confidenceScores maps the external confidence levels to scores.
var confidenceScores = map[string]float64{
	"high":   0.9,
	"medium": 0.7,
	"low":    0.5,
}

const defaultConfidence = 0.7

// ParsePayload normalizes an external classification. Unrecognized values
// fall back to defaults instead of failing: a malformed classification must
// never block a ticket.
func ParsePayload(p Payload) Result {
	category, ok := domain.ParseTicketCategory(p.Category)
	if !ok {
		category = domain.TicketCategoryOther
	}
	priority, ok := domain.ParseTicketPriority(p.Priority)
	if !ok {
		priority = domain.TicketPriorityMedium
	}
	confidence, ok := confidenceScores[p.Confidence]
	if !ok {
		confidence = defaultConfidence
	}
	result := Result{
		Category:   category,
		Priority:   priority,
		Confidence: confidence,
	}
	if p.Reasoning != nil {
		result.Reasoning = *p.Reasoning
	}
	return result
}
