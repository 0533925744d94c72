package classifier

import (
	"testing"

	"github.com/fixora/helpdesk/internal/domain"
)

func TestParsePayload(t *testing.T) {
	reasoning := "keyboard not working"
	cases := []struct {
		name           string
		payload        Payload
		wantCategory   domain.TicketCategory
		wantPriority   domain.TicketPriority
		wantConfidence float64
	}{
		{
			name:           "well formed",
			payload:        Payload{Category: "hardware", Priority: "high", Confidence: "high", Reasoning: &reasoning},
			wantCategory:   domain.TicketCategoryHardware,
			wantPriority:   domain.TicketPriorityHigh,
			wantConfidence: 0.9,
		},
		{
			name:           "medium confidence",
			payload:        Payload{Category: "network", Priority: "urgent", Confidence: "medium"},
			wantCategory:   domain.TicketCategoryNetwork,
			wantPriority:   domain.TicketPriorityUrgent,
			wantConfidence: 0.7,
		},
		{
			name:           "low confidence",
			payload:        Payload{Category: "printer", Priority: "low", Confidence: "low"},
			wantCategory:   domain.TicketCategoryPrinter,
			wantPriority:   domain.TicketPriorityLow,
			wantConfidence: 0.5,
		},
		{
			name:           "unknown category falls back to other",
			payload:        Payload{Category: "quantum", Priority: "high", Confidence: "high"},
			wantCategory:   domain.TicketCategoryOther,
			wantPriority:   domain.TicketPriorityHigh,
			wantConfidence: 0.9,
		},
		{
			name:           "unknown priority falls back to medium",
			payload:        Payload{Category: "software", Priority: "catastrophic", Confidence: "low"},
			wantCategory:   domain.TicketCategorySoftware,
			wantPriority:   domain.TicketPriorityMedium,
			wantConfidence: 0.5,
		},
		{
			name:           "unknown confidence falls back to default",
			payload:        Payload{Category: "email", Priority: "low", Confidence: "maybe"},
			wantCategory:   domain.TicketCategoryEmail,
			wantPriority:   domain.TicketPriorityLow,
			wantConfidence: 0.7,
		},
		{
			name:           "everything bogus",
			payload:        Payload{Category: "", Priority: "", Confidence: ""},
			wantCategory:   domain.TicketCategoryOther,
			wantPriority:   domain.TicketPriorityMedium,
			wantConfidence: 0.7,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := ParsePayload(tc.payload)
			if result.Category != tc.wantCategory {
				t.Errorf("category = %s, want %s", result.Category, tc.wantCategory)
			}
			if result.Priority != tc.wantPriority {
				t.Errorf("priority = %s, want %s", result.Priority, tc.wantPriority)
			}
			if result.Confidence != tc.wantConfidence {
				t.Errorf("confidence = %v, want %v", result.Confidence, tc.wantConfidence)
			}
		})
	}
}

func TestParsePayloadKeepsReasoning(t *testing.T) {
	reasoning := "vpn drops on wifi"
	result := ParsePayload(Payload{Category: "network", Priority: "high", Confidence: "high", Reasoning: &reasoning})
	if result.Reasoning != reasoning {
		t.Errorf("reasoning = %q, want %q", result.Reasoning, reasoning)
	}
}
