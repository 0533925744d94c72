package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/fixora/helpdesk/internal/config"
	"github.com/fixora/helpdesk/internal/domain"
)

func newTestClient(url string) *Client {
	return NewClient(config.ClassifierConfig{WebhookURL: url, TimeoutSeconds: 5}, zap.NewNop())
}

func TestClassify(t *testing.T) {
	var received classifyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(classifyResponse{
			Classification: Payload{Category: "hardware", Priority: "high", Confidence: "high"},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.Classify(context.Background(), 42, "Broken laptop", "Screen cracked")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if received.TicketID != 42 || received.Title != "Broken laptop" || received.Description != "Screen cracked" {
		t.Errorf("request payload = %+v", received)
	}
	if result.Category != domain.TicketCategoryHardware {
		t.Errorf("category = %s, want hardware", result.Category)
	}
	if result.Priority != domain.TicketPriorityHigh {
		t.Errorf("priority = %s, want high", result.Priority)
	}
	if result.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", result.Confidence)
	}
}

func TestClassifyNormalizesBogusResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(classifyResponse{
			Classification: Payload{Category: "nonsense", Priority: "nonsense", Confidence: "nonsense"},
		})
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Classify(context.Background(), 1, "t", "d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Category != domain.TicketCategoryOther || result.Priority != domain.TicketPriorityMedium || result.Confidence != 0.7 {
		t.Errorf("result = %+v, want fallbacks", result)
	}
}

func TestClassifyNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).Classify(context.Background(), 1, "t", "d"); err == nil {
		t.Fatal("expected error for HTTP 502")
	}
}

func TestClassifyNotConfigured(t *testing.T) {
	client := newTestClient("")
	if client.Enabled() {
		t.Error("client should be disabled without a URL")
	}
	if _, err := client.Classify(context.Background(), 1, "t", "d"); err != ErrNotConfigured {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestClassifyContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newTestClient(server.URL).Classify(ctx, 1, "t", "d"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
