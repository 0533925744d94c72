// Package classifier talks to the external AI classification webhook and
// normalizes its answers. Classification is advisory: every failure mode
// here degrades to "no classification available".
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/fixora/helpdesk/internal/config"
)

// ErrNotConfigured is returned when no webhook URL is set.
var ErrNotConfigured = errors.New("classifier webhook not configured")

// Client posts tickets to the classification webhook.
type Client struct {
	url    string
	http   *http.Client
	logger *zap.Logger
}

// NewClient builds a client from configuration. The HTTP timeout bounds the
// whole call; callers may additionally cancel through the context.
func NewClient(cfg config.ClassifierConfig, logger *zap.Logger) *Client {
	return &Client{
		url:    cfg.WebhookURL,
		http:   &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

// Enabled reports whether a webhook URL is configured.
func (c *Client) Enabled() bool {
	return c.url != ""
}

type classifyRequest struct {
	TicketID    int64  `json:"ticket_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type classifyResponse struct {
	Classification Payload `json:"classification"`
}

// Classify submits a ticket's text and returns the normalized result.
func (c *Client) Classify(ctx context.Context, ticketID int64, title, description string) (*Result, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(classifyRequest{
		TicketID:    ticketID,
		Title:       title,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("classifier returned HTTP %d: %s", resp.StatusCode, snippet)
	}

	var parsed classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode classifier response: %w", err)
	}

	result := ParsePayload(parsed.Classification)
	c.logger.Debug("classification received",
		zap.Int64("ticket_id", ticketID),
		zap.String("category", string(result.Category)),
		zap.String("priority", string(result.Priority)),
		zap.Float64("confidence", result.Confidence))
	return &result, nil
}
