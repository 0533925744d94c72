package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fixora/helpdesk/internal/domain"
	"github.com/fixora/helpdesk/internal/repository"
	"github.com/fixora/helpdesk/internal/service"
	apperrors "github.com/fixora/helpdesk/pkg/util"
)

// slackTitleMax caps the ticket title derived from free-form Slack text.
const slackTitleMax = 100

// SlackHandler turns inbound Slack traffic into tickets: app mentions on
// the events endpoint and the /ticket, /status and /mytickets slash
// commands. Users are provisioned by Slack id on first contact.
type SlackHandler struct {
	users         *service.UserService
	tickets       *service.TicketService
	signingSecret string
	logger        *zap.Logger
}

// NewSlackHandler constructs handler.
func NewSlackHandler(users *service.UserService, tickets *service.TicketService, signingSecret string, logger *zap.Logger) *SlackHandler {
	return &SlackHandler{
		users:         users,
		tickets:       tickets,
		signingSecret: signingSecret,
		logger:        logger,
	}
}

type slackEventEnvelope struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
	Event     struct {
		Type    string `json:"type"`
		Text    string `json:"text"`
		User    string `json:"user"`
		Channel string `json:"channel"`
	} `json:"event"`
}

// Events POST /slack/events. Answers the URL verification challenge and
// creates a ticket from an app mention.
func (h *SlackHandler) Events(c *fiber.Ctx) error {
	body := c.Body()
	if err := h.checkSignature(c, body); err != nil {
		return err
	}

	var envelope slackEventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if envelope.Type == "url_verification" {
		return c.JSON(fiber.Map{"challenge": envelope.Challenge})
	}

	if envelope.Event.Type == "app_mention" {
		text := mentionText(envelope.Event.Text)
		if text == "" {
			return c.JSON(fiber.Map{"status": "ok"})
		}
		ticket, err := h.createFromSlack(c, envelope.Event.User, text)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"status":        "success",
			"ticket_number": ticket.TicketNumber,
		})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

// Commands POST /slack/commands. Handles the slash commands; every reply
// goes back to Slack as a command response.
func (h *SlackHandler) Commands(c *fiber.Ctx) error {
	if err := h.checkSignature(c, c.Body()); err != nil {
		return err
	}

	command := c.FormValue("command")
	text := strings.TrimSpace(c.FormValue("text"))
	slackUserID := c.FormValue("user_id")

	switch command {
	case "/ticket":
		if text == "" {
			return ephemeral(c, "Please provide a description: /ticket My laptop won't start")
		}
		ticket, err := h.createFromSlack(c, slackUserID, text)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"response_type": "in_channel",
			"text": fmt.Sprintf("Ticket created: %s (priority %s, status %s)",
				ticket.TicketNumber, ticket.Priority, ticket.Status),
		})

	case "/status":
		if text == "" {
			return ephemeral(c, "Please provide a ticket number: /status TKT-2026-0001")
		}
		ticket, err := h.tickets.GetByNumber(c.UserContext(), text)
		if err != nil {
			if isNotFound(err) {
				return ephemeral(c, fmt.Sprintf("Ticket %s not found", text))
			}
			return err
		}
		return ephemeral(c, fmt.Sprintf("%s: %s\nStatus: %s | Priority: %s | Created: %s",
			ticket.TicketNumber, ticket.Title, ticket.Status, ticket.Priority,
			ticket.CreatedAt.Format("2006-01-02 15:04")))

	case "/mytickets":
		user, err := h.users.GetBySlackID(c.UserContext(), slackUserID)
		if err != nil {
			if isNotFound(err) {
				return ephemeral(c, "No tickets found. Create one with /ticket")
			}
			return err
		}
		tickets, total, err := h.tickets.List(c.UserContext(), repository.TicketFilter{
			UserID: &user.ID,
			Limit:  5,
		})
		if err != nil {
			return err
		}
		if len(tickets) == 0 {
			return ephemeral(c, "You have no tickets")
		}
		lines := make([]string, 0, len(tickets)+1)
		lines = append(lines, fmt.Sprintf("Your recent tickets (total %d):", total))
		for _, ticket := range tickets {
			lines = append(lines, fmt.Sprintf("• %s - %s (%s, %s)",
				ticket.TicketNumber, ticket.Title, ticket.Status, ticket.Priority))
		}
		return ephemeral(c, strings.Join(lines, "\n"))
	}

	return ephemeral(c, "Unknown command: "+command)
}

func (h *SlackHandler) createFromSlack(c *fiber.Ctx, slackUserID, text string) (*domain.Ticket, error) {
	user, err := h.users.EnsureSlackUser(c.UserContext(), slackUserID)
	if err != nil {
		return nil, err
	}
	return h.tickets.Create(c.UserContext(), service.CreateTicketInput{
		UserID:      user.ID,
		Title:       truncateRunes(text, slackTitleMax),
		Description: text,
		Category:    domain.TicketCategoryOther,
	})
}

func (h *SlackHandler) checkSignature(c *fiber.Ctx, body []byte) error {
	timestamp := c.Get("X-Slack-Request-Timestamp")
	signature := c.Get("X-Slack-Signature")
	if !verifySlackSignature(h.signingSecret, timestamp, signature, body) {
		h.logger.Warn("slack signature rejected", zap.String("path", c.Path()))
		return apperrors.NewDomainError("UNAUTHORIZED", "invalid slack signature", fiber.StatusUnauthorized, nil)
	}
	return nil
}

// verifySlackSignature checks Slack's v0 signing scheme: the signature is
// the hex HMAC-SHA256 of "v0:{timestamp}:{body}". An empty secret disables
// verification.
func verifySlackSignature(secret, timestamp, signature string, body []byte) bool {
	if secret == "" {
		return true
	}
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:%s", timestamp, body)
	expected := "v0=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// mentionText strips the leading <@BOTID> token from an app mention.
func mentionText(text string) string {
	if idx := strings.Index(text, ">"); idx >= 0 {
		text = text[idx+1:]
	}
	return strings.TrimSpace(text)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func ephemeral(c *fiber.Ctx, text string) error {
	return c.JSON(fiber.Map{
		"response_type": "ephemeral",
		"text":          text,
	})
}

func isNotFound(err error) bool {
	domainErr := apperrors.ToDomainError(err)
	return domainErr != nil && domainErr.Code == "NOT_FOUND"
}
