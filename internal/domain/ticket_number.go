package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Ticket numbers follow the public format TKT-{year}-{4-digit sequence},
// e.g. TKT-2026-0001. The sequence restarts every calendar year and is
// monotonically increasing within it; gaps are allowed, reuse is not.
const ticketNumberPrefix = "TKT"

// maxTicketSequence is the largest sequence the 4-digit format can carry.
const maxTicketSequence = 9999

// ErrTicketSequenceExhausted is returned when a year's sequence would
// exceed the 4-digit space. Wrapping or truncating is never acceptable.
var ErrTicketSequenceExhausted = errors.New("ticket number sequence exhausted for year")

// TicketNumberPrefixForYear returns the LIKE-friendly prefix for a year,
// e.g. "TKT-2026-".
func TicketNumberPrefixForYear(year int) string {
	return fmt.Sprintf("%s-%d-", ticketNumberPrefix, year)
}

// FormatTicketNumber renders a year and sequence as a ticket number.
func FormatTicketNumber(year, sequence int) string {
	return fmt.Sprintf("%s-%d-%04d", ticketNumberPrefix, year, sequence)
}

// SequenceFromTicketNumber extracts the numeric suffix of a ticket number.
func SequenceFromTicketNumber(number string) (int, error) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, fmt.Errorf("malformed ticket number %q", number)
	}
	seq, err := strconv.Atoi(number[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("malformed ticket number %q: %w", number, err)
	}
	return seq, nil
}

// NextTicketNumber derives the next number for a year given the highest
// existing number for that year (empty string when none exist yet).
func NextTicketNumber(year int, last string) (string, error) {
	sequence := 1
	if last != "" {
		prev, err := SequenceFromTicketNumber(last)
		if err != nil {
			return "", err
		}
		sequence = prev + 1
	}
	if sequence > maxTicketSequence {
		return "", fmt.Errorf("%w %d", ErrTicketSequenceExhausted, year)
	}
	return FormatTicketNumber(year, sequence), nil
}
