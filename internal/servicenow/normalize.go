package servicenow

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/pal-assistant/internal/domain"
)

var priorityMap = map[string]domain.TicketPriority{
	"1":        domain.TicketPriorityP1,
	"2":        domain.TicketPriorityP2,
	"3":        domain.TicketPriorityP3,
	"4":        domain.TicketPriorityP4,
	"critical": domain.TicketPriorityP1,
	"high":     domain.TicketPriorityP2,
	"medium":   domain.TicketPriorityP3,
	"low":      domain.TicketPriorityP4,
}

// Codes 6 and 7 (resolved, closed) both surface as Resolved.
var statusMap = map[string]domain.TicketStatus{
	"1":           domain.TicketStatusOpen,
	"2":           domain.TicketStatusInProgress,
	"3":           domain.TicketStatusPending,
	"6":           domain.TicketStatusResolved,
	"7":           domain.TicketStatusResolved,
	"new":         domain.TicketStatusOpen,
	"in_progress": domain.TicketStatusInProgress,
	"pending":     domain.TicketStatusPending,
	"resolved":    domain.TicketStatusResolved,
}

// NormalizePriority maps a raw priority code or word onto P1..P4, defaulting to P3.
func NormalizePriority(raw string) domain.TicketPriority {
	if p, ok := priorityMap[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return p
	}
	return domain.TicketPriorityP3
}

// NormalizeStatus maps a raw state code or word onto the dashboard statuses, defaulting to Open.
func NormalizeStatus(raw string) domain.TicketStatus {
	if s, ok := statusMap[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return domain.TicketStatusOpen
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTimeAgo renders the age of a timestamp relative to now in whole hours.
func FormatTimeAgo(raw string, now time.Time) string {
	if strings.TrimSpace(raw) == "" {
		return "Unknown"
	}
	ts, ok := parseTimestamp(raw)
	if !ok {
		return "Unknown"
	}

	hours := int(now.Sub(ts).Hours())
	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	case hours < 48:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", hours/24)
	}
}
