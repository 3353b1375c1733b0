package servicenow

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spec-kit/pal-assistant/internal/domain"
)

// tableRecord is one row of a Table API response. Rows are kept loosely typed
// because instances disagree on whether reference fields are strings or
// {display_value, link} objects.
type tableRecord map[string]any

type tableResponse struct {
	Result []tableRecord `json:"result"`
}

// customIncident is one row of the assigned-incidents feed.
type customIncident struct {
	ID               any    `json:"id"`
	TicketNumber     any    `json:"ticketNumber"`
	ShortDescription string `json:"shortDescription"`
	Description      string `json:"description"`
	Priority         any    `json:"priority"`
	Status           any    `json:"status"`
	AssignedUser     string `json:"assignedUser"`
	CreateDateJSON   string `json:"createDateJson"`
}

type customIncidentResponse struct {
	Incidents []customIncident `json:"incidents"`
}

// first returns the first non-empty value among keys, stringified.
func (r tableRecord) first(keys ...string) string {
	for _, key := range keys {
		if s := stringify(r[key]); s != "" {
			return s
		}
	}
	return ""
}

func (r tableRecord) assignee() string {
	switch v := r["assigned_to"].(type) {
	case map[string]any:
		if name := stringify(v["display_value"]); name != "" {
			return name
		}
	case string:
		if v != "" {
			return v
		}
	}
	return "Unassigned"
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case map[string]any:
		// reference fields expose the raw value next to the display label
		if s := stringify(val["value"]); s != "" {
			return s
		}
		return stringify(val["display_value"])
	default:
		return fmt.Sprint(val)
	}
}

func orDefault(val, def string) string {
	if val == "" {
		return def
	}
	return val
}

func toTickets(records []tableRecord, category domain.TicketCategory, now time.Time) []domain.Ticket {
	tickets := make([]domain.Ticket, 0, len(records))
	for i, rec := range records {
		tickets = append(tickets, domain.Ticket{
			ID:          orDefault(rec.first("sys_id"), fmt.Sprintf("api-%s-%d", category, i)),
			Number:      orDefault(rec.first("number", "sys_id"), fmt.Sprintf("API%d", i)),
			Title:       orDefault(rec.first("short_description", "title"), "No title provided"),
			Description: orDefault(rec.first("description", "short_description"), "No description provided"),
			Priority:    NormalizePriority(rec.first("priority")),
			Status:      NormalizeStatus(rec.first("state")),
			AssignedTo:  rec.assignee(),
			CreatedDate: orDefault(rec.first("opened_at", "created_on"), now.UTC().Format(time.RFC3339)),
			UpdatedDate: FormatTimeAgo(rec.first("sys_updated_on", "updated_on"), now),
			Category:    category,
		})
	}
	return tickets
}

func customToTickets(incidents []customIncident) []domain.Ticket {
	tickets := make([]domain.Ticket, 0, len(incidents))
	for _, inc := range incidents {
		number := stringify(inc.TicketNumber)
		tickets = append(tickets, domain.Ticket{
			ID:          stringify(inc.ID),
			Number:      number,
			Title:       orDefault(inc.ShortDescription, number),
			Description: inc.Description,
			Priority:    NormalizePriority(stringify(inc.Priority)),
			Status:      NormalizeStatus(stringify(inc.Status)),
			AssignedTo:  orDefault(inc.AssignedUser, "Unassigned"),
			CreatedDate: inc.CreateDateJSON,
			Category:    domain.TicketCategoryIncident,
		})
	}
	return tickets
}
