package servicenow

import "github.com/spec-kit/pal-assistant/internal/domain"

// FallbackTickets returns the built-in record served for a category whenever
// the remote table cannot be read. A fresh slice is returned on every call.
func FallbackTickets(category domain.TicketCategory) []domain.Ticket {
	switch category {
	case domain.TicketCategoryIncident:
		return []domain.Ticket{{
			ID:          "1",
			Number:      "INC0012345",
			Title:       "Network connectivity issues in Building A",
			Description: "Multiple users reporting intermittent network connection drops in Building A, floors 3-5",
			Priority:    domain.TicketPriorityP1,
			Status:      domain.TicketStatusOpen,
			AssignedTo:  "Network Team",
			CreatedDate: "2024-01-15",
			UpdatedDate: "2 hours ago",
			Category:    domain.TicketCategoryIncident,
		}}
	case domain.TicketCategoryRequest:
		return []domain.Ticket{{
			ID:          "2",
			Number:      "REQ0067890",
			Title:       "Software installation request - Adobe Creative Suite",
			Description: "Request for Adobe Creative Suite installation for Marketing department",
			Priority:    domain.TicketPriorityP3,
			Status:      domain.TicketStatusInProgress,
			AssignedTo:  "IT Support",
			CreatedDate: "2024-01-14",
			UpdatedDate: "1 day ago",
			Category:    domain.TicketCategoryRequest,
		}}
	case domain.TicketCategoryChange:
		return []domain.Ticket{{
			ID:          "3",
			Number:      "CHG0004567",
			Title:       "Database maintenance window",
			Description: "Scheduled maintenance for production database systems",
			Priority:    domain.TicketPriorityP2,
			Status:      domain.TicketStatusPending,
			AssignedTo:  "Database Team",
			CreatedDate: "2024-01-13",
			UpdatedDate: "3 hours ago",
			Category:    domain.TicketCategoryChange,
		}}
	}
	return nil
}
