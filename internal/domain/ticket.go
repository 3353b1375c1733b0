package domain

// TicketPriority is the normalized urgency of a ticket, P1 being the most urgent.
type TicketPriority string

const (
	TicketPriorityP1 TicketPriority = "P1"
	TicketPriorityP2 TicketPriority = "P2"
	TicketPriorityP3 TicketPriority = "P3"
	TicketPriorityP4 TicketPriority = "P4"
)

// TicketStatus enumerates lifecycle states shown on the dashboard.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusPending    TicketStatus = "Pending"
	TicketStatusResolved   TicketStatus = "Resolved"
)

// TicketCategory identifies the ticketing table a record came from.
type TicketCategory string

const (
	TicketCategoryIncident TicketCategory = "Incident"
	TicketCategoryRequest  TicketCategory = "Request"
	TicketCategoryChange   TicketCategory = "Change"
)

// Ticket is a normalized work item. Tickets are rebuilt on every fetch and
// never mutated afterwards.
type Ticket struct {
	ID          string         `json:"id"`
	Number      string         `json:"number"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    TicketPriority `json:"priority"`
	Status      TicketStatus   `json:"status"`
	AssignedTo  string         `json:"assignedTo"`
	CreatedDate string         `json:"createdDate"`
	UpdatedDate string         `json:"updatedDate"`
	Category    TicketCategory `json:"category"`
}
