package dto

import "github.com/spec-kit/pal-assistant/internal/domain"

// CustomTokenHeader carries the bearer token for the assignment feed.
const CustomTokenHeader = "X-Custom-Token"

// DashboardResponse is the panel refresh payload.
type DashboardResponse struct {
	Configured bool            `json:"configured"`
	Tickets    []domain.Ticket `json:"tickets"`
}
