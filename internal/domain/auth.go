package domain

import "time"

// Session identifies one assistant conversation owned by a browser tab.
type Session struct {
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
