package domain

import (
	"strings"
	"time"
)

// Client is the guest record a reservation points at. Managed by CRUD
// outside the engine; the allocator only reads it for conflict reports.
type Client struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name" validate:"required"`
	LastName  string    `json:"last_name" validate:"required"`
	Email     string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
