package core

import "time"

// CategoryGroup bundles related categories for display ordering.
type CategoryGroup struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category is a budgeting envelope that allocations and transaction
// activity attach to.
type Category struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id,omitempty"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	Archived  bool      `json:"archived"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
