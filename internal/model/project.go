package model

import "time"

// Space is a top-level grouping of projects owned by one user.
type Space struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Project is a container for tasks, optionally nested under a space.
type Project struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	SpaceID   *string   `json:"space_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// InSpace reports whether the project belongs to the given space.
func (p *Project) InSpace(spaceID string) bool {
	return p.SpaceID != nil && *p.SpaceID == spaceID
}
