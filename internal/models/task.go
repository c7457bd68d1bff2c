package models

import "time"

// Task is a unit of work assigned to a user within a project.
//
// AssigneeEmail is populated by repository queries that join the users
// table; it is not a column on tasks itself. The deadline is optional:
// tasks without one are never picked up by the reminder scheduler.
type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Priority      string     `json:"priority"`
	Status        string     `json:"status"`
	AssigneeID    string     `json:"assignee_id"`
	AssigneeEmail string     `json:"assignee_email,omitempty"`
	ProjectID     string     `json:"project_id"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
