package model

import "time"

// Task is a single todo item. A task lives in exactly one of two places:
// the inbox (IsInbox true, ProjectID nil) or a project (IsInbox false,
// ProjectID set). The API only ever moves tasks inbox -> project.
type Task struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	ProjectID    *string    `json:"project_id"`
	ParentTaskID *string    `json:"parent_task_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	IsCompleted  bool       `json:"is_completed"`
	DueDate      *time.Time `json:"due_date"`
	IsInbox      bool       `json:"is_inbox"`
	IsStarred    bool       `json:"is_starred"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewTask creates an inbox task with defaults.
func NewTask(id, userID, title string) Task {
	return Task{
		ID:        id,
		UserID:    userID,
		Title:     title,
		IsInbox:   true,
		CreatedAt: time.Now(),
	}
}

// InProject reports whether the task has been filed into the given project.
func (t *Task) InProject(projectID string) bool {
	return !t.IsInbox && t.ProjectID != nil && *t.ProjectID == projectID
}
