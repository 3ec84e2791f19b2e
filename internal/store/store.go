// Package store defines the persistence boundary of the API server.
//
// Every query is scoped by the owning user's id. A resource that exists
// but belongs to someone else is indistinguishable from one that does
// not exist: both come back as ErrNotFound.
package store

import (
	"context"
	"errors"

	"github.com/existflow/lifeos/internal/model"
)

var (
	// ErrNotFound means the resource is absent or owned by another user.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail means a user with that email already exists.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store is the injected persistence layer used by the HTTP handlers.
// The postgres implementation backs the real server; the memory
// implementation backs tests.
type Store interface {
	// Users
	CreateUser(ctx context.Context, email, passwordHash string) (model.User, error)
	UserByEmail(ctx context.Context, email string) (model.User, error)

	// Tasks
	InboxTasks(ctx context.Context, userID string) ([]model.Task, error)
	ProjectTasks(ctx context.Context, userID, projectID string) ([]model.Task, error)
	CreateTask(ctx context.Context, userID, title string) (model.Task, error)
	SetTaskCompleted(ctx context.Context, userID, taskID string, completed bool) (model.Task, error)
	MoveTask(ctx context.Context, userID, taskID, projectID string) (model.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error

	// Spaces
	Spaces(ctx context.Context, userID string) ([]model.Space, error)
	CreateSpace(ctx context.Context, userID, title string) (model.Space, error)
	DeleteSpace(ctx context.Context, userID, spaceID string) error

	// Projects
	Projects(ctx context.Context, userID string) ([]model.Project, error)
	CreateProject(ctx context.Context, userID, spaceID, title string) (model.Project, error)
	DeleteProject(ctx context.Context, userID, projectID string) error
}
