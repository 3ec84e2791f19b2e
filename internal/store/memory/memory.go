// Package memory is an in-memory store.Store used by tests.
// It mirrors the postgres store's semantics, including the cascading
// deletes the relational schema provides for free.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/existflow/lifeos/internal/model"
	"github.com/existflow/lifeos/internal/store"
	"github.com/google/uuid"
)

// Store keeps everything in ordered slices guarded by one mutex.
type Store struct {
	mu       sync.Mutex
	users    []model.User
	spaces   []model.Space
	projects []model.Project
	tasks    []model.Task
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// CreateUser adds a user, enforcing email uniqueness.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return model.User{}, store.ErrDuplicateEmail
		}
	}

	u := model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.users = append(s.users, u)
	return u, nil
}

// UserByEmail returns a user by email.
func (s *Store) UserByEmail(ctx context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, store.ErrNotFound
}

// InboxTasks lists unfiled tasks, newest first.
func (s *Store) InboxTasks(ctx context.Context, userID string) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := []model.Task{}
	for i := len(s.tasks) - 1; i >= 0; i-- {
		t := s.tasks[i]
		if t.UserID == userID && t.IsInbox {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

// ProjectTasks lists a project's tasks, newest first.
func (s *Store) ProjectTasks(ctx context.Context, userID, projectID string) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.projectOwned(userID, projectID) {
		return nil, store.ErrNotFound
	}

	tasks := []model.Task{}
	for i := len(s.tasks) - 1; i >= 0; i-- {
		t := s.tasks[i]
		if t.UserID == userID && t.ProjectID != nil && *t.ProjectID == projectID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (s *Store) projectOwned(userID, projectID string) bool {
	for _, p := range s.projects {
		if p.ID == projectID && p.UserID == userID {
			return true
		}
	}
	return false
}

func (s *Store) spaceOwned(userID, spaceID string) bool {
	for _, sp := range s.spaces {
		if sp.ID == spaceID && sp.UserID == userID {
			return true
		}
	}
	return false
}

// CreateTask adds an inbox task.
func (s *Store) CreateTask(ctx context.Context, userID, title string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := model.NewTask(uuid.New().String(), userID, title)
	s.tasks = append(s.tasks, t)
	return t, nil
}

// SetTaskCompleted updates the completion flag.
func (s *Store) SetTaskCompleted(ctx context.Context, userID, taskID string, completed bool) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tasks {
		if t.ID == taskID && t.UserID == userID {
			s.tasks[i].IsCompleted = completed
			return s.tasks[i], nil
		}
	}
	return model.Task{}, store.ErrNotFound
}

// MoveTask files a task into one of the user's projects.
func (s *Store) MoveTask(ctx context.Context, userID, taskID, projectID string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.projectOwned(userID, projectID) {
		return model.Task{}, store.ErrNotFound
	}

	for i, t := range s.tasks {
		if t.ID == taskID && t.UserID == userID {
			id := projectID
			s.tasks[i].ProjectID = &id
			s.tasks[i].IsInbox = false
			return s.tasks[i], nil
		}
	}
	return model.Task{}, store.ErrNotFound
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(ctx context.Context, userID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tasks {
		if t.ID == taskID && t.UserID == userID {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// Spaces lists the user's spaces.
func (s *Store) Spaces(ctx context.Context, userID string) ([]model.Space, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spaces := []model.Space{}
	for _, sp := range s.spaces {
		if sp.UserID == userID {
			spaces = append(spaces, sp)
		}
	}
	return spaces, nil
}

// CreateSpace adds a space.
func (s *Store) CreateSpace(ctx context.Context, userID, title string) (model.Space, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp := model.Space{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now(),
	}
	s.spaces = append(s.spaces, sp)
	return sp, nil
}

// DeleteSpace removes a space, its projects and their tasks.
func (s *Store) DeleteSpace(ctx context.Context, userID, spaceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i, sp := range s.spaces {
		if sp.ID == spaceID && sp.UserID == userID {
			s.spaces = append(s.spaces[:i], s.spaces[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return store.ErrNotFound
	}

	remaining := s.projects[:0]
	for _, p := range s.projects {
		if p.InSpace(spaceID) {
			s.dropProjectTasks(p.ID)
			continue
		}
		remaining = append(remaining, p)
	}
	s.projects = remaining
	return nil
}

func (s *Store) dropProjectTasks(projectID string) {
	remaining := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ProjectID != nil && *t.ProjectID == projectID {
			continue
		}
		remaining = append(remaining, t)
	}
	s.tasks = remaining
}

// Projects lists the user's projects.
func (s *Store) Projects(ctx context.Context, userID string) ([]model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := []model.Project{}
	for _, p := range s.projects {
		if p.UserID == userID {
			projects = append(projects, p)
		}
	}
	return projects, nil
}

// CreateProject adds a project under one of the user's spaces.
func (s *Store) CreateProject(ctx context.Context, userID, spaceID, title string) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.spaceOwned(userID, spaceID) {
		return model.Project{}, store.ErrNotFound
	}

	id := spaceID
	p := model.Project{
		ID:        uuid.New().String(),
		UserID:    userID,
		SpaceID:   &id,
		Title:     title,
		CreatedAt: time.Now(),
	}
	s.projects = append(s.projects, p)
	return p, nil
}

// DeleteProject removes a project and its tasks.
func (s *Store) DeleteProject(ctx context.Context, userID, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.projects {
		if p.ID == projectID && p.UserID == userID {
			s.projects = append(s.projects[:i], s.projects[i+1:]...)
			s.dropProjectTasks(projectID)
			return nil
		}
	}
	return store.ErrNotFound
}
