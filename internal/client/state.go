package client

import (
	"errors"

	"github.com/existflow/lifeos/internal/model"
)

// API is the slice of Client the controller needs. Tests substitute a fake.
type API interface {
	InboxTasks() ([]model.Task, error)
	ProjectTasks(projectID string) ([]model.Task, error)
	CreateTask(title string) (model.Task, error)
	SetTaskCompleted(taskID string, completed bool) (model.Task, error)
	MoveTask(taskID, projectID string) (model.Task, error)
	DeleteTask(taskID string) error
	Spaces() ([]model.Space, error)
	CreateSpace(title string) (model.Space, error)
	DeleteSpace(spaceID string) error
	Projects() ([]model.Project, error)
	CreateProject(title, spaceID string) (model.Project, error)
	DeleteProject(projectID string) error
}

// ViewType tags the current view.
type ViewType string

const (
	ViewInbox   ViewType = "inbox"
	ViewProject ViewType = "project"
)

// View is what the user is currently looking at.
type View struct {
	Type      ViewType
	ProjectID string
	Name      string
}

// InboxView is the default view.
func InboxView() View {
	return View{Type: ViewInbox, Name: "Inbox"}
}

// Controller holds the client-side picture of the server state: the
// current view, its task list, and the sidebar's spaces and projects.
//
// View changes replace the task list from the server. Mutations patch
// the local lists from the returned row instead of refetching, and a
// failed mutation leaves local state untouched; there is nothing to
// roll back because nothing is patched before the server answers.
type Controller struct {
	api      api
	view     View
	tasks    []model.Task
	spaces   []model.Space
	projects []model.Project
}

// api wraps API calls so an expired session logs the user out before
// the error is surfaced.
type api struct {
	API
	onSessionExpired func()
}

// NewController creates a controller looking at the inbox. onSessionExpired
// (optional) runs when the server rejects the token on a fetch.
func NewController(a API, onSessionExpired func()) *Controller {
	return &Controller{
		api:  api{API: a, onSessionExpired: onSessionExpired},
		view: InboxView(),
	}
}

func (a api) expired(err error) error {
	if errors.Is(err, ErrSessionExpired) && a.onSessionExpired != nil {
		a.onSessionExpired()
	}
	return err
}

// View returns the current view.
func (s *Controller) View() View { return s.view }

// Tasks returns the current view's task list.
func (s *Controller) Tasks() []model.Task { return s.tasks }

// Spaces returns the sidebar's spaces.
func (s *Controller) Spaces() []model.Space { return s.spaces }

// Projects returns the sidebar's projects.
func (s *Controller) Projects() []model.Project { return s.projects }

// LoadSidebar fetches the spaces and projects lists.
func (s *Controller) LoadSidebar() error {
	spaces, err := s.api.Spaces()
	if err != nil {
		return s.api.expired(err)
	}
	projects, err := s.api.Projects()
	if err != nil {
		return s.api.expired(err)
	}
	s.spaces = spaces
	s.projects = projects
	return nil
}

// SelectInbox switches to the inbox and refetches its tasks.
func (s *Controller) SelectInbox() error {
	s.view = InboxView()
	return s.Refresh()
}

// SelectProject switches to a project view and refetches its tasks.
func (s *Controller) SelectProject(projectID string) error {
	name := projectID
	for _, p := range s.projects {
		if p.ID == projectID {
			name = p.Title
			break
		}
	}
	s.view = View{Type: ViewProject, ProjectID: projectID, Name: name}
	return s.Refresh()
}

// Refresh replaces the task list from the server.
func (s *Controller) Refresh() error {
	var (
		tasks []model.Task
		err   error
	)
	if s.view.Type == ViewInbox {
		tasks, err = s.api.InboxTasks()
	} else {
		tasks, err = s.api.ProjectTasks(s.view.ProjectID)
	}
	if err != nil {
		return s.api.expired(err)
	}
	s.tasks = tasks
	return nil
}

// CreateTask creates a task. It always lands in the inbox, so it only
// shows up locally when the inbox is the current view.
func (s *Controller) CreateTask(title string) (model.Task, error) {
	task, err := s.api.CreateTask(title)
	if err != nil {
		return model.Task{}, err
	}
	if s.view.Type == ViewInbox {
		s.tasks = append([]model.Task{task}, s.tasks...)
	}
	return task, nil
}

// ToggleTask flips a task's completion and patches it in place.
func (s *Controller) ToggleTask(taskID string) (model.Task, error) {
	var current *model.Task
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			current = &s.tasks[i]
			break
		}
	}
	if current == nil {
		return model.Task{}, errors.New("task not in current view")
	}

	updated, err := s.api.SetTaskCompleted(taskID, !current.IsCompleted)
	if err != nil {
		return model.Task{}, err
	}
	*current = updated
	return updated, nil
}

// DeleteTask removes a task from the server and the local list.
func (s *Controller) DeleteTask(taskID string) error {
	if err := s.api.DeleteTask(taskID); err != nil {
		return err
	}
	s.tasks = removeTask(s.tasks, taskID)
	return nil
}

// MoveTask files a task into a project. The task disappears from the
// current (inbox) list; the project view picks it up on its next fetch.
func (s *Controller) MoveTask(taskID, projectID string) (model.Task, error) {
	task, err := s.api.MoveTask(taskID, projectID)
	if err != nil {
		return model.Task{}, err
	}
	s.tasks = removeTask(s.tasks, taskID)
	return task, nil
}

// AddSpace creates a space and appends it to the sidebar.
func (s *Controller) AddSpace(title string) (model.Space, error) {
	space, err := s.api.CreateSpace(title)
	if err != nil {
		return model.Space{}, err
	}
	s.spaces = append(s.spaces, space)
	return space, nil
}

// AddProject creates a project and appends it to the sidebar.
func (s *Controller) AddProject(title, spaceID string) (model.Project, error) {
	project, err := s.api.CreateProject(title, spaceID)
	if err != nil {
		return model.Project{}, err
	}
	s.projects = append(s.projects, project)
	return project, nil
}

// DeleteSpace removes a space and mirrors the server-side cascade
// locally: dependent projects vanish from the sidebar, and if the open
// project was one of them the view falls back to the inbox.
func (s *Controller) DeleteSpace(spaceID string) error {
	if err := s.api.DeleteSpace(spaceID); err != nil {
		return err
	}

	viewedProjectGone := false
	remaining := s.projects[:0]
	for _, p := range s.projects {
		if p.InSpace(spaceID) {
			if s.view.Type == ViewProject && s.view.ProjectID == p.ID {
				viewedProjectGone = true
			}
			continue
		}
		remaining = append(remaining, p)
	}
	s.projects = remaining

	for i, sp := range s.spaces {
		if sp.ID == spaceID {
			s.spaces = append(s.spaces[:i], s.spaces[i+1:]...)
			break
		}
	}

	if viewedProjectGone {
		return s.SelectInbox()
	}
	return nil
}

// DeleteProject removes a project; if it was the open view, the
// controller falls back to the inbox.
func (s *Controller) DeleteProject(projectID string) error {
	if err := s.api.DeleteProject(projectID); err != nil {
		return err
	}

	for i, p := range s.projects {
		if p.ID == projectID {
			s.projects = append(s.projects[:i], s.projects[i+1:]...)
			break
		}
	}

	if s.view.Type == ViewProject && s.view.ProjectID == projectID {
		return s.SelectInbox()
	}
	return nil
}

func removeTask(tasks []model.Task, taskID string) []model.Task {
	for i, t := range tasks {
		if t.ID == taskID {
			return append(tasks[:i], tasks[i+1:]...)
		}
	}
	return tasks
}
