// Package client talks to the Life OS API server and tracks what the
// user is currently looking at.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/existflow/lifeos/internal/model"
)

var (
	// ErrNotLoggedIn means there is no stored session token.
	ErrNotLoggedIn = errors.New("not logged in, run 'lifeos auth login' first")
	// ErrSessionExpired means the server rejected the stored token.
	ErrSessionExpired = errors.New("session expired, log in again")
)

// Session is what survives between CLI invocations.
type Session struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
}

// Client is the HTTP API client. It persists the session to a JSON file
// so consecutive commands stay logged in.
type Client struct {
	session     *Session
	sessionPath string
	httpClient  *http.Client
}

// New creates a client with the session stored at ~/.lifeos/session.json.
func New(serverURL string) (*Client, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewAt(filepath.Join(home, ".lifeos", "session.json"), serverURL)
}

// NewAt creates a client with the session stored at the given path.
func NewAt(sessionPath, serverURL string) (*Client, error) {
	c := &Client{
		sessionPath: sessionPath,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	c.loadSession(serverURL)
	return c, nil
}

func (c *Client) loadSession(serverURL string) {
	c.session = &Session{ServerURL: serverURL}

	data, err := os.ReadFile(c.sessionPath)
	if err != nil {
		return
	}

	var saved Session
	if json.Unmarshal(data, &saved) == nil {
		c.session = &saved
		if serverURL != "" {
			c.session.ServerURL = serverURL
		}
	}
}

func (c *Client) saveSession() error {
	if err := os.MkdirAll(filepath.Dir(c.sessionPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c.session, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.sessionPath, data, 0600)
}

// IsLoggedIn returns true if a session token is stored.
func (c *Client) IsLoggedIn() bool {
	return c.session.Token != ""
}

// CurrentUser returns the stored user id and email.
func (c *Client) CurrentUser() (string, string) {
	return c.session.UserID, c.session.Email
}

// ServerURL returns the server this client talks to.
func (c *Client) ServerURL() string {
	return c.session.ServerURL
}

type authResponse struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    model.PublicUser `json:"user"`
}

// Register creates an account and stores the returned session.
func (c *Client) Register(email, password string) error {
	return c.authenticate("/api/auth/register", email, password, http.StatusCreated)
}

// Login authenticates and stores the returned session.
func (c *Client) Login(email, password string) error {
	return c.authenticate("/api/auth/login", email, password, http.StatusOK)
}

func (c *Client) authenticate(path, email, password string, wantStatus int) error {
	body, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})

	resp, err := c.httpClient.Post(c.session.ServerURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return apiError(resp)
	}

	var result authResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}

	c.session.Token = result.Token
	c.session.UserID = result.User.ID
	c.session.Email = result.User.Email
	return c.saveSession()
}

// Logout discards the stored session. The token itself just expires;
// the server keeps no session state.
func (c *Client) Logout() error {
	c.session.Token = ""
	c.session.UserID = ""
	c.session.Email = ""
	return c.saveSession()
}

// apiError turns a non-2xx response into an error, using the server's
// message body when it has one.
func apiError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		return fmt.Errorf("%s (status %d)", body.Message, resp.StatusCode)
	}
	return fmt.Errorf("request failed with status %d", resp.StatusCode)
}

// do performs an authenticated request and decodes the response into
// out (when out is non-nil and the response has a body).
func (c *Client) do(method, path string, body, out any, wantStatus int) error {
	if !c.IsLoggedIn() {
		return ErrNotLoggedIn
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.session.ServerURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.session.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return ErrSessionExpired
	}
	if resp.StatusCode != wantStatus {
		return apiError(resp)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// InboxTasks lists the inbox, newest first.
func (c *Client) InboxTasks() ([]model.Task, error) {
	var tasks []model.Task
	err := c.do(http.MethodGet, "/api/tasks/inbox", nil, &tasks, http.StatusOK)
	return tasks, err
}

// ProjectTasks lists a project's tasks, newest first.
func (c *Client) ProjectTasks(projectID string) ([]model.Task, error) {
	var tasks []model.Task
	err := c.do(http.MethodGet, "/api/projects/"+projectID+"/tasks", nil, &tasks, http.StatusOK)
	return tasks, err
}

// CreateTask creates an inbox task.
func (c *Client) CreateTask(title string) (model.Task, error) {
	var task model.Task
	err := c.do(http.MethodPost, "/api/tasks",
		map[string]string{"title": title}, &task, http.StatusCreated)
	return task, err
}

// SetTaskCompleted updates a task's completion flag.
func (c *Client) SetTaskCompleted(taskID string, completed bool) (model.Task, error) {
	var task model.Task
	err := c.do(http.MethodPatch, "/api/tasks/"+taskID,
		map[string]bool{"is_completed": completed}, &task, http.StatusOK)
	return task, err
}

// MoveTask files an inbox task into a project.
func (c *Client) MoveTask(taskID, projectID string) (model.Task, error) {
	var task model.Task
	err := c.do(http.MethodPatch, "/api/tasks/"+taskID+"/move",
		map[string]string{"projectId": projectID}, &task, http.StatusOK)
	return task, err
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(taskID string) error {
	return c.do(http.MethodDelete, "/api/tasks/"+taskID, nil, nil, http.StatusNoContent)
}

// Spaces lists the user's spaces.
func (c *Client) Spaces() ([]model.Space, error) {
	var spaces []model.Space
	err := c.do(http.MethodGet, "/api/spaces", nil, &spaces, http.StatusOK)
	return spaces, err
}

// CreateSpace creates a space.
func (c *Client) CreateSpace(title string) (model.Space, error) {
	var space model.Space
	err := c.do(http.MethodPost, "/api/spaces",
		map[string]string{"title": title}, &space, http.StatusCreated)
	return space, err
}

// DeleteSpace removes a space and everything under it.
func (c *Client) DeleteSpace(spaceID string) error {
	return c.do(http.MethodDelete, "/api/spaces/"+spaceID, nil, nil, http.StatusNoContent)
}

// Projects lists the user's projects.
func (c *Client) Projects() ([]model.Project, error) {
	var projects []model.Project
	err := c.do(http.MethodGet, "/api/projects", nil, &projects, http.StatusOK)
	return projects, err
}

// CreateProject creates a project under a space.
func (c *Client) CreateProject(title, spaceID string) (model.Project, error) {
	var project model.Project
	err := c.do(http.MethodPost, "/api/projects",
		map[string]string{"title": title, "spaceId": spaceID}, &project, http.StatusCreated)
	return project, err
}

// DeleteProject removes a project and its tasks.
func (c *Client) DeleteProject(projectID string) error {
	return c.do(http.MethodDelete, "/api/projects/"+projectID, nil, nil, http.StatusNoContent)
}
