package client

import (
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/existflow/lifeos/internal/auth"
	"github.com/existflow/lifeos/internal/store/memory"
	"github.com/existflow/lifeos/server"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	tokens, err := auth.NewTokens("client-test-secret")
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	ts := httptest.NewServer(server.New(memory.New(), tokens).Router())
	t.Cleanup(ts.Close)

	c, err := NewAt(filepath.Join(t.TempDir(), "session.json"), ts.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestClientFullFlow(t *testing.T) {
	c := newTestClient(t)

	if c.IsLoggedIn() {
		t.Fatal("expected fresh client to be logged out")
	}
	if _, err := c.InboxTasks(); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}

	if err := c.Register("u1@example.com", "pw123"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !c.IsLoggedIn() {
		t.Fatal("expected client to be logged in after register")
	}
	if _, email := c.CurrentUser(); email != "u1@example.com" {
		t.Fatalf("expected stored email, got %q", email)
	}

	task, err := c.CreateTask("Buy milk")
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	inbox, err := c.InboxTasks()
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if len(inbox) != 1 || inbox[0].ID != task.ID {
		t.Fatalf("expected task in inbox, got %v", inbox)
	}

	space, err := c.CreateSpace("Work")
	if err != nil {
		t.Fatalf("create space: %v", err)
	}
	project, err := c.CreateProject("Launch", space.ID)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	moved, err := c.MoveTask(task.ID, project.ID)
	if err != nil {
		t.Fatalf("move task: %v", err)
	}
	if moved.IsInbox {
		t.Fatal("expected moved task to leave inbox")
	}

	inbox, _ = c.InboxTasks()
	if len(inbox) != 0 {
		t.Fatalf("expected empty inbox, got %v", inbox)
	}
	filed, err := c.ProjectTasks(project.ID)
	if err != nil {
		t.Fatalf("project tasks: %v", err)
	}
	if len(filed) != 1 {
		t.Fatalf("expected 1 filed task, got %d", len(filed))
	}

	if err := c.DeleteSpace(space.ID); err != nil {
		t.Fatalf("delete space: %v", err)
	}
	if _, err := c.ProjectTasks(project.ID); err == nil {
		t.Fatal("expected project fetch to fail after space delete")
	}
}

func TestClientSessionPersistsAcrossInstances(t *testing.T) {
	tokens, _ := auth.NewTokens("client-test-secret")
	ts := httptest.NewServer(server.New(memory.New(), tokens).Router())
	t.Cleanup(ts.Close)

	sessionPath := filepath.Join(t.TempDir(), "session.json")

	c1, _ := NewAt(sessionPath, ts.URL)
	if err := c1.Register("persist@example.com", "pw123"); err != nil {
		t.Fatalf("register: %v", err)
	}

	c2, _ := NewAt(sessionPath, ts.URL)
	if !c2.IsLoggedIn() {
		t.Fatal("expected second client to pick up the stored session")
	}
	if _, err := c2.InboxTasks(); err != nil {
		t.Fatalf("expected stored token to work, got %v", err)
	}

	if err := c2.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	c3, _ := NewAt(sessionPath, ts.URL)
	if c3.IsLoggedIn() {
		t.Fatal("expected logout to clear the stored session")
	}
}

func TestClientSurfacesServerMessages(t *testing.T) {
	c := newTestClient(t)

	if err := c.Register("dup@example.com", "pw123"); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := c.Register("dup@example.com", "pw123")
	if err == nil {
		t.Fatal("expected duplicate register to fail")
	}

	if err := c.Login("dup@example.com", "wrong"); err == nil {
		t.Fatal("expected login with wrong password to fail")
	}
	if err := c.Login("dup@example.com", "pw123"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestClientExpiredTokenIsSessionExpired(t *testing.T) {
	tokens, _ := auth.NewTokens("secret-a")
	ts := httptest.NewServer(server.New(memory.New(), tokens).Router())
	t.Cleanup(ts.Close)

	c, _ := NewAt(filepath.Join(t.TempDir(), "session.json"), ts.URL)
	if err := c.Register("u1@example.com", "pw123"); err != nil {
		t.Fatalf("register: %v", err)
	}

	// A token signed with a different secret is rejected with 403.
	other, _ := auth.NewTokens("secret-b")
	badToken, _ := other.Issue("user-x", "u1@example.com")
	c.session.Token = badToken

	if _, err := c.InboxTasks(); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}
