package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/existflow/lifeos/internal/store"
)

func TestCreateTaskLandsInInbox(t *testing.T) {
	s := New()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "u1@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	task, err := s.CreateTask(ctx, u.ID, "Buy milk")
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if !task.IsInbox {
		t.Fatal("expected new task to be in inbox")
	}
	if task.ProjectID != nil {
		t.Fatalf("expected nil project_id, got %v", *task.ProjectID)
	}

	inbox, err := s.InboxTasks(ctx, u.ID)
	if err != nil {
		t.Fatalf("inbox tasks: %v", err)
	}
	if len(inbox) != 1 || inbox[0].ID != task.ID {
		t.Fatalf("expected inbox to contain the new task, got %v", inbox)
	}
}

func TestInboxTasksNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	u, _ := s.CreateUser(ctx, "u1@example.com", "hash")

	first, _ := s.CreateTask(ctx, u.ID, "first")
	second, _ := s.CreateTask(ctx, u.ID, "second")

	inbox, err := s.InboxTasks(ctx, u.ID)
	if err != nil {
		t.Fatalf("inbox tasks: %v", err)
	}
	if len(inbox) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(inbox))
	}
	if inbox[0].ID != second.ID || inbox[1].ID != first.ID {
		t.Fatal("expected newest task first")
	}
}

func TestMoveTaskLeavesInbox(t *testing.T) {
	s := New()
	ctx := context.Background()
	u, _ := s.CreateUser(ctx, "u1@example.com", "hash")
	sp, _ := s.CreateSpace(ctx, u.ID, "Work")
	p, _ := s.CreateProject(ctx, u.ID, sp.ID, "Launch")
	task, _ := s.CreateTask(ctx, u.ID, "Buy milk")

	moved, err := s.MoveTask(ctx, u.ID, task.ID, p.ID)
	if err != nil {
		t.Fatalf("move task: %v", err)
	}
	if moved.IsInbox {
		t.Fatal("expected moved task to leave inbox")
	}
	if !moved.InProject(p.ID) {
		t.Fatalf("expected task filed into %s, got %v", p.ID, moved.ProjectID)
	}

	inbox, _ := s.InboxTasks(ctx, u.ID)
	if len(inbox) != 0 {
		t.Fatalf("expected empty inbox after move, got %d tasks", len(inbox))
	}

	filed, err := s.ProjectTasks(ctx, u.ID, p.ID)
	if err != nil {
		t.Fatalf("project tasks: %v", err)
	}
	if len(filed) != 1 || filed[0].ID != task.ID {
		t.Fatalf("expected project to contain the task, got %v", filed)
	}
}

func TestMoveTaskRejectsForeignProject(t *testing.T) {
	s := New()
	ctx := context.Background()
	alice, _ := s.CreateUser(ctx, "alice@example.com", "hash")
	bob, _ := s.CreateUser(ctx, "bob@example.com", "hash")

	sp, _ := s.CreateSpace(ctx, bob.ID, "Bob's space")
	bobProject, _ := s.CreateProject(ctx, bob.ID, sp.ID, "Bob's project")
	task, _ := s.CreateTask(ctx, alice.ID, "Alice's task")

	if _, err := s.MoveTask(ctx, alice.ID, task.ID, bobProject.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound moving into another user's project, got %v", err)
	}
}

func TestDeleteSpaceCascades(t *testing.T) {
	s := New()
	ctx := context.Background()
	u, _ := s.CreateUser(ctx, "u1@example.com", "hash")

	sp, _ := s.CreateSpace(ctx, u.ID, "Work")
	p1, _ := s.CreateProject(ctx, u.ID, sp.ID, "Launch")
	p2, _ := s.CreateProject(ctx, u.ID, sp.ID, "Cleanup")

	t1, _ := s.CreateTask(ctx, u.ID, "task one")
	t2, _ := s.CreateTask(ctx, u.ID, "task two")
	keep, _ := s.CreateTask(ctx, u.ID, "stays in inbox")
	s.MoveTask(ctx, u.ID, t1.ID, p1.ID)
	s.MoveTask(ctx, u.ID, t2.ID, p2.ID)

	if err := s.DeleteSpace(ctx, u.ID, sp.ID); err != nil {
		t.Fatalf("delete space: %v", err)
	}

	projects, _ := s.Projects(ctx, u.ID)
	if len(projects) != 0 {
		t.Fatalf("expected projects to cascade, got %d", len(projects))
	}

	if _, err := s.ProjectTasks(ctx, u.ID, p1.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted project, got %v", err)
	}

	inbox, _ := s.InboxTasks(ctx, u.ID)
	if len(inbox) != 1 || inbox[0].ID != keep.ID {
		t.Fatalf("expected only the inbox task to survive, got %v", inbox)
	}
}

func TestDeleteProjectCascadesTasks(t *testing.T) {
	s := New()
	ctx := context.Background()
	u, _ := s.CreateUser(ctx, "u1@example.com", "hash")
	sp, _ := s.CreateSpace(ctx, u.ID, "Work")
	p, _ := s.CreateProject(ctx, u.ID, sp.ID, "Launch")
	task, _ := s.CreateTask(ctx, u.ID, "doomed")
	s.MoveTask(ctx, u.ID, task.ID, p.ID)

	if err := s.DeleteProject(ctx, u.ID, p.ID); err != nil {
		t.Fatalf("delete project: %v", err)
	}

	if err := s.DeleteTask(ctx, u.ID, task.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected task to be gone with its project, got %v", err)
	}
}

func TestDeleteTaskTwice(t *testing.T) {
	s := New()
	ctx := context.Background()
	u, _ := s.CreateUser(ctx, "u1@example.com", "hash")
	task, _ := s.CreateTask(ctx, u.ID, "once")

	if err := s.DeleteTask(ctx, u.ID, task.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := s.DeleteTask(ctx, u.ID, task.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	s := New()
	ctx := context.Background()
	alice, _ := s.CreateUser(ctx, "alice@example.com", "hash")
	bob, _ := s.CreateUser(ctx, "bob@example.com", "hash")

	sp, _ := s.CreateSpace(ctx, bob.ID, "Bob's space")
	p, _ := s.CreateProject(ctx, bob.ID, sp.ID, "Bob's project")
	task, _ := s.CreateTask(ctx, bob.ID, "Bob's task")

	if _, err := s.ProjectTasks(ctx, alice.ID, p.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound listing foreign project, got %v", err)
	}
	if _, err := s.SetTaskCompleted(ctx, alice.ID, task.ID, true); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating foreign task, got %v", err)
	}
	if err := s.DeleteTask(ctx, alice.ID, task.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting foreign task, got %v", err)
	}
	if err := s.DeleteSpace(ctx, alice.ID, sp.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting foreign space, got %v", err)
	}
	if _, err := s.CreateProject(ctx, alice.ID, sp.ID, "intruder"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound creating project in foreign space, got %v", err)
	}
}

func TestDuplicateEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "u1@example.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := s.CreateUser(ctx, "u1@example.com", "other"); !errors.Is(err, store.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}
