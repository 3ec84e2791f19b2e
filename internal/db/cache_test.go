package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/existflow/lifeos/internal/model"
)

func newTestCache(t *testing.T) *DB {
	t.Helper()
	cache, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func task(id, title string, createdAt time.Time) model.Task {
	t := model.NewTask(id, "user-1", title)
	t.CreatedAt = createdAt
	return t
}

func TestReplaceInboxSwapsContents(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	first := []model.Task{task("t1", "old", now)}
	if err := cache.ReplaceInbox(ctx, first); err != nil {
		t.Fatalf("replace inbox: %v", err)
	}

	second := []model.Task{
		task("t2", "newer", now.Add(time.Minute)),
		task("t3", "newest", now.Add(2*time.Minute)),
	}
	if err := cache.ReplaceInbox(ctx, second); err != nil {
		t.Fatalf("replace inbox again: %v", err)
	}

	got, err := cache.InboxTasks(ctx)
	if err != nil {
		t.Fatalf("inbox tasks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected old contents replaced, got %d tasks", len(got))
	}
	if got[0].ID != "t3" || got[1].ID != "t2" {
		t.Fatalf("expected newest first, got %v", got)
	}
}

func TestProjectTasksSeparateFromInbox(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	inboxTask := task("t1", "in inbox", now)
	if err := cache.ReplaceInbox(ctx, []model.Task{inboxTask}); err != nil {
		t.Fatalf("replace inbox: %v", err)
	}

	projectID := "p1"
	filed := task("t2", "filed", now)
	filed.IsInbox = false
	filed.ProjectID = &projectID
	if err := cache.ReplaceProjectTasks(ctx, projectID, []model.Task{filed}); err != nil {
		t.Fatalf("replace project tasks: %v", err)
	}

	inbox, _ := cache.InboxTasks(ctx)
	if len(inbox) != 1 || inbox[0].ID != "t1" {
		t.Fatalf("expected inbox untouched, got %v", inbox)
	}

	got, err := cache.ProjectTasks(ctx, projectID)
	if err != nil {
		t.Fatalf("project tasks: %v", err)
	}
	if len(got) != 1 || got[0].ID != "t2" {
		t.Fatalf("expected filed task cached, got %v", got)
	}
	if got[0].IsInbox {
		t.Fatal("expected cached task to keep is_inbox=false")
	}
	if got[0].ProjectID == nil || *got[0].ProjectID != projectID {
		t.Fatalf("expected project id preserved, got %v", got[0].ProjectID)
	}
}

func TestReplaceSidebar(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	spaceID := "s1"
	spaces := []model.Space{{ID: spaceID, UserID: "user-1", Title: "Work", CreatedAt: now}}
	projects := []model.Project{{ID: "p1", UserID: "user-1", SpaceID: &spaceID, Title: "Launch", CreatedAt: now}}

	if err := cache.ReplaceSidebar(ctx, spaces, projects); err != nil {
		t.Fatalf("replace sidebar: %v", err)
	}

	gotSpaces, err := cache.Spaces(ctx)
	if err != nil {
		t.Fatalf("spaces: %v", err)
	}
	if len(gotSpaces) != 1 || gotSpaces[0].Title != "Work" {
		t.Fatalf("unexpected spaces: %v", gotSpaces)
	}

	gotProjects, err := cache.Projects(ctx)
	if err != nil {
		t.Fatalf("projects: %v", err)
	}
	if len(gotProjects) != 1 || gotProjects[0].SpaceID == nil || *gotProjects[0].SpaceID != spaceID {
		t.Fatalf("unexpected projects: %v", gotProjects)
	}

	// A second replace with empty lists leaves the cache empty.
	if err := cache.ReplaceSidebar(ctx, nil, nil); err != nil {
		t.Fatalf("replace sidebar with empty: %v", err)
	}
	gotSpaces, _ = cache.Spaces(ctx)
	if len(gotSpaces) != 0 {
		t.Fatalf("expected empty spaces after replace, got %v", gotSpaces)
	}
}

func TestClearDropsEverything(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	cache.ReplaceInbox(ctx, []model.Task{task("t1", "x", now)})
	cache.ReplaceSidebar(ctx, []model.Space{{ID: "s1", Title: "Work", CreatedAt: now}}, nil)
	cache.SetMeta(ctx, "last_refresh", now.Format(time.RFC3339))

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if tasks, _ := cache.InboxTasks(ctx); len(tasks) != 0 {
		t.Fatalf("expected no cached tasks, got %v", tasks)
	}
	if spaces, _ := cache.Spaces(ctx); len(spaces) != 0 {
		t.Fatalf("expected no cached spaces, got %v", spaces)
	}
	if value, _ := cache.Meta(ctx, "last_refresh"); value != "" {
		t.Fatalf("expected meta cleared, got %q", value)
	}
}

func TestTaskByPrefix(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	tasks := []model.Task{
		task("aaa11111-0000-0000-0000-000000000000", "first", now),
		task("aab22222-0000-0000-0000-000000000000", "second", now),
	}
	if err := cache.ReplaceInbox(ctx, tasks); err != nil {
		t.Fatalf("replace inbox: %v", err)
	}

	got, err := cache.TaskByPrefix(ctx, "aaa1")
	if err != nil {
		t.Fatalf("task by prefix: %v", err)
	}
	if got.Title != "first" {
		t.Fatalf("expected first task, got %q", got.Title)
	}

	if _, err := cache.TaskByPrefix(ctx, "aa"); err != ErrAmbiguous {
		t.Fatalf("expected ErrAmbiguous, got %v", err)
	}
	if _, err := cache.TaskByPrefix(ctx, "zzz"); err != ErrNoMatch {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestProjectByPrefixMatchesTitle(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	projects := []model.Project{
		{ID: "p1111111-0000-0000-0000-000000000000", Title: "Groceries", CreatedAt: now},
		{ID: "p2222222-0000-0000-0000-000000000000", Title: "Launch", CreatedAt: now},
	}
	if err := cache.ReplaceSidebar(ctx, nil, projects); err != nil {
		t.Fatalf("replace sidebar: %v", err)
	}

	byTitle, err := cache.ProjectByPrefix(ctx, "groceries")
	if err != nil {
		t.Fatalf("project by title: %v", err)
	}
	if byTitle.ID != projects[0].ID {
		t.Fatalf("expected Groceries project, got %v", byTitle)
	}

	byID, err := cache.ProjectByPrefix(ctx, "p2")
	if err != nil {
		t.Fatalf("project by id prefix: %v", err)
	}
	if byID.Title != "Launch" {
		t.Fatalf("expected Launch project, got %v", byID)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	if value, err := cache.Meta(ctx, "missing"); err != nil || value != "" {
		t.Fatalf("expected empty value for missing key, got %q err %v", value, err)
	}

	if err := cache.SetMeta(ctx, "last_refresh", "2026-01-02T15:04:05Z"); err != nil {
		t.Fatalf("set meta: %v", err)
	}
	if err := cache.SetMeta(ctx, "last_refresh", "2026-01-03T00:00:00Z"); err != nil {
		t.Fatalf("overwrite meta: %v", err)
	}

	value, err := cache.Meta(ctx, "last_refresh")
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	if value != "2026-01-03T00:00:00Z" {
		t.Fatalf("expected overwritten value, got %q", value)
	}
}
