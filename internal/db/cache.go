package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/existflow/lifeos/internal/model"
)

var (
	// ErrNoMatch means no cached row matches the given id prefix.
	ErrNoMatch = errors.New("no cached entry matches")
	// ErrAmbiguous means an id prefix matches more than one cached row.
	ErrAmbiguous = errors.New("id prefix matches more than one entry")
)

// ReplaceSidebar swaps the cached spaces and projects for fresh ones.
func (db *DB) ReplaceSidebar(ctx context.Context, spaces []model.Space, projects []model.Project) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM spaces`); err != nil {
		return fmt.Errorf("clear spaces: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return fmt.Errorf("clear projects: %w", err)
	}

	for _, sp := range spaces {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO spaces (id, title, created_at) VALUES ($1, $2, $3)`,
			sp.ID, sp.Title, sp.CreatedAt.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("insert space: %w", err)
		}
	}
	for _, p := range projects {
		var spaceID sql.NullString
		if p.SpaceID != nil {
			spaceID = sql.NullString{String: *p.SpaceID, Valid: true}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO projects (id, space_id, title, created_at) VALUES ($1, $2, $3, $4)`,
			p.ID, spaceID, p.Title, p.CreatedAt.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
	}

	return tx.Commit()
}

// ReplaceInbox swaps the cached inbox for a fresh server listing.
func (db *DB) ReplaceInbox(ctx context.Context, tasks []model.Task) error {
	return db.replaceTasks(ctx, `DELETE FROM tasks WHERE is_inbox = 1`, nil, tasks)
}

// ReplaceProjectTasks swaps one project's cached tasks.
func (db *DB) ReplaceProjectTasks(ctx context.Context, projectID string, tasks []model.Task) error {
	return db.replaceTasks(ctx, `DELETE FROM tasks WHERE project_id = $1`, []any{projectID}, tasks)
}

func (db *DB) replaceTasks(ctx context.Context, clearQuery string, clearArgs []any, tasks []model.Task) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}

	for _, t := range tasks {
		var projectID sql.NullString
		if t.ProjectID != nil {
			projectID = sql.NullString{String: *t.ProjectID, Valid: true}
		}
		var dueDate sql.NullString
		if t.DueDate != nil {
			dueDate = sql.NullString{String: t.DueDate.Format(time.RFC3339), Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO tasks
			(id, project_id, title, description, is_completed, due_date, is_inbox, is_starred, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			t.ID, projectID, t.Title, t.Description, boolToInt(t.IsCompleted),
			dueDate, boolToInt(t.IsInbox), boolToInt(t.IsStarred),
			t.CreatedAt.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
	}

	return tx.Commit()
}

// InboxTasks returns the cached inbox, newest first.
func (db *DB) InboxTasks(ctx context.Context) ([]model.Task, error) {
	return db.queryTasks(ctx, `
		SELECT id, project_id, title, description, is_completed, due_date, is_inbox, is_starred, created_at
		FROM tasks WHERE is_inbox = 1 ORDER BY created_at DESC`)
}

// ProjectTasks returns one project's cached tasks, newest first.
func (db *DB) ProjectTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	return db.queryTasks(ctx, `
		SELECT id, project_id, title, description, is_completed, due_date, is_inbox, is_starred, created_at
		FROM tasks WHERE project_id = $1 ORDER BY created_at DESC`, projectID)
}

// TaskByPrefix finds a single cached task whose id starts with prefix.
// Lets commands accept the short ids shown in listings.
func (db *DB) TaskByPrefix(ctx context.Context, prefix string) (model.Task, error) {
	tasks, err := db.queryTasks(ctx, `
		SELECT id, project_id, title, description, is_completed, due_date, is_inbox, is_starred, created_at
		FROM tasks WHERE id LIKE $1 LIMIT 2`, prefix+"%")
	if err != nil {
		return model.Task{}, err
	}
	switch len(tasks) {
	case 0:
		return model.Task{}, ErrNoMatch
	case 1:
		return tasks[0], nil
	default:
		return model.Task{}, ErrAmbiguous
	}
}

func (db *DB) queryTasks(ctx context.Context, query string, args ...any) ([]model.Task, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select cached tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var (
			t           model.Task
			projectID   sql.NullString
			isCompleted int
			dueDate     sql.NullString
			isInbox     int
			isStarred   int
			createdAt   string
		)
		err := rows.Scan(&t.ID, &projectID, &t.Title, &t.Description,
			&isCompleted, &dueDate, &isInbox, &isStarred, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan cached task: %w", err)
		}
		if projectID.Valid {
			t.ProjectID = &projectID.String
		}
		if dueDate.Valid {
			if parsed, err := time.Parse(time.RFC3339, dueDate.String); err == nil {
				t.DueDate = &parsed
			}
		}
		t.IsCompleted = isCompleted != 0
		t.IsInbox = isInbox != 0
		t.IsStarred = isStarred != 0
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Spaces returns the cached spaces.
func (db *DB) Spaces(ctx context.Context) ([]model.Space, error) {
	return db.querySpaces(ctx,
		`SELECT id, title, created_at FROM spaces ORDER BY created_at`)
}

// SpaceByPrefix finds a single cached space by id prefix or exact title.
func (db *DB) SpaceByPrefix(ctx context.Context, prefix string) (model.Space, error) {
	spaces, err := db.querySpaces(ctx, `
		SELECT id, title, created_at FROM spaces
		WHERE id LIKE $1 OR title = $2 COLLATE NOCASE LIMIT 2`, prefix+"%", prefix)
	if err != nil {
		return model.Space{}, err
	}
	switch len(spaces) {
	case 0:
		return model.Space{}, ErrNoMatch
	case 1:
		return spaces[0], nil
	default:
		return model.Space{}, ErrAmbiguous
	}
}

func (db *DB) querySpaces(ctx context.Context, query string, args ...any) ([]model.Space, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select cached spaces: %w", err)
	}
	defer rows.Close()

	spaces := []model.Space{}
	for rows.Next() {
		var (
			sp        model.Space
			createdAt string
		)
		if err := rows.Scan(&sp.ID, &sp.Title, &createdAt); err != nil {
			return nil, fmt.Errorf("scan cached space: %w", err)
		}
		sp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		spaces = append(spaces, sp)
	}
	return spaces, rows.Err()
}

// Projects returns the cached projects.
func (db *DB) Projects(ctx context.Context) ([]model.Project, error) {
	return db.queryProjects(ctx,
		`SELECT id, space_id, title, created_at FROM projects ORDER BY created_at`)
}

// ProjectByPrefix finds a single cached project by id prefix or exact
// title, so commands can take either.
func (db *DB) ProjectByPrefix(ctx context.Context, prefix string) (model.Project, error) {
	projects, err := db.queryProjects(ctx, `
		SELECT id, space_id, title, created_at FROM projects
		WHERE id LIKE $1 OR title = $2 COLLATE NOCASE LIMIT 2`, prefix+"%", prefix)
	if err != nil {
		return model.Project{}, err
	}
	switch len(projects) {
	case 0:
		return model.Project{}, ErrNoMatch
	case 1:
		return projects[0], nil
	default:
		return model.Project{}, ErrAmbiguous
	}
}

func (db *DB) queryProjects(ctx context.Context, query string, args ...any) ([]model.Project, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select cached projects: %w", err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var (
			p         model.Project
			spaceID   sql.NullString
			createdAt string
		)
		if err := rows.Scan(&p.ID, &spaceID, &p.Title, &createdAt); err != nil {
			return nil, fmt.Errorf("scan cached project: %w", err)
		}
		if spaceID.Valid {
			p.SpaceID = &spaceID.String
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Clear drops all cached rows. Used on logout.
func (db *DB) Clear(ctx context.Context) error {
	for _, table := range []string{"tasks", "projects", "spaces", "meta"} {
		if _, err := db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// SetMeta stores a key/value pair, e.g. the last refresh time.
func (db *DB) SetMeta(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO meta (key, value) VALUES ($1, $2)`, key, value)
	return err
}

// Meta returns a stored value, or "" when absent.
func (db *DB) Meta(ctx context.Context, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
