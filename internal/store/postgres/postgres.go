// Package postgres implements store.Store on top of a postgres database.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/existflow/lifeos/internal/model"
	"github.com/existflow/lifeos/internal/store"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Store wraps a shared connection pool. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open connects to postgres, verifies the connection and runs migrations.
func Open(dbURL string) (*Store, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (model.User, error) {
	u := model.User{Email: email}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		uuid.New().String(), email, passwordHash,
	).Scan(&u.ID, &u.CreatedAt)

	if isUniqueViolation(err) {
		return model.User{}, store.ErrDuplicateEmail
	}
	if err != nil {
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// UserByEmail looks up a user by email, hash included.
func (s *Store) UserByEmail(ctx context.Context, email string) (model.User, error) {
	var (
		u          model.User
		telegramID sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, telegram_id, created_at
		FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &telegramID, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, store.ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("select user: %w", err)
	}
	if telegramID.Valid {
		u.TelegramID = &telegramID.String
	}
	return u, nil
}

const taskColumns = `id, user_id, project_id, parent_task_id, title,
	COALESCE(description, ''), is_completed, due_date, is_inbox, is_starred, created_at`

func scanTask(row interface{ Scan(...any) error }) (model.Task, error) {
	var (
		t            model.Task
		projectID    sql.NullString
		parentTaskID sql.NullString
		dueDate      sql.NullTime
	)
	err := row.Scan(&t.ID, &t.UserID, &projectID, &parentTaskID, &t.Title,
		&t.Description, &t.IsCompleted, &dueDate, &t.IsInbox, &t.IsStarred, &t.CreatedAt)
	if err != nil {
		return model.Task{}, err
	}
	if projectID.Valid {
		t.ProjectID = &projectID.String
	}
	if parentTaskID.Valid {
		t.ParentTaskID = &parentTaskID.String
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	return t, nil
}

func (s *Store) queryTasks(ctx context.Context, query string, args ...any) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// InboxTasks lists the user's unfiled tasks, newest first.
func (s *Store) InboxTasks(ctx context.Context, userID string) ([]model.Task, error) {
	return s.queryTasks(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE user_id = $1 AND is_inbox = TRUE
		ORDER BY created_at DESC`,
		userID)
}

// ProjectTasks lists a project's tasks, newest first. The project must
// belong to the user.
func (s *Store) ProjectTasks(ctx context.Context, userID, projectID string) ([]model.Task, error) {
	if err := s.projectOwned(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.queryTasks(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE user_id = $1 AND project_id = $2
		ORDER BY created_at DESC`,
		userID, projectID)
}

func (s *Store) projectOwned(ctx context.Context, userID, projectID string) error {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM projects WHERE id = $1 AND user_id = $2`,
		projectID, userID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check project: %w", err)
	}
	return nil
}

func (s *Store) spaceOwned(ctx context.Context, userID, spaceID string) error {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM spaces WHERE id = $1 AND user_id = $2`,
		spaceID, userID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check space: %w", err)
	}
	return nil
}

// CreateTask inserts an inbox task.
func (s *Store) CreateTask(ctx context.Context, userID, title string) (model.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, `
		INSERT INTO tasks (id, user_id, title, is_inbox)
		VALUES ($1, $2, $3, TRUE)
		RETURNING `+taskColumns,
		uuid.New().String(), userID, title))
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

// SetTaskCompleted updates the completion flag and returns the row.
func (s *Store) SetTaskCompleted(ctx context.Context, userID, taskID string, completed bool) (model.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, `
		UPDATE tasks SET is_completed = $1
		WHERE id = $2 AND user_id = $3
		RETURNING `+taskColumns,
		completed, taskID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, store.ErrNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

// MoveTask files a task into a project owned by the same user.
// The inbox -> project transition is one-way.
func (s *Store) MoveTask(ctx context.Context, userID, taskID, projectID string) (model.Task, error) {
	if err := s.projectOwned(ctx, userID, projectID); err != nil {
		return model.Task{}, err
	}

	t, err := scanTask(s.db.QueryRowContext(ctx, `
		UPDATE tasks SET project_id = $1, is_inbox = FALSE
		WHERE id = $2 AND user_id = $3
		RETURNING `+taskColumns,
		projectID, taskID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, store.ErrNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("move task: %w", err)
	}
	return t, nil
}

// DeleteTask removes a task owned by the user.
func (s *Store) DeleteTask(ctx context.Context, userID, taskID string) error {
	return s.deleteOwned(ctx, "tasks", taskID, userID)
}

func (s *Store) deleteOwned(ctx context.Context, table, id, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Spaces lists the user's spaces.
func (s *Store) Spaces(ctx context.Context, userID string) ([]model.Space, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, created_at FROM spaces
		WHERE user_id = $1 ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("select spaces: %w", err)
	}
	defer rows.Close()

	spaces := []model.Space{}
	for rows.Next() {
		var sp model.Space
		if err := rows.Scan(&sp.ID, &sp.UserID, &sp.Title, &sp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan space: %w", err)
		}
		spaces = append(spaces, sp)
	}
	return spaces, rows.Err()
}

// CreateSpace inserts a space.
func (s *Store) CreateSpace(ctx context.Context, userID, title string) (model.Space, error) {
	sp := model.Space{UserID: userID, Title: title}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO spaces (id, user_id, title)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		uuid.New().String(), userID, title,
	).Scan(&sp.ID, &sp.CreatedAt)
	if err != nil {
		return model.Space{}, fmt.Errorf("insert space: %w", err)
	}
	return sp, nil
}

// DeleteSpace removes a space; its projects and their tasks go with it
// via ON DELETE CASCADE.
func (s *Store) DeleteSpace(ctx context.Context, userID, spaceID string) error {
	return s.deleteOwned(ctx, "spaces", spaceID, userID)
}

// Projects lists the user's projects.
func (s *Store) Projects(ctx context.Context, userID string) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, space_id, title, created_at FROM projects
		WHERE user_id = $1 ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("select projects: %w", err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var (
			p       model.Project
			spaceID sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.UserID, &spaceID, &p.Title, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		if spaceID.Valid {
			p.SpaceID = &spaceID.String
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CreateProject inserts a project under a space owned by the same user.
func (s *Store) CreateProject(ctx context.Context, userID, spaceID, title string) (model.Project, error) {
	if err := s.spaceOwned(ctx, userID, spaceID); err != nil {
		return model.Project{}, err
	}

	p := model.Project{UserID: userID, SpaceID: &spaceID, Title: title}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO projects (id, user_id, space_id, title)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		uuid.New().String(), userID, spaceID, title,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return model.Project{}, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

// DeleteProject removes a project; its tasks cascade.
func (s *Store) DeleteProject(ctx context.Context, userID, projectID string) error {
	return s.deleteOwned(ctx, "projects", projectID, userID)
}
