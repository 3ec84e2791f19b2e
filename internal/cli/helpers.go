package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/existflow/lifeos/internal/client"
	"github.com/existflow/lifeos/internal/config"
	"github.com/existflow/lifeos/internal/db"
	"github.com/existflow/lifeos/internal/logger"
	"github.com/existflow/lifeos/internal/model"
)

// newClient builds an API client for the configured server.
func newClient() (*client.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return client.New(cfg.ServerURL)
}

// isOffline reports whether err is a transport failure rather than an
// API rejection, so reads can fall back to the cache.
func isOffline(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// refreshSidebar pulls spaces and projects into the cache.
func refreshSidebar(ctx context.Context, c *client.Client, cache *db.DB) error {
	spaces, err := c.Spaces()
	if err != nil {
		return err
	}
	projects, err := c.Projects()
	if err != nil {
		return err
	}
	if err := cache.ReplaceSidebar(ctx, spaces, projects); err != nil {
		logger.Warn("Failed to update sidebar cache", logger.F("error", err))
	}
	return nil
}

// refreshInbox fetches the inbox and caches it.
func refreshInbox(ctx context.Context, c *client.Client, cache *db.DB) ([]model.Task, error) {
	tasks, err := c.InboxTasks()
	if err != nil {
		return nil, err
	}
	if err := cache.ReplaceInbox(ctx, tasks); err != nil {
		logger.Warn("Failed to update inbox cache", logger.F("error", err))
	}
	return tasks, nil
}

// refreshProjectTasks fetches one project's tasks and caches them.
func refreshProjectTasks(ctx context.Context, c *client.Client, cache *db.DB, projectID string) ([]model.Task, error) {
	tasks, err := c.ProjectTasks(projectID)
	if err != nil {
		return nil, err
	}
	if err := cache.ReplaceProjectTasks(ctx, projectID, tasks); err != nil {
		logger.Warn("Failed to update project cache", logger.F("error", err))
	}
	return tasks, nil
}

// refreshTaskList re-caches whichever list the task lives in. Errors
// only degrade the cache, so they are logged and swallowed.
func refreshTaskList(ctx context.Context, c *client.Client, cache *db.DB, t model.Task) {
	var err error
	if t.ProjectID != nil {
		_, err = refreshProjectTasks(ctx, c, cache, *t.ProjectID)
	} else {
		_, err = refreshInbox(ctx, c, cache)
	}
	if err != nil {
		logger.Warn("Failed to refresh cache", logger.F("error", err))
	}
}

// resolveTask turns a possibly-shortened task id into a cached task.
// Full-length ids pass through even when the cache has never seen them.
func resolveTask(ctx context.Context, cache *db.DB, arg string) (model.Task, error) {
	t, err := cache.TaskByPrefix(ctx, arg)
	if err == nil {
		return t, nil
	}
	if errors.Is(err, db.ErrNoMatch) && len(arg) == 36 {
		return model.Task{ID: arg}, nil
	}
	if errors.Is(err, db.ErrNoMatch) {
		return model.Task{}, fmt.Errorf("no task matches %q (run 'lifeos list' to refresh)", arg)
	}
	if errors.Is(err, db.ErrAmbiguous) {
		return model.Task{}, fmt.Errorf("more than one task matches %q, use a longer id", arg)
	}
	return model.Task{}, err
}

// resolveProject resolves a project by id prefix or title, refreshing
// the sidebar from the server when the cache comes up empty.
func resolveProject(ctx context.Context, c *client.Client, cache *db.DB, arg string) (model.Project, error) {
	p, err := cache.ProjectByPrefix(ctx, arg)
	if errors.Is(err, db.ErrNoMatch) {
		if refreshSidebar(ctx, c, cache) == nil {
			p, err = cache.ProjectByPrefix(ctx, arg)
		}
	}
	if errors.Is(err, db.ErrNoMatch) {
		return model.Project{}, fmt.Errorf("project not found: %s", arg)
	}
	if errors.Is(err, db.ErrAmbiguous) {
		return model.Project{}, fmt.Errorf("more than one project matches %q, use a longer id", arg)
	}
	return p, err
}

// resolveSpace resolves a space by id prefix or title.
func resolveSpace(ctx context.Context, c *client.Client, cache *db.DB, arg string) (model.Space, error) {
	sp, err := cache.SpaceByPrefix(ctx, arg)
	if errors.Is(err, db.ErrNoMatch) {
		if refreshSidebar(ctx, c, cache) == nil {
			sp, err = cache.SpaceByPrefix(ctx, arg)
		}
	}
	if errors.Is(err, db.ErrNoMatch) {
		return model.Space{}, fmt.Errorf("space not found: %s", arg)
	}
	if errors.Is(err, db.ErrAmbiguous) {
		return model.Space{}, fmt.Errorf("more than one space matches %q, use a longer id", arg)
	}
	return sp, err
}

// confirm asks a y/N question on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	var response string
	_, _ = fmt.Scanln(&response)
	return response == "y" || response == "Y"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
