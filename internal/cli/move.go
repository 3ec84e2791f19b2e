package cli

import (
	"context"
	"fmt"

	"github.com/existflow/lifeos/internal/db"
	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:     "move [task-id] [project]",
	Aliases: []string{"mv"},
	Short:   "Move a task into a project",
	Long: `Move a task out of the Inbox (or another project) into a project.
The project can be named by id prefix or title.

Examples:
  lifeos move abc123 launch
  lifeos mv abc123 "Home renovation"`,
	Args: cobra.ExactArgs(2),
	RunE: runMove,
}

func runMove(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	cache, err := db.OpenDefault()
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer cache.Close()

	ctx := context.Background()
	task, err := resolveTask(ctx, cache, args[0])
	if err != nil {
		return err
	}
	project, err := resolveProject(ctx, c, cache, args[1])
	if err != nil {
		return err
	}

	moved, err := c.MoveTask(task.ID, project.ID)
	if err != nil {
		return err
	}

	// The task may have left the inbox or another project's list.
	_, _ = refreshInbox(ctx, c, cache)
	if task.ProjectID != nil {
		_, _ = refreshProjectTasks(ctx, c, cache, *task.ProjectID)
	}
	refreshTaskList(ctx, c, cache, moved)

	fmt.Printf("→ Moved \"%s\" to [%s]\n", moved.Title, project.Title)
	return nil
}
