package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/existflow/lifeos/internal/db"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task. Tasks land in the Inbox unless a project is given
(or a context is set), in which case the task is filed there.

Examples:
  lifeos add "Buy groceries"
  lifeos add "Ship the release" -P launch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var addProject string

func init() {
	addCmd.Flags().StringVarP(&addProject, "project", "P", "", "Project to file the task into")
}

func runAdd(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	cache, err := db.OpenDefault()
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer cache.Close()

	title := strings.Join(args, " ")
	ctx := context.Background()

	// Use context if no project specified
	projectArg := addProject
	if !cmd.Flags().Changed("project") {
		if current := GetCurrentContext(); current != "" {
			projectArg = current
		}
	}

	task, err := c.CreateTask(title)
	if err != nil {
		return err
	}

	if projectArg == "" {
		_, _ = refreshInbox(ctx, c, cache)
		fmt.Printf("✓ Added to Inbox: \"%s\" (id: %s)\n", task.Title, shortID(task.ID))
		return nil
	}

	project, err := resolveProject(ctx, c, cache, projectArg)
	if err != nil {
		return err
	}
	moved, err := c.MoveTask(task.ID, project.ID)
	if err != nil {
		return err
	}

	_, _ = refreshInbox(ctx, c, cache)
	refreshTaskList(ctx, c, cache, moved)
	fmt.Printf("✓ Added to [%s]: \"%s\" (id: %s)\n", project.Title, moved.Title, shortID(moved.ID))
	return nil
}
