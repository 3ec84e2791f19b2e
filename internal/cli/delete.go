package cli

import (
	"context"
	"fmt"

	"github.com/existflow/lifeos/internal/config"
	"github.com/existflow/lifeos/internal/db"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [task-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Delete a task by its id.

Examples:
  lifeos delete abc123
  lifeos rm abc123`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
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

	cfg, _ := config.Load() // Ignore error, use defaults
	if cfg.ConfirmDelete && task.Title != "" {
		if !confirm(fmt.Sprintf("About to delete: \"%s\". Are you sure?", task.Title)) {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := c.DeleteTask(task.ID); err != nil {
		return err
	}
	refreshTaskList(ctx, c, cache, task)

	if task.Title != "" {
		fmt.Printf("🗑️  Deleted: \"%s\"\n", task.Title)
	} else {
		fmt.Printf("🗑️  Deleted task %s\n", shortID(task.ID))
	}
	return nil
}
