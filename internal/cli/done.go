package cli

import (
	"context"
	"fmt"

	"github.com/existflow/lifeos/internal/db"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as done",
	Long: `Mark a task as completed. Short id prefixes from listings work.

Examples:
  lifeos done abc123
  lifeos done abc123 --undo`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

var doneUndo bool

func init() {
	doneCmd.Flags().BoolVar(&doneUndo, "undo", false, "Mark task as not done")
}

func runDone(cmd *cobra.Command, args []string) error {
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

	updated, err := c.SetTaskCompleted(task.ID, !doneUndo)
	if err != nil {
		return err
	}
	refreshTaskList(ctx, c, cache, updated)

	if updated.IsCompleted {
		fmt.Printf("✓ Completed: \"%s\"\n", updated.Title)
	} else {
		fmt.Printf("○ Reopened: \"%s\"\n", updated.Title)
	}
	return nil
}
