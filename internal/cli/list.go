package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/existflow/lifeos/internal/db"
	"github.com/existflow/lifeos/internal/model"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List the Inbox, or one project's tasks.

Falls back to the last cached listing when the server is unreachable.

Examples:
  lifeos list
  lifeos list --project launch`,
	RunE: runList,
}

var listProject string

func init() {
	listCmd.Flags().StringVarP(&listProject, "project", "P", "", "List a project instead of the Inbox")
}

func runList(cmd *cobra.Command, args []string) error {
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

	if listProject == "" {
		tasks, err := refreshInbox(ctx, c, cache)
		if isOffline(err) {
			fmt.Println("⚠️  Server unreachable, showing cached Inbox")
			tasks, err = cache.InboxTasks(ctx)
		}
		if err != nil {
			return err
		}
		_ = refreshSidebar(ctx, c, cache)
		printTasks("📥 Inbox", tasks)
		return nil
	}

	project, err := resolveProject(ctx, c, cache, listProject)
	if err != nil {
		return err
	}
	tasks, err := refreshProjectTasks(ctx, c, cache, project.ID)
	if isOffline(err) {
		fmt.Println("⚠️  Server unreachable, showing cached tasks")
		tasks, err = cache.ProjectTasks(ctx, project.ID)
	}
	if err != nil {
		return err
	}
	printTasks("📁 "+project.Title, tasks)
	return nil
}

func printTasks(heading string, tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Println("No tasks found. Add one with: lifeos add \"Your task\"")
		return
	}

	pending := 0
	for _, t := range tasks {
		if !t.IsCompleted {
			pending++
		}
	}

	fmt.Printf("\n%s (%d pending)\n", heading, pending)
	fmt.Println(strings.Repeat("─", 60))
	for _, t := range tasks {
		printTask(t)
	}
	fmt.Println()
}

func printTask(t model.Task) {
	icon := "[ ]"
	if t.IsCompleted {
		icon = "[x]"
	}

	star := " "
	if t.IsStarred {
		star = "★"
	}

	due := ""
	if t.DueDate != nil {
		due = t.DueDate.Format("Jan 2")
		if t.DueDate.Before(time.Now()) && !t.IsCompleted {
			due += " ⚠"
		}
	}

	title := t.Title
	if len(title) > 40 {
		title = title[:37] + "..."
	}

	fmt.Printf("  %s %s %-8s  %-40s  %s\n", icon, star, shortID(t.ID), title, due)
}
