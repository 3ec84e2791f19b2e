package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/existflow/lifeos/internal/config"
	"github.com/existflow/lifeos/internal/db"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long:  `Create, list, and delete projects for organizing tasks.`,
}

var projectNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a new project in a space",
	Long: `Create a new project. Every project lives in a space.

Examples:
  lifeos project new "Launch" --space work
  lifeos project new "Renovation" -s home`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectNew,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all projects",
	RunE:    runProjectList,
}

var projectDeleteCmd = &cobra.Command{
	Use:     "delete [project]",
	Aliases: []string{"rm"},
	Short:   "Delete a project and its tasks",
	Args:    cobra.ExactArgs(1),
	RunE:    runProjectDelete,
}

var projectSpace string

func init() {
	projectNewCmd.Flags().StringVarP(&projectSpace, "space", "s", "", "Space to create the project in (required)")
	_ = projectNewCmd.MarkFlagRequired("space")

	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectDeleteCmd)
}

func runProjectNew(cmd *cobra.Command, args []string) error {
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
	space, err := resolveSpace(ctx, c, cache, projectSpace)
	if err != nil {
		return err
	}

	project, err := c.CreateProject(args[0], space.ID)
	if err != nil {
		return err
	}
	_ = refreshSidebar(ctx, c, cache)

	fmt.Printf("✓ Created project: %s in [%s] (id: %s)\n", project.Title, space.Title, shortID(project.ID))
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
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
	err = refreshSidebar(ctx, c, cache)
	if isOffline(err) {
		fmt.Println("⚠️  Server unreachable, showing cached projects")
	} else if err != nil {
		return err
	}

	projects, err := cache.Projects(ctx)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Println("No projects found.")
		return nil
	}

	spaces, _ := cache.Spaces(ctx)
	spaceTitles := make(map[string]string, len(spaces))
	for _, sp := range spaces {
		spaceTitles[sp.ID] = sp.Title
	}

	fmt.Println()
	fmt.Printf("  %-10s  %-25s  %s\n", "ID", "Title", "Space")
	fmt.Println(strings.Repeat("─", 55))
	for _, p := range projects {
		spaceTitle := "-"
		if p.SpaceID != nil {
			if title, ok := spaceTitles[*p.SpaceID]; ok {
				spaceTitle = title
			}
		}
		fmt.Printf("  %-10s  %-25s  %s\n", shortID(p.ID), p.Title, spaceTitle)
	}
	fmt.Println()
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
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
	project, err := resolveProject(ctx, c, cache, args[0])
	if err != nil {
		return err
	}

	cfg, _ := config.Load()
	if cfg.ConfirmDelete {
		warning := fmt.Sprintf("Deleting project \"%s\" also deletes its tasks. Are you sure?", project.Title)
		if !confirm(warning) {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := c.DeleteProject(project.ID); err != nil {
		return err
	}
	_ = refreshSidebar(ctx, c, cache)

	// A deleted project may have been the current context.
	if GetCurrentContext() == project.ID {
		_ = ClearContext()
	}

	fmt.Printf("🗑️  Deleted project: %s\n", project.Title)
	return nil
}
