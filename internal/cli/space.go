package cli

import (
	"context"
	"fmt"

	"github.com/existflow/lifeos/internal/config"
	"github.com/existflow/lifeos/internal/db"
	"github.com/existflow/lifeos/internal/model"
	"github.com/spf13/cobra"
)

var spaceCmd = &cobra.Command{
	Use:   "space",
	Short: "Manage spaces",
	Long:  `Create, list, and delete spaces. Spaces group projects.`,
}

var spaceNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a new space",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpaceNew,
}

var spaceListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List spaces and their projects",
	RunE:    runSpaceList,
}

var spaceDeleteCmd = &cobra.Command{
	Use:     "delete [space]",
	Aliases: []string{"rm"},
	Short:   "Delete a space and everything in it",
	Args:    cobra.ExactArgs(1),
	RunE:    runSpaceDelete,
}

func init() {
	spaceCmd.AddCommand(spaceNewCmd)
	spaceCmd.AddCommand(spaceListCmd)
	spaceCmd.AddCommand(spaceDeleteCmd)
}

func runSpaceNew(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	cache, err := db.OpenDefault()
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer cache.Close()

	space, err := c.CreateSpace(args[0])
	if err != nil {
		return err
	}
	_ = refreshSidebar(context.Background(), c, cache)

	fmt.Printf("✓ Created space: %s (id: %s)\n", space.Title, shortID(space.ID))
	return nil
}

func runSpaceList(cmd *cobra.Command, args []string) error {
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
		fmt.Println("⚠️  Server unreachable, showing cached spaces")
	} else if err != nil {
		return err
	}

	spaces, err := cache.Spaces(ctx)
	if err != nil {
		return err
	}
	projects, err := cache.Projects(ctx)
	if err != nil {
		return err
	}

	if len(spaces) == 0 && len(projects) == 0 {
		fmt.Println("No spaces yet. Create one with: lifeos space new \"Work\"")
		return nil
	}

	fmt.Println()
	for _, sp := range spaces {
		fmt.Printf("🗂  %s  %s\n", shortID(sp.ID), sp.Title)
		for _, p := range projects {
			if p.InSpace(sp.ID) {
				fmt.Printf("     📁 %s  %s\n", shortID(p.ID), p.Title)
			}
		}
	}
	orphans := []model.Project{}
	for _, p := range projects {
		if p.SpaceID == nil {
			orphans = append(orphans, p)
		}
	}
	if len(orphans) > 0 {
		fmt.Println("🗂  (no space)")
		for _, p := range orphans {
			fmt.Printf("     📁 %s  %s\n", shortID(p.ID), p.Title)
		}
	}
	fmt.Println()
	return nil
}

func runSpaceDelete(cmd *cobra.Command, args []string) error {
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
	space, err := resolveSpace(ctx, c, cache, args[0])
	if err != nil {
		return err
	}

	cfg, _ := config.Load()
	if cfg.ConfirmDelete {
		warning := fmt.Sprintf("Deleting space \"%s\" also deletes its projects and their tasks. Are you sure?", space.Title)
		if !confirm(warning) {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := c.DeleteSpace(space.ID); err != nil {
		return err
	}
	_ = refreshSidebar(ctx, c, cache)

	fmt.Printf("🗑️  Deleted space: %s\n", space.Title)
	return nil
}
