package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/existflow/lifeos/internal/db"
	"github.com/spf13/cobra"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage project context",
	Long: `Set or view the current project context.

When a context is set, new tasks are filed into that project by default
instead of the Inbox.

Examples:
  lifeos context               # Show current context
  lifeos context set launch    # File new tasks into 'launch'
  lifeos context clear         # Back to the Inbox`,
	RunE: runContextShow,
}

var contextSetCmd = &cobra.Command{
	Use:   "set [project]",
	Short: "Set the current project context",
	Args:  cobra.ExactArgs(1),
	RunE:  runContextSet,
}

var contextClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the current context",
	RunE:  runContextClear,
}

func init() {
	contextCmd.AddCommand(contextSetCmd)
	contextCmd.AddCommand(contextClearCmd)
}

func contextFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".lifeos", "context"), nil
}

// GetCurrentContext returns the current project context (empty means Inbox)
func GetCurrentContext() string {
	path, err := contextFilePath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetContext saves the current context
func SetContext(projectID string) error {
	path, err := contextFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(projectID), 0644)
}

// ClearContext removes the context file
func ClearContext() error {
	path, err := contextFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func runContextShow(cmd *cobra.Command, args []string) error {
	current := GetCurrentContext()
	if current == "" {
		fmt.Println("📥 Current context: Inbox (default)")
		return nil
	}

	cache, err := db.OpenDefault()
	if err != nil {
		return err
	}
	defer cache.Close()

	project, err := cache.ProjectByPrefix(context.Background(), current)
	if err != nil {
		fmt.Printf("⚠️  Context set to '%s' but project not found\n", shortID(current))
		return nil
	}

	fmt.Printf("📁 Current context: %s\n", project.Title)
	return nil
}

func runContextSet(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	cache, err := db.OpenDefault()
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer cache.Close()

	project, err := resolveProject(context.Background(), c, cache, args[0])
	if err != nil {
		return err
	}

	if err := SetContext(project.ID); err != nil {
		return fmt.Errorf("failed to set context: %w", err)
	}

	fmt.Printf("📁 Switched to: %s\n", project.Title)
	return nil
}

func runContextClear(cmd *cobra.Command, args []string) error {
	if err := ClearContext(); err != nil {
		return fmt.Errorf("failed to clear context: %w", err)
	}
	fmt.Println("📥 Context cleared, using Inbox")
	return nil
}
