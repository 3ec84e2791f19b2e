package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/existflow/lifeos/internal/db"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Manage your account session with the LifeOS server.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the server",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout and clear local data",
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runRegister,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session status",
	RunE:  runStatus,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(statusCmd)
}

func promptCredentials(withConfirm bool) (string, string, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	password := string(passwordBytes)
	fmt.Println()

	if withConfirm {
		fmt.Print("Confirm Password: ")
		confirmBytes, _ := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if password != string(confirmBytes) {
			return "", "", fmt.Errorf("passwords do not match")
		}
	}

	return email, password, nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	email, password, err := promptCredentials(false)
	if err != nil {
		return err
	}

	fmt.Println("🔄 Logging in...")
	if err := c.Login(email, password); err != nil {
		return err
	}

	// Warm the cache so listings work offline right away.
	cache, err := db.OpenDefault()
	if err == nil {
		ctx := context.Background()
		_ = refreshSidebar(ctx, c, cache)
		_, _ = refreshInbox(ctx, c, cache)
		_ = cache.Close()
	}

	fmt.Printf("✅ Logged in as %s\n", email)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	email, password, err := promptCredentials(true)
	if err != nil {
		return err
	}

	fmt.Println("🔄 Creating account...")
	if err := c.Register(email, password); err != nil {
		return err
	}

	fmt.Printf("✅ Account created, logged in as %s\n", email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	if !c.IsLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	if err := c.Logout(); err != nil {
		return err
	}

	// The cache belongs to the session.
	cache, err := db.OpenDefault()
	if err == nil {
		_ = cache.Clear(context.Background())
		_ = cache.Close()
	}

	fmt.Println("✅ Logged out.")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	_, email := c.CurrentUser()
	fmt.Printf("Server: %s\n", c.ServerURL())
	if c.IsLoggedIn() {
		fmt.Printf("User:   %s\n", email)
		fmt.Println("Status: ✓ Logged in")
	} else {
		fmt.Println("Status: Not logged in")
	}
	return nil
}
