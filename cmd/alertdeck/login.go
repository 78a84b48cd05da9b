package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/groblegark/alertdeck/internal/client"
	"github.com/groblegark/alertdeck/internal/gate"
	"github.com/groblegark/alertdeck/internal/ui"
)

var loginCmd = &cobra.Command{
	Use:     "login",
	Short:   "Sign in and persist the session",
	GroupID: "session",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		reader := bufio.NewReader(os.Stdin)
		if email == "" {
			fmt.Print("Email: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading email: %w", err)
			}
			email = strings.TrimSpace(line)
		}
		if password == "" {
			pw, err := readPassword(reader)
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
			password = pw
		}

		// The returned user decides the landing screen directly; no second
		// read of session state is needed.
		user, err := mgr.Login(context.Background(), email, password)
		if err != nil {
			return err
		}

		fmt.Printf("Logged in as %s <%s> (%s)\n", user.Name, user.Email, user.Role)
		fmt.Printf("Landing: %s\n", ui.RenderMuted(gate.LandingPath(user)))
		return nil
	},
}

// readPassword prompts without echo when stdin is a terminal, and falls
// back to a plain line read otherwise (piped input).
func readPassword(reader *bufio.Reader) (string, error) {
	fmt.Print("Password: ")
	if term.IsTerminal(int(syscall.Stdin)) {
		data, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "Clear the persisted session",
	GroupID: "session",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr.Logout()
		fmt.Println("Logged out")
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:     "register",
	Short:   "Create an account",
	GroupID: "session",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		role, _ := cmd.Flags().GetString("role")

		if email == "" {
			return fmt.Errorf("--email is required")
		}
		if password == "" {
			reader := bufio.NewReader(os.Stdin)
			pw, err := readPassword(reader)
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
			password = pw
		}

		req := &client.RegisterRequest{Name: name, Email: email, Password: password, Role: role}
		if _, err := alertClient.Register(context.Background(), req); err != nil {
			return fmt.Errorf("registering: %w", err)
		}
		fmt.Printf("Registered %s; run 'alertdeck login' to sign in\n", email)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "account email (prompted when omitted)")
	loginCmd.Flags().String("password", "", "account password (prompted when omitted)")

	registerCmd.Flags().String("name", "", "display name")
	registerCmd.Flags().String("email", "", "account email")
	registerCmd.Flags().String("password", "", "account password (prompted when omitted)")
	registerCmd.Flags().String("role", "", "account role (server may restrict)")
}
