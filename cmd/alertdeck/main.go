package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/alertdeck/internal/client"
	"github.com/groblegark/alertdeck/internal/config"
	"github.com/groblegark/alertdeck/internal/gate"
	"github.com/groblegark/alertdeck/internal/session"
	"github.com/groblegark/alertdeck/internal/store"
	"github.com/groblegark/alertdeck/internal/ui"
)

var (
	apiURL      string
	sessionPath string
	jsonOutput  bool

	cfg         *config.Config
	mgr         *session.Manager
	alertClient client.AlertClient
)

var rootCmd = &cobra.Command{
	Use:   "alertdeck <command>",
	Short: "CLI client for the alert platform",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if apiURL == "" {
			apiURL = cfg.APIURL
		}
		if sessionPath == "" {
			sessionPath = cfg.SessionPath
		}
		if sessionPath == "" {
			sessionPath, err = session.DefaultStorePath()
			if err != nil {
				return fmt.Errorf("resolving session path: %w", err)
			}
		}

		mgr = session.NewManager(session.NewFileStore(sessionPath))
		alertClient = client.NewHTTPClient(apiURL, mgr)
		mgr.SetTransport(alertClient)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if alertClient != nil {
			alertClient.Close()
		}
	},
}

// requireCapability restores the persisted session and authorizes the
// command's required capability, translating redirect decisions into
// actionable errors.
func requireCapability(ctx context.Context, required gate.Capability) error {
	if err := mgr.Restore(ctx); err != nil {
		return err
	}
	res := gate.Authorize(required, mgr)
	switch res.Decision {
	case gate.Allow:
		return nil
	case gate.Defer:
		return fmt.Errorf("session restore still in flight; try again")
	}
	if res.Target == gate.LoginPath {
		return fmt.Errorf("no active session (run 'alertdeck login')")
	}
	u := mgr.CurrentUser()
	return fmt.Errorf("admin capability required (signed in as %s, role %s)", u.Email, u.Role)
}

// viewerScope returns the alert scope the current session is entitled to.
func viewerScope() store.Scope {
	if mgr.IsAdmin() {
		return store.ScopeAdmin
	}
	return store.ScopeUser
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "alert platform base URL (default from ALERTDECK_API_URL)")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session-file", "", "path to the persisted session file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "session", Title: "Session:"},
		&cobra.Group{ID: "alerts", Title: "Alerts:"},
		&cobra.Group{ID: "admin", Title: "Admin:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false

	// Session
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(registerCmd)

	// Alerts
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(unreadCmd)
	rootCmd.AddCommand(snoozeCmd)
	rootCmd.AddCommand(snoozedCmd)
	rootCmd.AddCommand(watchCmd)

	// Admin
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(triggerCmd)
	rootCmd.AddCommand(archiveCmd)

	// System
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
