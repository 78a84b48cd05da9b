package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/alertdeck/internal/gate"
	"github.com/groblegark/alertdeck/internal/model"
	"github.com/groblegark/alertdeck/internal/store"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List alerts for the current viewer",
	GroupID: "alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if err := requireCapability(ctx, gate.CapabilityUser); err != nil {
			return err
		}

		severity, _ := cmd.Flags().GetString("severity")
		status, _ := cmd.Flags().GetString("status")
		mine, _ := cmd.Flags().GetBool("mine")

		scope := viewerScope()
		if mine {
			scope = store.ScopeUser
		}
		if scope != store.ScopeAdmin && (severity != "" || status != "") {
			return fmt.Errorf("--severity and --status filters require the admin scope")
		}

		var filter *model.AlertFilter
		if scope == store.ScopeAdmin {
			filter = &model.AlertFilter{
				Severity: model.Severity(severity),
				Status:   status,
			}
		}

		st := store.New(alertClient, scope)
		alerts, err := st.Load(ctx, filter)
		if err != nil {
			return err
		}

		if jsonOutput {
			printAlertsJSON(alerts)
			return nil
		}
		printAlertTable(alerts)
		fmt.Printf("\n%d alerts (%d unread, %d snoozed)\n", len(alerts), st.UnreadCount(), st.SnoozedCount())
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("severity", "s", "", "filter by severity: Info, Warning, Critical (admin)")
	listCmd.Flags().String("status", "", "filter by status: active or expired (admin)")
	listCmd.Flags().Bool("mine", false, "list alerts addressed to me even as admin")
}
