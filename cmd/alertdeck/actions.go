package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/alertdeck/internal/gate"
	"github.com/groblegark/alertdeck/internal/store"
)

// userAction wires a recipient lifecycle command: authorize, dispatch, and
// report. The action is idempotent from the caller's perspective; current
// state comes from the reconciling reload, not the flag at click time.
func userAction(ctx context.Context, id string, verb string, run func(*store.Store, context.Context, string) error) error {
	if err := requireCapability(ctx, gate.CapabilityUser); err != nil {
		return err
	}
	st := store.New(alertClient, store.ScopeUser)
	if err := run(st, ctx, id); err != nil {
		return err
	}
	fmt.Printf("Alert %s %s (%d unread, %d snoozed)\n", id, verb, st.UnreadCount(), st.SnoozedCount())
	return nil
}

var readCmd = &cobra.Command{
	Use:     "read <alert-id>",
	Short:   "Mark an alert as read",
	GroupID: "alerts",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return userAction(context.Background(), args[0], "marked read", (*store.Store).MarkRead)
	},
}

var unreadCmd = &cobra.Command{
	Use:     "unread <alert-id>",
	Short:   "Mark an alert as unread",
	GroupID: "alerts",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return userAction(context.Background(), args[0], "marked unread", (*store.Store).MarkUnread)
	},
}

var snoozeCmd = &cobra.Command{
	Use:     "snooze <alert-id>",
	Short:   "Snooze an alert until the end of the day",
	GroupID: "alerts",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return userAction(context.Background(), args[0], "snoozed until end of day", (*store.Store).Snooze)
	},
}

var snoozedCmd = &cobra.Command{
	Use:     "snoozed",
	Short:   "List my snoozed alerts",
	GroupID: "alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if err := requireCapability(ctx, gate.CapabilityUser); err != nil {
			return err
		}
		st := store.New(alertClient, store.ScopeUser)
		alerts, err := st.Snoozed(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			printAlertsJSON(alerts)
			return nil
		}
		printAlertTable(alerts)
		fmt.Printf("\n%d snoozed alerts\n", len(alerts))
		return nil
	},
}
