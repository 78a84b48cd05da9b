package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groblegark/alertdeck/internal/gate"
	"github.com/groblegark/alertdeck/internal/model"
	"github.com/groblegark/alertdeck/internal/normalize"
	"github.com/groblegark/alertdeck/internal/store"
)

var showCmd = &cobra.Command{
	Use:     "show <alert-id>",
	Short:   "Show an alert's details",
	GroupID: "admin",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if err := requireCapability(ctx, gate.CapabilityAdmin); err != nil {
			return err
		}
		raw, err := alertClient.GetAlert(ctx, args[0])
		if err != nil {
			return fmt.Errorf("fetching alert: %w", err)
		}
		alert := normalize.Alert(normalize.Object(raw))
		if jsonOutput {
			printAlertsJSON([]model.Alert{alert})
			return nil
		}
		printAlertDetail(&alert)
		return nil
	},
}

var triggerCmd = &cobra.Command{
	Use:     "trigger <alert-id>",
	Short:   "Re-send an alert's delivery immediately",
	GroupID: "admin",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if err := requireCapability(ctx, gate.CapabilityAdmin); err != nil {
			return err
		}
		st := store.New(alertClient, store.ScopeAdmin)
		if err := st.Trigger(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Alert %s triggered\n", args[0])
		return nil
	},
}

var archiveCmd = &cobra.Command{
	Use:     "archive <alert-id>",
	Short:   "Archive an alert and stop its reminders",
	GroupID: "admin",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if err := requireCapability(ctx, gate.CapabilityAdmin); err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Printf("Archive alert %s? [y/N] ", args[0])
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil || !strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y") {
				fmt.Println("Aborted")
				return nil
			}
		}
		st := store.New(alertClient, store.ScopeAdmin)
		if err := st.Archive(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Alert %s archived\n", args[0])
		return nil
	},
}

func init() {
	archiveCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
}
