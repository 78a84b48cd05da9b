package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/alertdeck/internal/client"
	"github.com/groblegark/alertdeck/internal/gate"
	"github.com/groblegark/alertdeck/internal/model"
	"github.com/groblegark/alertdeck/internal/store"
)

// createFlags registers the alert field flags shared by create and update.
// Defaults mirror the platform's create form.
func createFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("title", "t", "", "alert title (required)")
	cmd.Flags().StringP("message", "m", "", "alert message (required)")
	cmd.Flags().StringP("severity", "s", "Info", "severity: Info, Warning, Critical")
	cmd.Flags().String("delivery", "InApp", "delivery type: InApp, Email, SMS")
	cmd.Flags().String("visibility", "Organization", "visibility: Organization, Team, User")
	cmd.Flags().String("org", "default-org", "target organization")
	cmd.Flags().Bool("reminders", true, "enable periodic reminders")
	cmd.Flags().Int("reminder-hours", 2, "reminder frequency in hours")
	cmd.Flags().Duration("expires-in", 7*24*time.Hour, "expiry as an offset from now")
	cmd.Flags().String("expires-at", "", "expiry as an absolute RFC 3339 time (overrides --expires-in)")
}

func inputFromFlags(cmd *cobra.Command) (*model.CreateAlertInput, error) {
	title, _ := cmd.Flags().GetString("title")
	message, _ := cmd.Flags().GetString("message")
	severity, _ := cmd.Flags().GetString("severity")
	delivery, _ := cmd.Flags().GetString("delivery")
	visibility, _ := cmd.Flags().GetString("visibility")
	org, _ := cmd.Flags().GetString("org")
	reminders, _ := cmd.Flags().GetBool("reminders")
	reminderHours, _ := cmd.Flags().GetInt("reminder-hours")
	expiresIn, _ := cmd.Flags().GetDuration("expires-in")
	expiresAt, _ := cmd.Flags().GetString("expires-at")

	expiry := time.Now().Add(expiresIn)
	if expiresAt != "" {
		t, err := time.Parse(time.RFC3339, expiresAt)
		if err != nil {
			return nil, fmt.Errorf("parsing --expires-at: %w", err)
		}
		expiry = t
	}

	return &model.CreateAlertInput{
		Title:              title,
		Message:            message,
		Severity:           model.Severity(severity),
		DeliveryType:       model.DeliveryType(delivery),
		VisibilityType:     model.VisibilityType(visibility),
		TargetOrganization: org,
		ReminderEnabled:    reminders,
		ReminderFrequency:  reminderHours,
		ExpiryTime:         expiry,
	}, nil
}

// reportValidation prints field-level validation errors inline; they never
// touch session or store state.
func reportValidation(err error) (handled bool) {
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	for _, fe := range ve.Errors {
		fmt.Printf("  %s: %s\n", fe.Field, fe.Message)
	}
	return true
}

var createCmd = &cobra.Command{
	Use:     "create",
	Short:   "Create and schedule a new alert",
	GroupID: "admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if err := requireCapability(ctx, gate.CapabilityAdmin); err != nil {
			return err
		}
		in, err := inputFromFlags(cmd)
		if err != nil {
			return err
		}
		st := store.New(alertClient, store.ScopeAdmin)
		if err := st.Create(ctx, in); err != nil {
			if reportValidation(err) {
				return fmt.Errorf("alert not created")
			}
			return err
		}
		fmt.Printf("Alert created: %s\n", in.Title)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:     "update <alert-id>",
	Short:   "Replace an alert's fields",
	GroupID: "admin",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if err := requireCapability(ctx, gate.CapabilityAdmin); err != nil {
			return err
		}
		in, err := inputFromFlags(cmd)
		if err != nil {
			return err
		}
		if err := model.ValidateCreateAlert(in); err != nil {
			if reportValidation(err) {
				return fmt.Errorf("alert not updated")
			}
			return err
		}
		req := client.NewCreateAlertRequest(in)
		if err := alertClient.UpdateAlert(ctx, args[0], req); err != nil {
			return fmt.Errorf("updating alert: %w", err)
		}
		fmt.Printf("Alert %s updated\n", args[0])
		return nil
	},
}

func init() {
	createFlags(createCmd)
	createFlags(updateCmd)
}
