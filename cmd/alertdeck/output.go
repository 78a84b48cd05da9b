package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/groblegark/alertdeck/internal/model"
	"github.com/groblegark/alertdeck/internal/ui"
)

func printAlertsJSON(alerts []model.Alert) {
	data, err := json.MarshalIndent(alerts, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printAlertTable(alerts []model.Alert) {
	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEVERITY\tSTATUS\tREAD\tSNOOZED\tEXPIRY\tTITLE")
	for i := range alerts {
		a := &alerts[i]
		title := a.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		expiry := ""
		if !a.ExpiryTime.IsZero() {
			expiry = a.ExpiryTime.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID,
			ui.RenderSeverity(a.Severity),
			ui.RenderStatus(a.StatusAt(now)),
			yesNo(a.IsRead),
			yesNo(a.IsSnoozed),
			expiry,
			title,
		)
	}
	w.Flush()
}

func printAlertDetail(a *model.Alert) {
	now := time.Now()
	fmt.Printf("ID:          %s\n", a.ID)
	fmt.Printf("Title:       %s\n", a.Title)
	fmt.Printf("Message:     %s\n", a.Message)
	fmt.Printf("Severity:    %s\n", ui.RenderSeverity(a.Severity))
	fmt.Printf("Status:      %s\n", ui.RenderStatus(a.StatusAt(now)))
	if a.VisibilityType != "" {
		fmt.Printf("Visibility:  %s\n", a.VisibilityType)
	}
	if a.DeliveryType != "" {
		fmt.Printf("Delivery:    %s\n", a.DeliveryType)
	}
	if a.TargetOrganization != "" {
		fmt.Printf("Target Org:  %s\n", a.TargetOrganization)
	}
	if a.ReminderEnabled {
		fmt.Printf("Reminders:   every %dh\n", a.ReminderFrequency)
	}
	fmt.Printf("Read:        %s\n", yesNo(a.IsRead))
	fmt.Printf("Snoozed:     %s\n", yesNo(a.IsSnoozed))
	if !a.CreatedAt.IsZero() {
		fmt.Printf("Created At:  %s\n", a.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	if !a.ExpiryTime.IsZero() {
		fmt.Printf("Expires At:  %s\n", a.ExpiryTime.Format("2006-01-02 15:04:05"))
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
