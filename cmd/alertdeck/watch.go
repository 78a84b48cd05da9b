package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/alertdeck/internal/gate"
	"github.com/groblegark/alertdeck/internal/model"
	"github.com/groblegark/alertdeck/internal/store"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Poll for new or changed alerts",
	GroupID: "alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")
		if interval <= 0 {
			interval = cfg.PollInterval
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := requireCapability(ctx, gate.CapabilityUser); err != nil {
			return err
		}

		st := store.New(alertClient, viewerScope())
		seen := make(map[string]string)

		if err := pollAndPrint(ctx, st, seen); err != nil {
			return err
		}
		if once {
			return nil
		}

		// The platform has no push channel; state is pulled on demand.
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(interval):
			}
			if err := pollAndPrint(ctx, st, seen); err != nil {
				return err
			}
		}
	},
}

// pollAndPrint loads the alert list, diffs it against the seen map, and
// prints anything new or changed.
func pollAndPrint(ctx context.Context, st *store.Store, seen map[string]string) error {
	alerts, err := st.Load(ctx, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil
	}
	changed := diffAlerts(alerts, seen)
	if len(changed) > 0 {
		if jsonOutput {
			printAlertsJSON(changed)
		} else {
			printAlertTable(changed)
		}
	}
	return nil
}

// diffAlerts returns alerts that are new or whose lifecycle flags changed
// since last seen. Alerts without a usable ID are skipped: an absent
// identifier cannot serve as a key. The seen map is updated in place.
func diffAlerts(alerts []model.Alert, seen map[string]string) []model.Alert {
	var changed []model.Alert
	for i := range alerts {
		a := alerts[i]
		if a.ID == "" {
			continue
		}
		fp := fingerprint(&a)
		if prev, ok := seen[a.ID]; !ok || prev != fp {
			changed = append(changed, a)
		}
		seen[a.ID] = fp
	}
	return changed
}

func fingerprint(a *model.Alert) string {
	return fmt.Sprintf("%t|%t|%t|%s", a.IsActive, a.IsRead, a.IsSnoozed, a.ExpiryTime.Format(time.RFC3339))
}

func init() {
	watchCmd.Flags().Duration("interval", 0, "polling interval (default from ALERTDECK_POLL_INTERVAL)")
	watchCmd.Flags().Bool("once", false, "exit after first poll")
}
