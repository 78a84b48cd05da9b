package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/alertdeck/internal/client"
	"github.com/groblegark/alertdeck/internal/gate"
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Show the system analytics overview",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if err := requireCapability(ctx, gate.CapabilityAdmin); err != nil {
			return err
		}
		raw, err := alertClient.SystemAnalytics(ctx)
		if err != nil {
			return fmt.Errorf("fetching analytics: %w", err)
		}

		overview := decodeOverview(raw)
		if jsonOutput {
			data, err := json.MarshalIndent(overview, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}
		fmt.Printf("Total alerts:   %d\n", overview.TotalAlerts)
		fmt.Printf("Active alerts:  %d\n", overview.ActiveAlerts)
		fmt.Printf("Read rate:      %.0f%%\n", overview.ReadRate)
		fmt.Printf("Total snoozed:  %d\n", overview.TotalSnoozed)
		return nil
	},
}

// decodeOverview tolerates the overview arriving flat, under "overview",
// or under "data.overview".
func decodeOverview(raw json.RawMessage) client.AnalyticsOverview {
	var envelope struct {
		client.AnalyticsOverview
		Overview *client.AnalyticsOverview `json:"overview"`
		Data     struct {
			Overview *client.AnalyticsOverview `json:"overview"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return client.AnalyticsOverview{}
	}
	if envelope.Data.Overview != nil {
		return *envelope.Data.Overview
	}
	if envelope.Overview != nil {
		return *envelope.Overview
	}
	return envelope.AnalyticsOverview
}
