package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/alertdeck/internal/gate"
)

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the current session identity",
	GroupID: "session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCapability(context.Background(), gate.CapabilityUser); err != nil {
			return err
		}
		user := mgr.CurrentUser()

		if jsonOutput {
			data, err := json.MarshalIndent(user, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}
		fmt.Printf("ID:     %s\n", user.ID)
		fmt.Printf("Name:   %s\n", user.Name)
		fmt.Printf("Email:  %s\n", user.Email)
		fmt.Printf("Role:   %s\n", user.Role)
		return nil
	},
}
