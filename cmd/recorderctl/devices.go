package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prsauer/wow-recorder/internal/engine"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List capturable audio devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		var devices map[string][]engine.AudioDevice
		if err := apiGet("/api/devices", &devices); err != nil {
			return err
		}

		fmt.Println("Input devices:")
		for _, dev := range devices["input"] {
			fmt.Printf("  %-30s %s\n", dev.ID, dev.Name)
		}
		fmt.Println("Output devices:")
		for _, dev := range devices["output"] {
			fmt.Printf("  %-30s %s\n", dev.ID, dev.Name)
		}
		return nil
	},
}
