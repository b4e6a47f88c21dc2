package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var encodersCmd = &cobra.Command{
	Use:   "encoders",
	Short: "List available encoders",
	Long:  `List encoder ids in the engine's order. "auto" picks the last one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp map[string][]string
		if err := apiGet("/api/encoders", &resp); err != nil {
			return err
		}
		for _, enc := range resp["encoders"] {
			fmt.Println(enc)
		}
		return nil
	},
}
