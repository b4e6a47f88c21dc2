package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resolutionsCmd = &cobra.Command{
	Use:   "resolutions",
	Short: "List supported resolutions",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp map[string][]string
		if err := apiGet("/api/resolutions", &resp); err != nil {
			return err
		}
		fmt.Println("Base canvas:")
		for _, res := range resp["base"] {
			fmt.Printf("  %s\n", res)
		}
		fmt.Println("Output:")
		for _, res := range resp["output"] {
			fmt.Printf("  %s\n", res)
		}
		return nil
	},
}
