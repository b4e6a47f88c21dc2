package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the active recording",
	Long:  `Stop the active recording and wait for the file to be finalized on disk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			State     string `json:"state"`
			Recording string `json:"recording"`
		}
		if err := apiPost("/api/stop", nil, &resp); err != nil {
			return err
		}
		if resp.Recording != "" {
			fmt.Printf("Recording saved: %s\n", resp.Recording)
		} else {
			fmt.Println("Recording stopped")
		}
		return nil
	},
}
