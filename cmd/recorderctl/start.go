package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a recording",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			State string `json:"state"`
		}
		if err := apiPost("/api/start", nil, &resp); err != nil {
			return err
		}
		fmt.Println("Recording started")
		return nil
	},
}
