package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prsauer/wow-recorder/internal/videos"
)

var latestOnly bool

var recordingsCmd = &cobra.Command{
	Use:   "recordings",
	Short: "List the recordings library",
	RunE: func(cmd *cobra.Command, args []string) error {
		if latestOnly {
			var latest videos.Recording
			if err := apiGet("/api/recordings/latest", &latest); err != nil {
				return err
			}
			fmt.Printf("%s  %10d  %s\n",
				latest.ModTime.Format("2006-01-02 15:04:05"), latest.SizeBytes, latest.Name)
			return nil
		}

		var recordings []videos.Recording
		if err := apiGet("/api/recordings", &recordings); err != nil {
			return err
		}
		if len(recordings) == 0 {
			fmt.Println("No recordings yet")
			return nil
		}
		for _, rec := range recordings {
			fmt.Printf("%s  %10d  %s\n",
				rec.ModTime.Format("2006-01-02 15:04:05"), rec.SizeBytes, rec.Name)
		}
		return nil
	},
}

func init() {
	recordingsCmd.Flags().BoolVar(&latestOnly, "latest", false, "Show only the most recent recording")
}
