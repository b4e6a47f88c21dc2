package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prsauer/wow-recorder/internal/httpServer"
	"github.com/prsauer/wow-recorder/internal/recorder"
)

var jsonOutput bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the recorder's state",
	Long:  `Display the session state, active settings and audio track layout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var status httpServer.StatusResponse
		if err := apiGet("/api/status", &status); err != nil {
			return err
		}

		if jsonOutput {
			data, err := json.MarshalIndent(status, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("State:      %s\n", status.State)
		if status.Text != "" {
			fmt.Printf("Status:     %s\n", status.Text)
		}
		if status.State == recorder.StateUninitialized {
			return nil
		}
		opts := status.Options
		fmt.Printf("Capture:    %s", opts.CaptureMode)
		if opts.CaptureMode == recorder.CaptureModeMonitor {
			fmt.Printf(" (display %d)", opts.MonitorIndex)
		}
		fmt.Println()
		fmt.Printf("Output:     %s at %d fps, %d kbps, encoder %s\n",
			opts.OutputResolution, opts.FrameRate, opts.BitrateKbps, opts.Encoder)
		fmt.Printf("Storage:    %s\n", opts.StorageDir)
		if status.VideoSize != nil {
			fmt.Printf("Source:     %dx%d\n", status.VideoSize.Width, status.VideoSize.Height)
		}
		for _, track := range status.Tracks {
			muted := ""
			if track.Muted {
				muted = " (muted)"
			}
			fmt.Printf("Track %d:    %s%s\n", track.Index, track.Device.Name, muted)
		}
		if status.LastRecording != "" {
			fmt.Printf("Last file:  %s\n", status.LastRecording)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output status as JSON")
}
