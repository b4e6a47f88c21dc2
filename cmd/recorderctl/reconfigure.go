package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prsauer/wow-recorder/internal/recorder"
)

var (
	captureMode  string
	monitorIndex int
	resolution   string
	frameRate    int
	bitrateKbps  int
	encoder      string
	storageDir   string
	audioInput   string
	audioOutput  string
)

var reconfigureCmd = &cobra.Command{
	Use:   "reconfigure",
	Short: "Change recording settings",
	Long: `Apply new recording settings to the daemon.

Only the flags given change; everything else keeps its current value.
Fails while a recording is in progress.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Send only the fields the user set, so unset flags keep
		// their server-side values.
		patch := make(map[string]interface{})
		set := map[string]interface{}{
			"captureMode":       captureMode,
			"monitorIndex":      monitorIndex,
			"outputResolution":  resolution,
			"frameRate":         frameRate,
			"bitrateKbps":       bitrateKbps,
			"encoder":           encoder,
			"storageDir":        storageDir,
			"audioInputDevice":  audioInput,
			"audioOutputDevice": audioOutput,
		}
		flagNames := map[string]string{
			"captureMode":       "mode",
			"monitorIndex":      "display",
			"outputResolution":  "resolution",
			"frameRate":         "fps",
			"bitrateKbps":       "bitrate",
			"encoder":           "encoder",
			"storageDir":        "storage",
			"audioInputDevice":  "audio-input",
			"audioOutputDevice": "audio-output",
		}
		for field, value := range set {
			if cmd.Flags().Changed(flagNames[field]) {
				patch[field] = value
			}
		}
		if len(patch) == 0 {
			return fmt.Errorf("no settings given, see --help for the available flags")
		}

		var resp struct {
			State   string           `json:"state"`
			Options recorder.Options `json:"options"`
		}
		if err := apiPost("/api/reconfigure", patch, &resp); err != nil {
			return err
		}
		fmt.Printf("Reconfigured: %s capture, %s at %d fps\n",
			resp.Options.CaptureMode, resp.Options.OutputResolution, resp.Options.FrameRate)
		return nil
	},
}

func init() {
	reconfigureCmd.Flags().StringVar(&captureMode, "mode", "", "Capture mode: monitor or window")
	reconfigureCmd.Flags().IntVar(&monitorIndex, "display", 0, "Display to capture (1-based)")
	reconfigureCmd.Flags().StringVar(&resolution, "resolution", "", "Output resolution, e.g. 1920x1080")
	reconfigureCmd.Flags().IntVar(&frameRate, "fps", 0, "Frame rate")
	reconfigureCmd.Flags().IntVar(&bitrateKbps, "bitrate", 0, "Video bitrate in kbps")
	reconfigureCmd.Flags().StringVar(&encoder, "encoder", "", "Encoder id, or auto")
	reconfigureCmd.Flags().StringVar(&storageDir, "storage", "", "Recordings directory")
	reconfigureCmd.Flags().StringVar(&audioInput, "audio-input", "", "Input device id, all or none")
	reconfigureCmd.Flags().StringVar(&audioOutput, "audio-output", "", "Output device id, all or none")
}
