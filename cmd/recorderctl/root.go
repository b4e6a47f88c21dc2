package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/prsauer/wow-recorder/internal/config"
)

var serverAddr string

var rootCmd = &cobra.Command{
	Use:   "recorderctl",
	Short: "Control a running recorder daemon",
	Long: `recorderctl talks to the recorder daemon's HTTP API.

It can start and stop recordings, change settings on the fly, and
inspect the daemon's devices, encoders and recordings library.`,
	Version: config.GetProgramVersion(),
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverAddr, "server", "s", "http://localhost:8090", "Address of the recorder daemon")

	// Add subcommands
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(reconfigureCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(encodersCmd)
	rootCmd.AddCommand(resolutionsCmd)
	rootCmd.AddCommand(recordingsCmd)
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

// apiGet fetches path from the daemon and decodes the JSON response
// into out when out is non-nil.
func apiGet(path string, out interface{}) error {
	resp, err := httpClient.Get(serverAddr + path)
	if err != nil {
		return fmt.Errorf("cannot reach recorder at %s: %w", serverAddr, err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

// apiPost posts body (JSON, may be nil) to path and decodes the
// response into out when out is non-nil.
func apiPost(path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	resp, err := httpClient.Post(serverAddr+path, "application/json", reader)
	if err != nil {
		return fmt.Errorf("cannot reach recorder at %s: %w", serverAddr, err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("%s", msg)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
