// Package cmd implements the command-line interface for streamsnag.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/streamsnag-cli/streamsnag/fetch"
)

// Exit codes distinguish argument, setup and request failures so callers can
// react without parsing stderr.
const (
	exitFetchArgs    = 2
	exitFetchSetup   = 3
	exitFetchRequest = 4
)

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.SetOut(os.Stdout)
}

// fetchCmd performs a one-shot browser-impersonated HTTP request.
var fetchCmd = &cobra.Command{
	Use:   "fetch [method] [url] [payload]",
	Short: "Perform a browser-impersonated HTTP request and print the body",
	Long: "Perform an HTTP request with a browser TLS fingerprint and print the response body.\n" +
		"The optional payload is a JSON object sent as query parameters for GET requests\n" +
		"and as a JSON body otherwise.",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 || len(args) > 3 {
			fmt.Fprintln(os.Stderr, "usage: fetch [method] [url] [payload]")
			os.Exit(exitFetchArgs)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		var payload map[string]any
		if len(args) == 3 && args[2] != "" {
			if err := json.Unmarshal([]byte(args[2]), &payload); err != nil {
				fmt.Fprintf(os.Stderr, "malformed payload: %v\n", err)
				os.Exit(exitFetchSetup)
			}
		}

		body, err := fetch.Do(cmd.Context(), args[0], args[1], payload)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			switch {
			case errors.Is(err, fetch.ErrSetup):
				os.Exit(exitFetchSetup)
			default:
				os.Exit(exitFetchRequest)
			}
		}

		cmd.Println(body)
	},
}
