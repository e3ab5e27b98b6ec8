// Package main provides the rhai command-line form client.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const defaultRelayURL = "http://localhost:10000"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rhai",
		Short:         "RHAI HR document client",
		Long:          "rhai submits HR document requests to the RHAI relay and saves the generated French documents.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("relay-url", "", "Relay base URL (overrides RHAI_RELAY_URL env var)")
	root.PersistentFlags().String("token", "", "Bearer token for the relay (overrides RHAI_RELAY_TOKEN env var)")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newHealthCmd())
	return root
}

// relaySettings resolves the relay URL and token from flags, then environment.
func relaySettings(cmd *cobra.Command) (url, token string) {
	url, _ = cmd.Flags().GetString("relay-url")
	if url == "" {
		url = os.Getenv("RHAI_RELAY_URL")
	}
	if url == "" {
		url = defaultRelayURL
	}
	token, _ = cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv("RHAI_RELAY_TOKEN")
	}
	return url, token
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
