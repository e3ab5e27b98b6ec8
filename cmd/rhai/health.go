package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rhai/internal/client"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the relay is up",
		RunE: func(cmd *cobra.Command, _ []string) error {
			url, _ := relaySettings(cmd)
			hs, err := client.New(url).Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s (%s)\n", hs.Status, hs.Message, hs.Timestamp.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}
