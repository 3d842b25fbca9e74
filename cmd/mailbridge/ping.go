package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailbridge/pkg/health"
)

func newPingCmd(load appLoader) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check provider credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}

			resp := health.Run(cmd.Context(), a.Checks,
				health.WithTimeout(timeout),
				health.WithLogger(a.Logger),
			)
			if err := writeJSON(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
			return resp.Err()
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "time allowed for all checks")
	return cmd
}
