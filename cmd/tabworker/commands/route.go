package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route <path>",
		Short: "Resolve a /<bucket>/<session>/<path> request against its manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.app.Route(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
}
