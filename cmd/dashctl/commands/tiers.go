package commands

import (
	"fmt"
	"text/tabwriter"

	"dashboard.app/internal/core/cache"
	"github.com/spf13/cobra"
)

func (c *CLI) newTiersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tiers",
		Short: "Print the TTL of every cache tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := c.config.Cache.TiersFile
			if cmd.Flags().Changed("file") {
				path, _ = cmd.Flags().GetString("file")
			}

			table, err := cache.LoadTierTable(path)
			if err != nil {
				return err
			}

			tiers := table.Tiers()
			if cmd.Flags().Changed("tier") {
				name, _ := cmd.Flags().GetString("tier")
				tier, err := cache.ParseTier(name)
				if err != nil {
					return err
				}
				tiers = []cache.Tier{tier}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, tier := range tiers {
				if _, err := fmt.Fprintf(w, "%s\t%s\n", tier, table[tier]); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringP("file", "f", "", "YAML tier override file (defaults to CACHE_TIERS_FILE)")
	cmd.Flags().StringP("tier", "t", "", "Print a single tier")

	return cmd
}
