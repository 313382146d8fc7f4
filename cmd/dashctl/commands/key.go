package commands

import (
	"fmt"

	"dashboard.app/internal/core/cache"
	"github.com/spf13/cobra"
)

func (c *CLI) newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key <procedure> <json-input>",
		Short: "Print the store key a procedure call is cached under",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := decodeInput(args[1])
			if err != nil {
				return err
			}

			cacheConfig := c.config.Cache
			if cmd.Flags().Changed("prefix") {
				cacheConfig.KeyPrefix, _ = cmd.Flags().GetString("prefix")
			}

			key, err := cache.NewKeyBuilder(cacheConfig.KeyPrefix, cacheConfig.MaxKeyLength).Build(args[0], input)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), key)
			return err
		},
	}

	cmd.Flags().String("prefix", "", "Override CACHE_KEY_PREFIX")

	return cmd
}
