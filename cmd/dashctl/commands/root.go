// Package commands implements the operator commands for the dashboard response cache.
package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"dashboard.app/internal/config"
	"dashboard.app/internal/ports"
	"dashboard.app/pkg/errors"
	"github.com/spf13/cobra"
)

// StoreOpener connects to the store described by the cache configuration
type StoreOpener func(cfg *config.CacheConfig) (ports.ManagedCacheStore, error)

// CLI represents the dashctl command line interface.
type CLI struct {
	config    *config.Config
	openStore StoreOpener
	rootCmd   *cobra.Command
}

// New creates a CLI that derives keys from cfg and reaches the store through open.
func New(cfg *config.Config, open StoreOpener) *CLI {
	rootCmd := &cobra.Command{
		Use:           "dashctl",
		Short:         "Inspect the dashboard response cache",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	c := &CLI{
		config:    cfg,
		openStore: open,
		rootCmd:   rootCmd,
	}

	rootCmd.AddCommand(c.newKeyCmd())
	rootCmd.AddCommand(c.newTiersCmd())
	rootCmd.AddCommand(c.newGetCmd())
	rootCmd.AddCommand(c.newEvictCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// decodeInput parses a procedure input given on the command line.
// Numbers stay json.Number so keys match the ones the server derives.
func decodeInput(raw string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var input any
	if err := dec.Decode(&input); err != nil {
		return nil, errors.NewValidationError("input must be a JSON document: " + err.Error())
	}
	if dec.More() {
		return nil, errors.NewValidationError("input must be a single JSON document")
	}
	return input, nil
}
