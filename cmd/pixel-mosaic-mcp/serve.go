package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/pixel-mosaic-mcp/internal/server"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Run the MCP server. Requests are read from stdin one per line and
responses written to stdout. Configure it in your MCP client.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}
}

func runServe(opts *options) error {
	opts.logger.Debug("starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	srv := server.NewWithConfig(server.Config{
		Version: Version,
		Logger:  opts.logger,
	})
	if err := srv.Run(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
