package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// logLevelEnv overrides the default log level when --log-level is not given.
const logLevelEnv = "PIXEL_MOSAIC_LOG_LEVEL"

// options holds flags shared by every command.
type options struct {
	logLevel string
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "pixel-mosaic-mcp",
		Short: "Palette quantize, pixelate and resample images",
		Long: `pixel-mosaic-mcp turns images into palette-limited pixel mosaics.

Without a subcommand it runs as an MCP server on stdin/stdout. The process
command applies the same transforms to files from the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := opts.logLevel
			if !cmd.Flags().Changed("log-level") {
				if env := os.Getenv(logLevelEnv); env != "" {
					level = env
				}
			}
			lvl, err := parseLevel(level)
			if err != nil {
				return err
			}
			opts.logger = newLogger(lvl)
			slog.SetDefault(opts.logger)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn",
		"log level: debug, info, warn or error (env "+logLevelEnv+")")

	root.AddCommand(newServeCmd(opts), newProcessCmd(opts), newVersionCmd())
	return root
}

// newLogger returns a text logger on stderr. Stdout carries the MCP protocol.
func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
