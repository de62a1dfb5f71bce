package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"copydesk/internal/config"
	"copydesk/internal/daemonrun"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run is the daemon-only entrypoint for service managers that should not
// depend on the full CLI.
func run(ctx context.Context, args []string) error {
	var configPath string
	var logLevel string

	cmd := &cobra.Command{
		Use:           "copydeskd",
		Short:         "copydesk scheduled publishing daemon",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, _, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{LogLevel: logLevel})
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
