package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var flags globalFlags

	ctx := newCommandContext(&flags)

	rootCmd := &cobra.Command{
		Use:           "copydesk",
		Short:         "Editorial workflow engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutputFormat(flags.output); err != nil {
				return err
			}
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	pf.StringVarP(&flags.output, "output", "o", outputTable, "Output format: table, json, or yaml")
	pf.StringVar(&flags.actorID, "actor", "", "Acting user ID (default $COPYDESK_ACTOR or $USER)")
	pf.StringVar(&flags.actorName, "actor-name", "", "Acting user display name")
	pf.StringVar(&flags.role, "role", "", "Acting user role (default $COPYDESK_ROLE)")

	rootCmd.AddCommand(newArticleCommand(ctx))
	rootCmd.AddCommand(newWorkflowCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newDaemonCommand(ctx))
	rootCmd.AddCommand(newTestNotifyCommand(ctx))

	return rootCmd
}
