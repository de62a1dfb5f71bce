package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"copydesk/internal/preflight"
	"copydesk/internal/store"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, database, and notification endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var db preflight.HealthChecker
			st, openErr := store.Open(cfg)
			if openErr == nil {
				defer st.Close()
				db = st
			}

			results := preflight.RunAll(cmd.Context(), cfg, db)
			if openErr != nil {
				for i := range results {
					if results[i].Name == "Database" {
						results[i].Detail = openErr.Error()
					}
				}
			}
			results = append(results, preflight.SchedulerDetail(cfg))
			if cfg.Notifications.NtfyTopic == "" {
				results = append(results, preflight.CheckNtfyFromConfig(cmd.Context(), cfg))
			}

			if err := emit(ctx, cmd, results, func() error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, result := range results {
					fmt.Fprintln(out, renderCheck(result, colorize))
				}
				return nil
			}); err != nil {
				return err
			}
			if !preflight.AllPassed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}
