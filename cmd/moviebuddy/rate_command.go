package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmcdole/moviebuddy/internal/service"
	"github.com/mmcdole/moviebuddy/internal/tui/styles"
)

func newRateCommand(ctx *commandContext) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Rate titles from your watching list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			console := ctx.console(cmd)

			db, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			source, err := ctx.mediaSource(cmd.Context())
			if err != nil {
				return err
			}

			svc := service.NewRatingService(source, db, ctx.logger)
			if reset {
				if err := svc.Reset(cmd.Context()); err != nil {
					return err
				}
				console.Status("Cleared all ratings.", styles.ToneWarn)
			}

			summary, err := svc.Run(cmd.Context(), console)
			if err != nil {
				return err
			}
			if summary.Offered == 0 {
				console.Status("No more movies to rate. Watch more content on kino.pub!", styles.ToneInfo)
				return nil
			}
			console.Status(fmt.Sprintf("Rated %d movies. Total ratings: %d.", summary.Rated, summary.Total), styles.ToneSuccess)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Delete all stored ratings before rating")
	return cmd
}
