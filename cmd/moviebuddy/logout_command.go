package main

import (
	"github.com/spf13/cobra"

	"github.com/mmcdole/moviebuddy/internal/service"
	"github.com/mmcdole/moviebuddy/internal/tui/styles"
)

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token and clear cached data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := service.NewSessionService(ctx.authenticator(), cfg.Cache.Dir, ctx.logger).Logout(); err != nil {
				return err
			}
			ctx.console(cmd).Status("Logged out.", styles.ToneSuccess)
			return nil
		},
	}
}
