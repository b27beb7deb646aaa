package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmcdole/moviebuddy/internal/config"
	"github.com/mmcdole/moviebuddy/internal/domain"
	"github.com/mmcdole/moviebuddy/internal/tui/styles"
)

func newAuthCommand(ctx *commandContext) *cobra.Command {
	var force bool
	var clientID string
	var clientSecret string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in to kino.pub with a device code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			console := ctx.console(cmd)

			if clientID != "" || clientSecret != "" {
				if clientID != "" {
					cfg.KinoPub.ClientID = clientID
				}
				if clientSecret != "" {
					cfg.KinoPub.ClientSecret = clientSecret
				}
				if err := config.SaveConfig(cfg); err != nil {
					return err
				}
				console.Status(fmt.Sprintf("Saved client credentials to %s", cfg.File()), styles.ToneInfo)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			auth := ctx.authenticator()
			if !force {
				if _, err := auth.EnsureValidToken(cmd.Context()); err == nil {
					console.Status("Already authenticated.", styles.ToneSuccess)
					return nil
				}
			}

			_, err = auth.Login(cmd.Context(), func(dc *domain.DeviceCode) {
				console.Panel("Authenticate",
					fmt.Sprintf("Go to %s and enter code: %s", dc.VerificationURI, dc.UserCode),
					styles.ToneInfo)
				console.Println("Waiting for authorization...")
			})
			if err != nil {
				return err
			}

			console.Status("Successfully authenticated!", styles.ToneSuccess)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Re-authenticate even when a valid token exists")
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client id to save in the config file")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth client secret to save in the config file")
	return cmd
}
