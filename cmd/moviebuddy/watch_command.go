package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/moviebuddy/internal/browser"
	"github.com/mmcdole/moviebuddy/internal/domain"
	"github.com/mmcdole/moviebuddy/internal/service"
	"github.com/mmcdole/moviebuddy/internal/tui/styles"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "watch <name>",
		Short: "Open a title, or a random episode of a series, in the browser",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			console := ctx.console(cmd)
			name := strings.Join(args, " ")

			source, err := ctx.mediaSource(cmd.Context())
			if err != nil {
				return err
			}
			cache := ctx.itemCache()
			if cache != nil {
				defer cache.Close()
			}

			resolver := service.NewResolveService(source, source, console, ctx.logger)
			res, err := resolver.Resolve(cmd.Context(), name)
			if errors.Is(err, domain.ErrNoResults) {
				console.Status(fmt.Sprintf("No results found for '%s'", name), styles.ToneError)
				return errReported
			}
			if err != nil {
				return err
			}
			if res.Reason != "" {
				console.Status("Auto-selected: "+res.Reason, styles.ToneInfo)
			}

			launcher := browser.NewLauncher(cfg.Browser.Command, cfg.Browser.Args, ctx.logger)
			playback := service.NewPlaybackService(launcher, source, cache, nil, cfg.KinoPub.WebBase, ctx.logger)
			sel, err := playback.Open(cmd.Context(), *res.Content, refresh)
			if errors.Is(err, domain.ErrNoEpisodes) {
				console.Status("No episodes found for this series.", styles.ToneError)
				return errReported
			}
			if sel == nil {
				return err
			}

			if sel.Episode == nil {
				console.Panel("Movie", sel.Content.DisplayTitle(), styles.ToneSuccess)
			} else {
				console.Panel("Random Episode",
					fmt.Sprintf("%s\n%s: %s", sel.Content.Title, sel.Episode.Code(), sel.Episode.Title),
					styles.ToneSuccess)
			}

			if errors.Is(err, domain.ErrNoBrowser) {
				console.Status("No browser found. Open this URL manually: "+sel.URL, styles.ToneWarn)
				return errReported
			}
			if err != nil {
				return err
			}
			console.Status("Opening "+sel.URL, styles.ToneInfo)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the item cache and refetch episode lists")
	return cmd
}
