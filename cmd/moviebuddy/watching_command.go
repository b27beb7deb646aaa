package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/moviebuddy/internal/domain"
	"github.com/mmcdole/moviebuddy/internal/search"
	"github.com/mmcdole/moviebuddy/internal/tui"
	"github.com/mmcdole/moviebuddy/internal/tui/styles"
)

func newWatchingCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watching [query]",
		Short: "List titles you are watching, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			console := ctx.console(cmd)

			source, err := ctx.mediaSource(cmd.Context())
			if err != nil {
				return err
			}
			serials, err := source.GetWatchingSerials(cmd.Context())
			if err != nil {
				return err
			}
			movies, err := source.GetWatchingMovies(cmd.Context())
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			items := search.FilterWatching(append(serials, movies...), query)
			if len(items) == 0 {
				if query != "" {
					console.Status("Nothing in your watching list matches '"+query+"'.", styles.ToneWarn)
				} else {
					console.Status("Your watching list is empty.", styles.ToneInfo)
				}
				return nil
			}

			console.Println(renderWatching(items))
			return nil
		},
	}
}

func renderWatching(items []domain.WatchingItem) string {
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{strconv.Itoa(it.ID), it.Title, it.Type.Label(), it.Progress()}
	}
	return tui.RenderTable([]tui.Column{
		{Header: "ID", Align: tui.AlignRight},
		{Header: "Title", MaxWidth: tui.TitleWidth},
		{Header: "Type"},
		{Header: "Watched", Align: tui.AlignRight},
	}, rows)
}
