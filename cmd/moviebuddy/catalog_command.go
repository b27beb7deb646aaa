package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mmcdole/moviebuddy/internal/domain"
	"github.com/mmcdole/moviebuddy/internal/service"
	"github.com/mmcdole/moviebuddy/internal/tui"
	"github.com/mmcdole/moviebuddy/internal/tui/styles"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Update the local catalog from kino.pub listings",
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

			if list {
				entries, err := service.NewCatalogService(nil, db, ctx.logger).List(cmd.Context())
				if err != nil {
					return err
				}
				console.Println(renderCatalog(entries))
				return nil
			}

			source, err := ctx.mediaSource(cmd.Context())
			if err != nil {
				return err
			}

			svc := service.NewCatalogService(source, db, ctx.logger)
			summary, err := svc.Update(cmd.Context(), func(category string, t domain.ContentType) {
				console.Printf("Fetching %s/%s...\n", category, t)
			})
			if err != nil {
				return err
			}
			console.Status(fmt.Sprintf("Catalog updated: %d new entries added.\nTotal catalog size: %d items.", summary.Added, summary.Total), styles.ToneSuccess)
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "Show the stored catalog instead of updating it")
	return cmd
}

func renderCatalog(entries []domain.CatalogEntry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			strconv.Itoa(e.ID),
			e.Title,
			yearText(e.Year),
			e.Type.Label(),
			ratingText(e.IMDbRating),
			ratingText(e.KinopoiskRating),
		}
	}
	return tui.RenderTable([]tui.Column{
		{Header: "ID", Align: tui.AlignRight},
		{Header: "Title", MaxWidth: tui.TitleWidth},
		{Header: "Year", Align: tui.AlignRight},
		{Header: "Type"},
		{Header: "IMDb", Align: tui.AlignRight},
		{Header: "Kinopoisk", Align: tui.AlignRight},
	}, rows)
}

func yearText(year int) string {
	if year <= 0 {
		return ""
	}
	return strconv.Itoa(year)
}

func ratingText(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}
