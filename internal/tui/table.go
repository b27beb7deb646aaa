package tui

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Alignment of a table column
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// TitleWidth caps title columns so long names don't push the table past
// a typical terminal
const TitleWidth = 48

// Column describes one table column. MaxWidth 0 means unbounded.
type Column struct {
	Header   string
	Align    Alignment
	MaxWidth int
}

// RenderTable renders rows in a rounded box. Headers keep the caller's
// case and follow their column's alignment. Cells past MaxWidth end in "…".
func RenderTable(columns []Column, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.Header
		align := text.AlignLeft
		if col.Align == AlignRight {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: align,
		}
		if col.MaxWidth > 0 {
			configs[i].WidthMax = col.MaxWidth
			configs[i].WidthMaxEnforcer = ellipsize
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	return tw.Render()
}

func ellipsize(s string, maxLen int) string {
	if maxLen < 1 || text.RuneWidthWithoutEscSequences(s) <= maxLen {
		return s
	}
	return text.Trim(s, maxLen-1) + "…"
}
