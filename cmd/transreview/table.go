package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// listStyle draws light box borders and prints headers as written.
var listStyle = func() table.Style {
	style := table.StyleLight
	style.Name = "transreview"
	style.Format.Header = text.FormatDefault
	style.Format.HeaderAlign = text.AlignLeft
	style.Options.SeparateRows = false
	return style
}()

// renderTable lays out rows under headers. Short rows are padded and
// columns listed in rightAligned are right-justified (counts, sizes).
func renderTable(headers []string, rows [][]string, rightAligned ...int) string {
	if len(headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(listStyle)
	tw.AppendHeader(toRow(headers, len(headers)))
	for _, row := range rows {
		tw.AppendRow(toRow(row, len(headers)))
	}

	if len(rightAligned) > 0 {
		configs := make([]table.ColumnConfig, 0, len(rightAligned))
		for _, col := range rightAligned {
			configs = append(configs, table.ColumnConfig{Number: col + 1, Align: text.AlignRight})
		}
		tw.SetColumnConfigs(configs)
	}
	return tw.Render()
}

func toRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = ""
		}
	}
	return row
}
