package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// tableSpec describes one rendered table. Footer is optional.
type tableSpec struct {
	headers []string
	rows    [][]string
	aligns  []columnAlignment
	footer  []string
	// merge collapses repeated values in the given 1-based columns.
	merge []int
}

func renderTable(spec tableSpec) string {
	columns := len(spec.headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(toRow(spec.headers, columns))
	for _, row := range spec.rows {
		tw.AppendRow(toRow(row, columns))
	}
	if len(spec.footer) > 0 {
		tw.AppendFooter(toRow(spec.footer, columns))
	}

	merged := make(map[int]bool, len(spec.merge))
	for _, n := range spec.merge {
		merged[n] = true
	}
	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(spec.aligns) && spec.aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			AlignFooter: align,
			AutoMerge:   merged[i+1],
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func toRow(values []string, columns int) table.Row {
	row := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		if i < len(values) {
			row[i] = values[i]
		} else {
			row[i] = ""
		}
	}
	return row
}
