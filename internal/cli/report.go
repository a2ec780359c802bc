package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/bibnet/pkg/pipeline"
)

// printReport writes a human-readable summary of rep to w.
func printReport(w io.Writer, rep *pipeline.Report) {
	fmt.Fprintln(w, StyleTitle.Render(rep.Name))
	fmt.Fprintln(w, keyValue("Vertices", strconv.Itoa(rep.Vertices)))
	fmt.Fprintln(w, keyValue("Edges", strconv.Itoa(rep.Edges)))
	fmt.Fprintln(w, keyValue("Core", strconv.Itoa(rep.Core)))
	fmt.Fprintln(w, keyValue("Modularity", formatFloat(rep.Modularity)))
	fmt.Fprintln(w, keyValue("Insularity", formatOptional(rep.Insularity)))
	if rep.Seed != 0 {
		fmt.Fprintln(w, keyValue("Seed", strconv.FormatUint(rep.Seed, 10)))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, testTable(rep.Tests))

	for _, c := range rep.Comparisons {
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleHighlight.Render(c.Name)+StyleDim.Render(
			fmt.Sprintf("  %d vertices · %d edges · k=%d", c.Vertices, c.Edges, c.K)))
		fmt.Fprintln(w, testTable(c.Tests))
	}

	if p := rep.Partition; p != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleHighlight.Render("Two-block partition"))
		fmt.Fprintln(w, keyValue("Modularity", formatFloat(p.Modularity)))
		fmt.Fprintln(w, keyValue("Blocks", fmt.Sprintf("%d / %d", p.Sizes[1], p.Sizes[0])))
		fmt.Fprintln(w, keyValue("Core inside", fmt.Sprintf("%d of %d", p.CoreInside, rep.Core)))
	}

	if len(rep.Centrality) > 0 {
		fmt.Fprintln(w)
		rows := make([][]string, 0, len(rep.Centrality))
		for _, prof := range rep.Centrality {
			rows = append(rows, []string{
				string(prof.Measure),
				formatFloat(prof.Value.Median),
				formatFloat(prof.Tail.Median),
				formatFloat(prof.Rank.Median),
			})
		}
		fmt.Fprintln(w, newTable("Centrality", "Median value", "Median tail", "Median rank").Rows(rows...).Render())
	}

	if b := rep.Boundary; b != nil && b.Size > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, keyValue("Boundary", fmt.Sprintf("%d citing papers", b.Size)))
	}
}

func testTable(tests []pipeline.Test) string {
	rows := make([][]string, 0, len(tests))
	for _, t := range tests {
		k := "-"
		if t.K > 0 {
			k = strconv.Itoa(t.K)
		}
		status := iconFresh
		if t.Cached {
			status = iconCached
		}
		rows = append(rows, []string{
			t.Strategy,
			t.Statistic,
			k,
			formatFloat(t.Observed),
			formatFloat(t.Summary.Mean),
			formatOptional(t.Fold),
			formatP(t.P),
			status,
		})
	}
	return newTable("Strategy", "Statistic", "k", "Observed", "Mean", "Fold", "p", "").Rows(rows...).Render()
}

func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return cellStyle
		})
}

func keyValue(key, value string) string {
	return lipgloss.NewStyle().Foreground(colorGray).Width(12).Render(key) + " " + StyleValue.Render(value)
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', 4, 64)
}

func formatOptional(x *float64) string {
	if x == nil {
		return "undefined"
	}
	return formatFloat(*x)
}

// formatP marks p-values below 0.05 and 0.01 with one and two stars.
func formatP(p float64) string {
	s := formatFloat(p)
	switch {
	case p < 0.01:
		return s + " **"
	case p < 0.05:
		return s + " *"
	}
	return s
}
