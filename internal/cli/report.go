package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mfms-ncsu/layercross/pkg/engine"
)

var (
	colorCyan  = lipgloss.Color("36")  // teal - primary values
	colorGray  = lipgloss.Color("245") // gray - secondary text
	colorDim   = lipgloss.Color("240") // dim gray - muted text
	colorWhite = lipgloss.Color("255") // bright white - values

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleValue  = lipgloss.NewStyle().Foreground(colorWhite)
)

// statsReport renders the per-stage objective table shown at the end of a
// run.
func statsReport(res *engine.Result) string {
	row := func(stage string, s engine.StageStats) []string {
		return []string{
			stage,
			fmt.Sprintf("%d", s.TotalCrossings),
			fmt.Sprintf("%d", s.BottleneckCrossings),
			fmt.Sprintf("%.3f", s.TotalStretch),
			fmt.Sprintf("%.3f", s.BottleneckStretch),
		}
	}
	rows := [][]string{
		row("beginning", res.Beginning),
		row("preprocessing", res.Preprocessing),
		row("heuristic", res.Heuristic),
		row("post-processing", res.PostProcessing),
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Stage", "Total", "Bottleneck", "Stretch", "B-Stretch").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return styleValue
		})

	var b strings.Builder
	b.WriteString(styleTitle.Render("Run statistics"))
	b.WriteString("\n")
	b.WriteString(t.String())
	b.WriteString("\n")
	return b.String()
}

// paretoReport renders the Pareto frontier as (x, y) pairs, highest x
// first, matching the order the tracker maintains.
func paretoReport(points []engine.ParetoPoint) string {
	if len(points) == 0 {
		return ""
	}
	pairs := make([]string, len(points))
	for i, p := range points {
		pairs[i] = fmt.Sprintf("(%g, %g)", p.X, p.Y)
	}
	return styleTitle.Render("Pareto frontier") + "\n" + styleValue.Render(strings.Join(pairs, " ")) + "\n"
}
