package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteChart renders an HTML bar chart of proof-outline node counts and
// order-check slack per command, in the style of
// Additionnals/plot_pacs_sweep.go's parameter-sweep scatter (same library,
// a simpler one-series-per-metric bar chart since a verification run has no
// sweep dimension to scatter against). It takes a Summary rather than a
// Report so a persisted JSON run (cmd/nqpv-report-chart) and a live one
// (cmd/nqpv-verify's -chart flag) share the same rendering path.
func WriteChart(w io.Writer, s Summary) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "verification run",
			Subtitle: s.ModulePath,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "command"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "value"}),
	)

	labels := make([]string, 0, len(s.Commands))
	nodeCounts := make([]opts.BarData, 0, len(s.Commands))
	slacks := make([]opts.BarData, 0, len(s.Commands))
	for _, c := range s.Commands {
		labels = append(labels, c.Command)
		nodeCounts = append(nodeCounts, opts.BarData{Value: c.NodeCount})
		slacks = append(slacks, opts.BarData{Value: c.Slack})
	}

	bar.SetXAxis(labels).
		AddSeries("outline nodes", nodeCounts).
		AddSeries("order-check slack", slacks)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("report: rendering chart: %w", err)
	}
	return nil
}
