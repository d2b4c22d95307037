package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/radar-clutter/internal/labels"
	"github.com/banshee-data/radar-clutter/internal/pipeline"
)

var labelColors = map[labels.ClutterLabel]string{
	labels.Clutter:      "#e4572e",
	labels.MovingObject: "#29335c",
	labels.Stationary:   "#a8c686",
}

// RenderHTML writes a page with a stacked bar of label counts per sequence
// and a bar of the clutter share per sequence. Sequences without labels are
// left out.
func RenderHTML(w io.Writer, s *pipeline.Summary) error {
	var (
		names                       []string
		clutter, moving, stationary []opts.BarData
		fractions                   []opts.BarData
	)
	for _, r := range s.Results {
		if r.Counts.Total() == 0 {
			continue
		}
		names = append(names, r.Name)
		clutter = append(clutter, opts.BarData{Value: r.Counts.Clutter})
		moving = append(moving, opts.BarData{Value: r.Counts.MovingObject})
		stationary = append(stationary, opts.BarData{Value: r.Counts.Stationary})
		fractions = append(fractions, opts.BarData{Value: fmt.Sprintf("%.2f", 100*ClutterFraction(r))})
	}

	st := Compute(s)
	subtitle := fmt.Sprintf("sequences=%d detections=%d clutter=%.1f%%", st.Sequences, st.Detections, 100*st.ClutterFraction)
	if s.DryRun {
		subtitle += " (dry run)"
	}

	counts := charts.NewBar()
	counts.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Clutter Labels", Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Labels per sequence", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "sequence"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "detections"}),
	)
	counts.SetXAxis(names)
	for _, series := range []struct {
		label labels.ClutterLabel
		data  []opts.BarData
	}{
		{labels.Clutter, clutter},
		{labels.MovingObject, moving},
		{labels.Stationary, stationary},
	} {
		counts.AddSeries(series.label.String(), series.data,
			charts.WithBarChartOpts(opts.BarChart{Stack: "labels"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: labelColors[series.label]}),
		)
	}

	share := charts.NewBar()
	share.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Clutter share", Subtitle: fmt.Sprintf("mean=%.1f%% std=%.1f%%", 100*st.MeanClutterFraction, 100*st.StdClutterFraction)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "%", Min: 0, Max: 100}),
	)
	share.SetXAxis(names).
		AddSeries("clutter %", fractions,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: labelColors[labels.Clutter]}),
		)

	page := components.NewPage()
	page.PageTitle = "Clutter Labels"
	page.AddCharts(counts, share)
	return page.Render(w)
}
