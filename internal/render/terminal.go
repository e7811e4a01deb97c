package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pterm/pterm"

	"chartviz/cli/internal/charts"
)

const (
	defaultColumns  = 80
	defaultRows     = 12
	maxBarLabel     = 14
	barResolution   = 100
	sparklineBlocks = "▁▂▃▄▅▆▇█"
)

// Terminal prints a preview of data followed by a table of the plotted values.
func Terminal(w io.Writer, data *charts.ChartData, opts Options) error {
	if data == nil || len(data.Series) == 0 || len(data.Labels) == 0 {
		return ErrNoData
	}
	vals, skipped := data.Floats(0)
	labels := data.LabelStrings()
	st := data.Series[0].Style
	accent := pterm.NewRGB(st.Border.R, st.Border.G, st.Border.B)

	fmt.Fprintln(w)
	fmt.Fprintln(w, pterm.Bold.Sprint(data.Title))
	fmt.Fprintln(w)

	var body string
	var err error
	switch data.Kind {
	case charts.KindLine:
		body = accent.Sprint(Sparkline(vals)) + "\n" + lineFooter(labels, vals)
	case charts.KindRadar:
		body, err = barsBody(labels, vals, true, opts)
	default:
		body, err = barsBody(labels, vals, false, opts)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(w, body)

	table, err := valueTable(data, labels)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, table)

	if skipped > 0 {
		fmt.Fprintln(w, pterm.Warning.Sprintf("%d value(s) in %s are not numeric and were plotted as 0", skipped, data.YLabel))
	}
	return nil
}

func barsBody(labels []string, vals []float64, horizontal bool, opts Options) (string, error) {
	var maxAbs float64
	for _, v := range vals {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}
	if maxAbs == 0 {
		return pterm.FgGray.Sprint("(all values are zero)"), nil
	}

	bars := make(pterm.Bars, len(vals))
	for i, v := range vals {
		bars[i] = pterm.Bar{
			Label: truncate(labels[i], maxBarLabel),
			Value: int(math.Round(v / maxAbs * barResolution)),
			Style: pterm.NewStyle(pterm.FgCyan),
		}
	}

	cols := opts.Width
	if cols <= 0 {
		cols = defaultColumns
	}
	rows := opts.Height
	if rows <= 0 {
		rows = defaultRows
	}

	printer := pterm.DefaultBarChart.WithBars(bars)
	if horizontal {
		printer = printer.WithHorizontal().WithWidth(max(cols-maxBarLabel-4, 10))
	} else {
		printer = printer.WithHeight(rows)
	}
	return printer.Srender()
}

func lineFooter(labels []string, vals []float64) string {
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := labels[0]
	if len(labels) > 1 {
		span += " → " + labels[len(labels)-1]
	}
	return pterm.FgGray.Sprintf("%s  (min %s, max %s)", span, formatFloat(lo), formatFloat(hi))
}

// Sparkline maps values onto block characters between their minimum and maximum.
func Sparkline(vals []float64) string {
	if len(vals) == 0 {
		return ""
	}
	blocks := []rune(sparklineBlocks)
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	var sb strings.Builder
	for _, v := range vals {
		idx := len(blocks) / 2
		if hi > lo {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(len(blocks)-1)))
		}
		sb.WriteRune(blocks[idx])
	}
	return sb.String()
}

func valueTable(data *charts.ChartData, labels []string) (string, error) {
	td := pterm.TableData{{data.XLabel, data.YLabel}}
	for i, l := range labels {
		td = append(td, []string{l, charts.FormatValue(data.Series[0].Values[i])})
	}
	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(td).Srender()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func formatFloat(f float64) string {
	return charts.FormatValue(f)
}
