package charts

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RGBA is a colour with an alpha in [0,1].
type RGBA struct {
	R, G, B uint8
	A       float64
}

// String renders the colour in CSS rgba() notation.
func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// SeriesStyle is presentation only; it never changes the data shape.
type SeriesStyle struct {
	Background  RGBA
	Border      RGBA
	BorderWidth int
	Fill        bool
}

// StyleFor returns the series style for a chart kind.
func StyleFor(kind ChartKind) SeriesStyle {
	st := SeriesStyle{
		Background:  RGBA{R: 75, G: 192, B: 192, A: 0.6},
		Border:      RGBA{R: 75, G: 192, B: 192, A: 1},
		BorderWidth: 1,
	}
	if kind == KindRadar {
		st.Background.A = 0.2
		st.Fill = true
	}
	return st
}

// Series is one labelled sequence of values.
type Series struct {
	Label  string
	Values []any
	Style  SeriesStyle
}

// ChartData is the declarative input of the renderers.
type ChartData struct {
	Kind   ChartKind
	Title  string
	XLabel string
	YLabel string
	Labels []any
	Series []Series
}

// PrepareChartData shapes a row set into chart data for the given axes.
//
// It returns false when there are no rows, an axis is unset, or the Y column is
// unknown or not numeric. Labels and values keep row order.
func PrepareChartData(objectName string, rs RowSet, axes AxisSelection) (*ChartData, bool) {
	if len(rs.Rows) == 0 || !axes.Complete() {
		return nil, false
	}
	yCol, ok := rs.Column(axes.Y)
	if !ok || !IsNumericType(yCol.Type) {
		return nil, false
	}

	labels := make([]any, len(rs.Rows))
	values := make([]any, len(rs.Rows))
	for i, row := range rs.Rows {
		labels[i] = row[axes.X]
		values[i] = row[axes.Y]
	}

	kind := axes.Kind
	if kind == "" {
		kind = KindBar
	}
	return &ChartData{
		Kind:   kind,
		Title:  fmt.Sprintf("%s - %s by %s", Humanize(objectName), Humanize(axes.Y), Humanize(axes.X)),
		XLabel: Humanize(axes.X),
		YLabel: Humanize(axes.Y),
		Labels: labels,
		Series: []Series{{
			Label:  Humanize(axes.Y),
			Values: values,
			Style:  StyleFor(kind),
		}},
	}, true
}

// LabelStrings formats the X labels for display. Nulls render as empty strings.
func (d *ChartData) LabelStrings() []string {
	out := make([]string, len(d.Labels))
	for i, l := range d.Labels {
		out[i] = FormatValue(l)
	}
	return out
}

// Floats converts the values of series i to float64. Values that cannot be
// converted become 0 and are counted in skipped.
func (d *ChartData) Floats(i int) (vals []float64, skipped int) {
	if i < 0 || i >= len(d.Series) {
		return nil, 0
	}
	src := d.Series[i].Values
	vals = make([]float64, len(src))
	for j, v := range src {
		f, ok := ToFloat(v)
		if !ok {
			skipped++
			continue
		}
		vals[j] = f
	}
	return vals, skipped
}

// Skipped counts the values of the first series that cannot be plotted as numbers.
// Nulls are counted too.
func (d *ChartData) Skipped() int {
	_, n := d.Floats(0)
	return n
}

// ToFloat converts a decoded JSON scalar to float64. NaN and infinities are
// rejected; they cannot be placed on an axis.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FormatValue renders a decoded JSON scalar for display.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
