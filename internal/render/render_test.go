package render

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartviz/cli/internal/charts"
)

func sampleData(kind charts.ChartKind) *charts.ChartData {
	rs := charts.RowSet{
		Columns: []charts.ColumnMetadata{{Name: "city", Type: "text"}, {Name: "total_sales", Type: "numeric"}},
		Rows: []charts.Row{
			{"city": "Lyon", "total_sales": json.Number("120.5")},
			{"city": "Nantes", "total_sales": json.Number("80")},
			{"city": "Lille", "total_sales": "42"},
			{"city": nil, "total_sales": nil},
		},
	}
	data, ok := charts.PrepareChartData("get_sales_by_city", rs, charts.AxisSelection{X: "city", Y: "total_sales", Kind: kind})
	if !ok {
		panic("sample data did not shape")
	}
	return data
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out.png", FormatPNG, false},
		{"/tmp/Chart.PNG", FormatPNG, false},
		{"chart.svg", FormatSVG, false},
		{"chart.jpg", "", true},
		{"chart", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImage_AllKindsPNG(t *testing.T) {
	for _, kind := range charts.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			var buf bytes.Buffer
			err := Image(&buf, FormatPNG, sampleData(kind), Options{Width: 640, Height: 400})
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")), "expected PNG signature")
		})
	}
}

func TestImage_SVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Image(&buf, FormatSVG, sampleData(charts.KindBar), Options{}))
	assert.Contains(t, buf.String(), "<svg")
}

func TestImage_FlatValuesStillRender(t *testing.T) {
	rs := charts.RowSet{
		Columns: []charts.ColumnMetadata{{Name: "day", Type: "date"}, {Name: "n", Type: "integer"}},
		Rows:    []charts.Row{{"day": "2024-01-01", "n": json.Number("0")}},
	}
	for _, kind := range charts.Kinds {
		data, ok := charts.PrepareChartData("daily", rs, charts.AxisSelection{X: "day", Y: "n", Kind: kind})
		require.True(t, ok)
		var buf bytes.Buffer
		assert.NoError(t, Image(&buf, FormatPNG, data, Options{}), string(kind))
	}
}

func TestImage_NonFiniteValuesPlotAsZero(t *testing.T) {
	for _, bad := range []any{json.Number("NaN"), json.Number("+Inf"), "NaN", math.Inf(-1)} {
		rs := charts.RowSet{
			Columns: []charts.ColumnMetadata{{Name: "sensor", Type: "text"}, {Name: "reading", Type: "double precision"}},
			Rows: []charts.Row{
				{"sensor": "a", "reading": json.Number("1")},
				{"sensor": "b", "reading": bad},
			},
		}
		for _, kind := range charts.Kinds {
			data, ok := charts.PrepareChartData("readings", rs, charts.AxisSelection{X: "sensor", Y: "reading", Kind: kind})
			require.True(t, ok)
			assert.Equal(t, 1, data.Skipped(), "%v %s", bad, kind)

			done := make(chan error, 1)
			go func() {
				var buf bytes.Buffer
				done <- Image(&buf, FormatPNG, data, Options{Width: 320, Height: 200})
			}()
			select {
			case err := <-done:
				assert.NoError(t, err, "%v %s", bad, kind)
			case <-time.After(10 * time.Second):
				t.Fatalf("render of %v as %s did not finish", bad, kind)
			}
		}
	}
}

func TestImage_NoData(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Image(&buf, FormatPNG, nil, Options{}), ErrNoData)
	assert.ErrorIs(t, Image(&buf, FormatPNG, &charts.ChartData{}, Options{}), ErrNoData)
}

func TestImage_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Image(&buf, Format("gif"), sampleData(charts.KindBar), Options{}))
}

func TestValueRange(t *testing.T) {
	lo, hi := valueRange([]float64{3, 7}, true)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 7.0, hi)

	lo, hi = valueRange([]float64{3, 7}, false)
	assert.Equal(t, 3.0, lo)
	assert.Equal(t, 7.0, hi)

	lo, hi = valueRange([]float64{5}, false)
	assert.Less(t, lo, hi)

	lo, hi = valueRange(nil, true)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)

	lo, hi = valueRange([]float64{-4, 2}, true)
	assert.Equal(t, -4.0, lo)
	assert.Equal(t, 2.0, hi)
}

func TestToColor(t *testing.T) {
	c := toColor(charts.RGBA{R: 75, G: 192, B: 192, A: 0.2})
	assert.Equal(t, uint8(75), c.R)
	assert.Equal(t, uint8(192), c.G)
	assert.Equal(t, uint8(51), c.A)

	assert.Equal(t, uint8(255), toColor(charts.RGBA{A: 3}).A)
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil))
	assert.Equal(t, "▁█", Sparkline([]float64{1, 9}))
	assert.Equal(t, "▅▅▅", Sparkline([]float64{2, 2, 2}))
	assert.Equal(t, "▁▅█", Sparkline([]float64{0, 5, 10}))
}

func TestTerminal(t *testing.T) {
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)

	for _, kind := range charts.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Terminal(&buf, sampleData(kind), Options{Width: 60, Height: 8}))
			out := buf.String()
			assert.Contains(t, out, "Get Sales By City - Total Sales by City")
			assert.Contains(t, out, "Nantes")
			assert.Contains(t, out, "120.5")
			assert.Contains(t, out, "1 value(s) in Total Sales are not numeric")
		})
	}
}

func TestTerminal_AllZero(t *testing.T) {
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)

	rs := charts.RowSet{
		Columns: []charts.ColumnMetadata{{Name: "k", Type: "text"}, {Name: "v", Type: "int4"}},
		Rows:    []charts.Row{{"k": "a", "v": json.Number("0")}, {"k": "b", "v": json.Number("0")}},
	}
	data, ok := charts.PrepareChartData("zeros", rs, charts.AxisSelection{X: "k", Y: "v"})
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, Terminal(&buf, data, Options{}))
	assert.Contains(t, buf.String(), "all values are zero")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
