package charts

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salesRows() RowSet {
	return RowSet{
		Columns: []ColumnMetadata{{"region", "text"}, {"total_amount", "numeric"}, {"note", "text"}},
		Rows: []Row{
			{"region": "North", "total_amount": json.Number("12.5"), "note": "a"},
			{"region": "South", "total_amount": json.Number("7"), "note": "b"},
			{"region": nil, "total_amount": "n/a", "note": "c"},
		},
	}
}

func TestPrepareChartData(t *testing.T) {
	data, ok := PrepareChartData("sales_by_region", salesRows(), AxisSelection{X: "region", Y: "total_amount", Kind: KindLine})
	require.True(t, ok)

	assert.Equal(t, KindLine, data.Kind)
	assert.Equal(t, "Sales By Region - Total Amount by Region", data.Title)
	assert.Equal(t, []string{"North", "South", ""}, data.LabelStrings())
	require.Len(t, data.Series, 1)
	assert.Equal(t, "Total Amount", data.Series[0].Label)

	vals, skipped := data.Floats(0)
	assert.Equal(t, []float64{12.5, 7, 0}, vals)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 1, data.Skipped())
}

func TestPrepareChartDataRefusesIncompleteInput(t *testing.T) {
	rs := salesRows()

	_, ok := PrepareChartData("s", rs, AxisSelection{X: "region", Y: "note"})
	assert.False(t, ok, "non-numeric y")

	_, ok = PrepareChartData("s", rs, AxisSelection{X: "region", Y: "missing"})
	assert.False(t, ok, "unknown y")

	_, ok = PrepareChartData("s", rs, AxisSelection{X: "region"})
	assert.False(t, ok, "unset y")

	_, ok = PrepareChartData("s", RowSet{Columns: rs.Columns}, AxisSelection{X: "region", Y: "total_amount"})
	assert.False(t, ok, "no rows")
}

func TestPrepareChartDataDefaultsToBar(t *testing.T) {
	data, ok := PrepareChartData("s", salesRows(), AxisSelection{X: "region", Y: "total_amount"})
	require.True(t, ok)
	assert.Equal(t, KindBar, data.Kind)
}

func TestStyleFor(t *testing.T) {
	radar := StyleFor(KindRadar)
	assert.True(t, radar.Fill)
	assert.Equal(t, "rgba(75, 192, 192, 0.2)", radar.Background.String())

	for _, k := range []ChartKind{KindBar, KindLine} {
		st := StyleFor(k)
		assert.False(t, st.Fill, k)
		assert.Equal(t, "rgba(75, 192, 192, 0.6)", st.Background.String(), k)
		assert.Equal(t, "rgba(75, 192, 192, 1)", st.Border.String(), k)
		assert.Equal(t, 1, st.BorderWidth, k)
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{json.Number("3.25"), 3.25, true},
		{float64(2), 2, true},
		{int64(-4), -4, true},
		{" 1e3 ", 1000, true},
		{true, 1, true},
		{"abc", 0, false},
		{"NaN", 0, false},
		{json.Number("NaN"), 0, false},
		{json.Number("+Inf"), 0, false},
		{"-Infinity", 0, false},
		{math.Inf(1), 0, false},
		{float32(math.NaN()), 0, false},
		{"1e400", 0, false},
		{nil, 0, false},
		{map[string]any{}, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToFloat(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}
