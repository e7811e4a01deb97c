package charts

// AxisChoice is the result of the automatic axis heuristic.
type AxisChoice struct {
	X string
	Y string
	// Unsound is set when no numeric column exists and Y fell back to a
	// non-numeric one.
	Unsound bool
}

// PartitionColumns splits columns into numeric and other, preserving order.
func PartitionColumns(columns []ColumnMetadata) (numeric, other []ColumnMetadata) {
	for _, c := range columns {
		if IsNumericType(c.Type) {
			numeric = append(numeric, c)
		} else {
			other = append(other, c)
		}
	}
	return numeric, other
}

// AutoSelectAxes picks default X and Y columns.
//
// X is the first non-numeric column, else the first numeric one. Y is the first
// numeric column, else the first non-numeric one (flagged Unsound). With only
// numeric columns X and Y resolve to the same column.
func AutoSelectAxes(columns []ColumnMetadata) AxisChoice {
	numeric, other := PartitionColumns(columns)

	var choice AxisChoice
	switch {
	case len(other) > 0:
		choice.X = other[0].Name
	case len(numeric) > 0:
		choice.X = numeric[0].Name
	}

	switch {
	case len(numeric) > 0:
		choice.Y = numeric[0].Name
	case len(other) > 0:
		choice.Y = other[0].Name
		choice.Unsound = true
	}
	return choice
}
