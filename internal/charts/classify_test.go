package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNumericType(t *testing.T) {
	tests := []struct {
		typeName string
		want     bool
	}{
		{"integer", true},
		{"BIGINT", true},
		{"smallint", true},
		{"bigserial", true},
		{"Numeric(10,2)", true},
		{"decimal", true},
		{"double precision", true},
		{"real", true},
		{"float8", true},
		{"interval", true},
		{"text", false},
		{"timestamp", false},
		{"varchar", false},
		{"character varying", false},
		{"date", false},
		{"boolean", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNumericType(tt.typeName))
		})
	}
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"get_customers_by_city", "Get Customers By City"},
		{"amount", "Amount"},
		{"total_EUR", "Total EUR"},
		{"a__b", "A  B"},
		{"_leading", " Leading"},
		{"été_ventes", "Été Ventes"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Humanize(tt.in))
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Radar ")
	assert.NoError(t, err)
	assert.Equal(t, KindRadar, k)

	_, err = ParseKind("pie")
	assert.Error(t, err)
}
