// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package charts holds the chart configuration flow of the CLI: connection details,
// the data objects (views and functions) exposed by the backend, their parameters,
// the fetched row set and the axis selection used to shape chart data.
//
// Everything here is transport-agnostic. The backend package implements Source over
// HTTP; tests use in-memory fakes.
package charts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chartviz/cli/internal/session"
)

// ConnectionConfig carries the database coordinates the backend connects to.
// Field names on the wire follow the backend contract.
type ConnectionConfig struct {
	Host     string `json:"host"`
	DBName   string `json:"dbName"`
	User     string `json:"user"`
	Password string `json:"password"`
}

// Validate checks presence of the fields the backend needs. The password may be empty.
func (c ConnectionConfig) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Host) == "" {
		missing = append(missing, "host")
	}
	if strings.TrimSpace(c.DBName) == "" {
		missing = append(missing, "database name")
	}
	if strings.TrimSpace(c.User) == "" {
		missing = append(missing, "user")
	}
	if len(missing) > 0 {
		return fmt.Errorf("connection is missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// ObjectParameter describes one input a function-type data object requires.
type ObjectParameter struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ParameterArg is a parameter as sent to the data endpoint.
type ParameterArg struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

// ParameterValues maps parameter names to user supplied values.
type ParameterValues map[string]string

// ColumnMetadata describes one column of a fetched result set.
type ColumnMetadata struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Row maps column names to scalar values as decoded from JSON.
type Row map[string]any

// RowSet is a fetched result: column metadata plus rows in server order.
type RowSet struct {
	Columns []ColumnMetadata `json:"columns"`
	Rows    []Row            `json:"data"`
}

// Empty reports whether the set carries no rows.
func (rs RowSet) Empty() bool { return len(rs.Rows) == 0 }

// Column returns the metadata for name.
func (rs RowSet) Column(name string) (ColumnMetadata, bool) {
	for _, c := range rs.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnMetadata{}, false
}

// ChartKind selects the presentation of a chart.
type ChartKind string

const (
	KindBar   ChartKind = "bar"
	KindLine  ChartKind = "line"
	KindRadar ChartKind = "radar"
)

// Kinds lists the supported chart kinds in menu order.
var Kinds = []ChartKind{KindBar, KindLine, KindRadar}

// ParseKind parses a chart kind name case-insensitively.
func ParseKind(s string) (ChartKind, error) {
	k := ChartKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart kind %q (use bar, line or radar)", s)
}

// AxisSelection is the chosen X and Y columns plus the chart kind.
type AxisSelection struct {
	X    string
	Y    string
	Kind ChartKind
}

// Complete reports whether both axes are set.
func (a AxisSelection) Complete() bool { return a.X != "" && a.Y != "" }

// Source is the remote side of the configurator. Every call carries the caller's
// session explicitly.
type Source interface {
	ListObjects(ctx context.Context, sess session.Session, conn ConnectionConfig) ([]string, error)
	DescribeObject(ctx context.Context, sess session.Session, conn ConnectionConfig, object string) ([]ObjectParameter, error)
	FetchData(ctx context.Context, sess session.Session, conn ConnectionConfig, object string, params []ParameterArg) (RowSet, error)
}

// ErrNoParameters marks a describe failure that means "this object takes no
// parameters" (the object is a view) rather than a real error.
var ErrNoParameters = errors.New("object has no parameters")

// ErrNonNumericAxis is returned when a non-numeric column is chosen for the Y axis.
var ErrNonNumericAxis = errors.New("y axis requires a numeric column")
