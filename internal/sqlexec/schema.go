// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sqlexec

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"chartviz/cli/internal/charts"
)

// objectKind tells views from functions.
type objectKind string

const (
	kindView     objectKind = "view"
	kindFunction objectKind = "function"
)

const listObjectsSQL = `
SELECT routine_name::text, 'function'::text FROM information_schema.routines
 WHERE routine_schema = $1 AND routine_type = 'FUNCTION'
UNION ALL
SELECT table_name::text, 'view'::text FROM information_schema.views
 WHERE table_schema = $1`

const describeObjectSQL = `
SELECT p.parameter_name::text, p.data_type::text
  FROM information_schema.parameters p
 WHERE p.specific_name = (
         SELECT specific_name FROM information_schema.routines
          WHERE routine_name = $1 AND routine_schema = $2
          LIMIT 1)
   AND p.parameter_mode = 'IN'
 ORDER BY p.ordinal_position`

// SchemaInspector lists and describes the views and functions of one schema.
// Object kinds and parameter lists are cached per connection; call ClearCache
// when the schema changes.
type SchemaInspector struct {
	pools *poolSet
	// Schema is the schema searched; "public" when empty.
	Schema string

	mu     sync.RWMutex
	kinds  map[string]map[string]objectKind
	params map[string]map[string][]charts.ObjectParameter
}

// newSchemaInspector creates an inspector over pools.
func newSchemaInspector(pools *poolSet) *SchemaInspector {
	return &SchemaInspector{
		pools:  pools,
		kinds:  map[string]map[string]objectKind{},
		params: map[string]map[string][]charts.ObjectParameter{},
	}
}

func (si *SchemaInspector) schema() string {
	if si.Schema == "" {
		return "public"
	}
	return si.Schema
}

// ListObjects returns function names followed by view names, as the database
// reports them.
func (si *SchemaInspector) ListObjects(ctx context.Context, conn charts.ConnectionConfig) ([]string, error) {
	pool, key, err := si.pools.get(ctx, conn)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, listObjectsSQL, si.schema())
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	defer rows.Close()

	var names []string
	kinds := map[string]objectKind{}
	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		names = append(names, name)
		kinds[name] = objectKind(kind)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	si.mu.Lock()
	si.kinds[key] = kinds
	si.mu.Unlock()
	return names, nil
}

// DescribeObject returns the IN parameters of a function in declaration order.
// Views and unknown names have none.
func (si *SchemaInspector) DescribeObject(ctx context.Context, conn charts.ConnectionConfig, object string) ([]charts.ObjectParameter, error) {
	pool, key, err := si.pools.get(ctx, conn)
	if err != nil {
		return nil, err
	}

	si.mu.RLock()
	cached, ok := si.params[key][object]
	si.mu.RUnlock()
	if ok {
		return cached, nil
	}

	params, err := describe(ctx, pool, object, si.schema())
	if err != nil {
		return nil, err
	}

	si.mu.Lock()
	if si.params[key] == nil {
		si.params[key] = map[string][]charts.ObjectParameter{}
	}
	si.params[key][object] = params
	si.mu.Unlock()
	return params, nil
}

func describe(ctx context.Context, pool *pgxpool.Pool, object, schema string) ([]charts.ObjectParameter, error) {
	rows, err := pool.Query(ctx, describeObjectSQL, object, schema)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", object, err)
	}
	defer rows.Close()

	params := []charts.ObjectParameter{}
	for rows.Next() {
		var name *string
		var typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, fmt.Errorf("describe %s: %w", object, err)
		}
		p := charts.ObjectParameter{Type: typ}
		if name != nil {
			p.Name = *name
		} else {
			p.Name = fmt.Sprintf("$%d", len(params)+1)
		}
		params = append(params, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("describe %s: %w", object, err)
	}
	return params, nil
}

// kindOf reports whether object is a view or a function, using the listing
// cache when possible.
func (si *SchemaInspector) kindOf(ctx context.Context, pool *pgxpool.Pool, key, object string) (objectKind, error) {
	si.mu.RLock()
	kind, ok := si.kinds[key][object]
	si.mu.RUnlock()
	if ok {
		return kind, nil
	}

	var isFunction bool
	err := pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.routines WHERE routine_name = $1 AND routine_schema = $2)`,
		object, si.schema()).Scan(&isFunction)
	if err != nil {
		return "", fmt.Errorf("look up %s: %w", object, err)
	}
	if isFunction {
		return kindFunction, nil
	}
	return kindView, nil
}

// ClearCache drops every cached listing and parameter list.
func (si *SchemaInspector) ClearCache() {
	si.mu.Lock()
	defer si.mu.Unlock()
	si.kinds = map[string]map[string]objectKind{}
	si.params = map[string]map[string][]charts.ObjectParameter{}
}
