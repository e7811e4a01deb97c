// Package sqlexec reads views and functions straight from PostgreSQL over a pgx
// connection pool. Executor implements charts.Source, so the chart flow can run
// without the chart backend; the listing, parameter and data queries mirror the
// ones the backend runs.
package sqlexec

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"chartviz/cli/internal/charts"
	"chartviz/cli/internal/dsn"
	"chartviz/cli/internal/session"
)

// DefaultConnectTimeout bounds opening a pool.
const DefaultConnectTimeout = 10 * time.Second

// poolSet keeps one single-connection pool per connection string.
type poolSet struct {
	port int

	mu    sync.Mutex
	pools map[string]*pgxpool.Pool
}

func (ps *poolSet) get(ctx context.Context, conn charts.ConnectionConfig) (*pgxpool.Pool, string, error) {
	if err := conn.Validate(); err != nil {
		return nil, "", err
	}
	key := dsn.Build(conn, ps.port, nil)

	ps.mu.Lock()
	defer ps.mu.Unlock()
	if pool, ok := ps.pools[key]; ok {
		return pool, key, nil
	}

	cfg, err := pgxpool.ParseConfig(key)
	if err != nil {
		return nil, "", fmt.Errorf("parse connection: %w", err)
	}
	cfg.MaxConns = 2
	cfg.ConnConfig.ConnectTimeout = DefaultConnectTimeout
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, "", fmt.Errorf("open pool: %w", err)
	}
	ps.pools[key] = pool
	return pool, key, nil
}

func (ps *poolSet) closeAll() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for k, p := range ps.pools {
		p.Close()
		delete(ps.pools, k)
	}
}

// Executor runs the chart flow's three calls directly against PostgreSQL.
// The session argument of each call is ignored.
type Executor struct {
	pools     *poolSet
	inspector *SchemaInspector
	types     *pgtype.Map
	log       *zap.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger used for query tracing.
func WithLogger(l *zap.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithSchema searches schema instead of public.
func WithSchema(schema string) Option {
	return func(e *Executor) { e.inspector.Schema = schema }
}

// New creates an Executor dialing port (0 means 5432).
func New(port int, opts ...Option) *Executor {
	pools := &poolSet{port: port, pools: map[string]*pgxpool.Pool{}}
	e := &Executor{
		pools:     pools,
		inspector: newSchemaInspector(pools),
		types:     pgtype.NewMap(),
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Close closes every pool opened by e.
func (e *Executor) Close() {
	e.pools.closeAll()
}

// ListObjects implements charts.Source.
func (e *Executor) ListObjects(ctx context.Context, _ session.Session, conn charts.ConnectionConfig) ([]string, error) {
	e.log.Debug("listing objects", zap.String("host", conn.Host), zap.String("db", conn.DBName))
	return e.inspector.ListObjects(ctx, conn)
}

// DescribeObject implements charts.Source. Objects without parameters report
// charts.ErrNoParameters.
func (e *Executor) DescribeObject(ctx context.Context, _ session.Session, conn charts.ConnectionConfig, object string) ([]charts.ObjectParameter, error) {
	params, err := e.inspector.DescribeObject(ctx, conn, object)
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return nil, charts.ErrNoParameters
	}
	return params, nil
}

// FetchData implements charts.Source. Function arguments are bound as query
// parameters cast to their declared types; empty values are sent as NULL.
func (e *Executor) FetchData(ctx context.Context, _ session.Session, conn charts.ConnectionConfig, object string, params []charts.ParameterArg) (charts.RowSet, error) {
	pool, key, err := e.pools.get(ctx, conn)
	if err != nil {
		return charts.RowSet{}, err
	}
	kind, err := e.inspector.kindOf(ctx, pool, key, object)
	if err != nil {
		return charts.RowSet{}, err
	}

	query, args := buildQuery(e.inspector.schema(), object, kind, params)
	e.log.Debug("fetching rows", zap.String("sql", query), zap.Int("args", len(args)))

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return charts.RowSet{}, fmt.Errorf("query %s: %w", object, err)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	rs := charts.RowSet{Columns: make([]charts.ColumnMetadata, len(fds)), Rows: []charts.Row{}}
	for i, fd := range fds {
		rs.Columns[i] = charts.ColumnMetadata{Name: fd.Name, Type: e.typeName(fd.DataTypeOID)}
	}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return charts.RowSet{}, fmt.Errorf("read %s: %w", object, err)
		}
		row := make(charts.Row, len(vals))
		for i, v := range vals {
			row[fds[i].Name] = normalizeValue(v, fds[i].DataTypeOID)
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return charts.RowSet{}, fmt.Errorf("query %s: %w", object, err)
	}
	return rs, nil
}

func (e *Executor) typeName(oid uint32) string {
	if t, ok := e.types.TypeForOID(oid); ok {
		return t.Name
	}
	return "unknown"
}

// buildQuery renders the data query for an object. Identifiers are quoted and
// every value is a bind parameter.
func buildQuery(schema, object string, kind objectKind, params []charts.ParameterArg) (string, []any) {
	target := pgx.Identifier{schema, object}.Sanitize()
	if kind != kindFunction {
		return "SELECT * FROM " + target, nil
	}

	placeholders := make([]string, len(params))
	args := make([]any, len(params))
	for i, p := range params {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		if c := castFor(p.Type); c != "" {
			placeholders[i] += "::" + c
		}
		if p.Value != "" {
			args[i] = p.Value
		}
	}
	return fmt.Sprintf("SELECT * FROM %s(%s)", target, strings.Join(placeholders, ", ")), args
}

// castFor returns a safe SQL cast for a declared parameter type, or "" when the
// type cannot be named in a cast.
func castFor(dataType string) string {
	t := strings.ToLower(strings.TrimSpace(dataType))
	if t == "" || t == "user-defined" || t == "array" {
		return ""
	}
	for _, r := range t {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == ' ' || r == '_') {
			return ""
		}
	}
	return t
}

// normalizeValue turns pgx values into the scalars the chart shaping expects:
// numbers as json.Number, dates and times as strings.
func normalizeValue(v any, oid uint32) any {
	switch x := v.(type) {
	case nil:
		return nil
	case int16:
		return json.Number(strconv.FormatInt(int64(x), 10))
	case int32:
		return json.Number(strconv.FormatInt(int64(x), 10))
	case int64:
		return json.Number(strconv.FormatInt(x, 10))
	case float32:
		return json.Number(strconv.FormatFloat(float64(x), 'f', -1, 32))
	case float64:
		return json.Number(strconv.FormatFloat(x, 'f', -1, 64))
	case pgtype.Numeric:
		if !x.Valid {
			return nil
		}
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return json.Number(strconv.FormatFloat(f.Float64, 'f', -1, 64))
	case time.Time:
		if oid == pgtype.DateOID {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.RFC3339)
	case [16]byte:
		return uuid.UUID(x).String()
	case []byte:
		return fmt.Sprintf("\\x%x", x)
	case string, bool:
		return x
	default:
		return fmt.Sprint(x)
	}
}
