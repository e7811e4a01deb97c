package charts

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	apperrors "chartviz/cli/internal/errors"
	"chartviz/cli/internal/session"

	"go.uber.org/zap"
)

var (
	// ErrBusy is returned when a submission is attempted while a request is in flight.
	ErrBusy = errors.New("another request is in progress")
	// ErrStale is returned when a response arrived after a newer request was issued.
	// The response has been discarded.
	ErrStale = errors.New("response superseded by a newer request")
)

// Configurator drives the chart configuration flow against a Source.
//
// State is guarded by mu, which is never held across a call to the Source. Each
// request captures a generation number; its response is applied only if no newer
// request was issued in the meantime.
type Configurator struct {
	src  Source
	sess session.Session
	log  *zap.Logger

	mu       sync.Mutex
	conn     ConnectionConfig
	objects  []string
	selected string
	params   []ObjectParameter
	values   ParameterValues
	rows     RowSet
	axes     AxisSelection
	notices  []Notice
	gen      uint64
	inflight int
}

// Option configures a Configurator.
type Option func(*Configurator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Configurator) {
		if l != nil {
			c.log = l
		}
	}
}

// NewConfigurator returns a configurator bound to a source and a session.
func NewConfigurator(src Source, sess session.Session, conn ConnectionConfig, opts ...Option) *Configurator {
	c := &Configurator{
		src:    src,
		sess:   sess,
		log:    zap.NewNop(),
		conn:   conn,
		values: ParameterValues{},
		axes:   AxisSelection{Kind: KindBar},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Connect lists the data objects reachable with cfg and selects the first one.
// All downstream state is cleared before the request is issued.
func (c *Configurator) Connect(ctx context.Context, cfg ConnectionConfig) error {
	c.mu.Lock()
	if c.inflight > 0 {
		c.mu.Unlock()
		return ErrBusy
	}
	c.notices = nil
	if err := cfg.Validate(); err != nil {
		c.noticeLocked(LevelError, OriginConnect, err.Error())
		c.mu.Unlock()
		return apperrors.Wrap(apperrors.ConfigInvalid, "invalid connection", err)
	}
	c.conn = cfg
	c.objects = nil
	c.selected = ""
	c.resetDownstreamLocked()
	gen := c.beginLocked()
	sess := c.sess
	c.mu.Unlock()

	c.log.Debug("listing data objects", zap.String("host", cfg.Host), zap.String("db", cfg.DBName))
	objects, err := c.src.ListObjects(ctx, sess, cfg)

	c.mu.Lock()
	c.inflight--
	if gen != c.gen {
		c.mu.Unlock()
		return ErrStale
	}
	if err != nil {
		c.noticeLocked(LevelError, OriginConnect, "Could not list data objects: "+err.Error())
		c.mu.Unlock()
		return apperrors.Wrap(apperrors.ListObjectsFailed, "could not list data objects", err)
	}
	c.objects = slices.Clone(objects)
	c.noticeLocked(LevelInfo, OriginConnect, fmt.Sprintf("Connected to %s; %d data object(s) found.", cfg.DBName, len(objects)))
	first := ""
	if len(objects) > 0 {
		first = objects[0]
	}
	c.mu.Unlock()

	if first != "" {
		// Parameter discovery reports its own outcome through notices.
		if _, err := c.SelectObject(ctx, first); err != nil {
			return err
		}
	}
	return nil
}

// UpdateConnection replaces the connection fields and re-runs parameter discovery
// for the selected object.
func (c *Configurator) UpdateConnection(ctx context.Context, cfg ConnectionConfig) ParameterResult {
	c.mu.Lock()
	c.conn = cfg
	c.mu.Unlock()
	return c.LoadParameters(ctx)
}

// SelectObject changes the selected data object. Parameters, values, rows,
// columns and axes are cleared before parameter discovery starts; any response
// still in flight for the previous selection is discarded.
func (c *Configurator) SelectObject(ctx context.Context, name string) (ParameterResult, error) {
	c.mu.Lock()
	if name != "" && !slices.Contains(c.objects, name) {
		c.mu.Unlock()
		return ParameterResult{}, fmt.Errorf("unknown data object %q", name)
	}
	c.selected = name
	c.resetDownstreamLocked()
	c.gen++
	c.mu.Unlock()

	return c.LoadParameters(ctx), nil
}

// LoadParameters describes the selected object.
func (c *Configurator) LoadParameters(ctx context.Context) ParameterResult {
	c.mu.Lock()
	c.dropNoticesLocked(OriginParameters, OriginFetch, OriginAxes)
	name := c.selected
	if name == "" {
		c.params = nil
		c.values = ParameterValues{}
		c.mu.Unlock()
		return ParameterResult{Outcome: ParametersNotApplicable}
	}
	conn, sess := c.conn, c.sess
	gen := c.beginLocked()
	c.mu.Unlock()

	c.log.Debug("describing data object", zap.String("object", name))
	params, err := c.src.DescribeObject(ctx, sess, conn, name)
	res := ClassifyParameters(params, err)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if gen != c.gen {
		c.log.Debug("discarding stale parameter list", zap.String("object", name))
		return ParameterResult{Outcome: ParametersFailed, Err: ErrStale}
	}

	c.params = nil
	c.values = ParameterValues{}
	switch res.Outcome {
	case ParametersFound:
		c.params = slices.Clone(res.Parameters)
		for _, p := range res.Parameters {
			c.values[p.Name] = ""
		}
		c.noticeLocked(LevelInfo, OriginParameters, fmt.Sprintf("Parameters loaded for '%s'.", Humanize(name)))
	case ParametersNotApplicable:
		c.noticeLocked(LevelInfo, OriginParameters, fmt.Sprintf("No parameters found for '%s', or it is a view.", Humanize(name)))
	case ParametersFailed:
		c.noticeLocked(LevelError, OriginParameters, "Could not load parameters: "+res.Err.Error())
		res.Err = apperrors.Wrap(apperrors.DescribeObjectFailed, "could not load parameters", res.Err)
	}
	return res
}

// ClassifyParameters maps a describe response to one of the three outcomes.
func ClassifyParameters(params []ObjectParameter, err error) ParameterResult {
	switch {
	case err == nil && len(params) > 0:
		return ParameterResult{Outcome: ParametersFound, Parameters: params}
	case err == nil:
		return ParameterResult{Outcome: ParametersNotApplicable}
	case errors.Is(err, ErrNoParameters):
		return ParameterResult{Outcome: ParametersNotApplicable, Err: err}
	default:
		return ParameterResult{Outcome: ParametersFailed, Err: err}
	}
}

// SetParameterValue records a value for a known parameter.
func (c *Configurator) SetParameterValue(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.params {
		if p.Name == name {
			c.values[name] = value
			return nil
		}
	}
	return fmt.Errorf("unknown parameter %q", name)
}

// FetchData runs the selected object with the current parameter values and, when
// rows come back, picks default axes.
func (c *Configurator) FetchData(ctx context.Context) (RowSet, error) {
	c.mu.Lock()
	if c.inflight > 0 {
		c.mu.Unlock()
		return RowSet{}, ErrBusy
	}
	c.dropNoticesLocked(OriginFetch, OriginAxes)
	c.rows = RowSet{}
	c.axes.X, c.axes.Y = "", ""
	if c.selected == "" {
		c.noticeLocked(LevelError, OriginFetch, "Select a data object first.")
		c.mu.Unlock()
		return RowSet{}, apperrors.New(apperrors.FetchDataFailed, "no data object selected")
	}
	args := c.parameterArgsLocked()
	name, conn, sess := c.selected, c.conn, c.sess
	gen := c.beginLocked()
	c.mu.Unlock()

	c.log.Debug("fetching chart data", zap.String("object", name), zap.Int("params", len(args)))
	rs, err := c.src.FetchData(ctx, sess, conn, name, args)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if gen != c.gen {
		c.log.Debug("discarding stale row set", zap.String("object", name))
		return RowSet{}, ErrStale
	}
	if err != nil {
		c.noticeLocked(LevelError, OriginFetch, "Could not fetch chart data: "+err.Error())
		return RowSet{}, apperrors.Wrap(apperrors.FetchDataFailed, "could not fetch chart data", err)
	}

	c.rows = RowSet{Columns: slices.Clone(rs.Columns), Rows: slices.Clone(rs.Rows)}
	if c.rows.Empty() {
		c.noticeLocked(LevelInfo, OriginFetch, "No data found.")
		return c.rows, nil
	}

	choice := AutoSelectAxes(c.rows.Columns)
	c.axes.X, c.axes.Y = choice.X, choice.Y
	if choice.Unsound {
		c.noticeLocked(LevelWarning, OriginAxes,
			fmt.Sprintf("No numeric column found. '%s' was set as the default Y axis, which may not chart correctly.", Humanize(choice.Y)))
	}
	c.noticeLocked(LevelInfo, OriginFetch, fmt.Sprintf("Chart data fetched: %d row(s).", len(c.rows.Rows)))
	return c.rows, nil
}

// SetXAxis selects the X column. An empty name clears it.
func (c *Configurator) SetXAxis(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name != "" {
		if _, ok := c.rows.Column(name); !ok {
			return fmt.Errorf("unknown column %q", name)
		}
	}
	c.axes.X = name
	return nil
}

// SetYAxis selects the Y column, which must be numeric. An empty name clears it.
func (c *Configurator) SetYAxis(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name != "" {
		col, ok := c.rows.Column(name)
		if !ok {
			return fmt.Errorf("unknown column %q", name)
		}
		if !IsNumericType(col.Type) {
			return fmt.Errorf("%w: %s is %s", ErrNonNumericAxis, name, col.Type)
		}
	}
	c.axes.Y = name
	return nil
}

// SetKind selects the chart kind.
func (c *Configurator) SetKind(kind ChartKind) error {
	if _, err := ParseKind(string(kind)); err != nil {
		return err
	}
	c.mu.Lock()
	c.axes.Kind = kind
	c.mu.Unlock()
	return nil
}

// ChartData shapes the current rows with the current axes.
func (c *Configurator) ChartData() (*ChartData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return PrepareChartData(c.selected, c.rows, c.axes)
}

// Connection returns the current connection fields.
func (c *Configurator) Connection() ConnectionConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

// Objects returns the data objects found by the last successful connect.
func (c *Configurator) Objects() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.objects)
}

// Selected returns the selected data object.
func (c *Configurator) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Parameters returns the parameters of the selected object.
func (c *Configurator) Parameters() []ObjectParameter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.params)
}

// Values returns a copy of the parameter values.
func (c *Configurator) Values() ParameterValues {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(ParameterValues, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Rows returns the current row set.
func (c *Configurator) Rows() RowSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rows
}

// Axes returns the current axis selection.
func (c *Configurator) Axes() AxisSelection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.axes
}

// NumericColumns lists the columns eligible for the Y axis.
func (c *Configurator) NumericColumns() []ColumnMetadata {
	c.mu.Lock()
	defer c.mu.Unlock()
	numeric, _ := PartitionColumns(c.rows.Columns)
	return numeric
}

// Busy reports whether a request is in flight.
func (c *Configurator) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

// Notices returns the pending notices, oldest first.
func (c *Configurator) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.notices)
}

// Dismiss removes the notice at index i.
func (c *Configurator) Dismiss(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i >= 0 && i < len(c.notices) {
		c.notices = slices.Delete(c.notices, i, i+1)
	}
}

// ClearNotices removes every pending notice.
func (c *Configurator) ClearNotices() {
	c.mu.Lock()
	c.notices = nil
	c.mu.Unlock()
}

func (c *Configurator) beginLocked() uint64 {
	c.gen++
	c.inflight++
	return c.gen
}

func (c *Configurator) resetDownstreamLocked() {
	c.params = nil
	c.values = ParameterValues{}
	c.rows = RowSet{}
	c.axes.X, c.axes.Y = "", ""
}

func (c *Configurator) parameterArgsLocked() []ParameterArg {
	args := make([]ParameterArg, 0, len(c.params))
	for _, p := range c.params {
		args = append(args, ParameterArg{Name: p.Name, Value: c.values[p.Name], Type: p.Type})
	}
	return args
}

func (c *Configurator) noticeLocked(level Level, origin Origin, text string) {
	c.notices = append(c.notices, Notice{Level: level, Origin: origin, Text: text})
	c.log.Debug(text, zap.String("origin", string(origin)), zap.String("notice", string(level)))
}

func (c *Configurator) dropNoticesLocked(origins ...Origin) {
	c.notices = slices.DeleteFunc(c.notices, func(n Notice) bool {
		return slices.Contains(origins, n.Origin)
	})
}
