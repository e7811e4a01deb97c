// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chartviz/cli/internal/charts"
	"chartviz/cli/internal/render"
	"chartviz/cli/internal/terminal"
	"chartviz/cli/internal/xdg"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	chartFlags     connFlags
	chartParams    []string
	chartX         string
	chartY         string
	chartKind      string
	chartOut       string
	chartWidth     int
	chartHeight    int
	chartNoPreview bool
	chartNoPrompt  bool
	chartSave      bool
)

// chartCmd walks the whole flow: pick an object, fill its parameters, fetch the
// rows, choose axes and draw.
var chartCmd = &cobra.Command{
	Use:   "chart [object]",
	Short: "Fetch a view or function and draw it as a chart",
	Long: `The chart command runs a view or function through the backend (or straight
against PostgreSQL with --direct) and draws the result. In a terminal it asks for anything not given on the command line: the data
object, each parameter value, the X and Y columns and the chart kind.

Examples:
  chartviz chart sales_view --x region --y total_amount
  chartviz chart get_sales_by_city --param city=Lyon --kind line --out sales.png
  chartviz chart sales_view --direct --dsn postgres://bob@localhost:5432/sales --no-prompt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		interactive := !chartNoPrompt && terminal.IsInteractive(os.Stdin)

		paramValues, err := parseParamFlags(chartParams)
		if err != nil {
			return err
		}
		kind := charts.ChartKind(app.cfg.Chart.Kind)
		if chartKind != "" {
			if kind, err = charts.ParseKind(chartKind); err != nil {
				return err
			}
		}
		var format render.Format
		if chartOut != "" {
			if format, err = render.FormatFromPath(chartOut); err != nil {
				return err
			}
		}

		c, closer, ok, err := startFlow(ctx, chartFlags, interactive)
		if err != nil || !ok {
			return err
		}
		defer closer()
		if len(c.Objects()) == 0 {
			fmt.Println("No views or functions found.")
			return nil
		}

		if err := chooseObject(ctx, c, args, interactive); err != nil {
			return err
		}
		if err := fillParameters(c, paramValues, interactive); err != nil {
			return err
		}

		rs, err := fetchRows(ctx, c)
		for err != nil && interactive && !errors.Is(err, charts.ErrStale) {
			var retried bool
			if rs, retried, err = retryWithNewConnection(ctx, c, paramValues, err); !retried {
				break
			}
		}
		if err != nil {
			return explainFailure(err, "fetching chart data")
		}
		if rs.Empty() {
			return nil
		}

		if err := chooseAxes(c, kind, interactive); err != nil {
			return err
		}
		data, ok := c.ChartData()
		if !ok {
			return errors.New("the selected columns cannot be charted; choose a numeric Y column with --y")
		}
		app.log.Debug("chart data ready",
			zap.String("object", c.Selected()),
			zap.String("x", c.Axes().X),
			zap.String("y", c.Axes().Y),
			zap.Int("points", len(data.Labels)))

		if !chartNoPreview {
			opts := render.Options{Width: terminal.Width(os.Stdout)}
			if err := render.Terminal(os.Stdout, data, opts); err != nil {
				return err
			}
		}
		out := chartOut
		if out == "" && chartSave {
			if out, err = defaultImagePath(c.Selected()); err != nil {
				return err
			}
			format = render.FormatPNG
		}
		if out != "" {
			if err := writeImage(out, format, data); err != nil {
				return err
			}
			pterm.Success.Printf("Chart saved to %s\n", out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartFlags.register(chartCmd)
	chartCmd.Flags().StringArrayVarP(&chartParams, "param", "p", nil, "Parameter value as name=value (repeatable)")
	chartCmd.Flags().StringVar(&chartX, "x", "", "Column for the X axis (labels)")
	chartCmd.Flags().StringVar(&chartY, "y", "", "Numeric column for the Y axis (values)")
	chartCmd.Flags().StringVarP(&chartKind, "kind", "k", "", "Chart kind: bar, line or radar")
	chartCmd.Flags().StringVarP(&chartOut, "out", "o", "", "Write the chart to a .png or .svg file")
	chartCmd.Flags().IntVar(&chartWidth, "width", 0, "Image width in pixels")
	chartCmd.Flags().IntVar(&chartHeight, "height", 0, "Image height in pixels")
	chartCmd.Flags().BoolVar(&chartNoPreview, "no-preview", false, "Do not draw the chart in the terminal")
	chartCmd.Flags().BoolVar(&chartNoPrompt, "no-prompt", false, "Never ask questions; use flags and defaults")
	chartCmd.Flags().BoolVar(&chartSave, "save", false, "Save a PNG under the XDG data dir when --out is not given")
}

// parseParamFlags turns name=value pairs into a map. Values may be empty.
func parseParamFlags(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q (expected name=value)", p)
		}
		out[name] = value
	}
	return out, nil
}

func chooseObject(ctx context.Context, c *charts.Configurator, args []string, interactive bool) error {
	name := c.Selected()
	switch {
	case len(args) == 1:
		name = args[0]
	case interactive:
		choice, err := pterm.DefaultInteractiveSelect.
			WithOptions(c.Objects()).
			WithDefaultOption(name).
			Show("Data object")
		if err != nil {
			return err
		}
		name = choice
	}
	if name == c.Selected() {
		return nil
	}

	var res charts.ParameterResult
	err := withSpinner("Loading parameters of "+name, func() error {
		var serr error
		res, serr = c.SelectObject(ctx, name)
		return serr
	})
	printNotices(c)
	if err != nil {
		return err
	}
	if res.Outcome == charts.ParametersFailed {
		return explainFailure(res.Err, "loading parameters")
	}
	return nil
}

func fillParameters(c *charts.Configurator, given map[string]string, interactive bool) error {
	known := map[string]bool{}
	for _, p := range c.Parameters() {
		known[p.Name] = true
		value, ok := given[p.Name]
		if !ok && interactive {
			v, err := pterm.DefaultInteractiveTextInput.Show(fmt.Sprintf("%s (%s)", charts.Humanize(p.Name), p.Type))
			if err != nil {
				return err
			}
			value = strings.TrimSpace(v)
		}
		if err := c.SetParameterValue(p.Name, value); err != nil {
			return err
		}
	}
	for name := range given {
		if !known[name] {
			pterm.Warning.Printf("%s has no parameter %q; ignored\n", c.Selected(), name)
		}
	}
	return nil
}

func fetchRows(ctx context.Context, c *charts.Configurator) (charts.RowSet, error) {
	var rs charts.RowSet
	err := withSpinner("Fetching data for "+c.Selected(), func() error {
		var ferr error
		rs, ferr = c.FetchData(ctx)
		return ferr
	})
	printNotices(c)
	return rs, err
}

// retryWithNewConnection offers to edit the connection after a failed fetch.
// When the user accepts, parameters are rediscovered on the new connection,
// filled in again and the fetch is repeated. retried is false when the user
// declined.
func retryWithNewConnection(ctx context.Context, c *charts.Configurator, given map[string]string, cause error) (rs charts.RowSet, retried bool, err error) {
	ok, perr := pterm.DefaultInteractiveConfirm.WithDefaultValue(false).Show("Edit the connection and try again?")
	if perr != nil || !ok {
		return rs, false, cause
	}
	conn, err := promptConnection(c.Connection())
	if err != nil {
		return rs, false, err
	}

	var res charts.ParameterResult
	_ = withSpinner("Reconnecting to "+conn.DBName, func() error {
		res = c.UpdateConnection(ctx, conn)
		return res.Err
	})
	printNotices(c)
	if res.Outcome == charts.ParametersFailed {
		return rs, true, res.Err
	}
	if err := fillParameters(c, given, true); err != nil {
		return rs, false, err
	}
	rs, err = fetchRows(ctx, c)
	return rs, true, err
}

// promptConnection asks for each connection field, offering the current value.
// An empty password answer keeps the current password.
func promptConnection(cur charts.ConnectionConfig) (charts.ConnectionConfig, error) {
	next := cur
	fields := []struct {
		label string
		dst   *string
	}{
		{"Host", &next.Host},
		{"Database", &next.DBName},
		{"User", &next.User},
	}
	for _, f := range fields {
		v, err := pterm.DefaultInteractiveTextInput.WithDefaultValue(*f.dst).Show(f.label)
		if err != nil {
			return cur, err
		}
		*f.dst = strings.TrimSpace(v)
	}
	pw, err := pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password (empty keeps the current one)")
	if err != nil {
		return cur, err
	}
	if pw != "" {
		next.Password = pw
	}
	return next, nil
}

func chooseAxes(c *charts.Configurator, kind charts.ChartKind, interactive bool) error {
	axes := c.Axes()
	x, y := axes.X, axes.Y

	switch {
	case chartX != "":
		x = chartX
	case interactive:
		var names []string
		for _, col := range c.Rows().Columns {
			names = append(names, col.Name)
		}
		choice, err := pterm.DefaultInteractiveSelect.WithOptions(names).WithDefaultOption(x).Show("X axis (labels)")
		if err != nil {
			return err
		}
		x = choice
	}

	numeric := c.NumericColumns()
	switch {
	case chartY != "":
		y = chartY
	case interactive && len(numeric) > 0:
		var names []string
		for _, col := range numeric {
			names = append(names, col.Name)
		}
		def := y
		if !charts.IsNumericType(columnType(c, def)) {
			def = names[0]
		}
		choice, err := pterm.DefaultInteractiveSelect.WithOptions(names).WithDefaultOption(def).Show("Y axis (values)")
		if err != nil {
			return err
		}
		y = choice
	}

	if chartKind == "" && interactive {
		opts := make([]string, len(charts.Kinds))
		for i, k := range charts.Kinds {
			opts[i] = string(k)
		}
		choice, err := pterm.DefaultInteractiveSelect.WithOptions(opts).WithDefaultOption(string(kind)).Show("Chart kind")
		if err != nil {
			return err
		}
		kind = charts.ChartKind(choice)
	}

	if x != axes.X {
		if err := c.SetXAxis(x); err != nil {
			return err
		}
	}
	if y != axes.Y {
		if err := c.SetYAxis(y); err != nil {
			return err
		}
	}
	return c.SetKind(kind)
}

func columnType(c *charts.Configurator, name string) string {
	col, _ := c.Rows().Column(name)
	return col.Type
}

func writeImage(path string, format render.Format, data *charts.ChartData) error {
	w, h := app.cfg.Chart.Width, app.cfg.Chart.Height
	if chartWidth > 0 {
		w = chartWidth
	}
	if chartHeight > 0 {
		h = chartHeight
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render.Image(f, format, data, render.Options{Width: w, Height: h}); err != nil {
		f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return f.Close()
}

// defaultImagePath names a PNG after the object inside the XDG data dir.
func defaultImagePath(object string) (string, error) {
	dir, err := xdg.DataDir()
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%s.png", object, time.Now().Format("20060102-150405"))
	return filepath.Join(dir, name), nil
}
