// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package render draws chart data either as a terminal preview or as an image file.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"chartviz/cli/internal/charts"
)

// Default image size in pixels.
const (
	DefaultWidth  = 1024
	DefaultHeight = 576
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no chart data to render")

// Format is an image encoding.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// FormatFromPath picks the image format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".svg":
		return FormatSVG, nil
	case "":
		return "", fmt.Errorf("output file %q has no extension (use .png or .svg)", path)
	default:
		return "", fmt.Errorf("unsupported image format %q (use .png or .svg)", filepath.Ext(path))
	}
}

func (f Format) provider() (chart.RendererProvider, error) {
	switch f {
	case FormatPNG:
		return chart.PNG, nil
	case FormatSVG:
		return chart.SVG, nil
	}
	return nil, fmt.Errorf("unsupported image format %q", string(f))
}

// Options controls output size. Zero values fall back to defaults: pixels for
// images, terminal columns for previews.
type Options struct {
	Width  int
	Height int
}

func (o Options) imageSize() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// Image encodes data as a PNG or SVG chart.
func Image(w io.Writer, format Format, data *charts.ChartData, opts Options) error {
	if data == nil || len(data.Series) == 0 || len(data.Labels) == 0 {
		return ErrNoData
	}
	rp, err := format.provider()
	if err != nil {
		return err
	}
	switch data.Kind {
	case charts.KindLine:
		return lineImage(rp, w, data, opts)
	case charts.KindRadar:
		return radarImage(rp, w, data, opts)
	default:
		return barImage(rp, w, data, opts)
	}
}

func barImage(rp chart.RendererProvider, w io.Writer, data *charts.ChartData, opts Options) error {
	vals, _ := data.Floats(0)
	labels := data.LabelStrings()
	st := data.Series[0].Style
	width, height := opts.imageSize()

	barStyle := chart.Style{
		FillColor:   toColor(st.Background),
		StrokeColor: toColor(st.Border),
		StrokeWidth: float64(st.BorderWidth),
	}
	bars := make([]chart.Value, len(vals))
	for i, v := range vals {
		bars[i] = chart.Value{Label: labels[i], Value: v, Style: barStyle}
	}

	lo, hi := valueRange(vals, true)
	bc := chart.BarChart{
		Title:        data.Title,
		Width:        width,
		Height:       height,
		Background:   chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 24}},
		XAxis:        chart.Shown(),
		YAxis:        chart.YAxis{Name: data.YLabel, Range: &chart.ContinuousRange{Min: lo, Max: hi}},
		UseBaseValue: lo < 0,
		BaseValue:    0,
		Bars:         bars,
	}
	return bc.Render(rp, w)
}

func lineImage(rp chart.RendererProvider, w io.Writer, data *charts.ChartData, opts Options) error {
	ys, _ := data.Floats(0)
	labels := data.LabelStrings()
	st := data.Series[0].Style
	width, height := opts.imageSize()

	xs := make([]float64, len(ys))
	ticks := make([]chart.Tick, len(ys))
	for i := range ys {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: labels[i]}
	}
	// A single point still needs a non-empty X domain.
	if len(ys) == 1 {
		xs = append(xs, 1)
		ys = append(ys, ys[0])
	}

	lo, hi := valueRange(ys, false)
	ch := chart.Chart{
		Title:      data.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 24}},
		XAxis: chart.XAxis{
			Name:  data.XLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: math.Max(float64(len(xs)-1), 1)},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  data.YLabel,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    data.Series[0].Label,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: toColor(st.Border),
					StrokeWidth: float64(st.BorderWidth) + 1,
					DotColor:    toColor(st.Border),
					DotWidth:    3,
				},
			},
		},
	}
	return ch.Render(rp, w)
}

func radarImage(rp chart.RendererProvider, w io.Writer, data *charts.ChartData, opts Options) error {
	vals, _ := data.Floats(0)
	labels := data.LabelStrings()
	st := data.Series[0].Style
	width, height := opts.imageSize()

	r, err := rp(width, height)
	if err != nil {
		return err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}
	r.SetDPI(chart.DefaultDPI)
	r.SetFont(font)

	r.SetFillColor(drawing.ColorWhite)
	r.SetStrokeColor(drawing.ColorWhite)
	r.SetStrokeWidth(0)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	const titleSpace, labelSpace = 48, 72
	cx := width / 2
	cy := titleSpace + (height-titleSpace)/2
	radius := float64(min(width, height-titleSpace))/2 - labelSpace
	if radius < 10 {
		radius = 10
	}

	_, hi := valueRange(vals, true)
	if hi <= 0 {
		hi = 1
	}
	geom := radarGeometry{cx: cx, cy: cy, radius: radius, n: len(vals)}

	// Grid rings and spokes.
	r.SetStrokeColor(chart.ColorAlternateLightGray)
	r.SetStrokeWidth(1)
	for ring := 1; ring <= 4; ring++ {
		frac := float64(ring) / 4
		for i := 0; i < geom.n; i++ {
			x, y := geom.point(i, frac)
			if i == 0 {
				r.MoveTo(x, y)
			} else {
				r.LineTo(x, y)
			}
		}
		r.Close()
		r.Stroke()
	}
	for i := 0; i < geom.n; i++ {
		x, y := geom.point(i, 1)
		r.MoveTo(cx, cy)
		r.LineTo(x, y)
		r.Stroke()
	}

	// Data polygon. Negative values sit on the centre.
	r.SetFillColor(toColor(st.Background))
	r.SetStrokeColor(toColor(st.Border))
	r.SetStrokeWidth(float64(st.BorderWidth))
	for i, v := range vals {
		x, y := geom.point(i, math.Max(v, 0)/hi)
		if i == 0 {
			r.MoveTo(x, y)
		} else {
			r.LineTo(x, y)
		}
	}
	r.Close()
	if st.Fill {
		r.FillStroke()
	} else {
		r.Stroke()
	}

	r.SetFontColor(chart.ColorBlack)
	r.SetFontSize(chart.DefaultFontSize)
	for i, label := range labels {
		x, y := geom.point(i, 1)
		box := r.MeasureText(label)
		switch {
		case x < cx-2:
			x -= box.Width() + 6
		case x > cx+2:
			x += 6
		default:
			x -= box.Width() / 2
		}
		if y > cy {
			y += box.Height() + 4
		} else {
			y -= 4
		}
		r.Text(label, x, y)
	}

	if data.Title != "" {
		r.SetFontSize(chart.DefaultTitleFontSize)
		tb := r.MeasureText(data.Title)
		r.Text(data.Title, (width-tb.Width())/2, titleSpace/2+tb.Height()/2)
	}
	return r.Save(w)
}

type radarGeometry struct {
	cx, cy int
	radius float64
	n      int
}

// point returns the position of spoke i at frac of the radius. Spoke 0 points up.
func (g radarGeometry) point(i int, frac float64) (int, int) {
	angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(g.n)
	d := g.radius * frac
	return g.cx + int(math.Round(d*math.Cos(angle))), g.cy + int(math.Round(d*math.Sin(angle)))
}

// valueRange returns plot bounds for vals. With withZero the range always
// includes 0. The range is never empty.
func valueRange(vals []float64, withZero bool) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(vals) == 0 {
		lo, hi = 0, 0
	}
	if withZero {
		lo = math.Min(lo, 0)
		hi = math.Max(hi, 0)
	}
	if hi == lo {
		if lo == 0 {
			hi = 1
		} else {
			pad := math.Abs(lo) * 0.1
			lo, hi = lo-pad, hi+pad
		}
	}
	return lo, hi
}

func toColor(c charts.RGBA) drawing.Color {
	a := math.Round(math.Max(0, math.Min(1, c.A)) * 255)
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: uint8(a)}
}
