package chart

import (
	"slices"
	"strconv"
	"strings"
)

// Dims are the plot dimensions in SVG user units.
type Dims struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	PadX   float64 `json:"padX"`
	PadY   float64 `json:"padY"`
}

// DefaultDims matches the dashboard's sparkline viewBox.
var DefaultDims = Dims{Width: 700, Height: 140, PadX: 18, PadY: 18}

// Baseline is the y coordinate of the bottom of the plot area.
func (d Dims) Baseline() float64 { return d.Height - d.PadY }

// Point is a plotted coordinate; V is the value it was computed from.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	V float64 `json:"v"`
}

// Geometry is the sparkline for one series: the markers, the line through them
// and the closed area under the line.
type Geometry struct {
	Points   []Point `json:"points"`
	LinePath string  `json:"line"`
	AreaPath string  `json:"area"`
}

// Sparkline maps series onto d. Larger values plot higher. A flat series sits on
// the baseline, and a single value is centred horizontally. An empty series yields an
// empty Geometry.
func Sparkline(series []float64, d Dims) Geometry {
	n := len(series)
	if n == 0 {
		return Geometry{}
	}

	lo, hi := slices.Min(series), slices.Max(series)
	span := hi - lo
	if span == 0 {
		span = 1
	}

	plotW := d.Width - 2*d.PadX
	plotH := d.Height - 2*d.PadY

	x := func(i int) float64 {
		if n == 1 {
			return d.Width / 2
		}
		return d.PadX + float64(i)*plotW/float64(n-1)
	}

	points := make([]Point, n)
	for i, v := range series {
		points[i] = Point{
			X: x(i),
			Y: d.PadY + plotH*(1-(v-lo)/span),
			V: v,
		}
	}

	var line strings.Builder
	for i, p := range points {
		if i == 0 {
			line.WriteString("M ")
		} else {
			line.WriteString(" L ")
		}
		line.WriteString(fmt2(p.X))
		line.WriteByte(' ')
		line.WriteString(fmt2(p.Y))
	}

	base := fmt2(d.Baseline())
	area := line.String() +
		" L " + fmt2(points[n-1].X) + " " + base +
		" L " + fmt2(points[0].X) + " " + base + " Z"

	return Geometry{
		Points:   points,
		LinePath: line.String(),
		AreaPath: area,
	}
}

func fmt2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
