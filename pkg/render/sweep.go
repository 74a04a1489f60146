package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/kinetools/linkrate/pkg/kinematics"
	"github.com/kinetools/linkrate/pkg/linkage"
)

const (
	defaultWidth  = 800.0
	defaultHeight = 900.0

	margin      = 40.0
	chartGap    = 60.0
	chartHeight = 260.0
)

// SweepOption configures the sweep SVG renderer.
type SweepOption func(*sweepRenderer)

type sweepRenderer struct {
	width  float64
	height float64
	poses  bool
	curves bool
	unit   string
}

// WithSize overrides the output dimensions in pixels.
func WithSize(width, height float64) SweepOption {
	return func(r *sweepRenderer) { r.width, r.height = width, height }
}

// WithPosesOnly disables the curve panel.
func WithPosesOnly() SweepOption {
	return func(r *sweepRenderer) { r.curves = false }
}

// WithCurvesOnly disables the pose overlay.
func WithCurvesOnly() SweepOption {
	return func(r *sweepRenderer) { r.poses = false }
}

// WithUnit sets the unit label used on the curve axes (e.g. "mm", "px").
func WithUnit(unit string) SweepOption {
	return func(r *sweepRenderer) { r.unit = unit }
}

// RenderSweepSVG draws a sweep as a standalone SVG: the linkage poses
// overlaid through the stroke range on top, and rear-travel plus
// leverage-ratio curves against shock stroke below.
//
// The pose overlay uses the model's pixel coordinates; the curve values are
// taken from the result as-is, so pass a millimeter-converted result (see
// units.Scale.ResultToMillimeters) together with WithUnit("mm") for
// millimeter axes.
func RenderSweepSVG(m *linkage.Model, res *kinematics.Result, opts ...SweepOption) []byte {
	r := &sweepRenderer{
		width:  defaultWidth,
		height: defaultHeight,
		poses:  true,
		curves: true,
		unit:   "px",
	}
	for _, opt := range opts {
		opt(r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	buf.WriteString(`<rect width="100%" height="100%" fill="white"/>` + "\n")

	y := margin
	if r.poses {
		poseH := r.height - 2*margin
		if r.curves {
			poseH = r.height - 2*margin - chartGap - chartHeight
		}
		r.renderPoses(&buf, m, res, y, poseH)
		y += poseH + chartGap
	}
	if r.curves {
		r.renderCurves(&buf, res, y)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderPoses draws every recorded pose of the linkage, fading older steps
// so the motion reads as a trail from rest (lightest) to full stroke.
func (r *sweepRenderer) renderPoses(buf *bytes.Buffer, m *linkage.Model, res *kinematics.Result, top, height float64) {
	minX, minY, maxX, maxY := poseBounds(m, res)
	spanX := math.Max(maxX-minX, 1e-9)
	spanY := math.Max(maxY-minY, 1e-9)

	scale := math.Min((r.width-2*margin)/spanX, height/spanY)
	tx := func(x float64) float64 { return margin + (x-minX)*scale }
	ty := func(y float64) float64 { return top + (y-minY)*scale }

	buf.WriteString(`<g stroke-linecap="round">` + "\n")
	for si, step := range res.Steps {
		opacity := 0.15 + 0.85*float64(si)/math.Max(1, float64(len(res.Steps)-1))
		for _, e := range m.Edges {
			a := step.Points[m.IDs[e.A]]
			b := step.Points[m.IDs[e.B]]
			color := "#333333"
			width := 1.5
			if e.Driver {
				color = "#cc3333"
				width = 2.5
			}
			fmt.Fprintf(buf, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.1f" opacity="%.2f"/>`+"\n",
				tx(a.X), ty(a.Y), tx(b.X), ty(b.Y), color, width, opacity)
		}
	}
	buf.WriteString("</g>\n")

	// Initial pose markers on top of the trail.
	for i, id := range m.IDs {
		fill := "#ffffff"
		if m.Fixed[i] {
			fill = "#999999"
		}
		if i == m.RearAxle {
			fill = "#4488cc"
		}
		fmt.Fprintf(buf, `<circle cx="%.2f" cy="%.2f" r="4" fill="%s" stroke="#333333"/>`+"\n",
			tx(m.X0[i]), ty(m.Y0[i]), fill)
		fmt.Fprintf(buf, `<text x="%.2f" y="%.2f" font-size="11" fill="#555555">%s</text>`+"\n",
			tx(m.X0[i])+6, ty(m.Y0[i])-6, id)
	}
}

// renderCurves draws rear travel and leverage ratio against shock stroke,
// each normalized to its own vertical range.
func (r *sweepRenderer) renderCurves(buf *bytes.Buffer, res *kinematics.Result, top float64) {
	if len(res.Steps) < 2 {
		return
	}

	left := margin
	right := r.width - margin
	bottom := top + chartHeight

	maxStroke := res.Steps[len(res.Steps)-1].ShockStroke
	if maxStroke <= 0 {
		return
	}
	tx := func(stroke float64) float64 { return left + (stroke/maxStroke)*(right-left) }

	// Axes.
	fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#888888"/>`+"\n", left, bottom, right, bottom)
	fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#888888"/>`+"\n", left, top, left, bottom)
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="12" fill="#555555">shock stroke (%s)</text>`+"\n",
		(left+right)/2-50, bottom+28, r.unit)

	travel := series(res, func(s kinematics.Step) (float64, bool) {
		if s.RearTravel == nil {
			return 0, false
		}
		return *s.RearTravel, true
	})
	leverage := series(res, func(s kinematics.Step) (float64, bool) {
		if s.LeverageRatio == nil {
			return 0, false
		}
		return *s.LeverageRatio, true
	})

	drawSeries(buf, travel, tx, top, bottom, "#4488cc", fmt.Sprintf("rear travel (%s)", r.unit), left, top-8)
	drawSeries(buf, leverage, tx, top, bottom, "#dd8822", "leverage ratio", left+180, top-8)
}

// point pairs a stroke value with a metric sample.
type point struct {
	stroke, value float64
}

func series(res *kinematics.Result, pick func(kinematics.Step) (float64, bool)) []point {
	var pts []point
	for _, s := range res.Steps {
		if v, ok := pick(s); ok {
			pts = append(pts, point{stroke: s.ShockStroke, value: v})
		}
	}
	return pts
}

func drawSeries(buf *bytes.Buffer, pts []point, tx func(float64) float64, top, bottom float64, color, label string, labelX, labelY float64) {
	if len(pts) < 2 {
		return
	}

	minV, maxV := pts[0].value, pts[0].value
	for _, p := range pts {
		minV = math.Min(minV, p.value)
		maxV = math.Max(maxV, p.value)
	}
	span := math.Max(maxV-minV, 1e-9)
	ty := func(v float64) float64 { return bottom - ((v-minV)/span)*(bottom-top) }

	var path bytes.Buffer
	for i, p := range pts {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&path, "%s%.2f %.2f ", cmd, tx(p.stroke), ty(p.value))
	}
	fmt.Fprintf(buf, `<path d="%s" fill="none" stroke="%s" stroke-width="2"/>`+"\n", path.String(), color)
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="12" fill="%s">%s [%.2f … %.2f]</text>`+"\n",
		labelX, labelY, color, label, minV, maxV)
}

// poseBounds computes the bounding box of every point across every step.
func poseBounds(m *linkage.Model, res *kinematics.Result) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, step := range res.Steps {
		for _, id := range m.IDs {
			p := step.Points[id]
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	return minX, minY, maxX, maxY
}
