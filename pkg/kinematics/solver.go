package kinematics

import (
	"math"

	"github.com/kinetools/linkrate/pkg/linkage"
)

const (
	// DefaultSteps is the number of stroke increments in a sweep. The
	// sweep produces DefaultSteps+1 poses, from zero to full stroke.
	DefaultSteps = 80

	// DefaultIterations is the per-step relaxation budget. Values around
	// 50-100 give visually stable convergence for typical 6-10 point
	// linkages.
	DefaultIterations = 100

	// minTargetLength floors the driver target so an over-stroked shock
	// never demands a non-positive length.
	minTargetLength = 1e-6

	// minDistance floors measured edge lengths to avoid dividing by zero
	// when two points coincide transiently during relaxation.
	minDistance = 1e-9

	// minStrokeDelta is the smallest stroke difference for which a
	// finite-difference leverage ratio is reported.
	minStrokeDelta = 1e-9
)

// Options configures a sweep. The zero value selects the defaults.
type Options struct {
	// Steps is the number of stroke increments (>= 1). The result holds
	// Steps+1 entries including the zero-stroke pose.
	Steps int

	// Iterations is the relaxation budget per step (>= 1). More
	// iterations trade cost for constraint accuracy.
	Iterations int
}

// withDefaults returns the effective options: zero fields replaced by the
// defaults, out-of-range fields floored at 1.
func (o Options) withDefaults() Options {
	if o.Steps == 0 {
		o.Steps = DefaultSteps
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	o.Steps = max(1, o.Steps)
	o.Iterations = max(1, o.Iterations)
	return o
}

// Solve sweeps the shock from zero to full stroke and records the solved
// pose plus derived metrics at every step.
//
// Positions warm-start each step from the previous step's pose, so the
// relaxation only has to absorb one stroke increment at a time. The edge
// projection order is the model's edge declaration order; changing it would
// change the numerical trajectory.
func Solve(m *linkage.Model, opts Options) *Result {
	opts = opts.withDefaults()

	x := make([]float64, m.PointCount())
	y := make([]float64, m.PointCount())
	copy(x, m.X0)
	copy(y, m.Y0)

	var rearY0 float64
	if m.RearAxle >= 0 {
		rearY0 = m.Y0[m.RearAxle]
	}

	res := &Result{Steps: make([]Step, 0, opts.Steps+1)}
	if m.RearAxle >= 0 {
		res.RearAxlePointID = m.IDs[m.RearAxle]
	}

	for i := 0; i <= opts.Steps; i++ {
		stroke := m.Stroke * (float64(i) / float64(opts.Steps))
		target := math.Max(minTargetLength, m.DriverRest-stroke)

		for it := 0; it < opts.Iterations; it++ {
			relax(m, x, y, target)
		}

		res.Steps = append(res.Steps, record(m, res, i, stroke, x, y, rearY0))
	}

	return res
}

// relax runs one Gauss-Seidel pass over every edge. Each projection moves
// endpoints directly toward the target length: a pinned endpoint absorbs no
// correction, a single free endpoint absorbs all of it, and two free
// endpoints split it evenly.
func relax(m *linkage.Model, x, y []float64, driverTarget float64) {
	for _, e := range m.Edges {
		target := e.Rest
		if e.Driver {
			target = driverTarget
		}

		dx := x[e.B] - x[e.A]
		dy := y[e.B] - y[e.A]
		dist := math.Hypot(dx, dy)
		if dist < minDistance {
			dist = minDistance
		}
		diff := (dist - target) / dist

		fa, fb := m.Fixed[e.A], m.Fixed[e.B]
		switch {
		case fa && fb:
			// Frame edge, nothing to correct.
		case fa:
			x[e.B] -= dx * diff
			y[e.B] -= dy * diff
		case fb:
			x[e.A] += dx * diff
			y[e.A] += dy * diff
		default:
			x[e.A] += dx * diff * 0.5
			y[e.A] += dy * diff * 0.5
			x[e.B] -= dx * diff * 0.5
			y[e.B] -= dy * diff * 0.5
		}
	}
}
