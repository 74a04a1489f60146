package kinematics

import (
	"math"

	"github.com/kinetools/linkrate/pkg/linkage"
)

// Position is a solved 2D point location, in the same unit as the input
// coordinates (typically pixels).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Step is the state of the linkage at one shock-stroke increment.
//
// RearTravel and LeverageRatio are pointers because they are genuinely
// optional: travel is absent when no rear-axle point is designated, and the
// leverage ratio is undefined at step zero (no previous step to difference
// against) and whenever the stroke delta is numerically zero.
type Step struct {
	// Index is the step number, 0 through Options.Steps.
	Index int `json:"step_index"`
	// ShockStroke is the stroke applied at this step.
	ShockStroke float64 `json:"shock_stroke"`
	// ShockLength is the realized eye-to-eye distance after relaxation,
	// an independent check against the driver target.
	ShockLength float64 `json:"shock_length"`
	// RearTravel is the vertical rear-axle displacement from the initial
	// pose; positive is upward.
	RearTravel *float64 `json:"rear_travel,omitempty"`
	// LeverageRatio is d(rear travel)/d(stroke) by finite difference
	// against the previous step.
	LeverageRatio *float64 `json:"leverage_ratio,omitempty"`
	// Points maps point id to its solved position.
	Points map[string]Position `json:"points"`
}

// Result is the full sweep from zero to full shock stroke.
type Result struct {
	// RearAxlePointID names the travel reference point, empty if the
	// linkage designates none.
	RearAxlePointID string `json:"rear_axle_point_id,omitempty"`
	// Steps holds one entry per stroke increment, in order.
	Steps []Step `json:"steps"`
}

// TotalTravel returns the rear travel at full stroke, or false if the
// linkage has no rear-axle point.
func (r *Result) TotalTravel() (float64, bool) {
	if len(r.Steps) == 0 {
		return 0, false
	}
	last := r.Steps[len(r.Steps)-1]
	if last.RearTravel == nil {
		return 0, false
	}
	return *last.RearTravel, true
}

// LeverageRange returns the leverage ratio at the first and last steps for
// which it is defined. The second return is false when no step has one.
func (r *Result) LeverageRange() (first, last float64, ok bool) {
	for _, s := range r.Steps {
		if s.LeverageRatio == nil {
			continue
		}
		if !ok {
			first = *s.LeverageRatio
			ok = true
		}
		last = *s.LeverageRatio
	}
	return first, last, ok
}

// Progression returns the relative leverage change across the stroke as a
// fraction of the starting ratio: positive for a progressive linkage
// (falling ratio), negative for a regressive one.
func (r *Result) Progression() (float64, bool) {
	first, last, ok := r.LeverageRange()
	if !ok || first == 0 {
		return 0, false
	}
	return (first - last) / first, true
}

// record derives the metrics for one solved pose and assembles the step.
// prev supplies the already-recorded steps for the finite difference.
func record(m *linkage.Model, prev *Result, index int, stroke float64, x, y []float64, rearY0 float64) Step {
	step := Step{
		Index:       index,
		ShockStroke: stroke,
		Points:      make(map[string]Position, m.PointCount()),
	}

	for i, id := range m.IDs {
		step.Points[id] = Position{X: x[i], Y: y[i]}
	}

	drv := m.Edges[m.DriverEdge]
	step.ShockLength = math.Hypot(x[drv.B]-x[drv.A], y[drv.B]-y[drv.A])

	if m.RearAxle >= 0 {
		travel := rearY0 - y[m.RearAxle]
		step.RearTravel = &travel

		if index > 0 {
			last := prev.Steps[len(prev.Steps)-1]
			if last.RearTravel != nil {
				ds := stroke - last.ShockStroke
				if math.Abs(ds) > minStrokeDelta {
					lr := (travel - *last.RearTravel) / ds
					step.LeverageRatio = &lr
				}
			}
		}
	}

	return step
}
