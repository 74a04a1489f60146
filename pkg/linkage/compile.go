package linkage

import (
	"math"

	"github.com/kinetools/linkrate/pkg/errors"
)

// Edge is one compiled distance constraint between two point indices.
// Rest is the target length at zero stroke; Driver marks the single shock
// edge whose target length is varied by the solver.
type Edge struct {
	A, B   int
	Rest   float64
	Driver bool
}

// Model is the solver-ready form of a linkage: an index-addressed arena of
// initial coordinates, per-point fixed flags, and the compiled constraint
// edges in declaration order. Models are immutable once compiled; the solver
// copies the coordinate arrays for each sweep.
type Model struct {
	// IDs maps point index back to point id, in input order.
	IDs []string
	// X0, Y0 are the initial coordinates, indexed like IDs.
	X0, Y0 []float64
	// Fixed flags pinned points (frame, bottom bracket, fixed bodies).
	Fixed []bool
	// Edges holds every distance constraint in declaration order. The
	// relaxation is Gauss-Seidel, so this order is part of the contract.
	Edges []Edge

	// RearAxle is the index of the rear-axle point, or -1 if none.
	RearAxle int
	// DriverEdge is the index into Edges of the shock constraint.
	DriverEdge int
	// DriverRest is the shock rest length at zero stroke.
	DriverRest float64
	// Stroke is the total compressible shock travel, in coordinate units.
	Stroke float64
}

// PointCount returns the number of points in the model.
func (m *Model) PointCount() int { return len(m.IDs) }

// EdgeCount returns the number of compiled constraints.
func (m *Model) EdgeCount() int { return len(m.Edges) }

// Compile validates a linkage definition and builds its constraint model.
//
// Validation failures are structured errors from the errors package, one
// distinct code per condition: empty point or body sets, duplicate point
// ids, a body referencing an unknown point, a shock without a stroke, a
// shock not spanning exactly two points, more than one shock, or no shock
// at all.
//
// Bodies with fewer than two points are skipped; they are annotations, not
// structure. A closed chain of more than two points gets a wrap-around
// segment. Segment rest lengths come from the initial coordinates unless
// the body supplies Length0 (for a shock, the eye-to-eye length).
func Compile(l *Linkage) (*Model, error) {
	if len(l.Points) == 0 {
		return nil, errors.New(errors.ErrCodeNoPoints, "no points defined for this linkage")
	}
	if len(l.Bodies) == 0 {
		return nil, errors.New(errors.ErrCodeNoBodies, "no rigid bodies defined for this linkage")
	}

	idx := make(map[string]int, len(l.Points))
	for i, p := range l.Points {
		if _, dup := idx[p.ID]; dup {
			return nil, errors.New(errors.ErrCodeDuplicatePoint, "duplicate point id %q", p.ID)
		}
		idx[p.ID] = i
	}

	m := &Model{
		IDs:        make([]string, len(l.Points)),
		X0:         make([]float64, len(l.Points)),
		Y0:         make([]float64, len(l.Points)),
		Fixed:      make([]bool, len(l.Points)),
		RearAxle:   -1,
		DriverEdge: -1,
	}
	for i, p := range l.Points {
		m.IDs[i] = p.ID
		m.X0[i] = p.X
		m.Y0[i] = p.Y
		m.Fixed[i] = p.Kind.Pinned()
		if p.Kind == PointRearAxle && m.RearAxle < 0 {
			m.RearAxle = i
		}
	}

	for bi := range l.Bodies {
		body := &l.Bodies[bi]
		if len(body.PointIDs) < 2 {
			continue
		}

		// Frame bodies pin every member point, regardless of the
		// point's own kind.
		if body.Kind == BodyFixed {
			for _, pid := range body.PointIDs {
				pi, ok := idx[pid]
				if !ok {
					return nil, errors.New(errors.ErrCodeUnknownPoint,
						"body %q references unknown point %q", body.ID, pid)
				}
				m.Fixed[pi] = true
			}
		}

		if body.Kind == BodyShock && len(body.PointIDs) != 2 {
			return nil, errors.New(errors.ErrCodeShockPoints,
				"shock body %q must connect exactly 2 points, has %d", body.ID, len(body.PointIDs))
		}

		for _, seg := range segments(body) {
			ia, ok := idx[seg.a]
			if !ok {
				return nil, errors.New(errors.ErrCodeUnknownPoint,
					"body %q references unknown point %q", body.ID, seg.a)
			}
			ib, ok := idx[seg.b]
			if !ok {
				return nil, errors.New(errors.ErrCodeUnknownPoint,
					"body %q references unknown point %q", body.ID, seg.b)
			}

			rest := math.Hypot(m.X0[ib]-m.X0[ia], m.Y0[ib]-m.Y0[ia])
			if body.Length0 != nil {
				rest = *body.Length0
			}

			if body.Kind == BodyShock {
				if body.Stroke == nil {
					return nil, errors.New(errors.ErrCodeMissingStroke,
						"shock body %q must define a stroke", body.ID)
				}
				if m.DriverEdge >= 0 {
					return nil, errors.New(errors.ErrCodeMultipleShocks,
						"multiple shock bodies found; only one driver is supported")
				}
				m.Edges = append(m.Edges, Edge{A: ia, B: ib, Rest: rest, Driver: true})
				m.DriverEdge = len(m.Edges) - 1
				m.DriverRest = rest
				m.Stroke = *body.Stroke
				continue
			}

			m.Edges = append(m.Edges, Edge{A: ia, B: ib, Rest: rest})
		}
	}

	if m.DriverEdge < 0 {
		return nil, errors.New(errors.ErrCodeNoShock,
			"no shock body found; need exactly one body with type \"shock\"")
	}

	return m, nil
}

// segment is one consecutive point-id pair of a body chain.
type segment struct {
	a, b string
}

// segments splits a body's point chain into consecutive pairs, adding the
// wrap-around pair for closed chains of more than two points.
func segments(body *Body) []segment {
	pids := body.PointIDs
	segs := make([]segment, 0, len(pids))
	for i := 0; i+1 < len(pids); i++ {
		segs = append(segs, segment{a: pids[i], b: pids[i+1]})
	}
	if body.Closed && len(pids) > 2 {
		segs = append(segs, segment{a: pids[len(pids)-1], b: pids[0]})
	}
	return segs
}
