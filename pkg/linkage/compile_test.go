package linkage

import (
	"math"
	"testing"

	"github.com/kinetools/linkrate/pkg/errors"
)

func fptr(v float64) *float64 { return &v }

// fourBar returns a minimal single-pivot layout: two frame points, a
// rocker pivot, a rear axle, one shock between frame and rocker.
func fourBar() *Linkage {
	return &Linkage{
		Points: []Point{
			{ID: "bb", Kind: PointBottomBracket, X: 0, Y: 0},
			{ID: "shock_mount", Kind: PointFixed, X: 0, Y: 100},
			{ID: "rocker", Kind: PointFree, X: 100, Y: 100},
			{ID: "axle", Kind: PointRearAxle, X: 200, Y: 0},
		},
		Bodies: []Body{
			{ID: "chainstay", Kind: BodyBar, PointIDs: []string{"bb", "axle"}},
			{ID: "seatstay", Kind: BodyBar, PointIDs: []string{"axle", "rocker"}},
			{ID: "shock", Kind: BodyShock, PointIDs: []string{"shock_mount", "rocker"}, Stroke: fptr(50)},
		},
	}
}

func TestCompile(t *testing.T) {
	m, err := Compile(fourBar())
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if got, want := m.PointCount(), 4; got != want {
		t.Errorf("PointCount() = %d, want %d", got, want)
	}
	if got, want := m.EdgeCount(), 3; got != want {
		t.Errorf("EdgeCount() = %d, want %d", got, want)
	}

	// bb and shock_mount pinned, rocker and axle free
	wantFixed := []bool{true, true, false, false}
	for i, f := range wantFixed {
		if m.Fixed[i] != f {
			t.Errorf("Fixed[%d] = %v, want %v", i, m.Fixed[i], f)
		}
	}

	if m.RearAxle != 3 {
		t.Errorf("RearAxle = %d, want 3", m.RearAxle)
	}
	if m.DriverEdge != 2 {
		t.Errorf("DriverEdge = %d, want 2", m.DriverEdge)
	}
	if !m.Edges[2].Driver {
		t.Error("driver edge not flagged")
	}
	if m.Stroke != 50 {
		t.Errorf("Stroke = %v, want 50", m.Stroke)
	}

	// Shock spans (0,100)-(100,100): rest length 100.
	if math.Abs(m.DriverRest-100) > 1e-12 {
		t.Errorf("DriverRest = %v, want 100", m.DriverRest)
	}
	// Chainstay spans (0,0)-(200,0): rest length 200.
	if math.Abs(m.Edges[0].Rest-200) > 1e-12 {
		t.Errorf("Edges[0].Rest = %v, want 200", m.Edges[0].Rest)
	}
}

func TestCompileLength0Override(t *testing.T) {
	l := fourBar()
	l.Bodies[2].Length0 = fptr(120)

	m, err := Compile(l)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if m.DriverRest != 120 {
		t.Errorf("DriverRest = %v, want 120 (length0 override)", m.DriverRest)
	}

	// The override applies to plain bars as well.
	l = fourBar()
	l.Bodies[0].Length0 = fptr(210)
	m, err = Compile(l)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if m.Edges[0].Rest != 210 {
		t.Errorf("Edges[0].Rest = %v, want 210 (length0 override)", m.Edges[0].Rest)
	}
}

func TestCompileEdgeOrder(t *testing.T) {
	// Gauss-Seidel relaxation depends on declaration order; the compiler
	// must preserve it exactly.
	m, err := Compile(fourBar())
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	want := []struct{ a, b int }{{0, 3}, {3, 2}, {1, 2}}
	for i, w := range want {
		if m.Edges[i].A != w.a || m.Edges[i].B != w.b {
			t.Errorf("Edges[%d] = (%d,%d), want (%d,%d)", i, m.Edges[i].A, m.Edges[i].B, w.a, w.b)
		}
	}
}

func TestCompileClosedBody(t *testing.T) {
	l := fourBar()
	l.Bodies = append(l.Bodies, Body{
		ID:       "triangle",
		Kind:     BodyBar,
		PointIDs: []string{"bb", "rocker", "axle"},
		Closed:   true,
	})

	m, err := Compile(l)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	// 3 original edges + 2 chain segments + 1 wrap-around
	if got, want := m.EdgeCount(), 6; got != want {
		t.Errorf("EdgeCount() = %d, want %d", got, want)
	}
	last := m.Edges[5]
	if last.A != 3 || last.B != 0 {
		t.Errorf("wrap-around edge = (%d,%d), want (3,0)", last.A, last.B)
	}
}

func TestCompileFixedBodyPinsMembers(t *testing.T) {
	l := fourBar()
	l.Bodies = append(l.Bodies, Body{
		ID:       "frame",
		Kind:     BodyFixed,
		PointIDs: []string{"bb", "rocker"},
	})

	m, err := Compile(l)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !m.Fixed[2] {
		t.Error("rocker should be pinned by the fixed frame body")
	}
}

func TestCompileSkipsShortBodies(t *testing.T) {
	l := fourBar()
	l.Bodies = append(l.Bodies, Body{ID: "marker", Kind: BodyBar, PointIDs: []string{"bb"}})

	m, err := Compile(l)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if got, want := m.EdgeCount(), 3; got != want {
		t.Errorf("EdgeCount() = %d, want %d (single-point body must be skipped)", got, want)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Linkage)
		code   errors.Code
	}{
		{
			name:   "no points",
			mutate: func(l *Linkage) { l.Points = nil },
			code:   errors.ErrCodeNoPoints,
		},
		{
			name:   "no bodies",
			mutate: func(l *Linkage) { l.Bodies = nil },
			code:   errors.ErrCodeNoBodies,
		},
		{
			name:   "duplicate point id",
			mutate: func(l *Linkage) { l.Points[1].ID = "bb" },
			code:   errors.ErrCodeDuplicatePoint,
		},
		{
			name:   "unknown point in bar",
			mutate: func(l *Linkage) { l.Bodies[0].PointIDs = []string{"bb", "nope"} },
			code:   errors.ErrCodeUnknownPoint,
		},
		{
			name: "unknown point in fixed body",
			mutate: func(l *Linkage) {
				l.Bodies = append(l.Bodies, Body{ID: "frame", Kind: BodyFixed, PointIDs: []string{"bb", "nope"}})
			},
			code: errors.ErrCodeUnknownPoint,
		},
		{
			name:   "missing stroke",
			mutate: func(l *Linkage) { l.Bodies[2].Stroke = nil },
			code:   errors.ErrCodeMissingStroke,
		},
		{
			name: "two shocks",
			mutate: func(l *Linkage) {
				l.Bodies = append(l.Bodies, Body{
					ID: "shock2", Kind: BodyShock,
					PointIDs: []string{"bb", "rocker"}, Stroke: fptr(40),
				})
			},
			code: errors.ErrCodeMultipleShocks,
		},
		{
			name: "shock with three points",
			mutate: func(l *Linkage) {
				l.Bodies[2].PointIDs = []string{"shock_mount", "rocker", "axle"}
			},
			code: errors.ErrCodeShockPoints,
		},
		{
			name:   "no shock",
			mutate: func(l *Linkage) { l.Bodies = l.Bodies[:2] },
			code:   errors.ErrCodeNoShock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := fourBar()
			tt.mutate(l)
			_, err := Compile(l)
			if err == nil {
				t.Fatal("Compile() error = nil, want validation failure")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("error code = %v, want %v (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestShockAndRearAxleAccessors(t *testing.T) {
	l := fourBar()
	if s := l.Shock(); s == nil || s.ID != "shock" {
		t.Errorf("Shock() = %v, want shock body", s)
	}
	if p := l.RearAxle(); p == nil || p.ID != "axle" {
		t.Errorf("RearAxle() = %v, want axle point", p)
	}

	l.Points[3].Kind = PointFree
	if p := l.RearAxle(); p != nil {
		t.Errorf("RearAxle() = %v, want nil", p)
	}
}
