package cli

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/kinetools/linkrate/pkg/errors"
	"github.com/kinetools/linkrate/pkg/kinematics"
)

const calibratedDef = `
name: test rig
scale_mm_per_px: 0.5
points:
  - {id: mount, type: fixed, x: 0, y: 0}
  - {id: axle, type: rear_axle, x: 0, y: 200}
bodies:
  - id: shock
    type: shock
    point_ids: [mount, axle]
    stroke: 50
`

func writeDef(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rig.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadModelCalibration(t *testing.T) {
	l, err := loadModel(writeDef(t, calibratedDef))
	if err != nil {
		t.Fatalf("loadModel() error = %v", err)
	}

	if !l.calibrated() {
		t.Fatal("calibrated() = false, want true")
	}
	// 50 mm at 0.5 mm/px is 100 px of stroke in the compiled model.
	if l.model.Stroke != 100 {
		t.Errorf("model stroke = %v px, want 100", l.model.Stroke)
	}
	// The authored definition keeps its millimeter stroke.
	if got := *l.def.Bodies[0].Stroke; got != 50 {
		t.Errorf("definition stroke = %v, want 50 (unconverted)", got)
	}
}

func TestLoadModelValidationError(t *testing.T) {
	path := writeDef(t, `
points:
  - {id: a, type: fixed, x: 0, y: 0}
  - {id: b, type: free, x: 10, y: 0}
bodies:
  - {id: bar, type: bar, point_ids: [a, b]}
`)
	_, err := loadModel(path)
	if err == nil {
		t.Fatal("loadModel() error = nil, want NoShock")
	}
	if got := errors.GetCode(err); got != errors.ErrCodeNoShock {
		t.Errorf("error code = %v, want %v", got, errors.ErrCodeNoShock)
	}
}

func TestRunSweepMillimeters(t *testing.T) {
	path := writeDef(t, calibratedDef)
	opts := kinematics.Options{Steps: 10, Iterations: 50}

	px, err := runSweep(path, opts, false)
	if err != nil {
		t.Fatalf("runSweep() error = %v", err)
	}
	if px.unit != "px" {
		t.Errorf("unit = %q, want px", px.unit)
	}
	travel, ok := px.result.TotalTravel()
	if !ok || math.Abs(travel-100) > 1e-6 {
		t.Errorf("pixel travel = %v, want 100", travel)
	}

	mm, err := runSweep(path, opts, true)
	if err != nil {
		t.Fatalf("runSweep() error = %v", err)
	}
	if mm.unit != "mm" {
		t.Errorf("unit = %q, want mm", mm.unit)
	}
	travel, ok = mm.result.TotalTravel()
	if !ok || math.Abs(travel-50) > 1e-6 {
		t.Errorf("millimeter travel = %v, want 50", travel)
	}
}
