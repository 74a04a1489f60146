package cli

import (
	"fmt"
	"time"

	"github.com/kinetools/linkrate/pkg/io"
	"github.com/kinetools/linkrate/pkg/kinematics"
	"github.com/kinetools/linkrate/pkg/linkage"
	"github.com/kinetools/linkrate/pkg/units"
)

// loaded bundles everything derived from one definition file: the
// definition as authored, the compiled pixel-space model, and the photo
// calibration (zero when the file carries none).
type loaded struct {
	def   *linkage.Linkage
	model *linkage.Model
	scale units.Scale
}

// calibrated reports whether the definition carries a mm-per-px scale.
func (l *loaded) calibrated() bool { return l.scale > 0 }

// loadModel reads a definition file, converts millimeter shock values into
// pixel space when the file is calibrated, and compiles the model.
func loadModel(path string) (*loaded, error) {
	def, err := io.ReadLinkage(path)
	if err != nil {
		return nil, err
	}

	solveDef := def
	var scale units.Scale
	if def.ScaleMMPerPx != 0 {
		scale, err = units.NewScale(def.ScaleMMPerPx)
		if err != nil {
			return nil, err
		}
		solveDef = scale.ApplyToLinkage(def)
	}

	model, err := linkage.Compile(solveDef)
	if err != nil {
		return nil, err
	}

	return &loaded{def: def, model: model, scale: scale}, nil
}

// sweep holds one full solve of a loaded definition plus the unit its
// scalar metrics are reported in.
type sweep struct {
	loaded  *loaded
	result  *kinematics.Result
	unit    string
	elapsed time.Duration
}

// runSweep loads, solves, and optionally converts the result to
// millimeters. Conversion happens when the definition is calibrated and mm
// is requested; otherwise scalars stay in pixel space.
func runSweep(path string, opts kinematics.Options, mm bool) (*sweep, error) {
	l, err := loadModel(path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res := kinematics.Solve(l.model, opts)
	elapsed := time.Since(start)

	unit := "px"
	if mm && l.calibrated() {
		res = l.scale.ResultToMillimeters(res)
		unit = "mm"
	}

	return &sweep{loaded: l, result: res, unit: unit, elapsed: elapsed}, nil
}

// printSummary writes the headline numbers of a sweep to stdout.
func (s *sweep) printSummary() {
	name := s.loaded.def.Name
	if name == "" {
		name = "linkage"
	}
	fmt.Println(StyleTitle.Render(name))

	printKeyValue("points", fmt.Sprintf("%d (%d edges)", s.loaded.model.PointCount(), s.loaded.model.EdgeCount()))
	printKeyValue("steps", fmt.Sprintf("%d", len(s.result.Steps)))
	printKeyValue("stroke", fmt.Sprintf("%s %s", StyleNumber.Render(fmt.Sprintf("%.1f", s.result.Steps[len(s.result.Steps)-1].ShockStroke)), s.unit))

	if travel, ok := s.result.TotalTravel(); ok {
		printKeyValue("rear travel", fmt.Sprintf("%s %s", StyleNumber.Render(fmt.Sprintf("%.1f", travel)), s.unit))
	}
	if first, last, ok := s.result.LeverageRange(); ok {
		printKeyValue("leverage", fmt.Sprintf("%.2f %s %.2f", first, iconArrow, last))
	}
	if prog, ok := s.result.Progression(); ok {
		printKeyValue("progression", fmt.Sprintf("%.1f%%", prog*100))
	}
}
