package kinematics_test

import (
	"fmt"

	"github.com/kinetools/linkrate/pkg/kinematics"
	"github.com/kinetools/linkrate/pkg/linkage"
)

// ExampleSolve sweeps a minimal single-pivot linkage and prints the rear
// travel at full stroke.
func ExampleSolve() {
	stroke := 50.0
	def := &linkage.Linkage{
		Points: []linkage.Point{
			{ID: "mount", Kind: linkage.PointFixed, X: 0, Y: 0},
			{ID: "axle", Kind: linkage.PointRearAxle, X: 0, Y: 200},
		},
		Bodies: []linkage.Body{
			{ID: "shock", Kind: linkage.BodyShock, PointIDs: []string{"mount", "axle"}, Stroke: &stroke},
		},
	}

	model, err := linkage.Compile(def)
	if err != nil {
		fmt.Println(err)
		return
	}

	res := kinematics.Solve(model, kinematics.Options{Steps: 10, Iterations: 50})
	travel, _ := res.TotalTravel()
	fmt.Printf("steps: %d\n", len(res.Steps))
	fmt.Printf("travel: %.1f\n", travel)
	// Output:
	// steps: 11
	// travel: 50.0
}
