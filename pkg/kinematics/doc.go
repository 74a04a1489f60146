// Package kinematics runs the position-based sweep of a compiled linkage
// model and derives per-step suspension metrics.
//
// The solver treats every compiled edge as a distance constraint and relaxes
// them with Gauss-Seidel iteration: edges are projected one at a time in
// declaration order, each projection reading the most recently corrected
// positions. The single driver (shock) edge has its target length shortened
// from rest to rest minus stroke across the sweep, dragging the rest of the
// mechanism through its range of motion.
//
// The computation is pure and deterministic: no I/O, no shared state beyond
// a coordinate array scoped to one Solve call. Identical inputs produce
// bit-for-bit identical results. Non-convergence within the iteration
// budget is not an error; the best-effort pose is always recorded.
//
//	model, err := linkage.Compile(def)
//	if err != nil {
//	    return err
//	}
//	res := kinematics.Solve(model, kinematics.Options{})
//	for _, step := range res.Steps {
//	    fmt.Println(step.ShockStroke, step.ShockLength)
//	}
package kinematics
