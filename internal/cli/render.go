package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kinetools/linkrate/pkg/kinematics"
	"github.com/kinetools/linkrate/pkg/render"
)

const (
	vizTopology = "topology" // Graphviz diagram of the constraint structure
	vizSweep    = "sweep"    // pose trail plus travel/leverage curves
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string  // output file path
	vizType    string  // visualization type: "topology" or "sweep"
	format     string  // output format: "svg", "png" (topology), "dot" (topology)
	width      float64 // sweep frame width in pixels
	height     float64 // sweep frame height in pixels
	steps      int     // sweep stroke increments
	iterations int     // sweep relaxation budget
	mm         bool    // millimeter axes on the sweep chart (needs calibration)
}

// validRenderFormats is the set of supported render output formats.
var validRenderFormats = map[string]bool{"svg": true, "png": true, "dot": true}

// newRenderCmd creates the render command for generating visualizations.
// The topology type draws the linkage's constraint graph with Graphviz;
// the sweep type solves the linkage and draws the motion trail with travel
// and leverage curves as a standalone SVG.
func newRenderCmd() *cobra.Command {
	opts := renderOpts{
		vizType:    vizSweep,
		format:     "svg",
		width:      800,
		height:     900,
		steps:      kinematics.DefaultSteps,
		iterations: kinematics.DefaultIterations,
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a linkage as a topology diagram or sweep chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validRenderFormats[opts.format] {
				return fmt.Errorf("invalid format: %s (must be 'svg', 'png', or 'dot')", opts.format)
			}
			if opts.vizType != vizTopology && opts.vizType != vizSweep {
				return fmt.Errorf("unknown visualization type: %s (must be 'topology' or 'sweep')", opts.vizType)
			}
			if opts.vizType == vizSweep && opts.format != "svg" {
				return fmt.Errorf("sweep rendering supports only the svg format")
			}
			return runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (defaults next to the input)")
	cmd.Flags().StringVarP(&opts.vizType, "type", "t", opts.vizType, "visualization type: sweep (default), topology")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), png, dot (topology only)")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "sweep frame width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "sweep frame height")
	cmd.Flags().IntVar(&opts.steps, "steps", opts.steps, "number of stroke increments")
	cmd.Flags().IntVar(&opts.iterations, "iterations", opts.iterations, "relaxation iterations per step")
	cmd.Flags().BoolVar(&opts.mm, "mm", false, "millimeter axes on the sweep chart (requires scale_mm_per_px)")

	return cmd
}

func runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s (%s)", input, opts.vizType)

	var data []byte
	var err error
	switch opts.vizType {
	case vizTopology:
		data, err = renderTopology(cmd, input, opts)
	case vizSweep:
		data, err = renderSweep(input, opts)
	}
	if err != nil {
		return err
	}
	logger.Debugf("Generated %s: %d bytes", opts.format, len(data))

	path := opts.output
	if path == "" {
		path = basePath("", input, validRenderFormats) + "_" + opts.vizType + "." + opts.format
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	printSuccess("Generated %s", path)
	return nil
}

// renderTopology draws the constraint graph. The definition is compiled
// first so geometry errors surface before Graphviz runs.
func renderTopology(cmd *cobra.Command, input string, opts *renderOpts) ([]byte, error) {
	l, err := loadModel(input)
	if err != nil {
		return nil, err
	}

	switch opts.format {
	case "dot":
		return []byte(render.ToDOT(l.def)), nil
	case "svg":
		return render.TopologySVG(cmd.Context(), l.def)
	case "png":
		return render.TopologyPNG(cmd.Context(), l.def)
	default:
		return nil, fmt.Errorf("unknown format: %s", opts.format)
	}
}

// renderSweep solves the linkage and draws the motion trail with curves.
func renderSweep(input string, opts *renderOpts) ([]byte, error) {
	s, err := runSweep(input, kinematics.Options{Steps: opts.steps, Iterations: opts.iterations}, opts.mm)
	if err != nil {
		return nil, err
	}

	return render.RenderSweepSVG(s.loaded.model, s.result,
		render.WithSize(opts.width, opts.height),
		render.WithUnit(s.unit),
	), nil
}
