package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kinetools/linkrate/pkg/io"
	"github.com/kinetools/linkrate/pkg/kinematics"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	output     string   // output file path (or base path for multiple formats)
	formats    []string // output formats: "json", "csv"
	steps      int      // stroke increments in the sweep
	iterations int      // relaxation budget per step
	mm         bool     // report scalar outputs in millimeters (needs calibration)
}

// validSolveFormats is the set of supported solve output formats.
var validSolveFormats = map[string]bool{"json": true, "csv": true}

// newSolveCmd creates the solve command. It sweeps the shock through its
// stroke and writes the per-step result in the requested formats, printing
// the headline numbers (total travel, leverage range, progression) to the
// terminal.
func newSolveCmd() *cobra.Command {
	var formatsStr string
	opts := solveOpts{
		steps:      kinematics.DefaultSteps,
		iterations: kinematics.DefaultIterations,
	}

	cmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "Sweep the shock and export travel and leverage data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, "json")
			if err := validateFormats(opts.formats, validSolveFormats); err != nil {
				return err
			}
			return runSolve(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), csv (comma-separated)")
	cmd.Flags().IntVar(&opts.steps, "steps", opts.steps, "number of stroke increments")
	cmd.Flags().IntVar(&opts.iterations, "iterations", opts.iterations, "relaxation iterations per step")
	cmd.Flags().BoolVar(&opts.mm, "mm", false, "report stroke/length/travel in millimeters (requires scale_mm_per_px)")

	return cmd
}

// parseFormats parses a comma-separated format flag, falling back to def.
func parseFormats(s, def string) []string {
	if s == "" {
		return []string{def}
	}
	return strings.Split(s, ",")
}

// validateFormats checks that all requested formats are in the valid set.
func validateFormats(formats []string, valid map[string]bool) error {
	for _, f := range formats {
		if !valid[f] {
			return fmt.Errorf("invalid format: %s", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input paths,
// stripping a known format extension from either.
func basePath(output, input string, valid map[string]bool) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if valid[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func runSolve(cmd *cobra.Command, input string, opts *solveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	logger.Infof("Solving %s", input)

	prog := newProgress(logger)
	spin := newSpinner(ctx, "sweeping stroke range")
	spin.Start()
	s, err := runSweep(input, kinematics.Options{Steps: opts.steps, Iterations: opts.iterations}, opts.mm)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Solved %d steps × %d iterations", len(s.result.Steps), opts.iterations))

	if opts.mm && !s.loaded.calibrated() {
		logger.Warn("definition has no scale_mm_per_px; reporting pixel units")
	}

	s.printSummary()

	base := basePath(opts.output, input, validSolveFormats)
	for _, format := range opts.formats {
		path := opts.output
		if path == "" || len(opts.formats) > 1 {
			path = base + "." + format
		}

		switch format {
		case "json":
			err = io.ExportResultJSON(s.result, path)
		case "csv":
			err = io.ExportResultCSV(s.result, path)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		printFile(path)
	}

	return nil
}
