package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/kinetools/linkrate/pkg/kinematics"
)

// WriteResultJSON encodes a solver result as indented JSON and writes it to
// w. The output mirrors the kinematics types field for field and can be
// consumed by external tooling or re-read for plotting.
func WriteResultJSON(r *kinematics.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportResultJSON writes a solver result to a JSON file at path.
// This is a convenience wrapper around [WriteResultJSON] for file-based output.
func ExportResultJSON(r *kinematics.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteResultJSON(r, f)
}

// csvHeader is the column layout of the CSV export.
var csvHeader = []string{"step", "shock_stroke", "shock_length", "rear_travel", "leverage_ratio"}

// WriteResultCSV writes one row per sweep step to w. Undefined values
// (travel without a rear axle, leverage at step zero) become empty cells.
// Point positions are omitted; use the JSON export for full poses.
func WriteResultCSV(r *kinematics.Result, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, s := range r.Steps {
		row := []string{
			strconv.Itoa(s.Index),
			formatFloat(s.ShockStroke),
			formatFloat(s.ShockLength),
			"",
			"",
		}
		if s.RearTravel != nil {
			row[3] = formatFloat(*s.RearTravel)
		}
		if s.LeverageRatio != nil {
			row[4] = formatFloat(*s.LeverageRatio)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write step %d: %w", s.Index, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportResultCSV writes a solver result to a CSV file at path.
func ExportResultCSV(r *kinematics.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteResultCSV(r, f)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
