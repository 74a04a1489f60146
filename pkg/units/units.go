// Package units converts between millimeters and pixel space.
//
// Linkage geometry is traced over a side-on photo, so point coordinates live
// in pixel space. Shock specifications (stroke, eye-to-eye length) are given
// in millimeters. A calibration factor - millimeters per pixel, measured
// from a known dimension in the photo - bridges the two: shock values are
// converted to pixels before solving, and scalar outputs (stroke, length,
// travel) are converted back to millimeters for reporting. Coordinates
// themselves stay in pixel space throughout.
package units

import (
	"github.com/kinetools/linkrate/pkg/errors"
	"github.com/kinetools/linkrate/pkg/kinematics"
	"github.com/kinetools/linkrate/pkg/linkage"
)

// Scale is a photo calibration factor in millimeters per pixel.
type Scale float64

// NewScale validates a calibration factor. Zero and negative factors are
// rejected; a zero scale would collapse every converted length.
func NewScale(mmPerPx float64) (Scale, error) {
	if mmPerPx <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidScale,
			"scale must be positive millimeters per pixel, got %v", mmPerPx)
	}
	return Scale(mmPerPx), nil
}

// ToPixels converts a millimeter value into pixel space.
func (s Scale) ToPixels(mm float64) float64 {
	return mm / float64(s)
}

// ToMillimeters converts a pixel-space value into millimeters.
func (s Scale) ToMillimeters(px float64) float64 {
	return px * float64(s)
}

// ApplyToLinkage returns a copy of the definition with the shock's
// millimeter-denominated stroke and length override converted to pixel
// space, ready for compilation. The input is not modified.
func (s Scale) ApplyToLinkage(l *linkage.Linkage) *linkage.Linkage {
	out := *l
	out.Bodies = make([]linkage.Body, len(l.Bodies))
	copy(out.Bodies, l.Bodies)

	for i := range out.Bodies {
		b := &out.Bodies[i]
		if b.Kind != linkage.BodyShock {
			continue
		}
		if b.Stroke != nil {
			px := s.ToPixels(*b.Stroke)
			b.Stroke = &px
		}
		if b.Length0 != nil {
			px := s.ToPixels(*b.Length0)
			b.Length0 = &px
		}
	}
	return &out
}

// ResultToMillimeters returns a copy of a solver result with every scalar
// stroke, length, and travel value converted to millimeters. Leverage
// ratios are unitless and point positions stay in pixel space, matching
// how the result is displayed over the source photo.
func (s Scale) ResultToMillimeters(r *kinematics.Result) *kinematics.Result {
	out := &kinematics.Result{
		RearAxlePointID: r.RearAxlePointID,
		Steps:           make([]kinematics.Step, len(r.Steps)),
	}
	for i, step := range r.Steps {
		converted := step
		converted.ShockStroke = s.ToMillimeters(step.ShockStroke)
		converted.ShockLength = s.ToMillimeters(step.ShockLength)
		if step.RearTravel != nil {
			mm := s.ToMillimeters(*step.RearTravel)
			converted.RearTravel = &mm
		}
		out.Steps[i] = converted
	}
	return out
}
