// Package linkage defines the domain model for a planar rear-suspension
// linkage and compiles it into a solver-ready constraint model.
//
// A linkage is described by identified 2D points and rigid bodies (ordered
// point chains). Bodies of kind "bar" contribute fixed-length distance
// constraints, the single body of kind "shock" contributes the driver
// constraint whose target length shortens with stroke, and bodies of kind
// "fixed" pin their member points to the frame.
//
// Definitions are typically loaded from YAML, TOML, or JSON files (see the
// io package); point and body kinds are closed enumerations, so an unknown
// kind string is a construction-time error rather than a silent no-op.
package linkage

import (
	"encoding"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kinetools/linkrate/pkg/errors"
)

// PointKind classifies a point within the linkage. It is a closed
// enumeration: parsing an unknown kind string fails.
type PointKind int

const (
	// PointFree is a regular moving pivot.
	PointFree PointKind = iota
	// PointFixed is pinned to the frame and excluded from corrections.
	PointFixed
	// PointBottomBracket is the bottom bracket; pinned like PointFixed.
	PointBottomBracket
	// PointRearAxle marks the rear axle, used as the travel reference.
	// At most one point may carry this kind.
	PointRearAxle
	// PointFrontAxle marks the front axle. Kinematically it behaves like
	// PointFree; the kind exists for display purposes.
	PointFrontAxle
)

var pointKindNames = map[PointKind]string{
	PointFree:          "free",
	PointFixed:         "fixed",
	PointBottomBracket: "bb",
	PointRearAxle:      "rear_axle",
	PointFrontAxle:     "front_axle",
}

var pointKindValues = map[string]PointKind{
	"free":       PointFree,
	"fixed":      PointFixed,
	"bb":         PointBottomBracket,
	"rear_axle":  PointRearAxle,
	"front_axle": PointFrontAxle,
}

// ParsePointKind converts a kind string ("free", "fixed", "bb", "rear_axle",
// "front_axle") to its PointKind. An empty string defaults to PointFree.
func ParsePointKind(s string) (PointKind, error) {
	if s == "" {
		return PointFree, nil
	}
	k, ok := pointKindValues[s]
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidPointKind,
			"unknown point kind %q (must be one of: free, fixed, bb, rear_axle, front_axle)", s)
	}
	return k, nil
}

// String returns the canonical kind name.
func (k PointKind) String() string {
	if s, ok := pointKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("PointKind(%d)", int(k))
}

// Pinned reports whether points of this kind are locked to the frame.
func (k PointKind) Pinned() bool {
	return k == PointFixed || k == PointBottomBracket
}

// MarshalText implements encoding.TextMarshaler (JSON, TOML).
func (k PointKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler (JSON, TOML).
func (k *PointKind) UnmarshalText(text []byte) error {
	parsed, err := ParsePointKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler. yaml.v3 does not honor
// encoding.TextUnmarshaler, so the hook is implemented separately.
func (k *PointKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return k.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler.
func (k PointKind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// BodyKind classifies a rigid body. Like PointKind it is a closed
// enumeration.
type BodyKind int

const (
	// BodyBar is a moving structural link with fixed-length segments.
	BodyBar BodyKind = iota
	// BodyShock is the driver: a two-point body whose target length
	// shortens as stroke increases. Exactly one body must have this kind.
	BodyShock
	// BodyFixed represents the frame; all member points are pinned.
	BodyFixed
	// BodyOther is a non-structural annotation body. Its segments still
	// contribute distance constraints, matching BodyBar.
	BodyOther
)

var bodyKindNames = map[BodyKind]string{
	BodyBar:   "bar",
	BodyShock: "shock",
	BodyFixed: "fixed",
	BodyOther: "other",
}

var bodyKindValues = map[string]BodyKind{
	"bar":   BodyBar,
	"shock": BodyShock,
	"fixed": BodyFixed,
	"other": BodyOther,
}

// ParseBodyKind converts a kind string ("bar", "shock", "fixed", "other") to
// its BodyKind. An empty string defaults to BodyBar.
func ParseBodyKind(s string) (BodyKind, error) {
	if s == "" {
		return BodyBar, nil
	}
	k, ok := bodyKindValues[s]
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidBodyKind,
			"unknown body kind %q (must be one of: bar, shock, fixed, other)", s)
	}
	return k, nil
}

// String returns the canonical kind name.
func (k BodyKind) String() string {
	if s, ok := bodyKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("BodyKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler (JSON, TOML).
func (k BodyKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler (JSON, TOML).
func (k *BodyKind) UnmarshalText(text []byte) error {
	parsed, err := ParseBodyKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *BodyKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return k.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler.
func (k BodyKind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// Interface guards. yaml.v3 handles the YAML hooks, encoding/json and
// BurntSushi/toml both honor the text interfaces.
var (
	_ encoding.TextMarshaler   = PointFree
	_ encoding.TextUnmarshaler = (*PointKind)(nil)
	_ encoding.TextMarshaler   = BodyBar
	_ encoding.TextUnmarshaler = (*BodyKind)(nil)
	_ yaml.Unmarshaler         = (*PointKind)(nil)
	_ yaml.Unmarshaler         = (*BodyKind)(nil)
)

// Point is an identified 2D location in the linkage. Coordinates share one
// unit (typically pixels of the source photo) across a whole definition.
type Point struct {
	ID   string    `json:"id" yaml:"id" toml:"id"`
	Kind PointKind `json:"type" yaml:"type" toml:"type"`
	X    float64   `json:"x" yaml:"x" toml:"x"`
	Y    float64   `json:"y" yaml:"y" toml:"y"`
	Name string    `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
}

// Body is an ordered chain of point ids forming one or more rigid segments.
// When Closed is true an extra segment connects the last point back to the
// first. Length0 overrides the rest length computed from initial coordinates
// (shock eye-to-eye at zero stroke); Stroke is the total compressible travel
// and is only meaningful for BodyShock.
type Body struct {
	ID       string   `json:"id" yaml:"id" toml:"id"`
	Kind     BodyKind `json:"type" yaml:"type" toml:"type"`
	PointIDs []string `json:"point_ids" yaml:"point_ids" toml:"point_ids"`
	Closed   bool     `json:"closed,omitempty" yaml:"closed,omitempty" toml:"closed,omitempty"`
	Length0  *float64 `json:"length0,omitempty" yaml:"length0,omitempty" toml:"length0,omitempty"`
	Stroke   *float64 `json:"stroke,omitempty" yaml:"stroke,omitempty" toml:"stroke,omitempty"`
	Name     string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
}

// Linkage is a full linkage definition as loaded from a definition file.
// ScaleMMPerPx, when set, is the photo calibration factor used to convert
// millimeter-denominated shock values into pixel space before solving (see
// the units package).
type Linkage struct {
	Name         string  `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Points       []Point `json:"points" yaml:"points" toml:"points"`
	Bodies       []Body  `json:"bodies" yaml:"bodies" toml:"bodies"`
	ScaleMMPerPx float64 `json:"scale_mm_per_px,omitempty" yaml:"scale_mm_per_px,omitempty" toml:"scale_mm_per_px,omitempty"`
}

// Shock returns the shock body, or nil if the definition has none.
// Validation of "exactly one shock" happens in Compile.
func (l *Linkage) Shock() *Body {
	for i := range l.Bodies {
		if l.Bodies[i].Kind == BodyShock {
			return &l.Bodies[i]
		}
	}
	return nil
}

// RearAxle returns the rear-axle point, or nil if none is designated.
func (l *Linkage) RearAxle() *Point {
	for i := range l.Points {
		if l.Points[i].Kind == PointRearAxle {
			return &l.Points[i]
		}
	}
	return nil
}
