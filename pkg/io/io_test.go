package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinetools/linkrate/pkg/errors"
	"github.com/kinetools/linkrate/pkg/kinematics"
	"github.com/kinetools/linkrate/pkg/linkage"
)

const yamlDef = `
name: test rig
scale_mm_per_px: 0.5
points:
  - {id: mount, type: fixed, x: 0, y: 0}
  - {id: axle, type: rear_axle, x: 0, y: 100}
bodies:
  - id: shock
    type: shock
    point_ids: [mount, axle]
    stroke: 50
`

const tomlDef = `
name = "test rig"
scale_mm_per_px = 0.5

[[points]]
id = "mount"
type = "fixed"
x = 0.0
y = 0.0

[[points]]
id = "axle"
type = "rear_axle"
x = 0.0
y = 100.0

[[bodies]]
id = "shock"
type = "shock"
point_ids = ["mount", "axle"]
stroke = 50.0
`

const jsonDef = `{
  "name": "test rig",
  "scale_mm_per_px": 0.5,
  "points": [
    {"id": "mount", "type": "fixed", "x": 0, "y": 0},
    {"id": "axle", "type": "rear_axle", "x": 0, "y": 100}
  ],
  "bodies": [
    {"id": "shock", "type": "shock", "point_ids": ["mount", "axle"], "stroke": 50}
  ]
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadLinkageFormats(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"yaml", "rig.yaml", yamlDef},
		{"yml", "rig.yml", yamlDef},
		{"toml", "rig.toml", tomlDef},
		{"json", "rig.json", jsonDef},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := ReadLinkage(writeTemp(t, tt.file, tt.body))
			require.NoError(t, err)

			assert.Equal(t, "test rig", l.Name)
			assert.Equal(t, 0.5, l.ScaleMMPerPx)
			require.Len(t, l.Points, 2)
			assert.Equal(t, linkage.PointRearAxle, l.Points[1].Kind)
			require.Len(t, l.Bodies, 1)
			assert.Equal(t, linkage.BodyShock, l.Bodies[0].Kind)
			require.NotNil(t, l.Bodies[0].Stroke)
			assert.Equal(t, 50.0, *l.Bodies[0].Stroke)

			// Definitions read by any format must compile the same way.
			_, err = linkage.Compile(l)
			assert.NoError(t, err)
		})
	}
}

func TestReadLinkageErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := ReadLinkage(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Equal(t, errors.ErrCodeFileNotFound, errors.GetCode(err))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := ReadLinkage(writeTemp(t, "rig.xml", "<rig/>"))
		assert.Equal(t, errors.ErrCodeInvalidFormat, errors.GetCode(err))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ReadLinkage(writeTemp(t, "rig.yaml", "points: ["))
		assert.Equal(t, errors.ErrCodeInvalidFormat, errors.GetCode(err))
	})

	t.Run("unknown point kind", func(t *testing.T) {
		bad := strings.Replace(yamlDef, "type: rear_axle", "type: axle", 1)
		_, err := ReadLinkage(writeTemp(t, "rig.yaml", bad))
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeInvalidFormat, errors.GetCode(err))
	})
}

func sampleResult() *kinematics.Result {
	travel := 12.5
	lr := 2.4
	return &kinematics.Result{
		RearAxlePointID: "axle",
		Steps: []kinematics.Step{
			{
				Index:       0,
				ShockStroke: 0,
				ShockLength: 100,
				Points:      map[string]kinematics.Position{"axle": {X: 0, Y: 100}},
			},
			{
				Index:         1,
				ShockStroke:   5,
				ShockLength:   95,
				RearTravel:    &travel,
				LeverageRatio: &lr,
				Points:        map[string]kinematics.Position{"axle": {X: 0, Y: 87.5}},
			},
		},
	}
}

func TestWriteResultJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResultJSON(sampleResult(), &buf))

	out := buf.String()
	assert.Contains(t, out, `"rear_axle_point_id": "axle"`)
	assert.Contains(t, out, `"step_index": 1`)
	assert.Contains(t, out, `"leverage_ratio": 2.4`)
	// Step 0 omits undefined metrics entirely.
	assert.NotContains(t, strings.Split(out, `"step_index": 1`)[0], "leverage_ratio")
}

func TestWriteResultCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResultCSV(sampleResult(), &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "step,shock_stroke,shock_length,rear_travel,leverage_ratio", lines[0])
	assert.Equal(t, "0,0.000000,100.000000,,", lines[1])
	assert.Equal(t, "1,5.000000,95.000000,12.500000,2.400000", lines[2])
}

func TestExportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "out.json")
	csvPath := filepath.Join(dir, "out.csv")

	require.NoError(t, ExportResultJSON(sampleResult(), jsonPath))
	require.NoError(t, ExportResultCSV(sampleResult(), csvPath))

	for _, p := range []string{jsonPath, csvPath} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}
