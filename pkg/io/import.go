// Package io reads linkage definition files and writes solver results.
//
// Definitions can be authored in YAML, TOML, or JSON; the format is chosen
// by file extension. Results are exported as indented JSON (the full
// step-by-step result) or CSV (one row per step, for spreadsheets).
package io

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/kinetools/linkrate/pkg/errors"
	"github.com/kinetools/linkrate/pkg/linkage"
)

// ReadLinkage loads a linkage definition from path, dispatching on the file
// extension: .yaml/.yml, .toml, or .json.
func ReadLinkage(path string) (*linkage.Linkage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}

	var l linkage.Linkage
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &l); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse YAML %s", path)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &l); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse TOML %s", path)
		}
	case ".json":
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse JSON %s", path)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported definition format %q (must be .yaml, .yml, .toml, or .json)", ext)
	}

	return &l, nil
}
