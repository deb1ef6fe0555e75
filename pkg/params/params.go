// Package params provides the observation parameter bag that can be
// attached to a cube at open time. It handles loading parameters from YAML
// files and provides default values. The access layer treats the bag as
// passthrough metadata: calibration and photometry services consume it,
// the cube code never interprets it.
package params

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Observation represents one observation's parameters loaded from YAML.
type Observation struct {
	// Object is the target name.
	Object string `yaml:"object"`

	// Filter is the filter name used for the observation.
	Filter string `yaml:"filter"`

	// Exposure is the per-frame exposure time in seconds.
	Exposure float64 `yaml:"exposure"`

	// Step is the interferometer step size in nm.
	Step float64 `yaml:"step"`

	// Order is the folding order of the scan.
	Order int `yaml:"order"`

	// StepNb is the number of scan steps.
	StepNb int `yaml:"stepNb"`

	// Airmass is the mean airmass of the observation.
	Airmass float64 `yaml:"airmass"`

	// Instrument describes the detector configuration consumed by the
	// calibration collaborators.
	Instrument struct {
		// Name identifies the instrument.
		Name string `yaml:"name"`

		// Gain is the detector gain in e-/ADU.
		Gain float64 `yaml:"gain"`
	} `yaml:"instrument"`
}

// Default returns an observation bag with default values.
func Default() *Observation {
	o := &Observation{}
	o.Exposure = 1.0
	o.Order = 8
	o.Airmass = 1.0
	o.Instrument.Gain = 1.0
	return o
}

// Load loads observation parameters from a YAML file.
// If the file doesn't exist, it returns the default parameters.
func Load(path string) (*Observation, error) {
	o := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return o, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading params file: %w", err)
	}

	if err := yaml.Unmarshal(data, o); err != nil {
		return nil, fmt.Errorf("error parsing params file: %w", err)
	}

	return o, nil
}

// Save saves observation parameters to a YAML file.
func Save(o *Observation, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating params directory: %w", err)
	}

	data, err := yaml.Marshal(o)
	if err != nil {
		return fmt.Errorf("error marshaling params: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing params file: %w", err)
	}

	return nil
}
