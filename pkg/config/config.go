package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/open-teleop/headtrack/pkg/pose"
)

// TuningVersion is written by DefaultTuning.
const TuningVersion = "1"

// ErrInvalidTuning is wrapped by every parse or validation failure of a
// tuning document.
var ErrInvalidTuning = errors.New("invalid tuning")

// Tuning represents the operational pose tuning. It can be swapped at runtime.
type Tuning struct {
	Version        string       `yaml:"version" json:"version"`
	LastUpdated    string       `yaml:"lastUpdated,omitempty" json:"lastUpdated,omitempty"`
	PositionScale  Vector       `yaml:"position_scale" json:"position_scale"`
	AngularScale   AngularScale `yaml:"angular_scale" json:"angular_scale"`
	PositionOffset Vector       `yaml:"position_offset" json:"position_offset"`
}

// AngularScale holds the per-angle sensitivity factors.
type AngularScale struct {
	Yaw   float64 `yaml:"yaw" json:"yaw"`
	Pitch float64 `yaml:"pitch" json:"pitch"`
	Roll  float64 `yaml:"roll" json:"roll"`
}

// DefaultTuning mirrors pose.DefaultParams.
func DefaultTuning() *Tuning {
	t := TuningFromParams(pose.DefaultParams())
	t.Version = TuningVersion
	return t
}

// TuningFromParams builds a tuning document from encoder parameters. The
// version is left empty.
func TuningFromParams(p pose.Params) *Tuning {
	return &Tuning{
		PositionScale: VectorFromR3(p.PositionScale),
		AngularScale: AngularScale{
			Yaw:   p.AngularScale.Yaw,
			Pitch: p.AngularScale.Pitch,
			Roll:  p.AngularScale.Roll,
		},
		PositionOffset: VectorFromR3(p.PositionOffset),
	}
}

// Params converts the tuning document into encoder parameters.
func (t *Tuning) Params() pose.Params {
	return pose.Params{
		PositionScale: t.PositionScale.R3(),
		AngularScale: pose.EulerAngles{
			Yaw:   t.AngularScale.Yaw,
			Pitch: t.AngularScale.Pitch,
			Roll:  t.AngularScale.Roll,
		},
		PositionOffset: t.PositionOffset.R3(),
	}
}

// Validate requires a version and finite values. A scale that is zero on
// every axis is rejected.
func (t *Tuning) Validate() error {
	if t.Version == "" {
		return fmt.Errorf("%w: missing required field version", ErrInvalidTuning)
	}
	if err := t.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTuning, err)
	}
	if t.PositionScale == (Vector{}) {
		return fmt.Errorf("%w: position_scale must not be zero on every axis", ErrInvalidTuning)
	}
	if t.AngularScale == (AngularScale{}) {
		return fmt.Errorf("%w: angular_scale must not be zero on every angle", ErrInvalidTuning)
	}
	return nil
}

// ParseTuning parses and validates a tuning document. Blocks and fields the
// document leaves out keep their DefaultTuning values; the version is
// always required.
func ParseTuning(data []byte) (*Tuning, error) {
	t := *DefaultTuning()
	t.Version = ""
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: invalid YAML format: %v", ErrInvalidTuning, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadTuning loads the tuning document from path. A missing file is
// reported with an error wrapping os.ErrNotExist.
func LoadTuning(path string) (*Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading tuning file '%s': %w", path, err)
	}
	t, err := ParseTuning(data)
	if err != nil {
		return nil, fmt.Errorf("error in tuning file '%s': %w", path, err)
	}
	return t, nil
}

// Marshal renders the tuning document as YAML.
func (t *Tuning) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("error encoding tuning: %w", err)
	}
	return data, nil
}

// WriteFile writes data to path, creating the parent directory if needed.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating directory for '%s': %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing file '%s': %w", path, err)
	}
	return nil
}
