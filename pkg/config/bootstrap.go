package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/geo/r3"
	"gopkg.in/yaml.v3"

	"github.com/open-teleop/headtrack/pkg/extent"
)

// BootstrapFileName is the bootstrap file looked up in the config directory.
const BootstrapFileName = "headtrack_config.yaml"

// Source types accepted in source.type.
const (
	SourceSynthetic = "synthetic"
	SourceWebSocket = "websocket"
)

// Defaults applied to zero-valued bootstrap fields.
const (
	DefaultHTTPPort           = 8080
	DefaultErrorLogIntervalMs = 2000
	DefaultSourceIntervalMs   = 33
	DefaultQueueSize          = 64
	DefaultPublishBindAddress = "tcp://*:5556"
	DefaultRequestBindAddress = "tcp://*:5555"
	DefaultLogLevel           = "info"
)

// BootstrapConfig holds the initial configuration loaded from headtrack_config.yaml
type BootstrapConfig struct {
	Logging LoggingConfig         `yaml:"logging"`
	Server  BootstrapServerConfig `yaml:"server"`
	UDP     UDPConfig             `yaml:"udp"`
	ZeroMQ  ZeroMQBootstrap       `yaml:"zeromq"`
	Source  SourceConfig          `yaml:"source"`
	Extent  *ExtentSeed           `yaml:"extent,omitempty"`
	Data    DataConfig            `yaml:"data"`
}

// LoggingConfig holds logging settings from bootstrap
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogPath string `yaml:"log_path,omitempty"`
}

// BootstrapServerConfig holds bootstrap server settings
type BootstrapServerConfig struct {
	HTTPPort int `yaml:"http_port"`
}

// UDPConfig is the fixed destination of the pose datagrams.
type UDPConfig struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	ErrorLogIntervalMs int    `yaml:"error_log_interval_ms"`
}

// ErrorLogInterval returns the drop summary interval as a duration.
func (u UDPConfig) ErrorLogInterval() time.Duration {
	return time.Duration(u.ErrorLogIntervalMs) * time.Millisecond
}

// ZeroMQBootstrap holds ZeroMQ settings from bootstrap
type ZeroMQBootstrap struct {
	Enabled            bool   `yaml:"enabled"`
	RequestBindAddress string `yaml:"request_bind_address"`
	PublishBindAddress string `yaml:"publish_bind_address"`
}

// SourceConfig selects where head samples come from.
type SourceConfig struct {
	Type       string `yaml:"type"`
	IntervalMs int    `yaml:"interval_ms"`
	QueueSize  int    `yaml:"queue_size"`
}

// Interval returns the synthetic source tick as a duration.
func (s SourceConfig) Interval() time.Duration {
	return time.Duration(s.IntervalMs) * time.Millisecond
}

// ExtentSeed overrides the initial extent of the tracker.
type ExtentSeed struct {
	SeedMin Vector `yaml:"seed_min"`
	SeedMax Vector `yaml:"seed_max"`
}

// DataConfig holds data directory settings from bootstrap
type DataConfig struct {
	Directory      string `yaml:"directory"`
	TuningFilename string `yaml:"tuning_file"`
}

// TuningPath joins the data directory and the tuning file name.
func (d DataConfig) TuningPath() string {
	return filepath.Join(d.Directory, d.TuningFilename)
}

// Vector is a YAML friendly 3D vector.
type Vector struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

// R3 converts to the geometry type used by the tracker and encoder.
func (v Vector) R3() r3.Vector {
	return r3.Vector{X: v.X, Y: v.Y, Z: v.Z}
}

// VectorFromR3 is the inverse of R3.
func VectorFromR3(v r3.Vector) Vector {
	return Vector{X: v.X, Y: v.Y, Z: v.Z}
}

// Seed returns the tracker seed, falling back to the default extent when the
// extent block is absent.
func (c *BootstrapConfig) Seed() (seedMin, seedMax r3.Vector) {
	if c.Extent == nil {
		return extent.DefaultSeedMin, extent.DefaultSeedMax
	}
	return c.Extent.SeedMin.R3(), c.Extent.SeedMax.R3()
}

// LoadBootstrapConfig loads the bootstrap configuration from headtrack_config.yaml
func LoadBootstrapConfig(configDir string) (*BootstrapConfig, error) {
	bootstrapConfigPath := filepath.Join(configDir, BootstrapFileName)

	data, err := os.ReadFile(bootstrapConfigPath)
	if err != nil {
		return nil, fmt.Errorf("error reading bootstrap config file '%s': %w", bootstrapConfigPath, err)
	}

	bootstrapCfg, err := ParseBootstrapConfig(data)
	if err != nil {
		return nil, fmt.Errorf("error in bootstrap config file '%s': %w", bootstrapConfigPath, err)
	}
	return bootstrapCfg, nil
}

// ParseBootstrapConfig parses, defaults and validates bootstrap YAML.
func ParseBootstrapConfig(data []byte) (*BootstrapConfig, error) {
	var bootstrapCfg BootstrapConfig
	if err := yaml.Unmarshal(data, &bootstrapCfg); err != nil {
		return nil, fmt.Errorf("error parsing bootstrap config: %w", err)
	}
	bootstrapCfg.applyDefaults()
	if err := bootstrapCfg.Validate(); err != nil {
		return nil, err
	}
	return &bootstrapCfg, nil
}

func (c *BootstrapConfig) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = DefaultHTTPPort
	}
	if c.UDP.ErrorLogIntervalMs == 0 {
		c.UDP.ErrorLogIntervalMs = DefaultErrorLogIntervalMs
	}
	if c.ZeroMQ.PublishBindAddress == "" {
		c.ZeroMQ.PublishBindAddress = DefaultPublishBindAddress
	}
	if c.ZeroMQ.RequestBindAddress == "" {
		c.ZeroMQ.RequestBindAddress = DefaultRequestBindAddress
	}
	if c.Source.Type == "" {
		c.Source.Type = SourceSynthetic
	}
	if c.Source.IntervalMs == 0 {
		c.Source.IntervalMs = DefaultSourceIntervalMs
	}
	if c.Source.QueueSize == 0 {
		c.Source.QueueSize = DefaultQueueSize
	}
}

// Validate checks the required fields.
func (c *BootstrapConfig) Validate() error {
	if c.UDP.Host == "" {
		return fmt.Errorf("missing required field in bootstrap config: udp.host")
	}
	if c.UDP.Port == 0 {
		return fmt.Errorf("missing required field in bootstrap config: udp.port")
	}
	if c.UDP.Port < 1 || c.UDP.Port > 65535 {
		return fmt.Errorf("invalid udp.port %d: must be between 1 and 65535", c.UDP.Port)
	}
	if c.Data.Directory == "" {
		return fmt.Errorf("missing required field in bootstrap config: data.directory")
	}
	if c.Data.TuningFilename == "" {
		return fmt.Errorf("missing required field in bootstrap config: data.tuning_file")
	}
	switch c.Source.Type {
	case SourceSynthetic, SourceWebSocket:
	default:
		return fmt.Errorf("invalid source.type %q: must be %q or %q", c.Source.Type, SourceSynthetic, SourceWebSocket)
	}
	if c.Source.IntervalMs < 0 || c.Source.QueueSize < 0 || c.UDP.ErrorLogIntervalMs < 0 {
		return fmt.Errorf("source.interval_ms, source.queue_size and udp.error_log_interval_ms must not be negative")
	}
	return nil
}
