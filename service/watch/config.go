// Package watch supervises a set of streams with idle windows, driven
// by a yaml config: each entry names a transport, its endpoint and the
// window after which a quiet stream is considered ended.
package watch

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	E "github.com/weirlab/flume/common/exceptions"
)

const (
	KindTCP  = "tcp"
	KindSSE  = "sse"
	KindPoll = "poll"
)

// Duration accepts the forms time.ParseDuration does.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

type Config struct {
	Metrics MetricsConfig  `yaml:"metrics,omitempty"`
	Streams []StreamConfig `yaml:"streams"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Listen  string `yaml:"listen,omitempty"`
}

type StreamConfig struct {
	Name     string   `yaml:"name"`
	Kind     string   `yaml:"kind"`
	Address  string   `yaml:"address,omitempty"`
	URL      string   `yaml:"url,omitempty"`
	Timeout  Duration `yaml:"timeout"`
	Interval Duration `yaml:"interval,omitempty"`
	Dedup    bool     `yaml:"dedup,omitempty"`
	Restart  bool     `yaml:"restart,omitempty"`
}

func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, E.Cause(err, "read config")
	}
	var config Config
	if err := yaml.Unmarshal(content, &config); err != nil {
		return nil, E.Cause(err, "parse config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if len(c.Streams) == 0 {
		return E.New("no streams configured")
	}
	names := make(map[string]bool)
	for index, streamConfig := range c.Streams {
		if err := streamConfig.Validate(); err != nil {
			return E.Cause(err, "stream ", index)
		}
		if names[streamConfig.Name] {
			return E.New("duplicate stream name ", streamConfig.Name)
		}
		names[streamConfig.Name] = true
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return E.New("metrics enabled without listen address")
	}
	return nil
}

func (s *StreamConfig) Validate() error {
	if s.Name == "" {
		return E.New("name required")
	}
	switch s.Kind {
	case KindTCP:
		if s.Address == "" {
			return E.New("address required for tcp streams")
		}
	case KindSSE:
		if s.URL == "" {
			return E.New("url required for sse streams")
		}
	case KindPoll:
		if s.URL == "" {
			return E.New("url required for poll streams")
		}
		if s.Interval <= 0 {
			return E.New("interval required for poll streams")
		}
	default:
		return E.New("unknown kind ", s.Kind)
	}
	if s.Timeout <= 0 {
		return E.New("timeout required")
	}
	return nil
}
