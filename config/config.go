package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/crewplan/core/factory"
	"github.com/kilianp07/crewplan/core/metrics"
	"github.com/kilianp07/crewplan/core/planner"
	"github.com/kilianp07/crewplan/infra/mqtt"
)

// EnvPrefix marks environment overrides; "__" separates nested keys, as in
// CREWPLAN_SCHEDULER__NUM_CREWS=4.
const EnvPrefix = "CREWPLAN_"

type Config struct {
	Scheduler planner.Config       `json:"scheduler"`
	Run       RunConfig            `json:"run"`
	Logging   LoggingConfig        `json:"logging"`
	Metrics   metrics.Config       `json:"metrics"`
	Store     factory.ModuleConfig `json:"store"`
	// Publish sends finished schedules to an MQTT broker when a broker is set.
	Publish   mqtt.Config          `json:"publish"`
	Sentry    SentryConfig         `json:"sentry"`
}

// Load reads the configuration file at path, applies environment overrides
// and defaults, then validates the result. An empty path loads defaults and
// environment overrides only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	c.Scheduler.SetDefaults()
	c.Logging.SetDefaults()
	c.Metrics.SetDefaults()
	if c.Publish.Enabled() {
		c.Publish.SetDefaults()
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Scheduler.Validate(); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	if err := c.Run.Validate(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if c.Publish.UseTLS && c.Publish.TLSConfig == nil &&
		(c.Publish.ClientCert == "" || c.Publish.ClientKey == "" || c.Publish.CABundle == "") {
		return fmt.Errorf("publish: tls requires client_cert, client_key and ca_bundle")
	}
	return nil
}
