package store

import (
	"fmt"

	"github.com/kilianp07/crewplan/core/factory"
)

var registry = factory.NewRegistry[RunStore]()

// Register adds a run store factory identified by name.
func Register(name string, f factory.Factory[RunStore]) error {
	return registry.Register(name, f)
}

// New creates the RunStore described by cfg. An empty type yields a NopStore.
func New(cfg factory.ModuleConfig) (RunStore, error) {
	if cfg.Type == "" {
		return NopStore{}, nil
	}
	return registry.Create(cfg)
}

type fileConf struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

func decodeFile(conf map[string]any, def string) (fileConf, error) {
	c := fileConf{Path: def}
	if err := factory.Decode(conf, &c); err != nil {
		return c, err
	}
	if c.Path == "" {
		return c, fmt.Errorf("path is required")
	}
	return c, nil
}

// init registers built-in stores.
func init() {
	_ = Register("nop", func(map[string]any) (RunStore, error) { return NopStore{}, nil })
	_ = Register("jsonl", func(conf map[string]any) (RunStore, error) {
		c, err := decodeFile(conf, "runs.jsonl")
		if err != nil {
			return nil, err
		}
		return NewJSONLStore(c.Path)
	})
	_ = Register("jsonl_rotating", func(conf map[string]any) (RunStore, error) {
		c, err := decodeFile(conf, "runs.jsonl")
		if err != nil {
			return nil, err
		}
		if c.MaxSizeMB <= 0 {
			c.MaxSizeMB = 10
		}
		return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	})
	_ = Register("sqlite", func(conf map[string]any) (RunStore, error) {
		c, err := decodeFile(conf, "runs.db")
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(c.Path)
	})
}
