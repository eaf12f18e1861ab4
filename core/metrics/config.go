package metrics

import (
	"github.com/kilianp07/crewplan/auth"
	"github.com/kilianp07/crewplan/core/factory"
)

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PushgatewayURL, when set, receives the collected metrics once a batch run ends.
	PushgatewayURL string `json:"pushgateway_url"`
	JobName        string `json:"job_name"`
	// PushAuth signs Pushgateway requests with client credentials when set.
	PushAuth auth.Conf `json:"push_auth"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.JobName == "" {
		c.JobName = "crewplan"
	}
}
