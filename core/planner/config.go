package planner

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/crewplan/core/calendar"
	"github.com/kilianp07/crewplan/core/model"
	"github.com/kilianp07/crewplan/core/solver"
)

const (
	DefaultNumCrews             = 3
	DefaultNetShiftHours        = 8.0
	DefaultSolverTimeoutSeconds = 60
	DefaultSearchWorkers        = 8
)

// Config defines the scheduler section of the configuration.
type Config struct {
	NumCrews             int     `json:"num_crews"`
	NetShiftHours        float64 `json:"net_shift_hours"`
	SolverTimeoutSeconds int     `json:"solver_timeout_seconds"`
	SearchWorkers        int     `json:"search_workers"`
	// Holidays are YYYY-MM-DD dates excluded from every horizon.
	Holidays []string `json:"holidays"`
	// Crews overrides NumCrews with an explicit roster when not empty.
	Crews []CrewConfig `json:"crews"`
}

// CrewConfig describes one crew of an explicit roster.
type CrewConfig struct {
	ID string `json:"id"`
	// NetShiftHours defaults to the scheduler-wide value when zero.
	NetShiftHours float64  `json:"net_shift_hours"`
	Unavailable   []string `json:"unavailable"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.NumCrews == 0 {
		c.NumCrews = DefaultNumCrews
	}
	if c.NetShiftHours == 0 {
		c.NetShiftHours = DefaultNetShiftHours
	}
	if c.SolverTimeoutSeconds == 0 {
		c.SolverTimeoutSeconds = DefaultSolverTimeoutSeconds
	}
	if c.SearchWorkers == 0 {
		c.SearchWorkers = DefaultSearchWorkers
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if len(c.Crews) == 0 && c.NumCrews < 1 {
		return fmt.Errorf("num_crews must be positive, got %d", c.NumCrews)
	}
	if c.NetShiftHours <= 0 {
		return fmt.Errorf("net_shift_hours must be positive, got %g", c.NetShiftHours)
	}
	if c.SolverTimeoutSeconds < 0 {
		return fmt.Errorf("solver_timeout_seconds must not be negative")
	}
	if c.SearchWorkers < 0 {
		return fmt.Errorf("search_workers must not be negative")
	}
	if _, err := c.HolidaySet(); err != nil {
		return err
	}
	_, err := c.Roster()
	return err
}

// HolidaySet parses the configured holidays.
func (c Config) HolidaySet() (calendar.HolidaySet, error) {
	days, err := parseDates(c.Holidays)
	if err != nil {
		return nil, fmt.Errorf("holidays: %w", err)
	}
	return calendar.NewHolidaySet(days...), nil
}

// Roster returns the crews available to a run.
func (c Config) Roster() ([]model.Crew, error) {
	if len(c.Crews) == 0 {
		crews := make([]model.Crew, c.NumCrews)
		for i := range crews {
			crews[i] = model.Crew{ID: fmt.Sprintf("crew-%d", i+1), NetShiftHours: c.NetShiftHours}
		}
		return crews, nil
	}
	seen := make(map[string]bool, len(c.Crews))
	crews := make([]model.Crew, 0, len(c.Crews))
	for i, cc := range c.Crews {
		if cc.ID == "" {
			return nil, fmt.Errorf("crews[%d]: id is required", i)
		}
		if seen[cc.ID] {
			return nil, fmt.Errorf("crews[%d]: duplicate id %s", i, cc.ID)
		}
		seen[cc.ID] = true
		hours := cc.NetShiftHours
		if hours == 0 {
			hours = c.NetShiftHours
		}
		if hours <= 0 {
			return nil, fmt.Errorf("crew %s: net_shift_hours must be positive", cc.ID)
		}
		off, err := parseDates(cc.Unavailable)
		if err != nil {
			return nil, fmt.Errorf("crew %s: %w", cc.ID, err)
		}
		crew := model.Crew{ID: cc.ID, NetShiftHours: hours}
		if len(off) > 0 {
			crew.Unavailable = make(map[time.Time]bool, len(off))
			for _, d := range off {
				crew.Unavailable[model.Day(d)] = true
			}
		}
		crews = append(crews, crew)
	}
	return crews, nil
}

// SolverConfig converts the search settings.
func (c Config) SolverConfig() solver.Config {
	return solver.Config{
		Timeout: time.Duration(c.SolverTimeoutSeconds) * time.Second,
		Workers: c.SearchWorkers,
	}
}

func parseDates(values []string) ([]time.Time, error) {
	var errs []error
	out := make([]time.Time, 0, len(values))
	for _, v := range values {
		d, err := time.Parse(time.DateOnly, v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid date %q", v))
			continue
		}
		out = append(out, d)
	}
	return out, errors.Join(errs...)
}
