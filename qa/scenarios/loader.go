package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/crewplan/core/model"
	"github.com/kilianp07/crewplan/pkg/dataset"
)

type Horizon struct {
	Year  int    `yaml:"year,omitempty"`
	Month int    `yaml:"month,omitempty"`
	Start string `yaml:"start,omitempty"`
	End   string `yaml:"end,omitempty"`
}

type Expected struct {
	Status    model.Status `yaml:"status"`
	Objective int          `yaml:"objective"`
	Scheduled int          `yaml:"scheduled"`
	// Issues lists the job ids reported as not modeled.
	Issues []string `yaml:"issues,omitempty"`
	// InfeasibleJob is the job blamed by an infeasibility diagnosis.
	InfeasibleJob string `yaml:"infeasible_job,omitempty"`
	// Slipped counts reconciliation rows completed after the planned day.
	Slipped int `yaml:"slipped,omitempty"`
}

type Scenario struct {
	Name          string              `yaml:"name"`
	Description   string              `yaml:"description,omitempty"`
	NumCrews      int                 `yaml:"num_crews"`
	NetShiftHours float64             `yaml:"net_shift_hours"`
	Holidays      []string            `yaml:"holidays,omitempty"`
	Horizon       Horizon             `yaml:"horizon"`
	Jobs          []dataset.JobDoc    `yaml:"jobs"`
	Actuals       []dataset.ActualDoc `yaml:"actuals,omitempty"`
	Expected      Expected            `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) actuals() ([]model.ActualCompletion, error) {
	out := make([]model.ActualCompletion, 0, len(sc.Actuals))
	for _, d := range sc.Actuals {
		a, err := d.Actual()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
