package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/spinecho/internal/config"
	"github.com/san-kum/spinecho/internal/dynamo"
	"github.com/san-kum/spinecho/internal/experiment"
	"github.com/san-kum/spinecho/internal/pulse"
	"github.com/san-kum/spinecho/internal/sim"
	"github.com/san-kum/spinecho/internal/storage"
)

// Scenario is a named list of headless runs executed in order.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Unset overrides keep the preset (or config
// file) value.
type ScenarioStep struct {
	Preset      string      `yaml:"preset"`
	Config      string      `yaml:"config"`
	Frames      int         `yaml:"frames"`
	Mode        *pulse.Mode `yaml:"mode"`
	FlipAngle   *float64    `yaml:"flip_angle"`
	Period      int         `yaml:"period"`
	Spins       int         `yaml:"spins"`
	OffsetScale float64     `yaml:"offset_scale"`
	SaveAs      string      `yaml:"save_as"`
}

// StepResult is the outcome of one scenario step. RunID is empty when the
// step was not archived.
type StepResult struct {
	Step   int
	RunID  string
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %q has no steps", dynamo.ErrConfiguration, scenario.Name)
	}

	return &scenario, nil
}

// Resolve builds the step's configuration.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	cfg, err := experiment.Resolve(s.Preset, s.Config)
	if err != nil {
		return nil, err
	}

	if s.Frames > 0 {
		cfg.Frames = s.Frames
	}
	if s.Mode != nil {
		cfg.Pulse.Mode = *s.Mode
	}
	if s.FlipAngle != nil {
		cfg.Pulse.FlipAngle = *s.FlipAngle
	}
	if s.Period > 0 {
		cfg.Pulse.Period = s.Period
	}
	if s.Spins > 0 {
		cfg.Ensemble.Spins = s.Spins
	}
	if s.OffsetScale > 0 {
		cfg.Ensemble.OffsetScale = s.OffsetScale
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes all steps in a scenario. Steps with save_as are
// archived in store when store is non-nil. Progress lines go to out.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, out io.Writer) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		label := step.Preset
		if label == "" {
			label = "default"
		}
		fmt.Fprintf(out, "Running step %d/%d: %s\n", i+1, len(scenario.Steps), label)

		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(nil); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: i + 1, Result: result}
		if step.SaveAs != "" && store != nil {
			runID, err := store.Save(storage.Describe(step.SaveAs, cfg), result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = runID
			fmt.Fprintf(out, "  saved as %s\n", runID)
		}

		results = append(results, sr)
	}

	return results, nil
}
