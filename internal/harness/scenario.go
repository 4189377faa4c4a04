package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one declarative attendance flow: a fixed clock, a user,
// a sequence of clock actions, and the session table the sequence must
// leave behind.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what behavior the scenario pins down.
	Description string `yaml:"description"`

	// Now is the wall-clock instant all steps run at, in the fixed
	// local offset, formatted "2006-01-02 15:04".
	Now string `yaml:"now"`

	// User is the acting user's handle.
	User string `yaml:"user"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`

	// Sessions maps a day (YYYY-MM-DD) to the sessions expected for
	// that day after all steps ran. Days not listed are not checked.
	Sessions map[string][]ExpectedSession `yaml:"sessions"`
}

// Step is a single clock action.
type Step struct {
	// Op selects the operation: "in", "out", "add", "edit", "delete",
	// "delete_day".
	Op string `yaml:"op"`

	// Kind is "in" or "out"; required for add.
	Kind string `yaml:"kind,omitempty"`

	// Date is the day filed against (YYYY-MM-DD). Required for add and
	// delete_day; optional for edit (empty keeps the event's day).
	Date string `yaml:"date,omitempty"`

	// Time is the clock time, ordinary or night-shift form. Required
	// for add and edit.
	Time string `yaml:"time,omitempty"`

	// Label names the event this step creates so later steps can
	// reference it.
	Label string `yaml:"label,omitempty"`

	// Target is the label of the event to edit or delete.
	Target string `yaml:"target,omitempty"`

	// Expect is the validation code this step must be rejected with.
	// Empty means the step must be accepted.
	Expect string `yaml:"expect,omitempty"`
}

// ExpectedSession describes one session row. Times are local clock
// strings; an empty End means the session is still open.
type ExpectedSession struct {
	Start   string `yaml:"start"`
	End     string `yaml:"end,omitempty"`
	Minutes int    `yaml:"minutes,omitempty"`
}

var stepOps = map[string]bool{
	"in":         true,
	"out":        true,
	"add":        true,
	"edit":       true,
	"delete":     true,
	"delete_day": true,
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected so typos fail loudly instead of silently skipping a
// check.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if err := validateScenario(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &sc, nil
}

func validateScenario(sc *Scenario) error {
	if sc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if sc.Now == "" {
		return fmt.Errorf("now is required")
	}
	if sc.User == "" {
		return fmt.Errorf("user is required")
	}
	if len(sc.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	labels := make(map[string]bool)
	for i, st := range sc.Steps {
		if !stepOps[st.Op] {
			return fmt.Errorf("steps[%d]: unknown op %q", i, st.Op)
		}
		switch st.Op {
		case "add":
			if st.Kind == "" || st.Date == "" || st.Time == "" {
				return fmt.Errorf("steps[%d]: add requires kind, date, and time", i)
			}
		case "edit":
			if st.Target == "" || st.Time == "" {
				return fmt.Errorf("steps[%d]: edit requires target and time", i)
			}
		case "delete":
			if st.Target == "" {
				return fmt.Errorf("steps[%d]: delete requires target", i)
			}
		case "delete_day":
			if st.Date == "" {
				return fmt.Errorf("steps[%d]: delete_day requires date", i)
			}
		}
		if st.Target != "" && !labels[st.Target] {
			return fmt.Errorf("steps[%d]: target %q does not name an earlier step", i, st.Target)
		}
		if st.Label != "" {
			if st.Expect != "" {
				return fmt.Errorf("steps[%d]: a rejected step cannot carry a label", i)
			}
			if labels[st.Label] {
				return fmt.Errorf("steps[%d]: duplicate label %q", i, st.Label)
			}
			labels[st.Label] = true
		}
	}
	return nil
}
