package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/masa/internal/ir"
)

// Scenario is a scripted sequence of registry and façade calls against a
// fresh registry of one precision domain.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Precision selects the domain: "double" (default) or "single".
	Precision string `yaml:"precision,omitempty"`

	// Aliases is an optional alias table path, relative to the scenario
	// file. The built-in table is used when empty.
	Aliases string `yaml:"aliases,omitempty"`

	// Steps run in order. A failing step does not stop the scenario.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace and final registry state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step operations.
const (
	OpInit        = "init"
	OpSelect      = "select"
	OpList        = "list"
	OpSetParam    = "set_param"
	OpGetParam    = "get_param"
	OpInitParams  = "init_params"
	OpPurgeParams = "purge_params"
	OpEval        = "eval"
	OpSanityCheck = "sanity_check"
	OpPolyTest    = "poly_test"
	OpName        = "name"
	OpDimension   = "dimension"
)

var validOps = map[string]bool{
	OpInit: true, OpSelect: true, OpList: true,
	OpSetParam: true, OpGetParam: true, OpInitParams: true, OpPurgeParams: true,
	OpEval: true, OpSanityCheck: true, OpPolyTest: true,
	OpName: true, OpDimension: true,
}

// Step is one call.
type Step struct {
	Op string `yaml:"op"`

	// User is the instance name for init and select.
	User string `yaml:"user,omitempty"`

	// Kind is the requested kind name for init (aliasing applies).
	Kind string `yaml:"kind,omitempty"`

	// Param and Value are used by get_param and set_param.
	Param string   `yaml:"param,omitempty"`
	Value *float64 `yaml:"value,omitempty"`

	// Entrypoint and Args are used by eval. Args are laid out as the
	// entry point expects: x[, y[, z]][, t][, axis]. 1D gradients take
	// no axis.
	Entrypoint string    `yaml:"entrypoint,omitempty"`
	Args       []float64 `yaml:"args,omitempty"`

	// Expect checks the step's outcome. Without it the step must succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes the expected outcome of a step. At most one of the
// value fields may be set; Error excludes all of them.
type Expect struct {
	// Error is the expected registry error code, e.g. "UNKNOWN_KIND".
	Error string `yaml:"error,omitempty"`

	// Value is the expected scalar of eval and get_param, compared
	// within Tol.
	Value *float64 `yaml:"value,omitempty"`
	Tol   float64  `yaml:"tol,omitempty"`

	// Bool is the expected status of sanity_check and poly_test.
	Bool *bool `yaml:"bool,omitempty"`

	// Int is the expected dimension.
	Int *int `yaml:"int,omitempty"`

	// Name is the expected canonical kind name.
	Name string `yaml:"name,omitempty"`

	// List is the expected listing as "user : kind" lines.
	List []string `yaml:"list,omitempty"`

	// Diagnostic must be a substring of the step's diagnostic output.
	Diagnostic string `yaml:"diagnostic,omitempty"`
}

// Assertion validates the trace or the final registry state.
type Assertion struct {
	// Type is one of trace_contains, trace_order, trace_count,
	// final_bindings or active.
	Type string `yaml:"type"`

	// Op and Args select trace events (trace_contains, trace_count).
	// Args is a subset match.
	Op   string         `yaml:"op,omitempty"`
	Args map[string]any `yaml:"args,omitempty"`

	// Outcome optionally restricts matching events to "ok" or "error".
	Outcome string `yaml:"outcome,omitempty"`

	// Count is the expected number of matching events (trace_count).
	Count int `yaml:"count,omitempty"`

	// Ops is the expected relative order of operations (trace_order).
	Ops []string `yaml:"ops,omitempty"`

	// Bindings is the expected final listing (final_bindings).
	Bindings []string `yaml:"bindings,omitempty"`

	// User is the expected active instance (active). Empty means none.
	User string `yaml:"user,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalBindings = "final_bindings"
	AssertActive        = "active"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos surface as errors. A relative alias table path is
// resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Aliases != "" && !filepath.IsAbs(scenario.Aliases) {
		scenario.Aliases = filepath.Join(filepath.Dir(path), scenario.Aliases)
	}
	return scenario, nil
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Precision != "" {
		if _, err := ir.ParsePrecision(s.Precision); err != nil {
			return err
		}
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(i int, step *Step) error {
	if !validOps[step.Op] {
		return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
	}

	switch step.Op {
	case OpInit:
		if step.User == "" || step.Kind == "" {
			return fmt.Errorf("steps[%d]: init requires user and kind", i)
		}
	case OpSelect:
		if step.User == "" {
			return fmt.Errorf("steps[%d]: select requires user", i)
		}
	case OpGetParam:
		if step.Param == "" {
			return fmt.Errorf("steps[%d]: get_param requires param", i)
		}
	case OpSetParam:
		if step.Param == "" || step.Value == nil {
			return fmt.Errorf("steps[%d]: set_param requires param and value", i)
		}
	case OpEval:
		if step.Entrypoint == "" {
			return fmt.Errorf("steps[%d]: eval requires entrypoint", i)
		}
	}

	if step.Expect != nil {
		return validateExpect(i, step.Expect)
	}
	return nil
}

func validateExpect(i int, e *Expect) error {
	n := 0
	if e.Value != nil {
		n++
	}
	if e.Bool != nil {
		n++
	}
	if e.Int != nil {
		n++
	}
	if e.Name != "" {
		n++
	}
	if e.List != nil {
		n++
	}
	if n > 1 {
		return fmt.Errorf("steps[%d].expect: at most one of value, bool, int, name, list", i)
	}
	if e.Error != "" && n > 0 {
		return fmt.Errorf("steps[%d].expect: error excludes value expectations", i)
	}
	if e.Tol < 0 {
		return fmt.Errorf("steps[%d].expect: tol must be non-negative", i)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalBindings, AssertActive:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	if a.Outcome != "" && a.Outcome != OutcomeOK && a.Outcome != OutcomeError {
		return fmt.Errorf("assertions[%d]: outcome must be %q or %q", index, OutcomeOK, OutcomeError)
	}
	return nil
}
