package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/masa/internal/ir"
)

// TraceSnapshot captures the complete trace for a scenario execution.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Precision    string       `json:"precision"`
	Trace        []TraceEvent `json:"trace"`
}

// toCanonicalMap converts a snapshot to the shapes ir.MarshalCanonical
// accepts. Empty fields are omitted.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"seq":     event.Seq,
			"op":      event.Op,
			"outcome": event.Outcome,
		}
		if event.Args != nil {
			eventMap["args"] = event.Args
		}
		if event.Result != nil {
			eventMap["result"] = event.Result
		}
		if event.Code != "" {
			eventMap["code"] = event.Code
		}
		if event.Diagnostic != "" {
			eventMap["diagnostic"] = event.Diagnostic
		}
		traceList[i] = eventMap
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"precision":     s.Precision,
		"trace":         traceList,
	}
}

// MarshalTrace renders the canonical JSON snapshot of a result.
func MarshalTrace(scenario *Scenario, result *Result) ([]byte, error) {
	precision := scenario.Precision
	if precision == "" {
		precision = string(ir.PrecisionDouble)
	}
	snapshot := TraceSnapshot{
		ScenarioName: scenario.Name,
		Precision:    precision,
		Trace:        result.Trace,
	}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's trace against its golden
// file.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	traceJSON, err := MarshalTrace(scenario, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	return nil
}
