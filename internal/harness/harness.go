package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/masa/internal/alias"
	"github.com/roach88/masa/internal/catalog"
	"github.com/roach88/masa/internal/facade"
	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/registry"
	"github.com/roach88/masa/internal/testutil"
)

// Harness error codes for failures that do not come from the registry.
const (
	CodeArity             = "ARITY_MISMATCH"
	CodeUnknownEntrypoint = "UNKNOWN_ENTRYPOINT"
	CodeInvalidAxis       = "INVALID_AXIS"
	CodeOther             = "ERROR"
)

// runner executes steps against one façade. Each scenario gets its own
// registry, so scenarios never observe each other's instances.
type runner[S ir.Scalar] struct {
	facade *facade.Facade[S]
	clock  *testutil.Sequence
	diag   *bytes.Buffer
	logger *slog.Logger
	result *Result
}

// Run executes a scenario against a fresh registry of its precision and
// returns the result. The error is non-nil only when the scenario could
// not be set up; failed expectations are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with registry and harness logs sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	var aliaser alias.Mapper = alias.Default()
	if scenario.Aliases != "" {
		tbl, err := alias.Load(scenario.Aliases)
		if err != nil {
			return nil, fmt.Errorf("failed to load alias table: %w", err)
		}
		aliaser = tbl
	}

	precision := ir.PrecisionDouble
	if scenario.Precision != "" {
		p, err := ir.ParsePrecision(scenario.Precision)
		if err != nil {
			return nil, err
		}
		precision = p
	}

	if precision == ir.PrecisionSingle {
		return run[float32](scenario, aliaser, logger), nil
	}
	return run[float64](scenario, aliaser, logger), nil
}

func run[S ir.Scalar](scenario *Scenario, aliaser alias.Mapper, logger *slog.Logger) *Result {
	diag := &bytes.Buffer{}
	reg := registry.New(catalog.Default[S](),
		registry.WithAliaser(aliaser),
		registry.WithLogger(logger),
		registry.WithDiagnostics(diag),
		registry.WithPolicy(registry.PolicyReturn),
	)
	defer reg.Close()

	r := &runner[S]{
		facade: facade.New(reg),
		clock:  testutil.NewSequence(),
		diag:   diag,
		logger: logger.With("scenario", scenario.Name),
		result: NewResult(),
	}

	for i, step := range scenario.Steps {
		r.execute(i, step)
	}

	r.result.Bindings = reg.List()
	if user, ok := reg.ActiveName(); ok {
		r.result.Active = string(user)
	}

	for _, msg := range EvaluateAssertions(r.result, scenario.Assertions) {
		r.result.AddError(msg)
	}
	return r.result
}

// execute runs one step, records it in the trace and checks its
// expectation.
func (r *runner[S]) execute(i int, step Step) {
	r.diag.Reset()
	value, err := r.call(step)

	ev := TraceEvent{
		Seq:        r.clock.Next(),
		Op:         step.Op,
		Args:       stepArgs(step),
		Outcome:    OutcomeOK,
		Result:     value,
		Diagnostic: r.diag.String(),
	}
	if err != nil {
		ev.Outcome = OutcomeError
		ev.Code = errorCode(err)
		ev.Result = nil
	}
	r.result.AddTrace(ev)

	r.logger.Debug("step executed",
		"step", i,
		"op", step.Op,
		"outcome", ev.Outcome,
		"code", ev.Code,
	)

	if msg := checkExpect(step.Expect, ev, err); msg != "" {
		r.result.AddError(fmt.Sprintf("steps[%d] %s: %s", i, step.Op, msg))
	}
}

// call performs the step and returns its trace value.
func (r *runner[S]) call(step Step) (any, error) {
	f := r.facade
	switch step.Op {
	case OpInit:
		return nil, f.Init(ir.UserName(step.User), step.Kind)
	case OpSelect:
		return nil, f.Select(ir.UserName(step.User))
	case OpList:
		return formatBindings(f.List()), nil
	case OpSetParam:
		return nil, f.SetParam(step.Param, S(*step.Value))
	case OpGetParam:
		v, err := f.GetParam(step.Param)
		return ir.FormatScalar(v), err
	case OpInitParams:
		return nil, f.InitParams()
	case OpPurgeParams:
		return nil, f.PurgeParams()
	case OpEval:
		coords := make([]S, len(step.Args))
		for i, a := range step.Args {
			coords[i] = S(a)
		}
		v, err := f.EvalID(step.Entrypoint, coords...)
		return ir.FormatScalar(v), err
	case OpSanityCheck:
		return f.SanityCheck()
	case OpPolyTest:
		return f.PolyTest()
	case OpName:
		name, err := f.Name()
		return string(name), err
	case OpDimension:
		return f.Dimension()
	}
	return nil, fmt.Errorf("unknown op %q", step.Op)
}

// stepArgs returns the inputs of a step for the trace.
func stepArgs(step Step) map[string]any {
	args := map[string]any{}
	if step.User != "" {
		args["user"] = step.User
	}
	if step.Kind != "" {
		args["kind"] = step.Kind
	}
	if step.Param != "" {
		args["param"] = step.Param
	}
	if step.Value != nil {
		args["value"] = *step.Value
	}
	if step.Entrypoint != "" {
		args["entrypoint"] = step.Entrypoint
		coords := make([]any, len(step.Args))
		for i, a := range step.Args {
			coords[i] = a
		}
		args["coords"] = coords
	}
	if len(args) == 0 {
		return nil
	}
	return args
}

// errorCode maps an error to the code recorded in the trace. Malformed
// eval calls are told apart by cause rather than by the registry's
// INVALID_CALL.
func errorCode(err error) string {
	var ae *facade.ArityError
	switch {
	case errors.As(err, &ae):
		return CodeArity
	case errors.Is(err, facade.ErrUnknownEntrypoint):
		return CodeUnknownEntrypoint
	case errors.Is(err, facade.ErrInvalidAxis):
		return CodeInvalidAxis
	}
	if code := registry.CodeOf(err); code != "" {
		return string(code)
	}
	return CodeOther
}

func formatBindings(bs []ir.Binding) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = fmt.Sprintf("%s : %s", b.User, b.Kind)
	}
	return out
}

// checkExpect returns a description of the mismatch between the event
// and the expectation, or "" when they agree.
func checkExpect(e *Expect, ev TraceEvent, err error) string {
	if e == nil {
		if err != nil {
			return fmt.Sprintf("unexpected error: %v", err)
		}
		return ""
	}

	if e.Diagnostic != "" && !strings.Contains(ev.Diagnostic, e.Diagnostic) {
		return fmt.Sprintf("diagnostic %q does not contain %q", ev.Diagnostic, e.Diagnostic)
	}

	if e.Error != "" {
		if err == nil {
			return fmt.Sprintf("expected error %s, got success", e.Error)
		}
		if ev.Code != e.Error {
			return fmt.Sprintf("expected error %s, got %s (%v)", e.Error, ev.Code, err)
		}
		return ""
	}
	if err != nil {
		return fmt.Sprintf("unexpected error: %v", err)
	}

	switch got := ev.Result.(type) {
	case string:
		if e.Value != nil {
			return checkValue(*e.Value, e.Tol, got)
		}
		if e.Name != "" && e.Name != got {
			return fmt.Sprintf("expected name %q, got %q", e.Name, got)
		}
	case bool:
		if e.Bool != nil && *e.Bool != got {
			return fmt.Sprintf("expected %t, got %t", *e.Bool, got)
		}
	case int:
		if e.Int != nil && *e.Int != got {
			return fmt.Sprintf("expected %d, got %d", *e.Int, got)
		}
	case []string:
		if e.List != nil && !slices.Equal(e.List, got) {
			return fmt.Sprintf("expected list %q, got %q", e.List, got)
		}
	}
	return ""
}

func checkValue(want, tol float64, got string) string {
	v, err := strconv.ParseFloat(got, 64)
	if err != nil {
		return fmt.Sprintf("result %q is not a number", got)
	}
	if math.Abs(v-want) > tol {
		return fmt.Sprintf("expected %g (tol %g), got %s", want, tol, got)
	}
	return ""
}
