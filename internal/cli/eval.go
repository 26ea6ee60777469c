package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/registry"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	InstanceOptions
}

// EvalResult is the JSON payload of the eval command. Value is rendered
// at the precision of the domain.
type EvalResult struct {
	Kind       ir.KindName  `json:"kind"`
	Precision  ir.Precision `json:"precision"`
	Entrypoint string       `json:"entrypoint"`
	Args       []string     `json:"args"`
	Value      string       `json:"value"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <kind> <entrypoint> [args...]",
		Short: "Evaluate a source term, exact solution or gradient",
		Long: `Evaluate one entry point of a freshly initialized instance.

Arguments follow the entry point: spatial coordinates, then time for "_t"
entry points, then the component axis (0-based) for 2D and 3D gradients.
1D gradients take x alone. Run
"masa entrypoints" for the full table. Put "--" before negative arguments.

Examples:
  masa eval heat_1d_steady_const exact_t_1d 0.5
  masa eval euler_2d grad_rho_2d 0.1 0.2 1
  masa eval euler_1d grad_u_1d 0.5
  masa eval masa_test_function exact_t_1d --set demo_var_2=4 -- -1.5`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.precision() == ir.PrecisionSingle {
				return runEval[float32](opts, args, cmd)
			}
			return runEval[float64](opts, args, cmd)
		},
	}
	opts.bind(cmd)

	return cmd
}

func runEval[S ir.Scalar](opts *EvalOptions, args []string, cmd *cobra.Command) (err error) {
	formatter := opts.formatter(cmd)
	defer recoverFailure(&err, func(err error) error {
		return evalFailure(formatter, err)
	})
	kind, entrypoint, raw := args[0], args[1], args[2:]

	coords, err := parseScalars[S](raw)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid argument", err)
	}

	f, err := openInstance[S](opts.RootOptions, &opts.InstanceOptions, kind, cmd)
	if err != nil {
		return formatter.Fail("failed to initialize "+kind, err)
	}
	defer f.Registry().Close()

	v, err := f.EvalID(entrypoint, coords...)
	if err != nil {
		return evalFailure(formatter, err)
	}

	name, _ := f.Name()
	result := EvalResult{
		Kind:       name,
		Precision:  f.Precision(),
		Entrypoint: entrypoint,
		Args:       raw,
		Value:      ir.FormatScalar(v),
	}
	opts.Logger.Debug("evaluated", "kind", name, "entrypoint", entrypoint, "value", result.Value)

	return formatter.Render(result, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, result.Value)
		return err
	})
}

// evalFailure maps an evaluation error to the command's error: malformed
// calls are command errors, everything else a registry failure.
func evalFailure(formatter *OutputFormatter, err error) error {
	if registry.IsInvalidCall(err) {
		return WrapExitError(ExitCommandError, "invalid entry point call", err)
	}
	return formatter.Fail("evaluation failed", err)
}
