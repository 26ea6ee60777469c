package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/param"
)

// ParamsOptions holds flags for the params command.
type ParamsOptions struct {
	*RootOptions
	InstanceOptions
}

// ParamsView is the JSON payload of the params command.
type ParamsView[S ir.Scalar] struct {
	Kind      ir.KindName      `json:"kind"`
	Precision ir.Precision     `json:"precision"`
	Params    []param.Entry[S] `json:"params"`
}

// NewParamsCommand creates the params command.
func NewParamsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParamsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "params <kind>",
		Short: "Show the parameters of a kind",
		Long: `Initialize an instance of a kind and display its parameters.

Parameters are set to their documented defaults unless --skip-defaults is
given; --set overrides individual values afterwards.

Examples:
  masa params heat_1d_steady_const
  masa params euler_2d --set Gamma=1.3
  masa params masa_uninit --set dummy=1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.precision() == ir.PrecisionSingle {
				return runParams[float32](opts, args[0], cmd)
			}
			return runParams[float64](opts, args[0], cmd)
		},
	}
	opts.bind(cmd)

	return cmd
}

func runParams[S ir.Scalar](opts *ParamsOptions, kind string, cmd *cobra.Command) (err error) {
	formatter := opts.formatter(cmd)
	defer recoverFailure(&err, func(err error) error {
		return formatter.Fail("failed to read parameters of "+kind, err)
	})

	f, err := openInstance[S](opts.RootOptions, &opts.InstanceOptions, kind, cmd)
	if err != nil {
		return formatter.Fail("failed to initialize "+kind, err)
	}
	defer f.Registry().Close()

	name, _ := f.Name()
	entries, err := f.Params()
	if err != nil {
		return formatter.Fail("failed to read parameters", err)
	}

	view := ParamsView[S]{Kind: name, Precision: f.Precision(), Params: entries}
	return formatter.Render(view, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "%s (%s)\n", name, f.Precision()); err != nil {
			return err
		}
		return f.DisplayParams(w)
	})
}
