package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/masa/internal/catalog"
	"github.com/roach88/masa/internal/ir"
)

// NewKindsCommand creates the kinds command.
func NewKindsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List available solution kinds",
		Long: `List every kind in the built-in catalog in declaration order.

Text output is the classic listing; JSON output adds each kind's
dimension and declared parameters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rootOpts.precision() == ir.PrecisionSingle {
				return runKinds(rootOpts, catalog.Default[float32](), cmd)
			}
			return runKinds(rootOpts, catalog.Default[float64](), cmd)
		},
	}
}

func runKinds[S ir.Scalar](opts *RootOptions, cat *catalog.Catalog[S], cmd *cobra.Command) error {
	return opts.formatter(cmd).Render(cat.Kinds(), cat.Print)
}

// NewEntrypointsCommand creates the entrypoints command.
func NewEntrypointsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "entrypoints",
		Short: "List evaluation entry points",
		Long: `List the fixed table of evaluation entry points accepted by eval.

Arguments are the spatial coordinates, then time for "_t" entry points,
then the component axis (0-based) for gradients.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eps := ir.Entrypoints()
			return rootOpts.formatter(cmd).Render(eps, func(w io.Writer) error {
				for _, ep := range eps {
					if _, err := fmt.Fprintf(w, "%-20s %s\n", ep.ID(), entrypointUsage(ep)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

// entrypointUsage describes the argument list of ep, e.g. "x y t axis".
func entrypointUsage(ep ir.Entrypoint) string {
	args := []string{"x", "y", "z"}[:ep.Dim]
	if ep.Timed {
		args = append(args, "t")
	}
	if ep.TakesAxis() {
		args = append(args, "axis")
	}
	return strings.Join(args, " ")
}
