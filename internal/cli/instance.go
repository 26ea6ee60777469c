package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/masa/internal/facade"
	"github.com/roach88/masa/internal/ir"
)

// cliUser is the instance name commands register their instance under.
const cliUser ir.UserName = "cli"

// InstanceOptions holds the flags shared by commands that build one
// instance of a kind.
type InstanceOptions struct {
	Sets         []string // name=value overrides, applied after defaults
	SkipDefaults bool
}

func (o *InstanceOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&o.Sets, "set", nil, "set a parameter as name=value (repeatable)")
	cmd.Flags().BoolVar(&o.SkipDefaults, "skip-defaults", false, "leave parameters unset instead of applying defaults")
}

type paramSet struct {
	name  string
	value float64
}

// parseSets parses name=value pairs at the bit size of the domain.
func parseSets(sets []string, bits int) ([]paramSet, error) {
	out := make([]paramSet, 0, len(sets))
	for _, s := range sets {
		name, raw, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%q: expected name=value", s)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), bits)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		out = append(out, paramSet{name: name, value: v})
	}
	return out, nil
}

// parseScalars parses positional numeric arguments.
func parseScalars[S ir.Scalar](args []string) ([]S, error) {
	out := make([]S, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, bitSize[S]())
		if err != nil {
			return nil, fmt.Errorf("argument %d (%q): %w", i+1, a, err)
		}
		out[i] = S(v)
	}
	return out, nil
}

func bitSize[S ir.Scalar]() int {
	if ir.PrecisionOf[S]() == ir.PrecisionSingle {
		return 32
	}
	return 64
}

// openInstance builds a registry, initializes kind as the active instance
// and configures its parameters. A kind with parameters that have no
// default is accepted when --set fills them in. The caller closes the
// returned façade's registry.
func openInstance[S ir.Scalar](opts *RootOptions, inst *InstanceOptions, kind string, cmd *cobra.Command) (*facade.Facade[S], error) {
	sets, err := parseSets(inst.Sets, bitSize[S]())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid --set", err)
	}

	reg, err := newRegistry[S](opts, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	f := facade.New(reg)

	if err := f.Init(cliUser, kind); err != nil {
		reg.Close()
		return nil, err
	}

	// Missing defaults may still be supplied by --set, so the policy is
	// applied only once the sets are in.
	var initErr error
	if !inst.SkipDefaults {
		sol, err := reg.Active()
		if err != nil {
			reg.Close()
			return nil, err
		}
		initErr = sol.InitParams()
	}
	for _, s := range sets {
		if err := f.SetParam(s.name, S(s.value)); err != nil {
			reg.Close()
			return nil, err
		}
	}
	if initErr != nil {
		if ok, _ := f.SanityCheck(); !ok {
			reg.Close()
			return nil, reg.Fail(initErr)
		}
		opts.Logger.Debug("required parameters supplied by --set", "kind", kind)
	}
	return f, nil
}
