// Package cli implements the masa command-line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/masa/internal/catalog"
	"github.com/roach88/masa/internal/config"
	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/registry"
)

// RootOptions holds global flags for all commands, and the configuration
// and logger resolved from them before any subcommand runs.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string

	Config config.Config
	Logger *slog.Logger

	viper *viper.Viper
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the masa CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{viper: viper.New()}

	cmd := &cobra.Command{
		Use:   "masa",
		Short: "MASA - manufactured analytical solutions",
		Long: `A registry of manufactured analytical solutions for verifying PDE solvers.

Each kind provides source terms, exact solutions and gradients for a model
problem (heat conduction, Euler flow, diagnostic test functions), evaluated
at double or single precision.

Settings are read from --config, else .masa/masa.yaml, else
~/.config/masa/masa.yaml. Environment variables prefixed MASA_ and
command-line flags take precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVarP(&opts.ConfigFile, "config", "c", "", "config file (default: .masa/masa.yaml or ~/.config/masa/masa.yaml)")
	flags.String("precision", "", "precision domain (double|single)")
	flags.String("aliases", "", "alias table file (default: built-in table)")
	flags.String("failure-mode", "", "failure policy (return|panic|exit)")

	_ = opts.viper.BindPFlag(config.KeyPrecision, flags.Lookup("precision"))
	_ = opts.viper.BindPFlag(config.KeyAliasFile, flags.Lookup("aliases"))
	_ = opts.viper.BindPFlag(config.KeyFailureMode, flags.Lookup("failure-mode"))

	cmd.AddCommand(NewKindsCommand(opts))
	cmd.AddCommand(NewEntrypointsCommand(opts))
	cmd.AddCommand(NewParamsCommand(opts))
	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewAliasesCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// setup validates the format flag, resolves the configuration and builds
// the logger.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	cfg, err := config.Load(o.viper, o.ConfigFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	o.Config = cfg

	level, _ := cfg.Level()
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))
	if used := o.viper.ConfigFileUsed(); used != "" {
		o.Logger.Debug("configuration loaded", "file", used)
	}
	return nil
}

// Execute runs cmd. A *registry.Error panic that escapes a command is
// returned as an error carrying the registry's exit code.
func Execute(cmd *cobra.Command) (err error) {
	defer recoverFailure(&err, func(err error) error {
		return WrapExitError(GetExitCode(err), "aborted", err)
	})
	return cmd.Execute()
}

// precision returns the configured domain. Config.Load has validated it.
func (o *RootOptions) precision() ir.Precision {
	p, err := o.Config.PrecisionTag()
	if err != nil {
		return ir.PrecisionDouble
	}
	return p
}

// formatter returns an OutputFormatter writing to the command's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// newRegistry builds a registry over the built-in catalog with the
// configured alias table and failure policy. Diagnostics go to diag.
func newRegistry[S ir.Scalar](o *RootOptions, diag io.Writer, opts ...registry.Option) (*registry.Registry[S], error) {
	aliases, err := o.Config.Aliases()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load alias table", err)
	}
	policy, err := o.Config.Policy()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid failure mode", err)
	}

	base := []registry.Option{
		registry.WithAliaser(aliases),
		registry.WithLogger(o.Logger),
		registry.WithDiagnostics(diag),
		registry.WithPolicy(policy),
	}
	return registry.New(catalog.Default[S](), append(base, opts...)...), nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
