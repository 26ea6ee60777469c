package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/registry"
)

// isolate runs the test in an empty working directory with an empty home
// so no real config file is picked up.
func isolate(t *testing.T) (cwd, home string) {
	t.Helper()
	cwd = t.TempDir()
	home = t.TempDir()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(cwd))
	t.Cleanup(func() { _ = os.Chdir(prev) })
	t.Setenv("HOME", home)
	return cwd, home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "double", cfg.Precision)
	assert.Equal(t, "return", cfg.FailureMode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.AliasFile)
	assert.Empty(t, cfg.DB)
	require.NoError(t, cfg.Validate())
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_ExplicitFile(t *testing.T) {
	cwd, _ := isolate(t)
	path := filepath.Join(cwd, "custom.yaml")
	writeFile(t, path, "precision: single\nfailure_mode: panic\ndb: runs.db\n")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "single", cfg.Precision)
	assert.Equal(t, "panic", cfg.FailureMode)
	assert.Equal(t, "runs.db", cfg.DB)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	cwd, _ := isolate(t)

	_, err := Load(viper.New(), filepath.Join(cwd, "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoad_LocalDirWinsOverHome(t *testing.T) {
	cwd, home := isolate(t)
	writeFile(t, filepath.Join(cwd, LocalDir, "masa.yaml"), "precision: single\n")
	writeFile(t, filepath.Join(home, ".config", "masa", "masa.yaml"), "precision: double\nlog_level: debug\n")

	v := viper.New()
	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "single", cfg.Precision)
	assert.Equal(t, "info", cfg.LogLevel, "home file is not merged")
	assert.Contains(t, v.ConfigFileUsed(), LocalDir)
}

func TestLoad_HomeFile(t *testing.T) {
	_, home := isolate(t)
	writeFile(t, filepath.Join(home, ".config", "masa", "masa.yaml"), "log_level: debug\n")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	cwd, _ := isolate(t)
	writeFile(t, filepath.Join(cwd, LocalDir, "masa.yaml"), "precision: double\n")
	t.Setenv("MASA_PRECISION", "single")
	t.Setenv("MASA_FAILURE_MODE", "exit")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "single", cfg.Precision)
	assert.Equal(t, "exit", cfg.FailureMode)
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	isolate(t)
	t.Setenv("MASA_PRECISION", "single")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("precision", "", "")
	require.NoError(t, flags.Parse([]string{"--precision", "double"}))

	v := viper.New()
	require.NoError(t, v.BindPFlag(KeyPrecision, flags.Lookup("precision")))

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "double", cfg.Precision)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errKey  string
	}{
		{"bad precision", "precision: extended\n", KeyPrecision},
		{"bad failure mode", "failure_mode: ignore\n", KeyFailureMode},
		{"bad log level", "log_level: chatty\n", KeyLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cwd, _ := isolate(t)
			path := filepath.Join(cwd, "masa.yaml")
			writeFile(t, path, tt.content)

			_, err := Load(viper.New(), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errKey)
		})
	}
}

func TestConfig_Parsers(t *testing.T) {
	cfg := Config{Precision: " Single ", FailureMode: "EXIT", LogLevel: "warn"}

	p, err := cfg.PrecisionTag()
	require.NoError(t, err)
	assert.Equal(t, ir.PrecisionSingle, p)

	pol, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, registry.PolicyExit, pol)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)
}

func TestConfig_Aliases(t *testing.T) {
	tbl, err := Defaults().Aliases()
	require.NoError(t, err)
	assert.Equal(t, ir.KindName("euler_1d"), tbl.Map("euler1d"))

	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	writeFile(t, path, "version: \"1\"\naliases:\n  h1: heat_1d_steady_const\n")

	tbl, err = Config{AliasFile: path}.Aliases()
	require.NoError(t, err)
	assert.Equal(t, ir.KindName("heat_1d_steady_const"), tbl.Map("h1"))
	assert.Equal(t, ir.KindName("euler1d"), tbl.Map("euler1d"), "unmapped names pass through")

	_, err = Config{AliasFile: filepath.Join(dir, "missing.yaml")}.Aliases()
	require.Error(t, err)
}
