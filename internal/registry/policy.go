package registry

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Policy selects how failures surface to the embedding program.
type Policy int

const (
	// PolicyReturn returns the *Error to the caller.
	PolicyReturn Policy = iota

	// PolicyPanic panics with the *Error. Callers recover it and read the
	// integer code from ExitCode.
	PolicyPanic

	// PolicyExit reports the failure and calls the exit function with the
	// error's exit code.
	PolicyExit
)

var policyNames = map[Policy]string{
	PolicyReturn: "return",
	PolicyPanic:  "panic",
	PolicyExit:   "exit",
}

// String returns the configuration name of the policy.
func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy parses "return", "panic" or "exit".
func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return PolicyReturn, fmt.Errorf("invalid failure mode %q: must be return, panic or exit", s)
}

// failer applies a Policy to failures.
type failer struct {
	policy Policy
	exit   func(int)
	diag   io.Writer
	logger *slog.Logger
}

// fail classifies err and applies the policy. Under PolicyExit the error
// is still returned in case the exit function returns.
func (f *failer) fail(err error) error {
	if err == nil {
		return nil
	}
	re := Classify(err)
	f.logger.Debug("registry failure",
		"code", re.Code,
		"name", re.Name,
		"policy", f.policy.String(),
	)
	switch f.policy {
	case PolicyPanic:
		panic(re)
	case PolicyExit:
		fmt.Fprintf(f.diag, "MASA FATAL ERROR:: %s\nMASA:: ABORTING\n", re.Error())
		f.logger.Error("aborting", "code", re.Code, "error", re.Message)
		f.exit(re.ExitCode())
	}
	return re
}
