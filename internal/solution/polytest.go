package solution

import (
	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/verify"
)

type checker interface {
	checks(*verify.Report, verify.Settings) error
}

// polyTest runs checks after the sanity check passes and folds the report
// into a *CheckError.
func polyTest[S ir.Scalar](sol Solution[S], checks func(*verify.Report, verify.Settings) error) error {
	if err := sol.SanityCheck(); err != nil {
		return err
	}
	report := verify.Report{Kind: sol.Name()}
	if err := checks(&report, verify.DefaultSettings[S]()); err != nil {
		return &CheckError{Kind: sol.Name(), Check: "poly test", Err: err}
	}
	if err := report.Err(); err != nil {
		return &CheckError{Kind: sol.Name(), Check: "poly test", Err: err}
	}
	return nil
}

// Check returns the per-check consistency report for sol. Kinds without
// numerical checks yield an empty report. The error is non-nil only when
// the checks could not run (unset parameters, unsupported evaluations).
func Check[S ir.Scalar](sol Solution[S]) (verify.Report, error) {
	report := verify.Report{Kind: sol.Name()}
	c, ok := sol.(checker)
	if !ok {
		return report, nil
	}
	if err := sol.SanityCheck(); err != nil {
		return report, err
	}
	err := c.checks(&report, verify.DefaultSettings[S]())
	return report, err
}
