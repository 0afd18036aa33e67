package scoring

import "fmt"

// DefaultPassThreshold is the minimum overall percentage for a passing result.
const DefaultPassThreshold = 70

// Policy holds the grading parameters.
type Policy struct {
	// PassThreshold is the inclusive overall percentage needed to pass.
	PassThreshold int `mapstructure:"pass_threshold"`
}

// DefaultPolicy returns the standard grading policy.
func DefaultPolicy() Policy {
	return Policy{PassThreshold: DefaultPassThreshold}
}

// Validate checks the threshold is a percentage.
func (p Policy) Validate() error {
	if p.PassThreshold < 0 || p.PassThreshold > 100 {
		return fmt.Errorf("pass threshold %d out of range [0, 100]", p.PassThreshold)
	}
	return nil
}

// Passes reports whether an overall percentage meets the threshold.
func (p Policy) Passes(percentage int) bool {
	return percentage >= p.PassThreshold
}
