package strategy

import "fmt"

// Policy selects what the Negotiated strategy does with a change that would
// overload an affected partition.
type Policy string

const (
	// PolicyReject refuses the change. The overloaded partition is planned again
	// on a later tick, when agent positions have moved on.
	PolicyReject Policy = "reject"

	// PolicyLogOnly logs the predicted overload and applies the change anyway.
	PolicyLogOnly Policy = "log-only"
)

// ParsePolicy converts a configuration string into a Policy.
//
// Returns:
//   - Policy: The parsed policy
//   - error: ErrUnknownPolicy for unrecognized values
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyReject, PolicyLogOnly:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}
