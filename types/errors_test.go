package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	t.Run("wrapped errors keep identity", func(t *testing.T) {
		wrapped := fmt.Errorf("partition 5: %w", ErrInvariantViolation)
		require.ErrorIs(t, wrapped, ErrInvariantViolation)
		require.False(t, errors.Is(wrapped, ErrAgentNotFound))
	})

	t.Run("all errors are distinct", func(t *testing.T) {
		all := []error{
			ErrInvalidGridSize,
			ErrInvalidPartitionID,
			ErrInvalidEdge,
			ErrAgentNotFound,
			ErrDuplicateAgent,
			ErrInvariantViolation,
		}

		for i, a := range all {
			for j, b := range all {
				if i == j {
					continue
				}
				require.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	})
}
