package pagearc_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pagearc/pagearc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("returns code for application error", func(t *testing.T) {
		t.Parallel()

		err := pagearc.Errorf(pagearc.EINVALID, "bad input")

		assert.Equal(t, pagearc.EINVALID, pagearc.ErrorCode(err))
	})

	t.Run("returns code for wrapped application error", func(t *testing.T) {
		t.Parallel()

		inner := pagearc.Errorf(pagearc.ENETWORK, "connection reset")
		err := fmt.Errorf("fetching page: %w", inner)

		assert.Equal(t, pagearc.ENETWORK, pagearc.ErrorCode(err))
	})

	t.Run("returns EINTERNAL for non-application error", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, pagearc.EINTERNAL, pagearc.ErrorCode(errors.New("boom")))
	})

	t.Run("returns empty string for nil", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, pagearc.ErrorCode(nil))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("returns message for application error", func(t *testing.T) {
		t.Parallel()

		err := pagearc.Errorf(pagearc.ENOTFOUND, "document not found")

		assert.Equal(t, "document not found", pagearc.ErrorMessage(err))
	})

	t.Run("returns generic message for non-application error", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Internal error.", pagearc.ErrorMessage(errors.New("boom")))
	})
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	t.Run("preserves cause and context", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection refused")
		err := pagearc.WrapError(cause, pagearc.ENETWORK, "fetch failed", map[string]any{
			"status": 503,
			"code":   "ECONNREFUSED",
		})

		require.ErrorIs(t, err, cause)
		assert.Equal(t, pagearc.ENETWORK, pagearc.ErrorCode(err))
		assert.Equal(t, 503, pagearc.StatusCode(err))
		assert.Equal(t, "ECONNREFUSED", pagearc.FaultCode(err))
		assert.False(t, err.Time.IsZero())
	})

	t.Run("context is reachable through further wrapping", func(t *testing.T) {
		t.Parallel()

		inner := pagearc.WrapError(nil, pagearc.ERATELIMIT, "throttled", map[string]any{"status": 429})
		err := fmt.Errorf("archiving: %w", inner)

		assert.Equal(t, 429, pagearc.StatusCode(err))
	})

	t.Run("status is zero when absent", func(t *testing.T) {
		t.Parallel()

		err := pagearc.Errorf(pagearc.EPARSE, "malformed markup")

		assert.Zero(t, pagearc.StatusCode(err))
		assert.Empty(t, pagearc.FaultCode(err))
	})
}
