package retry_test

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/pagearc/pagearc"
	"github.com/pagearc/pagearc/retry"
	"github.com/stretchr/testify/assert"
)

func statusError(status int) error {
	return pagearc.WrapError(nil, pagearc.EINTERNAL,
		fmt.Sprintf("HTTP %d", status), map[string]any{"status": status})
}

func faultError(code string) error {
	return pagearc.WrapError(nil, pagearc.EINTERNAL,
		"transport fault", map[string]any{"code": code})
}

func TestClassify(t *testing.T) {
	t.Parallel()

	t.Run("timeout marker wins over everything", func(t *testing.T) {
		t.Parallel()

		err := pagearc.Errorf(pagearc.ETIMEOUT, "navigation deadline exceeded")

		assert.Equal(t, pagearc.ETIMEOUT, retry.Classify(err))
	})

	t.Run("deadline exceeded is a timeout", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("fetching: %w", context.DeadlineExceeded)

		assert.Equal(t, pagearc.ETIMEOUT, retry.Classify(err))
	})

	t.Run("transient fault code is network", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, pagearc.ENETWORK, retry.Classify(faultError("ECONNRESET")))
	})

	t.Run("syscall errno is network", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("dial: %w", syscall.ECONNREFUSED)

		assert.Equal(t, pagearc.ENETWORK, retry.Classify(err))
	})

	t.Run("status 429 is rate limit", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, pagearc.ERATELIMIT, retry.Classify(statusError(429)))
	})

	t.Run("status 500 and above is network", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, pagearc.ENETWORK, retry.Classify(statusError(500)))
		assert.Equal(t, pagearc.ENETWORK, retry.Classify(statusError(503)))
	})

	t.Run("rate limit phrase in message", func(t *testing.T) {
		t.Parallel()

		err := errors.New("upstream said: Too Many Requests, slow down")

		assert.Equal(t, pagearc.ERATELIMIT, retry.Classify(err))
	})

	t.Run("unknown errors default to parse", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, pagearc.EPARSE, retry.Classify(errors.New("unexpected token")))
		assert.Equal(t, pagearc.EPARSE, retry.Classify(statusError(404)))
	})
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	t.Run("retries throttling and server failures", func(t *testing.T) {
		t.Parallel()

		for _, status := range []int{408, 429, 500, 502, 503, 504} {
			assert.True(t, retry.Retryable(statusError(status)), "status %d", status)
		}
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		t.Parallel()

		assert.False(t, retry.Retryable(statusError(404)))
		assert.False(t, retry.Retryable(statusError(400)))
	})

	t.Run("retries transient fault codes", func(t *testing.T) {
		t.Parallel()

		assert.True(t, retry.Retryable(faultError("ECONNRESET")))
		assert.True(t, retry.Retryable(fmt.Errorf("write: %w", syscall.EPIPE)))
	})

	t.Run("retries timeouts", func(t *testing.T) {
		t.Parallel()

		assert.True(t, retry.Retryable(pagearc.Errorf(pagearc.ETIMEOUT, "deadline exceeded")))
	})

	t.Run("does not retry parse or validation failures", func(t *testing.T) {
		t.Parallel()

		assert.False(t, retry.Retryable(pagearc.Errorf(pagearc.EPARSE, "malformed markup")))
		assert.False(t, retry.Retryable(pagearc.Errorf(pagearc.EINVALID, "empty input")))
		assert.False(t, retry.Retryable(errors.New("unexpected token")))
	})

	t.Run("nonRetryable flag overrides a retryable shape", func(t *testing.T) {
		t.Parallel()

		err := pagearc.WrapError(nil, pagearc.ENETWORK, "gave up",
			map[string]any{"status": 503, "nonRetryable": true})

		assert.False(t, retry.Retryable(err))
	})

	t.Run("nil is not retryable", func(t *testing.T) {
		t.Parallel()

		assert.False(t, retry.Retryable(nil))
	})
}
