package retry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/pagearc/pagearc"
)

// transientFaultCodes are transport fault codes treated as transient.
// Fault codes arrive either as syscall errnos from net, or as string codes
// carried in an error's context by the fetcher implementations.
var transientFaultCodes = map[string]struct{}{
	"ECONNABORTED": {},
	"ECONNREFUSED": {},
	"ECONNRESET":   {},
	"EHOSTUNREACH": {},
	"ENETUNREACH":  {},
	"EPIPE":        {},
	"ETIMEDOUT":    {},
	"EAI_AGAIN":    {},
}

var transientErrnos = []syscall.Errno{
	syscall.ECONNABORTED,
	syscall.ECONNREFUSED,
	syscall.ECONNRESET,
	syscall.EHOSTUNREACH,
	syscall.ENETUNREACH,
	syscall.EPIPE,
	syscall.ETIMEDOUT,
}

// retryableStatuses are HTTP statuses worth retrying: request timeout,
// throttling, and server-side failures.
var retryableStatuses = map[int]struct{}{
	http.StatusRequestTimeout:      {},
	http.StatusTooManyRequests:     {},
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

var rateLimitPhrases = []string{
	"rate limit",
	"too many requests",
	"quota exceeded",
}

// Classify maps a raw failure into an application error code.
// Rules are evaluated in priority order; the first match wins:
//
//  1. explicitly marked as a timeout → ETIMEOUT
//  2. transient transport fault code → ENETWORK
//  3. HTTP 429 → ERATELIMIT
//  4. HTTP status >= 500 → ENETWORK
//  5. rate-limit phrase in the message → ERATELIMIT
//  6. otherwise → EPARSE
//
// The EPARSE default is deliberately conservative: unknown errors are treated
// as non-network so they are not retried indefinitely.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case isTimeout(err):
		return pagearc.ETIMEOUT
	case hasTransientFaultCode(err):
		return pagearc.ENETWORK
	case pagearc.StatusCode(err) == http.StatusTooManyRequests:
		return pagearc.ERATELIMIT
	case pagearc.StatusCode(err) >= http.StatusInternalServerError:
		return pagearc.ENETWORK
	case hasRateLimitPhrase(err):
		return pagearc.ERATELIMIT
	default:
		return pagearc.EPARSE
	}
}

// Retryable reports whether the failure is worth another attempt.
// Transient network faults, throttling, and timeouts are retryable;
// permanent failures (404s, parse and validation errors) are not, since
// retrying them wastes time and amplifies load on a failing target.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if ctx := pagearc.ErrorContext(err); ctx != nil {
		if nonRetryable, ok := ctx["nonRetryable"].(bool); ok && nonRetryable {
			return false
		}
	}
	if hasTransientFaultCode(err) {
		return true
	}
	if _, ok := retryableStatuses[pagearc.StatusCode(err)]; ok {
		return true
	}
	return isTimeout(err)
}

// isTimeout reports whether the error is explicitly marked as a timeout:
// an ETIMEOUT application error, a deadline-exceeded context, or a net.Error
// whose Timeout method reports true.
func isTimeout(err error) bool {
	var ae *pagearc.Error
	if errors.As(err, &ae) && ae.Code == pagearc.ETIMEOUT {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func hasTransientFaultCode(err error) bool {
	if code := pagearc.FaultCode(err); code != "" {
		if _, ok := transientFaultCodes[code]; ok {
			return true
		}
	}
	for _, errno := range transientErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

func hasRateLimitPhrase(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, phrase := range rateLimitPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}
