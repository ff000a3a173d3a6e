package network

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
)

// StatusError is returned when a server answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("server returned %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
}

// IsOfflineError checks if an error indicates the user is offline
func IsOfflineError(err error) bool {
	if err == nil {
		return false
	}

	// Check for common network error patterns
	errorStr := strings.ToLower(err.Error())

	// Common offline indicators
	offlinePatterns := []string{
		"no such host",
		"connection refused",
		"network is unreachable",
		"no route to host",
		"host is down",
		"connection timed out",
		"temporary failure in name resolution",
	}

	for _, pattern := range offlinePatterns {
		if strings.Contains(errorStr, pattern) {
			return true
		}
	}

	// Check for specific error types
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && !dnsErr.Temporary() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" || opErr.Op == "read" {
			return true
		}

		if syscallErr, ok := opErr.Err.(*net.AddrError); ok {
			return syscallErr.Err == "no such host"
		}

		if syscallErr, ok := opErr.Err.(syscall.Errno); ok {
			return syscallErr == syscall.ECONNREFUSED ||
				syscallErr == syscall.ENETUNREACH ||
				syscallErr == syscall.EHOSTUNREACH
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return IsOfflineError(urlErr.Err)
	}

	return false
}

// IsTransient reports whether a request that failed with err is worth
// repeating: the network is down, or the server is overloaded or failing.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests ||
			statusErr.Code == http.StatusRequestTimeout ||
			statusErr.Code >= 500
	}
	return IsOfflineError(err)
}

// Describe returns a short, human readable form of err for a status line.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	if IsOfflineError(err) {
		return "offline"
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("HTTP %d", statusErr.Code)
	}
	return err.Error()
}
