package gateway

import (
	"errors"
	"fmt"
	"strings"
)

// HTTPError is returned for any response the backend did not accept.
// Expected is set when the operation requires one specific status code.
type HTTPError struct {
	StatusCode int
	Expected   int
	Body       string
}

func (e *HTTPError) Error() string {
	body := strings.TrimSpace(e.Body)
	if e.Expected != 0 {
		if body == "" {
			return fmt.Sprintf("expected status %d, got %d", e.Expected, e.StatusCode)
		}
		return fmt.Sprintf("expected status %d, got %d: %s", e.Expected, e.StatusCode, body)
	}
	return fmt.Sprintf("HTTP error: status %d, message: %s", e.StatusCode, body)
}

// IsHTTPStatus reports whether err is an *HTTPError with the given status.
func IsHTTPStatus(err error, status int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == status
}
