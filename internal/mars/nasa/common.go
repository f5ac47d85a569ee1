package nasa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/OfriRose/Mars/internal/mars"
)

// DefaultBaseURL is the public NASA Open APIs host.
const DefaultBaseURL = "https://api.nasa.gov"

// RequestError wraps a failed call with the endpoint and HTTP status it concerns.
type RequestError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("nasa endpoint=%s status=%d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("nasa endpoint=%s: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// statusError carries a non-2xx response through the circuit breaker.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.code)
}

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: isBreakerSuccess,
	})
}

// isBreakerSuccess keeps 4xx answers, 429 included, from tripping the breaker.
// The service answered, so the user should see what it said.
func isBreakerSuccess(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code < http.StatusInternalServerError
	}
	return err == nil
}

// getJSON performs a single GET through the breaker and decodes the body into out.
// It never retries; a 429 is surfaced as mars.ErrRateLimited for the user to act on.
func getJSON(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, endpoint, rawURL string, out any) error {
	if client == nil {
		return &RequestError{Endpoint: endpoint, Err: fmt.Errorf("%w: http client not configured", mars.ErrNetwork)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &RequestError{Endpoint: endpoint, Err: fmt.Errorf("%w: %v", mars.ErrNetwork, err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, &statusError{code: resp.StatusCode}
		}
		return resp, nil
	})
	if err != nil {
		return classifyTransportError(endpoint, err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return &RequestError{Endpoint: endpoint, Err: fmt.Errorf("%w: unexpected result type from circuit breaker", mars.ErrNetwork)}
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", mars.ErrMalformedResponse, err)}
	}
	return nil
}

func classifyTransportError(endpoint string, err error) error {
	var se *statusError
	switch {
	case errors.As(err, &se) && se.code == http.StatusTooManyRequests:
		return &RequestError{Endpoint: endpoint, StatusCode: se.code, Err: mars.ErrRateLimited}
	case errors.As(err, &se):
		return &RequestError{Endpoint: endpoint, StatusCode: se.code, Err: fmt.Errorf("%w: %v", mars.ErrNetwork, se)}
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &RequestError{Endpoint: endpoint, Err: fmt.Errorf("%w: circuit breaker open: %v", mars.ErrNetwork, err)}
	default:
		return &RequestError{Endpoint: endpoint, Err: fmt.Errorf("%w: %v", mars.ErrNetwork, err)}
	}
}

const userAgent = "mars-explorer-hub/1.0"
