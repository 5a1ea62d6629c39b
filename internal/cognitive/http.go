// ABOUTME: Shared HTTP plumbing for the cognitive service clients
// ABOUTME: Executes a request with a per-call timeout and returns the body or a ServiceError

package cognitive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// doer is the subset of *http.Client the clients use.
type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// call sends req and returns the response body. Non-2xx responses are errors.
func call(ctx context.Context, client doer, timeout time.Duration, service, op string, build func(ctx context.Context) (*http.Request, error)) ([]byte, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := build(ctx)
	if err != nil {
		return nil, &ServiceError{Service: service, Op: op, Err: fmt.Errorf("building request: %w", err)}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &ServiceError{Service: service, Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &ServiceError{Service: service, Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServiceError{
			Service: service,
			Op:      op,
			Status:  resp.StatusCode,
			Err:     errors.New(http.StatusText(resp.StatusCode)),
		}
	}
	return body, nil
}
