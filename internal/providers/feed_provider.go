package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lotworks/dealersync/internal/constants"
)

const (
	// MaxFeedBytes caps how much of the feed response is read into memory.
	// A misbehaving provider must not be able to exhaust the process.
	MaxFeedBytes = 10 << 20 // 10 MiB

	feedRequestTimeout = 30 * time.Second
)

// XMLFeedProvider retrieves the dealership vehicle feed over HTTP
type XMLFeedProvider struct {
	Client *http.Client
}

// NewXMLFeedProvider creates a new feed provider with a bounded request timeout
func NewXMLFeedProvider() *XMLFeedProvider {
	return &XMLFeedProvider{
		Client: &http.Client{
			Timeout: feedRequestTimeout,
		},
	}
}

// Fetch retrieves the raw feed document. Non-2xx statuses and transport
// errors are both reported as a *ProviderError; retries are left to the next
// scheduled run.
func (p *XMLFeedProvider) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeFeedURLMissing,
			Message: constants.GetErrorMessage(constants.ErrCodeFeedURLMissing),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create feed request",
			Err:     err,
		}
	}
	req.Header.Set("Accept", "application/xml, text/xml")

	resp, err := p.Client.Do(req)
	if err != nil {
		code := constants.ErrCodeNetworkError
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			code = constants.ErrCodeFeedTimeout
		}
		return nil, &ProviderError{
			Code:    code,
			Message: constants.GetErrorMessage(code),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{
			Code:    constants.ErrCodeFeedHTTPStatus,
			Message: fmt.Sprintf("Feed returned HTTP %d", resp.StatusCode),
			Details: resp.Status,
		}
	}

	// Read one byte past the cap to tell "exactly at the limit" from "over it"
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxFeedBytes+1))
	if err != nil {
		code := constants.ErrCodeNetworkError
		if isTimeout(err) {
			code = constants.ErrCodeFeedTimeout
		}
		return nil, &ProviderError{
			Code:    code,
			Message: "Failed to read feed response",
			Err:     err,
		}
	}

	if len(body) > MaxFeedBytes {
		return nil, &ProviderError{
			Code:    constants.ErrCodeFeedTooLarge,
			Message: constants.GetErrorMessage(constants.ErrCodeFeedTooLarge),
		}
	}

	return body, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// ProviderError carries a feed error code plus the underlying cause
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
