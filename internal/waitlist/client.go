// Package waitlist registers an email address with the waitlist endpoint
// and turns the outcome into a user-facing notification.
package waitlist

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrEmptyEmail         = errors.New("email is empty")
	ErrInvalidEmail       = errors.New("email is malformed")
	ErrRateLimited        = errors.New("rate limited")
	ErrRegistrationFailed = errors.New("registration failed")
)

// DefaultTimeout bounds one registration request
const DefaultTimeout = 10 * time.Second

// Registrar stores an email on the waitlist
type Registrar interface {
	Register(ctx context.Context, email string) error
}

// Client posts registrations as JSON to an HTTP endpoint
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a client for endpoint. A nil httpClient gets one with
// DefaultTimeout.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{endpoint: endpoint, http: httpClient}
}

type registration struct {
	Email string `json:"email"`
}

// Register issues one POST. A 429 maps to ErrRateLimited, any other non-2xx
// status to ErrRegistrationFailed; transport errors are returned wrapped.
func (c *Client) Register(ctx context.Context, email string) error {
	body, err := json.Marshal(registration{Email: email})
	if err != nil {
		return errors.Wrap(err, "encode registration")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build registration request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "send registration")
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return errors.Wrapf(ErrRegistrationFailed, "status %d", resp.StatusCode)
	}
	return nil
}
