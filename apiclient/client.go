// apiclient/client.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/gewnthar/routeboard/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	csrfCookieName    = "csrftoken"
	csrfHeaderName    = "X-CSRFToken"
	sessionCookieName = "sessionid"
	requestIDHeader   = "X-Request-ID"
)

// Client talks to the upstream route server's REST API. Every state-changing
// request carries the CSRF token from the csrftoken cookie in X-CSRFToken
// together with a same-origin Referer.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	primePath string
	sessionID string
	log       *logrus.Entry
}

// Option configures a Client.
type Option func(*Client)

// WithSessionID seeds the jar with an authenticated session cookie.
func WithSessionID(sessionID string) Option {
	return func(c *Client) { c.sessionID = sessionID }
}

// WithPrimePath sets the page fetched to obtain the csrftoken cookie.
func WithPrimePath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.primePath = path
		}
	}
}

// New returns a client for baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse upstream base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("upstream base url %q must be absolute", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		baseURL:   u,
		http:      &http.Client{Timeout: timeout, Jar: jar},
		primePath: "/",
		log:       logrus.WithField("component", "apiclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sessionID != "" {
		c.http.Jar.SetCookies(c.baseURL, []*http.Cookie{{Name: sessionCookieName, Value: c.sessionID, Path: "/"}})
	}
	return c, nil
}

// BaseURL returns the upstream base URL.
func (c *Client) BaseURL() string { return c.baseURL.String() }

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL.String() + "/" + strings.TrimLeft(path, "/")
}

// csrfToken returns the csrftoken cookie, priming the jar with a GET when absent.
func (c *Client) csrfToken(ctx context.Context) (string, error) {
	if token := c.cookie(csrfCookieName); token != "" {
		return token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(c.primePath), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build csrf priming request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to prime csrf cookie: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if token := c.cookie(csrfCookieName); token != "" {
		return token, nil
	}
	return "", ErrMissingCSRFToken
}

func (c *Client) cookie(name string) string {
	if c.http.Jar == nil {
		return ""
	}
	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

func isMutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

// do sends a JSON request and decodes a JSON response into out (when non-nil).
// Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	status, raw, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return &APIError{StatusCode: status, Message: errorMessage(raw)}
	}
	if out == nil || status == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// send performs the request and returns the status and raw body.
func (c *Client) send(ctx context.Context, method, path string, body interface{}) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	target := c.resolve(path)
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	if isMutating(method) {
		token, err := c.csrfToken(ctx)
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set(csrfHeaderName, token)
		req.Header.Set("Referer", c.baseURL.String()+"/")
	}

	entry := c.log.WithField("method", method).WithField("path", path).WithField("request_id", requestID)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		entry.WithError(err).Warn("Upstream request failed")
		return 0, nil, fmt.Errorf("failed to make %s request to %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read %s response: %w", method, err)
	}
	entry.WithField("status", resp.StatusCode).WithField("elapsed", time.Since(start)).Debug("Upstream request done")
	return resp.StatusCode, raw, nil
}

// errorMessage pulls a human-readable message out of an error body.
func errorMessage(raw []byte) string {
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, key := range []string{"error", "detail", "message"} {
			if msg, ok := body[key].(string); ok && msg != "" {
				return msg
			}
		}
		if len(body) > 0 {
			return utils.Truncate(string(bytes.TrimSpace(raw)), 200)
		}
	}
	return utils.Truncate(utils.CollapseSpace(string(raw)), 200)
}
