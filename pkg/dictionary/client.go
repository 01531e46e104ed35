// Package dictionary looks words up in the Merriam-Webster collegiate
// dictionary.
package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/mosaic/internal/logging"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/ports"
)

const (
	// DefaultBaseURL is the collegiate JSON endpoint. The word is appended.
	DefaultBaseURL = "https://dictionaryapi.com/api/v3/references/collegiate/json/"
	// SecretName is the secret holding the API key.
	SecretName = "MERRIAM_WEBSTER_API_KEY"

	maxBodySize = 1 << 20
)

// Client resolves definitions. The API key is read from Keys on every lookup
// so rotated keys are picked up without a restart.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Keys    ports.SecretStore
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another endpoint (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.BaseURL = u
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.HTTP = h
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.HTTP = &http.Client{Timeout: d}
	}
}

// WithLogger configures a logger for the Client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient returns a client reading its key from keys.
func NewClient(keys ports.SecretStore, opts ...Option) *Client {
	c := &Client{
		BaseURL: DefaultBaseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Keys:    keys,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns the first entry for word.
func (c *Client) Lookup(ctx context.Context, word string) (*Definition, error) {
	key, err := c.apiKey(ctx)
	if err != nil {
		return nil, err
	}

	u, err := c.endpoint(word, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, redact(err, key))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrResponse, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponse, err)
	}

	var entries []Definition
	if err := json.Unmarshal(body, &entries); err != nil {
		var suggestions []string
		if json.Unmarshal(body, &suggestions) == nil {
			return nil, fmt.Errorf("%w: unknown word %q, suggestions: %s",
				ErrDecode, word, strings.Join(suggestions, ", "))
		}
		c.logger.Debug("dictionary decode failed", "word", word, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(entries) == 0 {
		return nil, ErrNoResults
	}
	return &entries[0], nil
}

func (c *Client) apiKey(ctx context.Context) (string, error) {
	if c.Keys == nil {
		return "", ErrNoAPIKey
	}
	key, err := c.Keys.Secret(ctx, SecretName)
	if errors.Is(err, domain.ErrSecretNotFound) {
		return "", ErrNoAPIKey
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoAPIKey, err)
	}
	return key, nil
}

func (c *Client) endpoint(word, key string) (string, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", err
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("base url %q is not absolute", c.BaseURL)
	}
	prefix := base.String()
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + url.PathEscape(word) + "?" + url.Values{"key": {key}}.Encode(), nil
}

// redact keeps the API key out of transport errors, which quote the URL.
func redact(err error, key string) string {
	msg := err.Error()
	if key == "" {
		return msg
	}
	msg = strings.ReplaceAll(msg, url.QueryEscape(key), "REDACTED")
	return strings.ReplaceAll(msg, key, "REDACTED")
}
