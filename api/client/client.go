// Package client provides a simple HTTP client for the fairq REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fairq/fairq/api"
)

// Client is a simple HTTP client for the REST API.
type Client struct {
	BaseURL    *url.URL
	httpClient *http.Client
	logger     *logrus.Entry
}

// Option function are helpers that enable the flexible configuration of the
// REST API client.
type Option func(*Client)

// New returns newly configured REST API Client.
func New(base string, options ...Option) (*Client, error) {
	baseURL, err := url.Parse("http://" + base)
	if err != nil {
		return nil, err
	}
	c := &Client{
		BaseURL:    baseURL,
		httpClient: http.DefaultClient,
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

// WithHTTPClient configures the supplied HTTP client to be used when making
// REST API requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the specified logger to the client.
func WithLogger(logger *logrus.Entry) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Ping checks that the server is up and answering.
func (c *Client) Ping(ctx context.Context) error {
	return c.CallAPI(ctx, http.MethodGet, &url.URL{Path: "/ping"}, nil, nil)
}

// Status returns the current state of the pool behind the server.
func (c *Client) Status(ctx context.Context) (api.Status, error) {
	var status api.Status
	err := c.CallAPI(ctx, http.MethodGet, &url.URL{Path: "/v1/status"}, nil, &status)
	return status, err
}

// Work asks the server to check out a session and hold it for the given
// duration before handing it back.
func (c *Client) Work(ctx context.Context, d time.Duration) (api.WorkResult, error) {
	var result api.WorkResult
	rel := &url.URL{
		Path:     "/v1/work",
		RawQuery: url.Values{"d": {d.String()}}.Encode(),
	}
	err := c.CallAPI(ctx, http.MethodPost, rel, nil, &result)
	return result, err
}

// CallAPI executes the desired REST API request.
func (c *Client) CallAPI(ctx context.Context, method string, rel *url.URL, body, out interface{}) (err error) {
	if c.logger != nil {
		c.logger.Debugf("[REST API] Making a %s request to '%s'", method, rel.String())
		defer func() {
			if err != nil {
				c.logger.WithError(err).Error("[REST API] Error")
			}
		}()
	}

	var bodyReader io.ReadCloser
	if body != nil {
		var bodyBytes []byte
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = io.NopCloser(bytes.NewBuffer(bodyBytes))
	}

	req := &http.Request{
		Method: method,
		URL:    c.BaseURL.ResolveReference(rel),
		Body:   bodyReader,
	}
	req = req.WithContext(ctx)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		var errs api.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errs); err != nil {
			return err
		}
		return errs.Errors[0]
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
