// Package fetch retrieves JSON documents over HTTP with classified outcomes
// instead of raised failures.
package fetch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cfpipe/pkg/utils"
)

// ErrorInvalidJSON is the classification recorded when a successful response
// body fails to decode as JSON.
const ErrorInvalidJSON = "invalid_json"

// Result reports one retrieval attempt. It is always returned, never
// replaced by a panic: failures are classified into Err for diagnostics.
// Status is nil when no HTTP response was obtained at all.
type Result struct {
	OK     bool
	Data   any
	Status *int
	Err    string
}

// Client fetches JSON payloads with a bounded timeout and no retries.
type Client struct {
	client  *http.Client
	headers http.Header
}

// NewClient creates a fetch client. The timeout bounds the whole request,
// including reading the body.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		headers: utils.NewHTTPHelper().BuildHeaders(nil),
	}
}

// FetchJSON GETs the URL and decodes the body as JSON.
func (c *Client) FetchJSON(url string) Result {
	req, err := http.NewRequest(http.MethodGet, url, http.NoBody)
	if err != nil {
		return Result{Err: fmt.Sprintf("invalid request: %v", err)}
	}

	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{Err: err.Error()}
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	status := resp.StatusCode
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return Result{Status: &status, Err: fmt.Sprintf("unexpected status code: %d", status)}
	}

	var data any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Result{Status: &status, Err: ErrorInvalidJSON}
	}

	return Result{OK: true, Data: data, Status: &status}
}
