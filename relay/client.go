package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"adventure_shop/story"

	"github.com/pkg/errors"
)

// Client sends chat requests to a relay endpoint.
type Client struct {
	URL  string
	HTTP *http.Client
}

func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{URL: url, HTTP: httpClient}
}

// Complete posts req and returns the raw reply body.
//
// Failures to reach the relay wrap story.ErrNetworkFailure. A 400 can only mean
// a missing credential since the body is always well formed; every other
// non-200 status wraps story.ErrUpstreamCallFailed.
func (c *Client) Complete(ctx context.Context, req Request) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode relay request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(story.ErrNetworkFailure, err.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(story.ErrNetworkFailure, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(story.ErrNetworkFailure, err.Error())
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	msg := resp.Status
	var eb ErrorBody
	if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
		msg = eb.Error
	}
	if resp.StatusCode == http.StatusBadRequest {
		return nil, errors.Wrap(story.ErrMissingCredential, msg)
	}
	return nil, errors.Wrap(story.ErrUpstreamCallFailed, msg)
}
