package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// DefaultUpstreamURL is the chat API the relay forwards to.
const DefaultUpstreamURL = "https://uiuc.chat/api/chat-api/chat"

// EndpointPath is where the relay endpoint is mounted.
const EndpointPath = "/api/chat-api"

// Response is the raw upstream answer, before normalization.
type Response struct {
	ContentType string
	Body        []byte
}

// Upstream forwards a chat request and returns the raw answer.
type Upstream interface {
	Forward(ctx context.Context, req Request) (Response, error)
}

// HTTPUpstream posts the request as JSON with a bearer token built from its API key.
type HTTPUpstream struct {
	URL    string
	Client *http.Client
}

func NewHTTPUpstream(url string, client *http.Client) *HTTPUpstream {
	if url == "" {
		url = DefaultUpstreamURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPUpstream{URL: url, Client: client}
}

func (u *HTTPUpstream) Forward(ctx context.Context, req Request) (Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Response{}, errors.Wrap(err, "failed to encode upstream request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.URL, bytes.NewReader(payload))
	if err != nil {
		return Response{}, errors.Wrap(err, "failed to build upstream request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	resp, err := u.Client.Do(httpReq)
	if err != nil {
		return Response{}, errors.Wrapf(err, "failed to reach %s", u.URL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, errors.Wrap(err, "failed to read upstream body")
	}

	return Response{ContentType: resp.Header.Get("Content-Type"), Body: body}, nil
}
