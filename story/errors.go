package story

import "github.com/pkg/errors"

// Relay side.
var (
	ErrMissingCredential  = errors.New("missing credential")
	ErrUpstreamCallFailed = errors.New("upstream call failed")
	ErrUpstreamParse      = errors.New("upstream response is not valid JSON")
)

// Controller side.
var (
	ErrInvalidReplyShape = errors.New("invalid reply shape")
	ErrNetworkFailure    = errors.New("network failure")
)
