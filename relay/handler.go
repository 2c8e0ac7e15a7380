package relay

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"adventure_shop/prompts"
	"adventure_shop/story"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Error payloads returned to callers. Upstream details are only logged.
const (
	msgInvalidBody       = "Invalid request body"
	msgMissingCredential = "Missing required field: course_name or api_key"
	msgProcessingFailed  = "Failed to process the request"
	msgMethodNotAllowed  = "Method not allowed"
)

// ErrorBody is the JSON shape of every relay error.
type ErrorBody struct {
	Error string `json:"error"`
}

// Handler is the relay endpoint. It keeps no state between requests.
type Handler struct {
	Upstream Upstream
	Fallback []string
}

func NewHandler(upstream Upstream) *Handler {
	return &Handler{Upstream: upstream, Fallback: prompts.FallbackChoices}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, ErrorBody{Error: msgMethodNotAllowed})
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("relay: undecodable request body")
		relayRequestsTotal.WithLabelValues(outcomeBadRequest).Inc()
		writeJSON(w, http.StatusBadRequest, ErrorBody{Error: msgInvalidBody})
		return
	}

	log.Debug().
		Str("model", req.Model).
		Str("course_name", req.CourseName).
		Int("messages", len(req.Messages)).
		Bool("stream", req.Stream).
		Bool("retrieval_only", req.RetrievalOnly).
		Msg("relay: request received")

	if !req.HasCredential() {
		relayRequestsTotal.WithLabelValues(outcomeMissingCredential).Inc()
		writeJSON(w, http.StatusBadRequest, ErrorBody{Error: msgMissingCredential})
		return
	}

	res, err := h.Upstream.Forward(r.Context(), req)
	if err != nil {
		log.Error().
			Err(errors.WithMessage(err, "forward")).
			AnErr("kind", story.ErrUpstreamCallFailed).
			Msg("relay: upstream call failed")
		relayRequestsTotal.WithLabelValues(outcomeUpstreamFailed).Inc()
		writeJSON(w, http.StatusInternalServerError, ErrorBody{Error: msgProcessingFailed})
		return
	}

	log.Debug().Str("content_type", res.ContentType).Str("body", string(res.Body)).Msg("relay: upstream raw response")

	body, passthrough, err := h.Normalize(res)
	if err != nil {
		log.Error().Err(err).Msg("relay: failed to parse upstream response")
		relayRequestsTotal.WithLabelValues(outcomeParseFailed).Inc()
		writeJSON(w, http.StatusInternalServerError, ErrorBody{Error: msgProcessingFailed})
		return
	}

	if passthrough {
		relayRequestsTotal.WithLabelValues(outcomePassthrough).Inc()
	} else {
		relayRequestsTotal.WithLabelValues(outcomeFallback).Inc()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// Normalize turns an upstream answer into the relay's response body.
// JSON answers pass through unchanged; anything else becomes a ScenarioReply
// wrapping the raw text with the fallback choices and no stat changes.
func (h *Handler) Normalize(res Response) ([]byte, bool, error) {
	if strings.Contains(res.ContentType, "application/json") {
		if !json.Valid(res.Body) {
			return nil, true, errors.Wrapf(story.ErrUpstreamParse, "%d bytes of %s", len(res.Body), res.ContentType)
		}
		var out bytes.Buffer
		if err := json.Compact(&out, res.Body); err != nil {
			return nil, true, errors.Wrap(story.ErrUpstreamParse, err.Error())
		}
		return out.Bytes(), true, nil
	}

	body, err := json.Marshal(story.ScenarioReply{
		Event:   string(res.Body),
		Choices: h.Fallback,
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to encode fallback reply")
	}
	return body, false, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("relay: failed to write response")
	}
}
