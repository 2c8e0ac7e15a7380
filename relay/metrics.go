package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomePassthrough       = "passthrough"
	outcomeFallback          = "fallback"
	outcomeBadRequest        = "bad_request"
	outcomeMissingCredential = "missing_credential"
	outcomeUpstreamFailed    = "upstream_failed"
	outcomeParseFailed       = "parse_failed"
)

var relayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "adventure_relay_requests_total",
		Help: "Total number of relay requests by outcome.",
	},
	[]string{"outcome"},
)
