package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var repliesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "adventure_session_replies_total",
		Help: "Total number of settled session calls by outcome.",
	},
	[]string{"outcome"},
)
