package guard

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeAuthorized = "authorized"
	outcomeRedirected = "redirected"
	outcomeRejected   = "rejected"
)

var decisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "irs_responder",
	Subsystem: "guard",
	Name:      "decisions_total",
	Help:      "Session guard decisions by outcome.",
}, []string{"outcome"})

func outcomeFor(err error) string {
	if errors.Is(err, ErrRedirected) {
		return outcomeRedirected
	}
	return outcomeRejected
}

// Decisions returns the guard decision counter.
func Decisions() *prometheus.CounterVec {
	return decisions
}
