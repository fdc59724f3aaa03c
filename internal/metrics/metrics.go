// Package metrics declares the Prometheus collectors of the finance API.
// All collectors register with the default registry on package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "finance"

// HTTPRequestsTotal counts handled requests.
// Labels: method, route (gin's full path template), status.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// AuthFailuresTotal counts requests rejected by the authorization gate.
// Label reason: missing_token, malformed_header, expired_token, invalid_token, user_not_found, forbidden.
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by authentication or role checks.",
	},
	[]string{"reason"},
)

// ExpensesCreatedTotal counts stored transactions by their transaction_type.
var ExpensesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expenses_created_total",
		Help:      "Total number of transactions created.",
	},
	[]string{"transaction_type"},
)

// Auth failure reasons
const (
	ReasonMissingToken    = "missing_token"
	ReasonMalformedHeader = "malformed_header"
	ReasonExpiredToken    = "expired_token"
	ReasonInvalidToken    = "invalid_token"
	ReasonUserNotFound    = "user_not_found"
	ReasonForbidden       = "forbidden"
)
