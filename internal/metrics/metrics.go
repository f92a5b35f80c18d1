package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 登入結果標籤
const (
	LoginSuccess   = "success"
	LoginFailed    = "invalid_credentials"
	LoginThrottled = "throttled"
)

var (
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "accounts",
		Name:      "login_attempts_total",
		Help:      "Login attempts partitioned by required role and result.",
	}, []string{"role", "result"})

	AccountTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "accounts",
		Name:      "account_transitions_total",
		Help:      "Successful account lifecycle changes partitioned by action.",
	}, []string{"action"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "accounts",
		Name:      "http_requests_total",
		Help:      "HTTP requests partitioned by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "accounts",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency partitioned by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)
