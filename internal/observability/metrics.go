package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	ddeMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ddeurl",
			Subsystem: "dde",
			Name:      "messages_total",
			Help:      "DDE messages seen by the conversation filter.",
		},
		[]string{"kind", "outcome"},
	)
	dispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ddeurl",
			Subsystem: "hostloop",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent offering one native message to the filter chain.",
			Buckets:   []float64{.00005, .0001, .00025, .0005, .001, .005, .01, .05},
		},
		[]string{"handled"},
	)
	activations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ddeurl",
			Subsystem: "urlproto",
			Name:      "activations_total",
			Help:      "URL activations republished from decoded DDE commands.",
		},
		[]string{"scheme", "parsed"},
	)
	registryOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ddeurl",
			Subsystem: "urlproto",
			Name:      "registration_ops_total",
			Help:      "Scheme install/uninstall operations.",
		},
		[]string{"scheme", "op", "success"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ddeMessages, dispatchDuration, activations, registryOps)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	RegisterMetrics()
	return promhttp.Handler()
}

func RecordDDEMessage(kind, outcome string) {
	RegisterMetrics()
	ddeMessages.WithLabelValues(kind, outcome).Inc()
}

func RecordDispatch(handled bool, duration time.Duration) {
	RegisterMetrics()
	dispatchDuration.WithLabelValues(strconv.FormatBool(handled)).Observe(duration.Seconds())
}

func RecordActivation(scheme string, parsed bool) {
	RegisterMetrics()
	activations.WithLabelValues(scheme, strconv.FormatBool(parsed)).Inc()
}

func RecordRegistrationOp(scheme, op string, err error) {
	RegisterMetrics()
	registryOps.WithLabelValues(scheme, op, strconv.FormatBool(err == nil)).Inc()
}
