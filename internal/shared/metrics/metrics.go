package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cvbot"

var (
	turnsTotal          = counter("turns_total", "Inbound messages handled")
	turnsFailedTotal    = counter("turns_failed_total", "Turns answered with the generic error reply")
	duplicateTurnsTotal = counter("turns_duplicate_total", "Webhook retries served from the dedupe cache")

	rendersCompletedTotal = counter("renders_completed_total", "Documents rendered and stored")
	rendersFailedTotal    = counter("renders_failed_total", "Document generations that failed")

	paymentsStartedTotal   = counter("payments_started_total", "Pending transactions created")
	paymentsCompletedTotal = counter("payments_completed_total", "Transactions confirmed")
	paymentsRejectedTotal  = counter("payments_rejected_total", "Payment confirmations that failed verification")

	deliveriesSentTotal    = counter("deliveries_sent_total", "Document links delivered through the channel API")
	deliveriesFailedTotal  = counter("deliveries_failed_total", "Document deliveries that failed")
	deliveriesDroppedTotal = counter("deliveries_dropped_total", "Delivery jobs discarded as undeliverable")

	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "render_duration_ms",
		Help:      "Document generation duration in milliseconds",
		Buckets:   []float64{50, 100, 250, 500, 1000, 2000, 5000, 10000},
	})
)

func counter(name, help string) prometheus.Counter {
	return promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	})
}

// IncTurn counts a handled inbound message.
func IncTurn() { turnsTotal.Inc() }

// IncTurnFailed counts a turn answered with the generic apology.
func IncTurnFailed() { turnsFailedTotal.Inc() }

// IncDuplicateTurn counts a webhook retry answered from the dedupe cache.
func IncDuplicateTurn() { duplicateTurnsTotal.Inc() }

// IncRenderCompleted increments the completed render counter.
func IncRenderCompleted() { rendersCompletedTotal.Inc() }

// IncRenderFailed increments the failed render counter.
func IncRenderFailed() { rendersFailedTotal.Inc() }

func IncPaymentStarted()   { paymentsStartedTotal.Inc() }
func IncPaymentCompleted() { paymentsCompletedTotal.Inc() }
func IncPaymentRejected()  { paymentsRejectedTotal.Inc() }

func IncDeliverySent()   { deliveriesSentTotal.Inc() }
func IncDeliveryFailed() { deliveriesFailedTotal.Inc() }

// IncDeliveryDropped counts queue messages deleted without delivery because they can never succeed.
func IncDeliveryDropped() { deliveriesDroppedTotal.Inc() }

// ObserveRenderDurationMs records a render duration in milliseconds.
func ObserveRenderDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	renderDuration.Observe(value)
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
