// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PaymentSubmissions counts outbound submissions to the payment provider.
	PaymentSubmissions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderservice_payment_submissions_total",
		Help: "Number of payment submissions dispatched to the provider.",
	})

	// PaymentSubmitFailures counts provider submissions that errored. The
	// request path never surfaces these; this counter and the log line are
	// how they stay observable.
	PaymentSubmitFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderservice_payment_submit_failures_total",
		Help: "Number of payment submissions that failed.",
	})

	// EventsPublished counts order lifecycle events handed to the stream.
	EventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderservice_events_published_total",
		Help: "Number of lifecycle events published.",
	})

	// EventPublishFailures counts publishes the broker rejected. Creation is
	// still considered successful; emission is retried out-of-band.
	EventPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderservice_event_publish_failures_total",
		Help: "Number of lifecycle event publishes that failed.",
	})

	// PendingPaymentsFailed counts orders the reconciler moved to
	// PAYMENT_FAILED after the pending deadline passed.
	PendingPaymentsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderservice_pending_payments_failed_total",
		Help: "Number of orders failed by the pending-payment reconciler.",
	})
)
