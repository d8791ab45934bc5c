package metrics

import "github.com/prometheus/client_golang/prometheus"

// BindingMetrics counts outcomes of the binding provisioning saga.
type BindingMetrics struct {
	created            *prometheus.CounterVec
	deleted            prometheus.Counter
	degraded           prometheus.Counter
	calculatorsCreated prometheus.Counter
	calculatorsFailed  prometheus.Counter
	remoteLeaks        prometheus.Counter
}

// NewBindingMetrics registers the binding saga metrics on the provided registerer.
func NewBindingMetrics(reg prometheus.Registerer) *BindingMetrics {
	if reg == nil {
		return &BindingMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "binding_created",
		Help: "Bindings created, labeled by provisioning outcome.",
	}, []string{"outcome"})
	deleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "binding_deleted",
		Help: "Bindings deleted.",
	})
	degraded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "binding_degraded",
		Help: "Bindings created without remote geofence enforcement.",
	})
	calcCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "binding_calculators_created",
		Help: "Remote calculators provisioned for bindings.",
	})
	calcFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "binding_calculators_failed",
		Help: "Per-template calculator provisioning failures.",
	})
	leaks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "binding_remote_delete_failed",
		Help: "Remote calculator deletions that failed during teardown.",
	})
	reg.MustRegister(created, deleted, degraded, calcCreated, calcFailed, leaks)
	return &BindingMetrics{
		created:            created,
		deleted:            deleted,
		degraded:           degraded,
		calculatorsCreated: calcCreated,
		calculatorsFailed:  calcFailed,
		remoteLeaks:        leaks,
	}
}

// IncCreated records a binding creation with its provisioning outcome
// ("full", "partial", or "none").
func (b *BindingMetrics) IncCreated(outcome string) {
	if b == nil || b.created == nil {
		return
	}
	b.created.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncDeleted records a binding deletion.
func (b *BindingMetrics) IncDeleted() {
	if b == nil || b.deleted == nil {
		return
	}
	b.deleted.Inc()
}

// IncDegraded records a binding created without geofence enforcement.
func (b *BindingMetrics) IncDegraded() {
	if b == nil || b.degraded == nil {
		return
	}
	b.degraded.Inc()
}

// IncCalculatorCreated records a successfully provisioned calculator.
func (b *BindingMetrics) IncCalculatorCreated() {
	if b == nil || b.calculatorsCreated == nil {
		return
	}
	b.calculatorsCreated.Inc()
}

// IncCalculatorFailed records a per-template provisioning failure.
func (b *BindingMetrics) IncCalculatorFailed() {
	if b == nil || b.calculatorsFailed == nil {
		return
	}
	b.calculatorsFailed.Inc()
}

// IncRemoteDeleteFailed records a teardown leak.
func (b *BindingMetrics) IncRemoteDeleteFailed() {
	if b == nil || b.remoteLeaks == nil {
		return
	}
	b.remoteLeaks.Inc()
}
