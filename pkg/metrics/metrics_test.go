package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestJobMetricsRegisterAndRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewJobMetrics(reg)

	m.ObserveDuration("reconcile-calculators", 2*time.Second)
	m.IncSuccess("reconcile-calculators")
	m.IncFailure("")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather returned error: %v", err)
	}
	if len(families) != 3 {
		t.Fatalf("expected 3 metric families, got %d", len(families))
	}
}

func TestJobMetricsNilSafe(t *testing.T) {
	var m *JobMetrics
	m.ObserveDuration("x", time.Second)
	m.IncSuccess("x")
	m.IncFailure("x")

	empty := NewJobMetrics(nil)
	empty.IncSuccess("x")
}

func TestBindingMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBindingMetrics(reg)

	m.IncCreated("partial")
	m.IncDeleted()
	m.IncDegraded()
	m.IncCalculatorCreated()
	m.IncCalculatorFailed()
	m.IncRemoteDeleteFailed()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather returned error: %v", err)
	}
	if len(families) != 6 {
		t.Fatalf("expected 6 metric families, got %d", len(families))
	}
}

func TestBindingMetricsNilSafe(t *testing.T) {
	var m *BindingMetrics
	m.IncCreated("full")
	m.IncDeleted()

	empty := NewBindingMetrics(nil)
	empty.IncDegraded()
}
