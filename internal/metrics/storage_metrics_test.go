package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := c.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func TestNewStorageMetricsWithRegisterer(t *testing.T) {
	m := NewStorageMetricsWithRegisterer(prometheus.NewRegistry())

	if m.rowsLoaded == nil || m.rowsSkipped == nil {
		t.Fatal("load counters should not be nil")
	}
	if m.saves == nil || m.saveDuration == nil {
		t.Fatal("save collectors should not be nil")
	}
	if m.linesDropped == nil || m.unknownPurchasers == nil || m.authAttempts == nil {
		t.Fatal("order and auth counters should not be nil")
	}
}

func TestNewStorageMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewStorageMetricsWithRegisterer(reg)
	second := NewStorageMetricsWithRegisterer(reg)

	first.RecordLineDropped()
	second.RecordLineDropped()

	if got := counterValue(t, first.linesDropped); got != 2 {
		t.Fatalf("expected shared counter value 2, got %f", got)
	}
}

func TestRecordRowsLoadedAndSkipped(t *testing.T) {
	m := NewStorageMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordRowsLoaded("listings", 3)
	m.RecordRowsLoaded("listings", 0)
	m.RecordRowSkipped("listings", ReasonFieldCount)
	m.RecordRowSkipped("listings", ReasonParse)
	m.RecordRowSkipped("listings", ReasonParse)

	if got := counterValue(t, m.rowsLoaded.WithLabelValues("listings")); got != 3 {
		t.Errorf("expected 3 loaded rows, got %f", got)
	}
	if got := counterValue(t, m.rowsSkipped.WithLabelValues("listings", ReasonFieldCount)); got != 1 {
		t.Errorf("expected 1 field_count skip, got %f", got)
	}
	if got := counterValue(t, m.rowsSkipped.WithLabelValues("listings", ReasonParse)); got != 2 {
		t.Errorf("expected 2 parse skips, got %f", got)
	}
}

func TestRecordSave(t *testing.T) {
	m := NewStorageMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordSave("orders", 2*time.Millisecond, nil)
	m.RecordSave("orders", time.Millisecond, errors.New("disk full"))

	if got := counterValue(t, m.saves.WithLabelValues("orders", "ok")); got != 1 {
		t.Errorf("expected 1 ok save, got %f", got)
	}
	if got := counterValue(t, m.saves.WithLabelValues("orders", "error")); got != 1 {
		t.Errorf("expected 1 failed save, got %f", got)
	}

	metric := &dto.Metric{}
	observer, err := m.saveDuration.GetMetricWithLabelValues("orders")
	if err != nil {
		t.Fatalf("get histogram: %v", err)
	}
	if err := observer.(prometheus.Histogram).Write(metric); err != nil {
		t.Fatalf("failed to write histogram: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("expected 2 samples, got %d", metric.Histogram.GetSampleCount())
	}
}

func TestRecordAuthAttempt(t *testing.T) {
	m := NewStorageMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordAuthAttempt(true)
	m.RecordAuthAttempt(false)
	m.RecordAuthAttempt(false)

	if got := counterValue(t, m.authAttempts.WithLabelValues("ok")); got != 1 {
		t.Errorf("expected 1 ok attempt, got %f", got)
	}
	if got := counterValue(t, m.authAttempts.WithLabelValues("rejected")); got != 2 {
		t.Errorf("expected 2 rejected attempts, got %f", got)
	}
}

func TestNilStorageMetrics(t *testing.T) {
	var m *StorageMetrics

	// Методы на nil не должны паниковать.
	m.RecordRowsLoaded("accounts", 1)
	m.RecordRowSkipped("accounts", ReasonParse)
	m.RecordSave("accounts", time.Millisecond, nil)
	m.RecordLineDropped()
	m.RecordUnknownPurchaser()
	m.RecordAuthAttempt(true)
}
