package core

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromRecorderObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPromMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	rec.Observe(context.Background(), "activate", true, 25*time.Millisecond)
	rec.Observe(context.Background(), "activate", false, time.Millisecond)
	rec.Observe(context.Background(), "", true, time.Second)

	if got := testutil.ToFloat64(rec.results.WithLabelValues("activate", "success")); got != 1 {
		t.Fatalf("success counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.results.WithLabelValues("activate", "error")); got != 1 {
		t.Fatalf("error counter = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(rec.durations); got != 1 {
		t.Fatalf("duration series = %d, want 1", got)
	}
}

func TestPromRecorderCountDecision(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPromMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	rec.CountDecision(true, "")
	rec.CountDecision(false, "explicitly disabled")
	rec.CountDecision(false, "explicitly disabled")

	if got := testutil.ToFloat64(rec.decisions.WithLabelValues("enabled", "")); got != 1 {
		t.Fatalf("enabled counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.decisions.WithLabelValues("disabled", "explicitly disabled")); got != 2 {
		t.Fatalf("disabled counter = %v, want 2", got)
	}
}

func TestPromRecorderDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromMetricsRecorder(reg); err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	if _, err := NewPromMetricsRecorder(reg); err == nil {
		t.Fatalf("expected a duplicate collector registration error")
	}
}
