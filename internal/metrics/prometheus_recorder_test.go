package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveStageDuration("build_folders", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("build_folders", ResultSuccess)
	pr.IncBuildOutcome("success")
	pr.IncFileResult("posts", true)
	pr.IncFileResult("posts", false)
	pr.IncRebuild("fsnotify")

	// Basic scrape to ensure metrics encode without panic
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}

	var sawFiles bool
	for _, mf := range mfs {
		if mf.GetName() == "sitebuilder_files_processed_total" {
			sawFiles = true
			if got := len(mf.GetMetric()); got != 2 {
				t.Fatalf("expected success and failed series, got %d", got)
			}
		}
	}
	if !sawFiles {
		t.Fatalf("files_processed_total not registered")
	}
}

func TestPrometheusRecorderNilReceiverIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveStageDuration("x", time.Millisecond)
	pr.ObserveBuildDuration(time.Millisecond)
	pr.IncStageResult("x", ResultFatal)
	pr.IncBuildOutcome("failed")
	pr.IncFileResult("posts", false)
	pr.IncRebuild("schedule")
	if pr.Registry() != nil {
		t.Fatal("nil recorder must have no registry")
	}
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("x", time.Millisecond)
	r.IncBuildOutcome("success")
	r.IncFileResult("posts", true)
	r.IncRebuild("initial")
}
