// Package metrics defines the observability hooks of the build engine.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics stay zero-overhead until a real implementation
// (Prometheus, served by the preview server) is injected.
package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines the metrics operations of a build. Implementations must
// tolerate nil receivers so injection stays optional.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome string) // success|warning|failed|canceled
	IncFileResult(folder string, success bool)
	IncRebuild(trigger string) // initial|fsnotify|schedule
}

// NoopRecorder is the default Recorder; every method does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
func (NoopRecorder) IncFileResult(string, bool)                 {}
func (NoopRecorder) IncRebuild(string)                          {}
