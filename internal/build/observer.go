package build

import (
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// Observer receives callbacks around stage execution and build lifecycle.
// It abstracts away the metrics.Recorder so other observers (logging,
// tracing, notifications) can hook in without changing stage code.
type Observer interface {
	OnStageStart(stage StageName)
	OnStageComplete(stage StageName, duration time.Duration, result StageResult)
	OnBuildComplete(report *Report)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnStageStart(StageName)                              {}
func (NoopObserver) OnStageComplete(StageName, time.Duration, StageResult) {}
func (NoopObserver) OnBuildComplete(*Report)                             {}

// RecorderObserver adapts a metrics.Recorder into an Observer.
type RecorderObserver struct {
	Rec metrics.Recorder
}

func (r RecorderObserver) OnStageStart(StageName) {}

func (r RecorderObserver) OnStageComplete(stage StageName, d time.Duration, _ StageResult) {
	if r.Rec != nil {
		r.Rec.ObserveStageDuration(string(stage), d)
	}
}

func (r RecorderObserver) OnBuildComplete(report *Report) {
	if r.Rec != nil {
		r.Rec.ObserveBuildDuration(report.Duration())
		r.Rec.IncBuildOutcome(string(report.Outcome))
	}
}
