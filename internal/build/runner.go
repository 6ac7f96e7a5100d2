package build

import (
	"context"
	"time"
)

// runStages executes stages in order, recording timings and stopping on the
// first fatal or canceled error. Warning-kind stage errors are recorded and
// execution proceeds with the next stage.
func (o *Orchestrator) runStages(ctx context.Context, stages []StageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.Name, ctx.Err())
			o.report.AddIssue(Issue{
				Code:     se.Code,
				Stage:    st.Name,
				Severity: SeverityError,
				Message:  se.Error(),
			})
			o.report.recordStageResult(st.Name, StageResultCanceled, o.recorder)
			o.observer.OnStageComplete(st.Name, 0, StageResultCanceled)
			return se
		default:
		}

		o.observer.OnStageStart(st.Name)
		t0 := time.Now()
		err := st.Fn(ctx)
		dur := time.Since(t0)
		o.report.StageDurations[string(st.Name)] += dur

		if err != nil {
			se := asStageError(st.Name, err)
			result := resultFromKind(se.Kind)
			o.report.AddIssue(Issue{
				Code:     se.Code,
				Stage:    st.Name,
				Severity: severityFromKind(se.Kind),
				Message:  se.Error(),
			})
			o.report.recordStageResult(st.Name, result, o.recorder)
			o.observer.OnStageComplete(st.Name, dur, result)
			if se.Kind == StageErrorWarning {
				continue
			}
			return se
		}

		o.report.recordStageResult(st.Name, StageResultSuccess, o.recorder)
		o.observer.OnStageComplete(st.Name, dur, StageResultSuccess)
	}
	return nil
}
