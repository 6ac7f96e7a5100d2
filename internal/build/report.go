package build

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// Outcome is the typed enumeration of final build result states.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeWarning  Outcome = "warning"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// IssueCode enumerates machine-parseable issue identifiers. These codes are
// a stable contract and should only be appended, never reused.
type IssueCode string

const (
	IssueInvalidProject       IssueCode = "INVALID_PROJECT"
	IssueMissingSourceDir     IssueCode = "MISSING_SOURCE_DIR"
	IssueOutputDirFailure     IssueCode = "OUTPUT_DIR_FAILURE"
	IssueDiscoveryFailure     IssueCode = "DISCOVERY_FAILURE"
	IssueInvalidPipelineStage IssueCode = "INVALID_PIPELINE_STAGE"
	IssueFilePipelineFailure  IssueCode = "FILE_PIPELINE_FAILURE"
	IssueCanceled             IssueCode = "BUILD_CANCELED"
	IssueGenericStageError    IssueCode = "GENERIC_STAGE_ERROR"
)

// IssueSeverity represents normalized severity levels.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Issue is a structured taxonomy entry describing a discrete problem.
// Message is human-friendly; Code plus Stage allow automated handling.
type Issue struct {
	Code     IssueCode     `json:"code"`
	Stage    StageName     `json:"stage"`
	Severity IssueSeverity `json:"severity"`
	Message  string        `json:"message"`
	Folder   string        `json:"folder,omitempty"`
	File     string        `json:"file,omitempty"`
}

// StageCount aggregates result counts for one stage.
type StageCount struct {
	Success  int `json:"success"`
	Warning  int `json:"warning"`
	Fatal    int `json:"fatal"`
	Canceled int `json:"canceled"`
}

// Report captures the metrics of one build invocation. It marshals directly
// to JSON for history rows and build notifications.
type Report struct {
	BuildID        string                   `json:"build_id"`
	Start          time.Time                `json:"start"`
	End            time.Time                `json:"end"`
	Folders        int                      `json:"folders"`
	Files          int                      `json:"files"`
	FilesFailed    int                      `json:"files_failed"`
	StageDurations map[string]time.Duration `json:"stage_durations"`
	StageCounts    map[StageName]StageCount `json:"stage_counts"`
	Issues         []Issue                  `json:"issues"`
	Outcome        Outcome                  `json:"outcome"`
}

func newReport() *Report {
	return &Report{
		BuildID:        uuid.NewString(),
		Start:          time.Now(),
		StageDurations: make(map[string]time.Duration),
		StageCounts:    make(map[StageName]StageCount),
	}
}

// AddIssue appends a structured issue.
func (r *Report) AddIssue(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// Errors returns the issues with error severity.
func (r *Report) Errors() []Issue { return r.issuesBySeverity(SeverityError) }

// Warnings returns the issues with warning severity.
func (r *Report) Warnings() []Issue { return r.issuesBySeverity(SeverityWarning) }

func (r *Report) issuesBySeverity(sev IssueSeverity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

// Duration returns the wall-clock build time once finished.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("folders=%d files=%d failed=%d duration=%s errors=%d warnings=%d outcome=%s",
		r.Folders, r.Files, r.FilesFailed,
		r.Duration().Truncate(time.Millisecond),
		len(r.Errors()), len(r.Warnings()), r.Outcome)
}

func (r *Report) finish() { r.End = time.Now() }

// deriveOutcome sets Outcome from the recorded issues: cancellation wins,
// then any error, then any warning.
func (r *Report) deriveOutcome() {
	outcome := OutcomeSuccess
	for _, issue := range r.Issues {
		if issue.Code == IssueCanceled {
			r.Outcome = OutcomeCanceled
			return
		}
		switch issue.Severity {
		case SeverityError:
			outcome = OutcomeFailed
		case SeverityWarning:
			if outcome == OutcomeSuccess {
				outcome = OutcomeWarning
			}
		}
	}
	r.Outcome = outcome
}

// recordStageResult updates the stage counters and emits metrics.
func (r *Report) recordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	sc := r.StageCounts[stage]
	switch res {
	case StageResultSuccess:
		sc.Success++
	case StageResultWarning:
		sc.Warning++
	case StageResultFatal:
		sc.Fatal++
	case StageResultCanceled:
		sc.Canceled++
	}
	r.StageCounts[stage] = sc
	if recorder != nil {
		recorder.IncStageResult(string(stage), metrics.ResultLabel(res))
	}
}

// StageResult enumerates per-stage classification outcomes. Values mirror
// metrics.ResultLabel to simplify emission.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultWarning  StageResult = "warning"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
)
