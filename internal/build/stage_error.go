package build

import (
	"errors"
	"fmt"
)

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category, issue code, and the
// underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Code  IssueCode
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, code IssueCode, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Code: code, Err: err}
}

func newWarnStageError(stage StageName, code IssueCode, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Code: code, Err: err}
}

func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Code: IssueCanceled, Err: err}
}

// asStageError returns err as a *StageError, wrapping unclassified errors as
// fatal by default.
func asStageError(stage StageName, err error) *StageError {
	var se *StageError
	if errors.As(err, &se) {
		return se
	}
	return newFatalStageError(stage, IssueGenericStageError, err)
}

// resultFromKind maps an error kind to the stage result label.
func resultFromKind(k StageErrorKind) StageResult {
	switch k {
	case StageErrorWarning:
		return StageResultWarning
	case StageErrorCanceled:
		return StageResultCanceled
	default:
		return StageResultFatal
	}
}

// severityFromKind maps an error kind to an issue severity; only warnings
// stay non-fatal.
func severityFromKind(k StageErrorKind) IssueSeverity {
	if k == StageErrorWarning {
		return SeverityWarning
	}
	return SeverityError
}
