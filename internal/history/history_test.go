package history

import (
	"path/filepath"
	"testing"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/build"
)

func TestStoreAddAndRecent(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := t.Context()
	started := time.Now().Add(-3 * time.Second)
	rec := Record{
		BuildID:  "build-1",
		Started:  started,
		Finished: started.Add(1200 * time.Millisecond),
		Outcome:  "warning",
		Folders:  2,
		Files:    14,
		Failed:   1,
		Errors:   0,
		Warnings: 1,
	}
	if err := store.Add(ctx, rec); err != nil {
		t.Fatalf("failed to add record: %v", err)
	}

	recs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list records: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	got := recs[0]
	if got.BuildID != "build-1" || got.Outcome != "warning" {
		t.Errorf("unexpected record: %+v", got)
	}
	if got.Folders != 2 || got.Files != 14 || got.Failed != 1 || got.Warnings != 1 {
		t.Errorf("counts lost in round trip: %+v", got)
	}
	if got.Duration() != 1200*time.Millisecond {
		t.Errorf("expected 1.2s duration, got %s", got.Duration())
	}
}

func TestRecentReturnsNewestFirstAndLimits(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := t.Context()
	for _, id := range []string{"first", "second", "third"} {
		if err := store.Add(ctx, Record{BuildID: id, Outcome: "success"}); err != nil {
			t.Fatalf("failed to add %s: %v", id, err)
		}
	}

	recs, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("failed to list records: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].BuildID != "third" || recs[1].BuildID != "second" {
		t.Errorf("unexpected order: %s, %s", recs[0].BuildID, recs[1].BuildID)
	}
}

func TestRecordBuildMapsReport(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer func() { _ = store.Close() }()

	rep := &build.Report{
		BuildID:     "r-1",
		Start:       time.Now().Add(-2 * time.Second),
		End:         time.Now(),
		Folders:     1,
		Files:       3,
		FilesFailed: 1,
		Issues: []build.Issue{
			{Code: build.IssueFilePipelineFailure, Severity: build.SeverityWarning},
		},
		Outcome: build.OutcomeWarning,
	}
	if err := store.RecordBuild(t.Context(), rep); err != nil {
		t.Fatalf("failed to record build: %v", err)
	}

	recs, err := store.Recent(t.Context(), 1)
	if err != nil {
		t.Fatalf("failed to list records: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	got := recs[0]
	if got.BuildID != "r-1" || got.Outcome != "warning" {
		t.Errorf("unexpected record: %+v", got)
	}
	if got.Files != 3 || got.Failed != 1 || got.Warnings != 1 || got.Errors != 0 {
		t.Errorf("report counts lost: %+v", got)
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".sitebuilder", "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open store at %s: %v", path, err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Add(t.Context(), Record{BuildID: "b", Outcome: "success"}); err != nil {
		t.Fatalf("failed to add record: %v", err)
	}
}
