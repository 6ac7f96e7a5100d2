package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
)

// recordFunc captures the accumulator it was handed and returns ret.
func recordFunc(seen *[]any, ret any) Func {
	return func(ctx context.Context, project *config.Project, file *File, acc any) (any, error) {
		*seen = append(*seen, acc)
		return ret, nil
	}
}

func testFile() *File {
	return &File{Abs: "/src/posts/a.md", Rel: "a.md", Base: "a", Ext: ".md", Folder: "posts"}
}

func TestRunFile_ThreadsAccumulatorThroughStages(t *testing.T) {
	var seen []any
	plan := Plan{
		Folder: "posts",
		Entries: []Entry{
			{Name: "s1", Fn: recordFunc(&seen, "after-s1")},
			{Name: "s2", Fn: recordFunc(&seen, "after-s2")},
			{Name: "s3", Fn: recordFunc(&seen, "after-s3")},
		},
	}

	final, err := RunFile(context.Background(), &config.Project{}, plan, testFile())
	require.NoError(t, err)

	// First stage gets the absent accumulator, each later stage exactly the
	// previous stage's return, and the caller the last return.
	require.Equal(t, []any{nil, "after-s1", "after-s2"}, seen)
	require.Equal(t, "after-s3", final)
}

func TestRunFile_PassesProjectAndFileThrough(t *testing.T) {
	project := &config.Project{Root: "/proj"}
	file := testFile()

	var gotProject *config.Project
	var gotFile *File
	plan := Plan{Entries: []Entry{{Name: "probe", Fn: func(ctx context.Context, p *config.Project, f *File, acc any) (any, error) {
		gotProject, gotFile = p, f
		return nil, nil
	}}}}

	_, err := RunFile(context.Background(), project, plan, file)
	require.NoError(t, err)
	require.Same(t, project, gotProject)
	require.Same(t, file, gotFile)
}

func TestRunFile_InvalidEntrySkippedAccumulatorUnchanged(t *testing.T) {
	var seen []any
	plan := Plan{
		Folder: "posts",
		Entries: []Entry{
			{Name: "s1", Fn: recordFunc(&seen, "from-s1")},
			{Name: "broken", Reason: "unknown pipeline stage: broken"},
			{Name: "s3", Fn: recordFunc(&seen, "from-s3")},
		},
	}

	final, err := RunFile(context.Background(), &config.Project{}, plan, testFile())
	require.NoError(t, err)

	// s3 must see s1's return: the invalid entry passed the accumulator on
	// untouched.
	require.Equal(t, []any{nil, "from-s1"}, seen)
	require.Equal(t, "from-s3", final)
}

func TestRunFile_StageErrorStopsRemainingStages(t *testing.T) {
	errBoom := errors.New("boom")
	var ranLast bool
	plan := Plan{
		Folder: "posts",
		Entries: []Entry{
			{Name: "ok", Fn: func(ctx context.Context, p *config.Project, f *File, acc any) (any, error) { return "x", nil }},
			{Name: "explode", Fn: func(ctx context.Context, p *config.Project, f *File, acc any) (any, error) { return nil, errBoom }},
			{Name: "late", Fn: func(ctx context.Context, p *config.Project, f *File, acc any) (any, error) {
				ranLast = true
				return nil, nil
			}},
		},
	}

	_, err := RunFile(context.Background(), &config.Project{}, plan, testFile())
	require.ErrorIs(t, err, errBoom)
	require.ErrorContains(t, err, "explode")
	require.ErrorContains(t, err, "a.md")
	require.False(t, ranLast, "stages after a failure must not run")
}

func TestRunFile_ContextCancellationStopsPipeline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var ranSecond bool
	plan := Plan{
		Entries: []Entry{
			{Name: "canceller", Fn: func(ctx context.Context, p *config.Project, f *File, acc any) (any, error) {
				cancel()
				return "partial", nil
			}},
			{Name: "second", Fn: func(ctx context.Context, p *config.Project, f *File, acc any) (any, error) {
				ranSecond = true
				return nil, nil
			}},
		},
	}

	acc, err := RunFile(ctx, &config.Project{}, plan, testFile())
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, ranSecond)
	require.Equal(t, "partial", acc)
}

func TestRunFile_EmptyPlan(t *testing.T) {
	final, err := RunFile(context.Background(), &config.Project{}, Plan{Folder: "posts"}, testFile())
	require.NoError(t, err)
	require.Nil(t, final)
}
