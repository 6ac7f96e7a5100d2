package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" default:"10" help:"Number of builds to show"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	project, err := loadProject(root.Config)
	if err != nil {
		return err
	}

	// Stat first so a query never creates the database.
	path := project.HistoryPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("No builds recorded yet")
		return nil
	}

	store, err := history.Open(path)
	if err != nil {
		return fmt.Errorf("open build history: %w", err)
	}
	defer func() { _ = store.Close() }()

	recs, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No builds recorded yet")
		return nil
	}

	printHistory(os.Stdout, recs)
	return nil
}

// printHistory renders records as a fixed-width table, newest first.
func printHistory(w io.Writer, recs []history.Record) {
	fmt.Fprintf(w, "%-20s %-9s %4s %6s %7s %7s %9s %11s  %s\n",
		"STARTED", "OUTCOME", "DIRS", "FILES", "FAILED", "ERRORS", "WARNINGS", "DURATION", "BUILD")
	for _, r := range recs {
		fmt.Fprintf(w, "%-20s %-9s %4d %6d %7d %7d %9d %11s  %s\n",
			r.Started.Local().Format("2006-01-02 15:04:05"),
			r.Outcome, r.Folders, r.Files, r.Failed, r.Errors, r.Warnings,
			r.Duration().Truncate(time.Millisecond), shortBuildID(r.BuildID))
	}
}

func shortBuildID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
