package scaffold

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/retry"
)

// cloneStarter materializes a starter repository as a fresh project: a
// shallow clone with the starter's git history stripped. Transient clone
// failures are retried with backoff.
func cloneStarter(ctx context.Context, opts Options) error {
	if err := ensureCloneTarget(opts.Dir, opts.Force); err != nil {
		return err
	}

	cloneOptions := &git.CloneOptions{URL: opts.Starter, Depth: 1, Progress: os.Stdout}
	if opts.Branch != "" {
		cloneOptions.ReferenceName = plumbing.ReferenceName("refs/heads/" + opts.Branch)
		cloneOptions.SingleBranch = true
	}
	if auth := starterAuth(opts.Starter); auth != nil {
		cloneOptions.Auth = auth
	}

	slog.Info("cloning starter",
		logfields.URL(opts.Starter),
		slog.String("branch", opts.Branch),
		logfields.Path(opts.Dir))

	var repo *git.Repository
	err := retry.Do(ctx, retry.Default(), "clone starter", permanentCloneError, func() error {
		var cerr error
		repo, cerr = git.PlainCloneContext(ctx, opts.Dir, false, cloneOptions)
		if cerr != nil && shallowUnsupported(cerr) {
			// Local and some self-hosted transports cannot serve shallow
			// clones; take the full history instead.
			slog.Debug("shallow clone unsupported; retrying full clone", logfields.Error(cerr))
			_ = os.RemoveAll(opts.Dir)
			cloneOptions.Depth = 0
			repo, cerr = git.PlainCloneContext(ctx, opts.Dir, false, cloneOptions)
		}
		if cerr != nil {
			// A half-written tree would fail the next attempt.
			_ = os.RemoveAll(opts.Dir)
		}
		return cerr
	})
	if err != nil {
		return fmt.Errorf("clone starter %s: %w", opts.Starter, err)
	}
	if ref, herr := repo.Head(); herr == nil {
		slog.Info("starter cloned", slog.String("commit", ref.Hash().String()[:8]))
	}

	// The project starts its own history.
	if err := os.RemoveAll(filepath.Join(opts.Dir, ".git")); err != nil {
		slog.Warn("could not remove starter git history", logfields.Error(err))
	}

	if _, err := os.Stat(filepath.Join(opts.Dir, ConfigFileName)); err != nil {
		slog.Warn("starter has no project configuration",
			slog.String("expected", ConfigFileName))
	}
	return nil
}

// starterAuth builds credentials for private starters over HTTP from the
// environment: SITEBUILDER_GIT_TOKEN as the secret, SITEBUILDER_GIT_USERNAME
// overriding the "token" username most forges accept for token auth.
func starterAuth(url string) transport.AuthMethod {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil
	}
	token := os.Getenv("SITEBUILDER_GIT_TOKEN")
	if token == "" {
		return nil
	}
	username := os.Getenv("SITEBUILDER_GIT_USERNAME")
	if username == "" {
		username = "token"
	}
	return &http.BasicAuth{Username: username, Password: token}
}

func shallowUnsupported(err error) bool {
	l := strings.ToLower(err.Error())
	return strings.Contains(l, "shallow") || strings.Contains(l, "depth")
}

// permanentCloneError reports clone failures another attempt cannot fix:
// bad credentials, missing repositories or references, refused protocols,
// and cancellation.
func permanentCloneError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"auth", "permission", "denied", "not found", "invalid reference", "unsupported protocol", "already exists"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return !nerr.Timeout()
	}
	return false
}

// ensureCloneTarget refuses to clone over existing content unless forced,
// in which case the directory is recreated empty.
func ensureCloneTarget(dir string, force bool) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("inspect %s: %w", dir, err)
	}
	if len(entries) == 0 {
		return nil
	}
	if !force {
		return fmt.Errorf("directory %s is not empty (use --force to replace it)", dir)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clear %s: %w", dir, err)
	}
	return nil
}
