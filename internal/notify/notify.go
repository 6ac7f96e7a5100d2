// Package notify publishes finished build reports to NATS, so other
// systems can react to builds without polling the output tree.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/sitebuilder/internal/build"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// Message is the JSON envelope published per build.
type Message struct {
	BuildID    string    `json:"build_id"`
	Outcome    string    `json:"outcome"`
	Folders    int       `json:"folders"`
	Files      int       `json:"files"`
	Failed     int       `json:"failed"`
	Errors     int       `json:"errors"`
	Warnings   int       `json:"warnings"`
	DurationMS int64     `json:"duration_ms"`
	Finished   time.Time `json:"finished"`
	Summary    string    `json:"summary"`
}

func messageFrom(rep *build.Report) Message {
	return Message{
		BuildID:    rep.BuildID,
		Outcome:    string(rep.Outcome),
		Folders:    rep.Folders,
		Files:      rep.Files,
		Failed:     rep.FilesFailed,
		Errors:     len(rep.Errors()),
		Warnings:   len(rep.Warnings()),
		DurationMS: rep.Duration().Milliseconds(),
		Finished:   rep.End,
		Summary:    rep.Summary(),
	}
}

// Publisher sends one message per finished build. A nil Publisher is a
// valid no-op, so callers hold one unconditionally.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// Connect dials the configured NATS server. It returns (nil, nil) when
// notifications are not configured; a connection failure is the caller's
// to log as a warning, never a build failure.
func Connect(cfg config.NotifyConfig) (*Publisher, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	conn, err := nats.Connect(cfg.URL, nats.Name("sitebuilder"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	slog.Info("build notifications enabled",
		logfields.URL(cfg.URL),
		slog.String("subject", cfg.Subject))
	return &Publisher{conn: conn, subject: cfg.Subject}, nil
}

// PublishReport publishes the report envelope and flushes the connection,
// so short-lived build processes do not exit before delivery.
func (p *Publisher) PublishReport(rep *build.Report) error {
	if p == nil {
		return nil
	}

	data, err := json.Marshal(messageFrom(rep))
	if err != nil {
		return fmt.Errorf("marshal build report: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish build report: %w", err)
	}
	if err := p.conn.Flush(); err != nil {
		return fmt.Errorf("flush build report: %w", err)
	}

	slog.Debug("published build report",
		logfields.BuildID(rep.BuildID),
		slog.String("subject", p.subject))
	return nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p != nil && p.conn != nil {
		p.conn.Close()
	}
}
