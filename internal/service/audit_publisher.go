package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// AuditSummary is the event emitted once a sweep has finished.
type AuditSummary struct {
	Mentors      int       `json:"mentors"`
	Tests        int       `json:"tests"`
	Submissions  int       `json:"submissions"`
	OrphanIDs    []string  `json:"orphan_ids"`
	Unresolvable int       `json:"unresolvable"`
	FinishedAt   time.Time `json:"finished_at"`
}

// NewAuditSummary condenses a report into its event form.
func NewAuditSummary(report AuditReport) AuditSummary {
	ids := make([]string, 0, len(report.Orphans))
	for _, orphan := range report.Orphans {
		ids = append(ids, orphan.SubmissionID)
	}

	return AuditSummary{
		Mentors:      len(report.Mentors),
		Tests:        report.TestCount,
		Submissions:  report.SubmissionCount,
		OrphanIDs:    ids,
		Unresolvable: len(report.Unresolvable),
		FinishedAt:   report.FinishedAt,
	}
}

// AuditSubject builds the subject audit summaries are published on.
func AuditSubject(prefix string) string {
	if prefix == "" {
		prefix = "stc"
	}
	return prefix + ".audit.completed"
}

const auditFlushTimeout = 2 * time.Second

type natsAuditPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSAuditPublisher publishes audit summaries on the given subject.
func NewNATSAuditPublisher(conn *nats.Conn, subject string) AuditPublisher {
	return &natsAuditPublisher{conn: conn, subject: subject}
}

func (p *natsAuditPublisher) PublishAudit(ctx context.Context, report AuditReport) error {
	if p.conn == nil || p.subject == "" {
		return nil
	}

	payload, err := json.Marshal(NewAuditSummary(report))
	if err != nil {
		return err
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}

	if _, ok := ctx.Deadline(); ok {
		return p.conn.FlushWithContext(ctx)
	}
	return p.conn.FlushTimeout(auditFlushTimeout)
}
