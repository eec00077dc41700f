package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/stc-api/internal/models"
	"github.com/noah-isme/stc-api/internal/repository"
)

const (
	auditUnknown   = "Unknown"
	auditSeparator = "----------------------------------------"
)

// OrphanedSubmission is a submission whose test could not be found.
type OrphanedSubmission struct {
	SubmissionID string `json:"submission_id"`
	TestID       string `json:"test_id"`
}

// MentorAudit summarises one mentor's section of the sweep.
type MentorAudit struct {
	MentorID    string   `json:"mentor_id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	TestIDs     []string `json:"test_ids"`
	Submissions int      `json:"submissions"`
}

// AuditReport is the outcome of one consistency sweep.
type AuditReport struct {
	Mentors         []MentorAudit        `json:"mentors"`
	TestCount       int                  `json:"test_count"`
	SubmissionCount int                  `json:"submission_count"`
	Orphans         []OrphanedSubmission `json:"orphans"`
	Unresolvable    []OrphanedSubmission `json:"unresolvable"`
	OrphanCount     int                  `json:"orphan_count"`
	FinishedAt      time.Time            `json:"finished_at"`
}

// AuditPublisher announces a finished sweep.
type AuditPublisher interface {
	PublishAudit(ctx context.Context, report AuditReport) error
}

// ConsistencyAuditor walks mentors, their tests and submissions, and reports
// submissions that reference a missing test. It never repairs anything.
type ConsistencyAuditor struct {
	store     repository.AuditRepository
	out       io.Writer
	publisher AuditPublisher
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewConsistencyAuditor builds an auditor writing its report lines to out.
// publisher may be nil.
func NewConsistencyAuditor(store repository.AuditRepository, out io.Writer, publisher AuditPublisher, logger zerolog.Logger) *ConsistencyAuditor {
	return &ConsistencyAuditor{
		store:     store,
		out:       out,
		publisher: publisher,
		logger:    logger.With().Str("component", "consistency_auditor").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/stc-api/internal/service/audit"),
		now:       time.Now,
	}
}

// Run performs the sweep. Store failures abort the run, except a failed test
// lookup for a single submission, which is recorded as unresolvable.
func (a *ConsistencyAuditor) Run(ctx context.Context) (AuditReport, error) {
	spanCtx, span := a.tracer.Start(ctx, "audit.run")
	defer span.End()

	report, err := a.run(spanCtx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "audit failed")
		return report, err
	}

	span.SetAttributes(
		attribute.Int("audit.mentors", len(report.Mentors)),
		attribute.Int("audit.orphans", report.OrphanCount),
		attribute.Int("audit.unresolvable", len(report.Unresolvable)),
	)

	if a.publisher != nil {
		if err := a.publisher.PublishAudit(spanCtx, report); err != nil {
			a.logger.Warn().Err(err).Msg("failed to publish audit summary")
		}
	}

	return report, nil
}

func (a *ConsistencyAuditor) run(ctx context.Context) (AuditReport, error) {
	report := AuditReport{
		Mentors:      make([]MentorAudit, 0),
		Orphans:      make([]OrphanedSubmission, 0),
		Unresolvable: make([]OrphanedSubmission, 0),
	}

	a.printf("Checking mentor submissions...\n\n")

	mentors, err := a.store.ListUsersByRole(ctx, models.RoleMentor)
	if err != nil {
		return report, fmt.Errorf("list mentors: %w", err)
	}
	a.printf("Found %d mentors\n\n", len(mentors))

	for _, mentor := range mentors {
		section, err := a.auditMentor(ctx, mentor)
		if err != nil {
			return report, err
		}
		report.Mentors = append(report.Mentors, section)
		report.TestCount += len(section.TestIDs)
	}

	a.printf("Checking for orphaned submissions...\n")

	submissions, err := a.store.ListSubmissions(ctx)
	if err != nil {
		return report, fmt.Errorf("list submissions: %w", err)
	}
	report.SubmissionCount = len(submissions)

	for _, submission := range submissions {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		_, err := a.store.GetTestByID(ctx, submission.TestID)
		entry := OrphanedSubmission{SubmissionID: submission.ID, TestID: submission.TestID}
		switch {
		case err == nil:
		case errors.Is(err, repository.ErrNotFound):
			a.printf("  Orphaned submission: %s for test %s\n", submission.ID, submission.TestID)
			report.Orphans = append(report.Orphans, entry)
			report.OrphanCount++
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return report, err
		default:
			a.logger.Error().Err(err).Str("submission_id", submission.ID).Str("test_id", submission.TestID).Msg("test lookup failed")
			a.printf("  Unresolvable submission: %s for test %s\n", submission.ID, submission.TestID)
			report.Unresolvable = append(report.Unresolvable, entry)
		}
	}

	a.printf("Found %d orphaned submissions\n\n", report.OrphanCount)
	report.FinishedAt = a.now().UTC()

	return report, nil
}

func (a *ConsistencyAuditor) auditMentor(ctx context.Context, mentor models.User) (MentorAudit, error) {
	section := MentorAudit{MentorID: mentor.ID, Name: mentor.Name, Email: mentor.Email, TestIDs: make([]string, 0)}

	a.printf("Checking submissions for mentor: %s (%s)\n", mentor.Name, mentor.Email)

	tests, err := a.store.ListTestsByCreator(ctx, mentor.ID)
	if err != nil {
		return section, fmt.Errorf("list tests for mentor %s: %w", mentor.ID, err)
	}
	a.printf("  Found %d tests created by this mentor\n", len(tests))

	if len(tests) == 0 {
		a.printf("  No tests found for this mentor\n")
		a.printf("\n\n")
		return section, nil
	}

	for _, test := range tests {
		section.TestIDs = append(section.TestIDs, test.ID)
	}
	a.printf("  Test IDs: %s\n", strings.Join(section.TestIDs, ", "))

	submissions, err := a.store.ListSubmissionsByTestIDs(ctx, section.TestIDs)
	if err != nil {
		return section, fmt.Errorf("list submissions for mentor %s: %w", mentor.ID, err)
	}
	section.Submissions = len(submissions)
	a.printf("  Found %d submissions for these tests\n", len(submissions))

	for idx, submission := range submissions {
		studentName, studentEmail := auditUnknown, auditUnknown
		if submission.User != nil {
			studentName = orUnknown(submission.User.Name)
			studentEmail = orUnknown(submission.User.Email)
		}
		testName := auditUnknown
		if submission.Test != nil {
			testName = orUnknown(submission.Test.Name)
		}
		submitted := auditUnknown
		if submission.SubmittedAt != nil && !submission.SubmittedAt.IsZero() {
			submitted = submission.SubmittedAt.UTC().Format(time.RFC3339)
		}

		a.printf("    %d. Student: %s (%s)\n", idx+1, studentName, studentEmail)
		a.printf("       Test: %s\n", testName)
		a.printf("       Score: %s marks\n", strconv.FormatFloat(submission.Obtained(), 'f', -1, 64))
		a.printf("       Submitted: %s\n", submitted)
		a.printf("%s\n", auditSeparator)
	}

	a.printf("\n\n")
	return section, nil
}

func (a *ConsistencyAuditor) printf(format string, args ...any) {
	if a.out == nil {
		return
	}
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func orUnknown(value string) string {
	if strings.TrimSpace(value) == "" {
		return auditUnknown
	}
	return value
}
