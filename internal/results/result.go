package results

import (
	"strings"
	"time"

	"github.com/noah-isme/stc-api/internal/models"
)

// Result is a record resolved and graded for display. It is recomputed on every
// pass and never stored.
type Result struct {
	ID               string    `json:"id"`
	StudentName      string    `json:"student_name"`
	TestName         string    `json:"test_name"`
	Obtained         float64   `json:"obtained"`
	Total            float64   `json:"total"`
	Percent          float64   `json:"percent"`
	Grade            string    `json:"grade"`
	Color            string    `json:"color"`
	Analysis         string    `json:"analysis"`
	SubmittedAt      time.Time `json:"submitted_at"`
	SubmissionReason string    `json:"submission_reason"`
	ViolationReason  string    `json:"violation_reason"`
}

// Derive resolves every logical field of a record. now stands in for a missing
// submission time.
func Derive(r Record, now time.Time) Result {
	obtained := ResolveObtainedMarks(r)
	total := ResolveTotalMarks(r)
	percent := Percent(obtained, total)

	submittedAt := now
	if r.SubmittedAt != nil && !r.SubmittedAt.IsZero() {
		submittedAt = *r.SubmittedAt
	}

	reason := r.SubmissionReason
	if reason == "" {
		reason = models.DefaultSubmissionReason
	}

	return Result{
		ID:               r.ID,
		StudentName:      ResolveStudentName(r),
		TestName:         ResolveTestName(r),
		Obtained:         obtained,
		Total:            total,
		Percent:          percent,
		Grade:            GradeFor(percent),
		Color:            ColorFor(percent),
		Analysis:         AnalysisFor(percent),
		SubmittedAt:      submittedAt,
		SubmissionReason: reason,
		ViolationReason:  r.ViolationReason,
	}
}

// Normalize derives a result for every record, preserving order.
func Normalize(records []Record, now time.Time) []Result {
	out := make([]Result, 0, len(records))
	for _, record := range records {
		out = append(out, Derive(record, now))
	}
	return out
}

// Find returns the result with the given id.
func Find(results []Result, id string) (Result, bool) {
	for _, result := range results {
		if result.ID == id {
			return result, true
		}
	}
	return Result{}, false
}

// RecordFromSubmission builds the populated record shape from a stored submission.
func RecordFromSubmission(s models.Submission) Record {
	record := Record{
		ID:               s.ID,
		ObtainedMarks:    s.ObtainedMarks,
		SubmittedAt:      s.SubmittedAt,
		SubmissionReason: s.SubmissionReason,
		ViolationReason:  s.ViolationReason,
		UserID:           &Ref{ID: s.UserID},
		TestID:           &Ref{ID: s.TestID},
	}

	if s.User != nil {
		record.Student = &Ref{ID: s.User.ID, Name: s.User.Name, Email: s.User.Email}
	}
	if s.Test != nil {
		total := s.Test.TotalMarks
		record.Test = &Ref{ID: s.Test.ID, Name: s.Test.Name, TotalMarks: &total}
	}

	return record
}

// FlatRecordFromSubmission builds the denormalized shape: bare ids plus copied names.
func FlatRecordFromSubmission(s models.Submission) Record {
	record := Record{
		ID:               s.ID,
		UserID:           &Ref{ID: s.UserID},
		TestID:           &Ref{ID: s.TestID},
		ObtainedMarks:    s.ObtainedMarks,
		SubmittedAt:      s.SubmittedAt,
		SubmissionReason: s.SubmissionReason,
		ViolationReason:  s.ViolationReason,
	}

	if s.User != nil {
		record.StudentName = strings.TrimSpace(s.User.Name)
	}
	if s.Test != nil {
		record.TestName = strings.TrimSpace(s.Test.Name)
		if s.Test.TotalMarks != 0 {
			total := s.Test.TotalMarks
			record.TotalMarks = &total
		}
	}

	return record
}
