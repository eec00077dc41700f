package results

import (
	"bytes"
	"encoding/json"
	"time"
)

// Fallback values used when a record carries no usable field.
const (
	UnknownStudent    = "Unknown Student"
	UnknownTest       = "Unknown Test"
	DefaultTotalMarks = 100.0
)

// Ref is a relation that upstream services send either as a bare identifier
// ("userId": "64f...") or as a populated document ("userId": {"name": ...}).
type Ref struct {
	ID         string   `json:"_id,omitempty"`
	Name       string   `json:"name,omitempty"`
	Email      string   `json:"email,omitempty"`
	TotalMarks *float64 `json:"totalMarks,omitempty"`
}

// UnmarshalJSON accepts both the identifier and the populated form.
func (r *Ref) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '"' {
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}

	type plain Ref
	var decoded plain
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return err
	}
	*r = Ref(decoded)
	return nil
}

// MarshalJSON writes an unpopulated reference back as its bare identifier.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.Name == "" && r.Email == "" && r.TotalMarks == nil {
		return json.Marshal(r.ID)
	}

	type plain Ref
	return json.Marshal(plain(r))
}

// Record is one submission as returned by the submission endpoints. Different
// endpoints populate different subsets of these fields.
type Record struct {
	ID               string     `json:"_id,omitempty"`
	Student          *Ref       `json:"student,omitempty"`
	UserID           *Ref       `json:"userId,omitempty"`
	StudentName      string     `json:"studentName,omitempty"`
	Test             *Ref       `json:"test,omitempty"`
	TestID           *Ref       `json:"testId,omitempty"`
	TestName         string     `json:"testName,omitempty"`
	TotalMarks       *float64   `json:"totalMarks,omitempty"`
	ObtainedMarks    *float64   `json:"obtainedMarks,omitempty"`
	SubmittedAt      *time.Time `json:"submittedAt,omitempty"`
	SubmissionReason string     `json:"submissionReason,omitempty"`
	ViolationReason  string     `json:"violationReason,omitempty"`
}

// The resolvers below are the single definition of how a logical field is read
// from a record. Candidates are tried in order and the first present one wins;
// empty strings and zero numbers count as absent.

// ResolveStudentName reads student.name, userId.name, studentName, then "Unknown Student".
func ResolveStudentName(r Record) string {
	return firstString(refName(r.Student), refName(r.UserID), r.StudentName, UnknownStudent)
}

// ResolveTestName reads test.name, testId.name, testName, then "Unknown Test".
func ResolveTestName(r Record) string {
	return firstString(refName(r.Test), refName(r.TestID), r.TestName, UnknownTest)
}

// ResolveTotalMarks reads totalMarks, test.totalMarks, testId.totalMarks, then 100.
func ResolveTotalMarks(r Record) float64 {
	return firstNumber(r.TotalMarks, refTotal(r.Test), refTotal(r.TestID), ptr(DefaultTotalMarks))
}

// ResolveObtainedMarks reads obtainedMarks, defaulting to 0.
func ResolveObtainedMarks(r Record) float64 {
	return firstNumber(r.ObtainedMarks, ptr(0))
}

func refName(ref *Ref) string {
	if ref == nil {
		return ""
	}
	return ref.Name
}

func refTotal(ref *Ref) *float64 {
	if ref == nil {
		return nil
	}
	return ref.TotalMarks
}

func firstString(candidates ...string) string {
	for _, candidate := range candidates {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

func firstNumber(candidates ...*float64) float64 {
	for _, candidate := range candidates {
		if candidate != nil && *candidate != 0 {
			return *candidate
		}
	}
	return 0
}

func ptr(v float64) *float64 {
	return &v
}
