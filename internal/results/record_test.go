package results

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/stc-api/internal/models"
)

func TestResolveStudentNamePrefersPopulatedStudent(t *testing.T) {
	record := Record{Student: &Ref{Name: "X"}, StudentName: "Y"}
	require.Equal(t, "X", ResolveStudentName(record))

	record = Record{UserID: &Ref{ID: "u1", Name: "Z"}, StudentName: "Y"}
	require.Equal(t, "Z", ResolveStudentName(record))

	record = Record{UserID: &Ref{ID: "u1"}, StudentName: "Y"}
	require.Equal(t, "Y", ResolveStudentName(record))

	require.Equal(t, UnknownStudent, ResolveStudentName(Record{}))
}

func TestResolveTestNameAndTotalMarks(t *testing.T) {
	fifty := 50.0
	record := Record{TestID: &Ref{Name: "Algebra", TotalMarks: &fifty}, TestName: "Other"}
	require.Equal(t, "Algebra", ResolveTestName(record))
	require.Equal(t, 50.0, ResolveTotalMarks(record))

	zero := 0.0
	record = Record{TotalMarks: &zero}
	require.Equal(t, DefaultTotalMarks, ResolveTotalMarks(record), "zero total falls through to the default")

	require.Equal(t, UnknownTest, ResolveTestName(Record{}))
	require.Equal(t, 0.0, ResolveObtainedMarks(Record{}))
}

func TestRecordDecodesBothReferenceShapes(t *testing.T) {
	payload := `[
		{"_id": "a", "userId": "u1", "testId": {"_id": "t1", "name": "Physics", "totalMarks": 40}, "obtainedMarks": 30},
		{"_id": "b", "userId": {"_id": "u2", "name": "Mia", "email": "mia@example.com"}, "testId": "t2", "testName": "Chemistry"}
	]`

	var records []Record
	require.NoError(t, json.Unmarshal([]byte(payload), &records))
	require.Len(t, records, 2)

	require.Equal(t, "u1", records[0].UserID.ID)
	require.Equal(t, UnknownStudent, ResolveStudentName(records[0]))
	require.Equal(t, "Physics", ResolveTestName(records[0]))
	require.Equal(t, 40.0, ResolveTotalMarks(records[0]))

	require.Equal(t, "Mia", ResolveStudentName(records[1]))
	require.Equal(t, "t2", records[1].TestID.ID)
	require.Equal(t, "Chemistry", ResolveTestName(records[1]))
}

func TestRefMarshalsBareIdentifier(t *testing.T) {
	encoded, err := json.Marshal(Record{ID: "a", UserID: &Ref{ID: "u1"}})
	require.NoError(t, err)
	require.JSONEq(t, `{"_id":"a","userId":"u1"}`, string(encoded))
}

func TestDeriveAppliesDefaults(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	obtained := 45.0

	result := Derive(Record{ID: "r1", ObtainedMarks: &obtained}, now)
	require.Equal(t, 100.0, result.Total)
	require.InDelta(t, 45.0, result.Percent, 1e-9)
	require.Equal(t, "D", result.Grade)
	require.Equal(t, ColorAmber, result.Color)
	require.Equal(t, AnalysisSteady, result.Analysis)
	require.Equal(t, now, result.SubmittedAt)
	require.Equal(t, models.DefaultSubmissionReason, result.SubmissionReason)
	require.Empty(t, result.ViolationReason)
}

func TestRecordFromSubmissionShapes(t *testing.T) {
	obtained := 18.0
	submission := models.Submission{
		ID:            "s1",
		TestID:        "t1",
		UserID:        "u1",
		ObtainedMarks: &obtained,
		Test:          &models.Test{ID: "t1", Name: "Logic", TotalMarks: 20},
		User:          &models.User{ID: "u1", Name: "Noor", Email: "noor@example.com"},
	}

	populated := Derive(RecordFromSubmission(submission), time.Now())
	flat := Derive(FlatRecordFromSubmission(submission), time.Now())

	require.Equal(t, "Noor", populated.StudentName)
	require.Equal(t, "Logic", populated.TestName)
	require.InDelta(t, 90.0, populated.Percent, 1e-9)
	require.Equal(t, populated.StudentName, flat.StudentName)
	require.Equal(t, populated.TestName, flat.TestName)
	require.Equal(t, populated.Percent, flat.Percent)

	orphan := Derive(FlatRecordFromSubmission(models.Submission{ID: "s2", TestID: "gone", UserID: "u1"}), time.Now())
	require.Equal(t, UnknownTest, orphan.TestName)
}
