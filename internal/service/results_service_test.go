package service

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/stc-api/internal/models"
	"github.com/noah-isme/stc-api/internal/repository"
	"github.com/noah-isme/stc-api/internal/results"
)

func seedMentorResults(t *testing.T, db *gorm.DB) {
	t.Helper()
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&[]models.User{
		{ID: "m1", Name: "Grace", Email: "grace@example.com", Role: models.RoleMentor},
		{ID: "m2", Name: "Alan", Email: "alan@example.com", Role: models.RoleMentor},
		{ID: "s1", Name: "Ada", Email: "ada@example.com", Role: models.RoleStudent},
		{ID: "s2", Name: "Ben", Email: "ben@example.com", Role: models.RoleStudent},
	}).Error)
	require.NoError(t, db.Create(&[]models.Test{
		{ID: "t1", Name: "Algebra", TotalMarks: 50, CreatedBy: "m1"},
		{ID: "t2", Name: "Biology", TotalMarks: 20, CreatedBy: "m1"},
		{ID: "t3", Name: "Chemistry", TotalMarks: 10, CreatedBy: "m2"},
	}).Error)
	require.NoError(t, db.Create(&[]models.Submission{
		{ID: "r1", TestID: "t1", UserID: "s1", ObtainedMarks: marks(45), CreatedAt: base.Add(3 * time.Minute)},
		{ID: "r2", TestID: "t2", UserID: "s1", ObtainedMarks: marks(5), CreatedAt: base.Add(2 * time.Minute)},
		{ID: "r3", TestID: "t1", UserID: "s2", ObtainedMarks: marks(36), CreatedAt: base.Add(time.Minute)},
		{ID: "r4", TestID: "t3", UserID: "s2", ObtainedMarks: marks(9), CreatedAt: base},
		{ID: "r5", TestID: "removed", UserID: "s2", CreatedAt: base.Add(-time.Minute)},
	}).Error)
}

func newResultsServiceForTest(t *testing.T) (MentorResultsService, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	db := setupServiceDB(t)
	seedMentorResults(t, db)

	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	svc := NewMentorResultsService(repository.NewSubmissionRepository(db), client, time.Minute, zerolog.Nop())
	svc.(*mentorResultsService).now = func() time.Time { return time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC) }

	return svc, db, mini
}

func TestMentorResultsGroupsAndGrades(t *testing.T) {
	svc, _, _ := newResultsServiceForTest(t)

	view, err := svc.MentorResults(context.Background(), "m1", "")
	require.NoError(t, err)
	require.Equal(t, 3, view.Total)
	require.Len(t, view.Groups, 2)
	require.Equal(t, "Algebra", view.Groups[0].TestName)
	require.Equal(t, 2, view.Groups[0].Count)
	require.Equal(t, "Biology", view.Groups[1].TestName)

	top := view.Groups[0].Results[0]
	require.Equal(t, "r1", top.ID)
	require.Equal(t, "Ada", top.StudentName)
	require.InDelta(t, 90.0, top.Percent, 1e-9)
	require.Equal(t, "A+", top.Grade)
	require.Equal(t, results.ColorGreen, top.Color)

	low := view.Groups[1].Results[0]
	require.Equal(t, "F", low.Grade)
	require.Equal(t, results.ColorRed, low.Color)
	require.Equal(t, models.DefaultSubmissionReason, low.SubmissionReason)
}

func TestMentorResultsSearchDoesNotShrinkCache(t *testing.T) {
	svc, db, mini := newResultsServiceForTest(t)
	ctx := context.Background()

	filtered, err := svc.MentorResults(ctx, "m1", "ALGEBRA")
	require.NoError(t, err)
	require.Equal(t, "ALGEBRA", filtered.Search)
	require.Equal(t, 2, filtered.Total)
	require.Len(t, filtered.Groups, 1)
	require.True(t, mini.Exists("results:mentor:m1"))

	require.NoError(t, db.Where("id = ?", "r2").Delete(&models.Submission{}).Error)

	all, err := svc.MentorResults(ctx, "m1", "")
	require.NoError(t, err)
	require.Equal(t, 3, all.Total, "served from the unfiltered cached set")

	require.NoError(t, svc.InvalidateMentor(ctx, "m1"))
	fresh, err := svc.MentorResults(ctx, "m1", "")
	require.NoError(t, err)
	require.Equal(t, 2, fresh.Total)
}

func TestMentorResultDetail(t *testing.T) {
	svc, _, _ := newResultsServiceForTest(t)
	ctx := context.Background()

	result, err := svc.MentorResult(ctx, "m1", "r3")
	require.NoError(t, err)
	require.Equal(t, "Ben", result.StudentName)
	require.Equal(t, "Algebra", result.TestName)
	require.Equal(t, "B+", result.Grade)
	require.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), result.SubmittedAt.UTC())

	_, err = svc.MentorResult(ctx, "m1", "r4")
	require.ErrorIs(t, err, ErrResultNotFound)

	_, err = svc.MentorResult(ctx, "", "r1")
	require.ErrorIs(t, err, ErrMentorRequired)
}

func TestListSubmissionShapes(t *testing.T) {
	svc, _, _ := newResultsServiceForTest(t)
	ctx := context.Background()

	populated, err := svc.ListMentorSubmissions(ctx, "m2")
	require.NoError(t, err)
	require.Len(t, populated, 1)
	require.Equal(t, "Ben", populated[0].Student.Name)
	require.Equal(t, "Chemistry", populated[0].Test.Name)

	flat, err := svc.ListAllSubmissions(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, flat, 4)
	for _, record := range flat {
		require.NotEqual(t, "r4", record.ID, "another mentor's submission")
	}

	orphan := flat[len(flat)-1]
	require.Equal(t, "r5", orphan.ID)
	require.Equal(t, "removed", orphan.TestID.ID)
	require.Empty(t, orphan.TestName)
	require.Equal(t, "Ben", orphan.StudentName)

	theirs, err := svc.ListAllSubmissions(ctx, "m2")
	require.NoError(t, err)
	require.Len(t, theirs, 2)
	require.Equal(t, "r4", theirs[0].ID)
	require.Equal(t, "r5", theirs[1].ID)

	_, err = svc.ListAllSubmissions(ctx, " ")
	require.ErrorIs(t, err, ErrMentorRequired)
}

func TestMentorResultsFallBackWhenMentorHasNoTests(t *testing.T) {
	svc, _, _ := newResultsServiceForTest(t)

	view, err := svc.MentorResults(context.Background(), "m3", "")
	require.NoError(t, err)
	require.Equal(t, 1, view.Total)
	require.Len(t, view.Groups, 1)
	require.Equal(t, results.UnknownTest, view.Groups[0].TestName)
	require.Equal(t, "r5", view.Groups[0].Results[0].ID)
	require.Equal(t, "Ben", view.Groups[0].Results[0].StudentName)
}

type failingPrimaryRepo struct {
	repository.SubmissionRepository
	primaryErr  error
	fallbackErr error
}

func (r failingPrimaryRepo) ListForMentor(context.Context, string) ([]models.Submission, error) {
	return nil, r.primaryErr
}

func (r failingPrimaryRepo) ListVisibleToMentor(ctx context.Context, mentorID string) ([]models.Submission, error) {
	if r.fallbackErr != nil {
		return nil, r.fallbackErr
	}
	return r.SubmissionRepository.ListVisibleToMentor(ctx, mentorID)
}

func TestMentorResultsPrimaryFailure(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	db := setupServiceDB(t)
	seedMentorResults(t, db)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	repo := failingPrimaryRepo{SubmissionRepository: repository.NewSubmissionRepository(db), primaryErr: errors.New("connection reset")}
	svc := NewMentorResultsService(repo, client, time.Minute, zerolog.Nop())

	view, err := svc.MentorResults(context.Background(), "m1", "")
	require.NoError(t, err)
	require.Equal(t, 4, view.Total)
	require.False(t, mini.Exists("results:mentor:m1"), "fallback sets are not cached")

	repo.fallbackErr = errors.New("still down")
	svc = NewMentorResultsService(repo, nil, time.Minute, zerolog.Nop())
	_, err = svc.MentorResults(context.Background(), "m1", "")
	require.Error(t, err)
	require.Equal(t, results.MessageGeneric, err.Error())
}

func TestMentorResultsWithoutCache(t *testing.T) {
	db := setupServiceDB(t)
	seedMentorResults(t, db)
	svc := NewMentorResultsService(repository.NewSubmissionRepository(db), nil, time.Minute, zerolog.Nop())

	view, err := svc.MentorResults(context.Background(), "m2", "chem")
	require.NoError(t, err)
	require.Equal(t, 1, view.Total)
	require.NoError(t, svc.InvalidateMentor(context.Background(), "m2"))
}
