package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/stc-api/internal/models"
)

// SubmissionRepository defines the submission reads served to mentors.
type SubmissionRepository interface {
	ListForMentor(ctx context.Context, mentorID string) ([]models.Submission, error)
	ListVisibleToMentor(ctx context.Context, mentorID string) ([]models.Submission, error)
	GetByID(ctx context.Context, id string) (models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Test").
		Preload("User")
}

func (r *submissionRepository) ListForMentor(ctx context.Context, mentorID string) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.baseQuery(ctx).
		Select("submissions.*").
		Joins("JOIN tests ON tests.id = submissions.test_id").
		Where("tests.created_by = ?", mentorID).
		Order("submissions.created_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

// ListVisibleToMentor returns submissions to the mentor's tests plus orphans
// whose test no longer exists.
func (r *submissionRepository) ListVisibleToMentor(ctx context.Context, mentorID string) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.baseQuery(ctx).
		Select("submissions.*").
		Joins("LEFT JOIN tests ON tests.id = submissions.test_id").
		Where("tests.created_by = ? OR tests.id IS NULL", mentorID).
		Order("submissions.created_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).Where("submissions.id = ?", id).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, ErrNotFound
		}
		return models.Submission{}, err
	}

	return submission, nil
}
