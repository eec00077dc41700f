package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/stc-api/internal/models"
)

// AuditRepository exposes the read operations used by the consistency auditor.
type AuditRepository interface {
	ListUsersByRole(ctx context.Context, role string) ([]models.User, error)
	ListTestsByCreator(ctx context.Context, creatorID string) ([]models.Test, error)
	ListSubmissionsByTestIDs(ctx context.Context, testIDs []string) ([]models.Submission, error)
	GetTestByID(ctx context.Context, id string) (models.Test, error)
	ListSubmissions(ctx context.Context) ([]models.Submission, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository instantiates a GORM-backed audit repository.
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) ListUsersByRole(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at ASC, id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *auditRepository) ListTestsByCreator(ctx context.Context, creatorID string) ([]models.Test, error) {
	var tests []models.Test
	if err := r.db.WithContext(ctx).
		Where("created_by = ?", creatorID).
		Order("created_at ASC, id ASC").
		Find(&tests).Error; err != nil {
		return nil, err
	}

	return tests, nil
}

func (r *auditRepository) ListSubmissionsByTestIDs(ctx context.Context, testIDs []string) ([]models.Submission, error) {
	if len(testIDs) == 0 {
		return []models.Submission{}, nil
	}

	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Preload("Test").
		Preload("User").
		Where("test_id IN ?", testIDs).
		Order("created_at ASC, id ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *auditRepository) GetTestByID(ctx context.Context, id string) (models.Test, error) {
	var test models.Test
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&test).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Test{}, ErrNotFound
		}
		return models.Test{}, err
	}

	return test, nil
}

func (r *auditRepository) ListSubmissions(ctx context.Context) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}
