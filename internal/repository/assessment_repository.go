package repository

import (
	"codementor_backend/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

// FindByUserID 不存在时返回 (nil, nil)
func (r *AssessmentRepository) FindByUserID(ctx context.Context, userID uint) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Upsert 按 user_id 覆盖已有问卷，否则新建
func (r *AssessmentRepository) Upsert(ctx context.Context, a *model.Assessment) (*model.Assessment, error) {
	existing, err := r.FindByUserID(ctx, a.UserID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if err := r.DB.WithContext(ctx).Create(a).Error; err != nil {
			return nil, err
		}
		return a, nil
	}

	existing.ExperienceLevel = a.ExperienceLevel
	existing.Languages = a.Languages
	existing.LearningGoal = a.LearningGoal
	existing.GoalDetails = a.GoalDetails
	existing.LearningStyle = a.LearningStyle
	existing.TimeCommitment = a.TimeCommitment
	if err := r.DB.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// ListUserIDs 返回所有已提交问卷的用户 ID
func (r *AssessmentRepository) ListUserIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.Assessment{}).Order("user_id").Pluck("user_id", &ids).Error
	return ids, err
}
