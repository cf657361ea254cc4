package repository

import (
	"codementor_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type ResourceRepository struct {
	DB *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{DB: db}
}

// Create 总是插入新行，不做去重
func (r *ResourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	return r.DB.WithContext(ctx).Create(resource).Error
}

func (r *ResourceRepository) FindByUserID(ctx context.Context, userID uint) ([]model.Resource, error) {
	resources := []model.Resource{}
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id asc").Find(&resources).Error
	return resources, err
}

// DeleteByUserID 物理删除，用于 replace 策略
func (r *ResourceRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Unscoped().Where("user_id = ?", userID).Delete(&model.Resource{}).Error
}
