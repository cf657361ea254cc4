package repository

import (
	"codementor_backend/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByUserID(ctx context.Context, userID uint) ([]model.ProgressItem, error) {
	items := []model.ProgressItem{}
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id asc").Find(&items).Error
	return items, err
}

func (r *ProgressRepository) FindByUserAndName(ctx context.Context, userID uint, name string) (*model.ProgressItem, error) {
	var item model.ProgressItem
	err := r.DB.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Upsert 以 (user_id, name) 为键更新百分比，否则新建
func (r *ProgressRepository) Upsert(ctx context.Context, item *model.ProgressItem) (*model.ProgressItem, error) {
	existing, err := r.FindByUserAndName(ctx, item.UserID, item.Name)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if err := r.DB.WithContext(ctx).Create(item).Error; err != nil {
			return nil, err
		}
		return item, nil
	}

	if err := r.DB.WithContext(ctx).Model(existing).Update("percentage", item.Percentage).Error; err != nil {
		return nil, err
	}
	existing.Percentage = item.Percentage
	return existing, nil
}
