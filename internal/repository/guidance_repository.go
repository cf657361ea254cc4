package repository

import (
	"codementor_backend/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type GuidanceRepository struct {
	DB *gorm.DB
}

func NewGuidanceRepository(db *gorm.DB) *GuidanceRepository {
	return &GuidanceRepository{DB: db}
}

func (r *GuidanceRepository) FindByUserID(ctx context.Context, userID uint) (*model.Guidance, error) {
	var g model.Guidance
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GuidanceRepository) Upsert(ctx context.Context, g *model.Guidance) (*model.Guidance, error) {
	existing, err := r.FindByUserID(ctx, g.UserID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if err := r.DB.WithContext(ctx).Create(g).Error; err != nil {
			return nil, err
		}
		return g, nil
	}

	existing.Content = g.Content
	existing.CodeExample = g.CodeExample
	if err := r.DB.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}
