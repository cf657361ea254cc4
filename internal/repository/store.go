package repository

import (
	"codementor_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

// Gateway 按用户隔离的持久化访问接口。Get* 在记录不存在时返回 (nil, nil)。
type Gateway interface {
	GetAssessment(ctx context.Context, userID uint) (*model.Assessment, error)
	UpsertAssessment(ctx context.Context, a *model.Assessment) (*model.Assessment, error)

	GetGuidance(ctx context.Context, userID uint) (*model.Guidance, error)
	UpsertGuidance(ctx context.Context, g *model.Guidance) (*model.Guidance, error)

	ListResources(ctx context.Context, userID uint) ([]model.Resource, error)
	AppendResource(ctx context.Context, r *model.Resource) (*model.Resource, error)
	ClearResources(ctx context.Context, userID uint) error

	ListProgress(ctx context.Context, userID uint) ([]model.ProgressItem, error)
	UpsertProgress(ctx context.Context, p *model.ProgressItem) (*model.ProgressItem, error)

	// Atomic 在同一事务内执行 fn，fn 返回错误时整体回滚
	Atomic(ctx context.Context, fn func(tx Gateway) error) error
}

// Store 基于 gorm 的 Gateway 实现
type Store struct {
	db          *gorm.DB
	assessments *AssessmentRepository
	guidance    *GuidanceRepository
	resources   *ResourceRepository
	progress    *ProgressRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		assessments: NewAssessmentRepository(db),
		guidance:    NewGuidanceRepository(db),
		resources:   NewResourceRepository(db),
		progress:    NewProgressRepository(db),
	}
}

func (s *Store) GetAssessment(ctx context.Context, userID uint) (*model.Assessment, error) {
	return s.assessments.FindByUserID(ctx, userID)
}

func (s *Store) UpsertAssessment(ctx context.Context, a *model.Assessment) (*model.Assessment, error) {
	return s.assessments.Upsert(ctx, a)
}

func (s *Store) GetGuidance(ctx context.Context, userID uint) (*model.Guidance, error) {
	return s.guidance.FindByUserID(ctx, userID)
}

func (s *Store) UpsertGuidance(ctx context.Context, g *model.Guidance) (*model.Guidance, error) {
	return s.guidance.Upsert(ctx, g)
}

func (s *Store) ListResources(ctx context.Context, userID uint) ([]model.Resource, error) {
	return s.resources.FindByUserID(ctx, userID)
}

func (s *Store) AppendResource(ctx context.Context, r *model.Resource) (*model.Resource, error) {
	if err := s.resources.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) ClearResources(ctx context.Context, userID uint) error {
	return s.resources.DeleteByUserID(ctx, userID)
}

func (s *Store) ListProgress(ctx context.Context, userID uint) ([]model.ProgressItem, error) {
	return s.progress.FindByUserID(ctx, userID)
}

func (s *Store) UpsertProgress(ctx context.Context, p *model.ProgressItem) (*model.ProgressItem, error) {
	return s.progress.Upsert(ctx, p)
}

func (s *Store) Atomic(ctx context.Context, fn func(tx Gateway) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Ping 检查数据库连接
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
