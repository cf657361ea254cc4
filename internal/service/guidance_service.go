package service

import (
	"codementor_backend/internal/config"
	"codementor_backend/internal/model"
	"codementor_backend/internal/repository"
	"codementor_backend/internal/util"
	"codementor_backend/pkg/logger"
	"codementor_backend/pkg/monitoring"
	"codementor_backend/pkg/tracing"
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

type GuidanceService struct {
	store  repository.Gateway
	ai     Completer
	locker UserLocker
	policy atomic.Value // string
}

func NewGuidanceService(store repository.Gateway, ai Completer, locker UserLocker, resourcePolicy string) *GuidanceService {
	if locker == nil {
		locker = NewLocalLocker()
	}
	s := &GuidanceService{
		store:  store,
		ai:     ai,
		locker: locker,
	}
	s.SetResourcePolicy(resourcePolicy)
	return s
}

// SetResourcePolicy 切换资源写入策略，append 为追加，replace 为先清空再写入
func (s *GuidanceService) SetResourcePolicy(policy string) {
	if policy != config.ResourcePolicyReplace {
		policy = config.ResourcePolicyAppend
	}
	s.policy.Store(policy)
}

func (s *GuidanceService) ResourcePolicy() string {
	return s.policy.Load().(string)
}

// Generate 根据问卷生成并保存指导。外部调用的任何失败都会转为兜底内容，
// 只有持久化失败会以 *StorageError 返回
func (s *GuidanceService) Generate(ctx context.Context, userID uint, a *model.Assessment) (*model.Guidance, error) {
	ctx, span := tracing.StartSpan(ctx, "guidance.generate", userID)
	g, err := s.generate(ctx, userID, a)
	tracing.EndSpan(span, err)
	return g, err
}

func (s *GuidanceService) generate(ctx context.Context, userID uint, a *model.Assessment) (*model.Guidance, error) {
	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return nil, storageErr("acquire generation lock", err)
	}
	defer unlock()

	plan, err := s.fromModel(ctx, a)
	if err == nil {
		g, perr := s.persist(ctx, userID, plan)
		if perr == nil {
			monitoring.GuidanceGenerations.WithLabelValues(SourceModel).Inc()
			return g, nil
		}
		err = perr
	}

	logger.Log.Warn("Guidance generation falling back to template content",
		zap.Uint("user_id", userID),
		zap.String("reason", err.Error()),
	)

	g, err := s.persist(ctx, userID, FallbackPlan(a))
	if err != nil {
		logger.Log.Error("Failed to persist fallback guidance", zap.Uint("user_id", userID), zap.Error(err))
		return nil, storageErr("persist fallback guidance", err)
	}
	monitoring.GuidanceGenerations.WithLabelValues(SourceFallback).Inc()
	return g, nil
}

func (s *GuidanceService) fromModel(ctx context.Context, a *model.Assessment) (*GuidancePlan, error) {
	if s.ai == nil {
		return nil, &ExternalCallError{Kind: ExternalUnavailable}
	}
	text, err := s.ai.CompleteJSON(ctx, guidanceSystemPrompt, buildGuidancePrompt(a))
	if err != nil {
		return nil, err
	}
	return parseGuidanceResponse(text)
}

// persist 在一个事务内写入指导、资源和进度，失败时整体回滚
func (s *GuidanceService) persist(ctx context.Context, userID uint, plan *GuidancePlan) (*model.Guidance, error) {
	ctx, span := tracing.StartSpan(ctx, "guidance.persist", userID)
	replace := s.ResourcePolicy() == config.ResourcePolicyReplace

	var saved *model.Guidance
	err := s.store.Atomic(ctx, func(tx repository.Gateway) error {
		g, err := tx.UpsertGuidance(ctx, &model.Guidance{
			UserID:      userID,
			Content:     plan.Content,
			CodeExample: datatypes.NewJSONType(plan.CodeExample),
		})
		if err != nil {
			return storageErr("upsert guidance", err)
		}

		if replace {
			if err := tx.ClearResources(ctx, userID); err != nil {
				return storageErr("clear resources", err)
			}
		}
		for _, r := range plan.Resources {
			r.ID = 0
			r.UserID = userID
			if _, err := tx.AppendResource(ctx, &r); err != nil {
				return storageErr("append resource", err)
			}
		}

		for _, p := range plan.Progress {
			p.ID = 0
			p.UserID = userID
			if _, err := tx.UpsertProgress(ctx, &p); err != nil {
				return storageErr("upsert progress", err)
			}
		}

		saved = g
		return nil
	})
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, storageErr("persist guidance", err)
	}
	return saved, nil
}

// Get 返回已保存的指导；尚未生成时用已有问卷现场生成，没有问卷时返回 util.ErrAssessmentNotFound
func (s *GuidanceService) Get(ctx context.Context, userID uint) (*model.Guidance, error) {
	g, err := s.store.GetGuidance(ctx, userID)
	if err != nil {
		return nil, storageErr("get guidance", err)
	}
	if g != nil {
		return g, nil
	}

	a, err := s.store.GetAssessment(ctx, userID)
	if err != nil {
		return nil, storageErr("get assessment", err)
	}
	if a == nil {
		return nil, util.ErrAssessmentNotFound
	}
	return s.Generate(ctx, userID, a)
}

// Refresh 按已有问卷强制重新生成。写入失败但存在旧指导时返回旧指导，stale 为 true
func (s *GuidanceService) Refresh(ctx context.Context, userID uint) (g *model.Guidance, stale bool, err error) {
	a, err := s.store.GetAssessment(ctx, userID)
	if err != nil {
		return nil, false, storageErr("get assessment", err)
	}
	if a == nil {
		return nil, false, util.ErrAssessmentNotFound
	}

	g, genErr := s.Generate(ctx, userID, a)
	if genErr == nil {
		return g, false, nil
	}

	existing, err := s.store.GetGuidance(ctx, userID)
	if err != nil || existing == nil {
		return nil, false, genErr
	}
	logger.Log.Warn("Guidance refresh failed, serving previous guidance",
		zap.Uint("user_id", userID), zap.Error(genErr))
	return existing, true, nil
}

func (s *GuidanceService) Resources(ctx context.Context, userID uint) ([]model.Resource, error) {
	list, err := s.store.ListResources(ctx, userID)
	if err != nil {
		return nil, storageErr("list resources", err)
	}
	if list == nil {
		list = []model.Resource{}
	}
	return list, nil
}

func (s *GuidanceService) Progress(ctx context.Context, userID uint) ([]model.ProgressItem, error) {
	list, err := s.store.ListProgress(ctx, userID)
	if err != nil {
		return nil, storageErr("list progress", err)
	}
	if list == nil {
		list = []model.ProgressItem{}
	}
	return list, nil
}
