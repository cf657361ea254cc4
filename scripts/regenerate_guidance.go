// 手动批量重新生成学习指导
//
// 用于切换模型或调整提示词后刷新已有用户的指导内容，启用 Redis 时与在线服务共用用户锁。
//
// 用法: go run scripts/regenerate_guidance.go [-config configs] [-user 42]

package main

import (
	"codementor_backend/internal/config"
	"codementor_backend/internal/repository"
	"codementor_backend/internal/service"
	"codementor_backend/pkg/database"
	"codementor_backend/pkg/logger"
	"context"
	"flag"
	"log"

	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件目录")
	userID := flag.Uint("user", 0, "只处理指定用户，0 表示全部")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Redis 连接失败: %v", err)
	}

	var locker service.UserLocker = service.NewLocalLocker()
	if rdb != nil {
		defer rdb.Close()
		locker = service.NewRedisLocker(rdb, cfg.Guidance.LockTTL())
	}

	ctx := context.Background()
	store := repository.NewStore(db)
	aiService := service.NewAIService(ctx, cfg.AI)
	guidance := service.NewGuidanceService(store, aiService, locker, cfg.Guidance.ResourcePolicy)

	ids := []uint{uint(*userID)}
	if *userID == 0 {
		ids, err = repository.NewAssessmentRepository(db).ListUserIDs(ctx)
		if err != nil {
			log.Fatalf("读取问卷列表失败: %v", err)
		}
	}

	log.Printf("开始重新生成 %d 个用户的学习指导...", len(ids))
	failed := 0
	for _, id := range ids {
		if _, _, err := guidance.Refresh(ctx, id); err != nil {
			failed++
			logger.Log.Error("Failed to regenerate guidance", zap.Uint("user_id", id), zap.Error(err))
		}
	}
	log.Printf("完成！失败 %d 个", failed)
}
