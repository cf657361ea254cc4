package controller

import (
	"codementor_backend/internal/util"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// Pinger 数据库连通性检查
type Pinger interface {
	Ping(ctx context.Context) error
}

// AIStatus 报告当前是否配置了外部模型
type AIStatus interface {
	Available() bool
}

type HealthController struct {
	DB    Pinger
	Redis *redis.Client
	AI    AIStatus
}

func NewHealthController(db Pinger, rdb *redis.Client, ai AIStatus) *HealthController {
	return &HealthController{DB: db, Redis: rdb, AI: ai}
}

// @Summary 健康检查
// @Description 检查数据库、Redis 与 AI provider 状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.DB.Ping(pingCtx); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	components := gin.H{"database": "up"}

	if c.Redis != nil {
		if err := c.Redis.Ping(pingCtx).Err(); err != nil {
			components["redis"] = "down"
		} else {
			components["redis"] = "up"
		}
	}

	// 未配置模型时走兜底内容，不影响可用性
	if c.AI != nil && c.AI.Available() {
		components["ai"] = "configured"
	} else {
		components["ai"] = "fallback"
	}

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
