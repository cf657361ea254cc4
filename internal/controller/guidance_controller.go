package controller

import (
	"codementor_backend/internal/service"
	"codementor_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type GuidanceController struct {
	Service *service.GuidanceService
}

func NewGuidanceController(s *service.GuidanceService) *GuidanceController {
	return &GuidanceController{Service: s}
}

// GetGuidance godoc
// @Summary 获取学习指导
// @Description 尚未生成时根据已有问卷现场生成
// @Tags 学习指导
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Guidance}
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response "尚未提交问卷"
// @Failure 500 {object} util.Response
// @Router /guidance [get]
func (gc *GuidanceController) GetGuidance(c *gin.Context) {
	user := util.GetUserFromContext(c)

	g, err := gc.Service.Get(c.Request.Context(), user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrAssessmentNotFound) {
			util.NotFound(c, "Assessment not found, cannot generate guidance")
			return
		}
		util.LogInternalError(c, "Failed to fetch guidance", err)
		return
	}
	util.Success(c, g)
}

// RefreshGuidance godoc
// @Summary 重新生成学习指导
// @Description 按已有问卷强制重新生成；保存失败但存在旧指导时返回旧指导
// @Tags 学习指导
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Guidance}
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response "尚未提交问卷"
// @Failure 500 {object} util.Response
// @Router /guidance/refresh [post]
func (gc *GuidanceController) RefreshGuidance(c *gin.Context) {
	user := util.GetUserFromContext(c)

	g, stale, err := gc.Service.Refresh(c.Request.Context(), user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrAssessmentNotFound) {
			util.NotFound(c, "Assessment not found")
			return
		}
		util.LogInternalError(c, "Failed to refresh guidance", err)
		return
	}
	if stale {
		c.Header("X-Guidance-Stale", "true")
	}
	util.Success(c, g)
}
