package controller

import (
	"codementor_backend/internal/service"
	"codementor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// LearningController 推荐资源与学习进度
type LearningController struct {
	Service *service.GuidanceService
}

func NewLearningController(s *service.GuidanceService) *LearningController {
	return &LearningController{Service: s}
}

// GetResources godoc
// @Summary 获取推荐资源
// @Tags 学习
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Resource}
// @Failure 401 {object} util.Response
// @Router /resources [get]
func (lc *LearningController) GetResources(c *gin.Context) {
	user := util.GetUserFromContext(c)

	resources, err := lc.Service.Resources(c.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(c, "Failed to fetch resources", err)
		return
	}
	util.Success(c, resources)
}

// GetProgress godoc
// @Summary 获取学习进度
// @Tags 学习
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ProgressItem}
// @Failure 401 {object} util.Response
// @Router /progress [get]
func (lc *LearningController) GetProgress(c *gin.Context) {
	user := util.GetUserFromContext(c)

	progress, err := lc.Service.Progress(c.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(c, "Failed to fetch progress", err)
		return
	}
	util.Success(c, progress)
}
