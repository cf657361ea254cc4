package controller

import (
	"codementor_backend/internal/service"
	"codementor_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	Service *service.AssessmentService
}

func NewAssessmentController(s *service.AssessmentService) *AssessmentController {
	return &AssessmentController{Service: s}
}

// GetAssessment godoc
// @Summary 获取当前用户的问卷
// @Description 尚未提交时 data 为 null
// @Tags 问卷
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Assessment}
// @Failure 401 {object} util.Response
// @Router /assessment [get]
func (ac *AssessmentController) GetAssessment(c *gin.Context) {
	user := util.GetUserFromContext(c)

	a, err := ac.Service.Get(c.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(c, "Failed to fetch assessment", err)
		return
	}
	if a == nil {
		util.Success(c, nil)
		return
	}
	util.Success(c, a)
}

// SubmitAssessment godoc
// @Summary 提交或更新问卷
// @Description 保存问卷并尝试生成首份学习指导，指导生成失败不影响问卷保存
// @Tags 问卷
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.AssessmentInput true "问卷内容"
// @Success 201 {object} util.Response{data=model.Assessment}
// @Failure 400 {object} util.Response{data=util.FieldError}
// @Failure 401 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /assessment [post]
func (ac *AssessmentController) SubmitAssessment(c *gin.Context) {
	user := util.GetUserFromContext(c)

	var input service.AssessmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "Invalid assessment payload")
		return
	}

	a, err := ac.Service.Submit(c.Request.Context(), user.UserID, input)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			util.ValidationFailed(c, ve.Field, ve.Message)
			return
		}
		util.LogInternalError(c, "Failed to create assessment", err)
		return
	}

	util.Created(c, a)
}
