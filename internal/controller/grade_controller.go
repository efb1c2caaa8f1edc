package controller

import (
	"labgrade_backend/internal/repository"
	"labgrade_backend/internal/service"
	"labgrade_backend/internal/util"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type GradeController struct {
	GradeService *service.GradeService
}

func NewGradeController(gradeService *service.GradeService) *GradeController {
	return &GradeController{GradeService: gradeService}
}

// GradeScoresRequest 各维度分数均可省略，省略的字段保持原值
type GradeScoresRequest struct {
	Performance    *int    `json:"performance" binding:"omitempty,min=0,max=5"`
	Knowledge      *int    `json:"knowledge" binding:"omitempty,min=0,max=5"`
	Implementation *int    `json:"implementation" binding:"omitempty,min=0,max=5"`
	Strategy       *int    `json:"strategy" binding:"omitempty,min=0,max=5"`
	Attitude       *int    `json:"attitude" binding:"omitempty,min=0,max=5"`
	Comment        *string `json:"comment" binding:"omitempty,max=1000"`
}

func (r GradeScoresRequest) toScores() service.GradeScores {
	return service.GradeScores{
		Performance:    r.Performance,
		Knowledge:      r.Knowledge,
		Implementation: r.Implementation,
		Strategy:       r.Strategy,
		Attitude:       r.Attitude,
		Comment:        r.Comment,
	}
}

// SaveGradeRequest 实验由 experimentId 或 subject+experimentNumber 指定
// swagger:model SaveGradeRequest
type SaveGradeRequest struct {
	StudentID        uint   `json:"studentId" binding:"required"`
	ExperimentID     uint   `json:"experimentId"`
	Subject          string `json:"subject"`
	ExperimentNumber int    `json:"experimentNumber" binding:"omitempty,min=1,max=5"`
	GradeScoresRequest
}

// @Summary 查询评分
// @Description 按学生、科目、实验编号过滤；不带任何条件时返回空列表
// @Tags 评分
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "学生ID"
// @Param subject query string false "科目代码"
// @Param experimentNumber query int false "实验编号"
// @Success 200 {object} util.Response{data=[]model.GradeDetail}
// @Router /api/grades [get]
func (c *GradeController) ListGrades(ctx *gin.Context) {
	filter := repository.GradeFilter{
		Subject: strings.ToUpper(ctx.Query("subject")),
	}
	if sid := ctx.Query("studentId"); sid != "" {
		id, err := strconv.ParseUint(sid, 10, 32)
		if err != nil || id == 0 {
			util.BadRequest(ctx, "invalid studentId")
			return
		}
		filter.StudentID = uint(id)
	}
	if n := ctx.Query("experimentNumber"); n != "" {
		number, err := strconv.Atoi(n)
		if err != nil {
			util.BadRequest(ctx, "invalid experimentNumber")
			return
		}
		filter.ExperimentNumber = number
	}

	grades, err := c.GradeService.List(filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, grades)
}

// @Summary 保存评分
// @Description 同一学生同一实验只有一条评分，已存在时更新，返回 200；新建返回 201
// @Tags 评分
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SaveGradeRequest true "评分"
// @Success 200 {object} util.Response{data=model.GradeDetail} "已更新"
// @Success 201 {object} util.Response{data=model.GradeDetail} "已创建"
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "学生或实验不存在"
// @Router /api/grades [post]
func (c *GradeController) SaveGrade(ctx *gin.Context) {
	var req SaveGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.ExperimentID == 0 && (req.Subject == "" || req.ExperimentNumber == 0) {
		util.BadRequest(ctx, "experimentId or subject and experimentNumber are required")
		return
	}

	detail, created, err := c.GradeService.Save(ctx.Request.Context(), service.GradeInput{
		StudentID:        req.StudentID,
		ExperimentID:     req.ExperimentID,
		Subject:          req.Subject,
		ExperimentNumber: req.ExperimentNumber,
		Scores:           req.toScores(),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	if created {
		util.Created(ctx, detail)
		return
	}
	util.Success(ctx, detail)
}

// @Summary 修改评分
// @Tags 评分
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "评分ID"
// @Param body body GradeScoresRequest true "需要修改的分数"
// @Success 200 {object} util.Response{data=model.GradeDetail}
// @Failure 404 {object} util.Response
// @Router /api/grades/{id} [patch]
func (c *GradeController) PatchGrade(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req GradeScoresRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	detail, err := c.GradeService.Patch(ctx.Request.Context(), id, req.toScores())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}
