package controller

import (
	"labgrade_backend/internal/model"
	"labgrade_backend/internal/service"
	"labgrade_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubjectController struct {
	SubjectService *service.SubjectService
}

func NewSubjectController(subjectService *service.SubjectService) *SubjectController {
	return &SubjectController{SubjectService: subjectService}
}

// swagger:model CreateSubjectRequest
type CreateSubjectRequest struct {
	Code      string `json:"code" binding:"required,alphanum,max=16"`
	Name      string `json:"name" binding:"required,max=100"`
	SortOrder int    `json:"sortOrder"`
}

// swagger:model CreateExperimentRequest
type CreateExperimentRequest struct {
	Number      int    `json:"number" binding:"required,min=1,max=5"`
	Title       string `json:"title" binding:"max=200"`
	Description string `json:"description" binding:"max=500"`
}

// @Summary 科目列表
// @Description 按参考顺序返回全部科目及其实验
// @Tags 科目
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Subject}
// @Router /api/subjects [get]
func (c *SubjectController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.SubjectService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// @Summary 科目下的实验
// @Tags 科目
// @Produce json
// @Security BearerAuth
// @Param code path string true "科目代码"
// @Success 200 {object} util.Response{data=[]model.Experiment}
// @Failure 404 {object} util.Response
// @Router /api/subjects/{code}/experiments [get]
func (c *SubjectController) ListExperiments(ctx *gin.Context) {
	subject, err := c.SubjectService.GetByCode(ctx.Param("code"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	experiments := subject.Experiments
	if experiments == nil {
		experiments = []model.Experiment{}
	}
	util.Success(ctx, experiments)
}

// @Summary 新增科目
// @Tags 科目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateSubjectRequest true "科目"
// @Success 201 {object} util.Response{data=model.Subject}
// @Failure 409 {object} util.Response
// @Router /api/subjects [post]
func (c *SubjectController) CreateSubject(ctx *gin.Context) {
	var req CreateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject := &model.Subject{Code: req.Code, Name: req.Name, SortOrder: req.SortOrder}
	if err := c.SubjectService.CreateSubject(ctx.Request.Context(), subject); err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, subject)
}

// @Summary 新增实验
// @Tags 科目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "科目代码"
// @Param body body CreateExperimentRequest true "实验"
// @Success 201 {object} util.Response{data=model.Experiment}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/subjects/{code}/experiments [post]
func (c *SubjectController) CreateExperiment(ctx *gin.Context) {
	var req CreateExperimentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	experiment := &model.Experiment{
		Number:      req.Number,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := c.SubjectService.CreateExperiment(ctx.Param("code"), experiment); err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, experiment)
}
