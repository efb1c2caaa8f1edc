package controller

import (
	"labgrade_backend/internal/model"
	"labgrade_backend/internal/repository"
	"labgrade_backend/internal/service"
	"labgrade_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StudentController struct {
	StudentService *service.StudentService
}

func NewStudentController(studentService *service.StudentService) *StudentController {
	return &StudentController{StudentService: studentService}
}

// swagger:model CreateStudentRequest
type CreateStudentRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	SapID string `json:"sapId" binding:"required,max=32"`
	Class string `json:"class" binding:"required,classlabel"`
}

// swagger:model UpdateStudentRequest
type UpdateStudentRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	SapID *string `json:"sapId" binding:"omitempty,min=1,max=32"`
	Class *string `json:"class" binding:"omitempty,classlabel"`
}

// @Summary 学生列表
// @Description 可按班级筛选，q 对姓名和 SAP ID 做不区分大小写的搜索
// @Tags 学生
// @Produce json
// @Security BearerAuth
// @Param class query string false "班级" Enums(IT1, IT2, IT3)
// @Param q query string false "搜索关键字"
// @Success 200 {object} util.Response{data=[]model.Student}
// @Router /api/students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	students, err := c.StudentService.List(repository.StudentFilter{
		Class:  ctx.Query("class"),
		Search: ctx.Query("q"),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, students)
}

// @Summary 学生详情
// @Tags 学生
// @Produce json
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Success 200 {object} util.Response{data=model.Student}
// @Failure 404 {object} util.Response
// @Router /api/students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	student, err := c.StudentService.Get(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, student)
}

// @Summary 新增学生
// @Tags 学生
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateStudentRequest true "学生信息"
// @Success 201 {object} util.Response{data=model.Student}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response "SAP ID 已存在"
// @Router /api/students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	student := &model.Student{
		Name:  req.Name,
		SapID: req.SapID,
		Class: req.Class,
	}
	if err := c.StudentService.Create(student); err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, student)
}

// @Summary 更新学生
// @Tags 学生
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Param body body UpdateStudentRequest true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.Student}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/students/{id} [patch]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	student, err := c.StudentService.Update(ctx.Request.Context(), id, service.StudentUpdate{
		Name:  req.Name,
		SapID: req.SapID,
		Class: req.Class,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, student)
}

// @Summary 删除学生
// @Description 同时删除该学生的全部评分
// @Tags 学生
// @Produce json
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.StudentService.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}
