package controller

import (
	"fmt"
	"labgrade_backend/internal/service"
	"labgrade_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// @Summary 学生成绩报告
// @Description 汇总学生在所有科目上的评分，包含各维度平均分和总评等级
// @Tags 报告
// @Produce json
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Success 200 {object} util.Response{data=model.StudentReport}
// @Failure 404 {object} util.Response
// @Router /api/reports/student/{id} [get]
func (c *ReportController) GetStudentReport(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	report, err := c.ReportService.GenerateStudentReport(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// @Summary 导出成绩报告 CSV
// @Tags 报告
// @Produce text/csv
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Success 200 {file} file
// @Failure 404 {object} util.Response
// @Router /api/reports/student/{id}/export [get]
func (c *ReportController) ExportStudentReport(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	data, filename, err := c.ReportService.ExportStudentReportCSV(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Data(http.StatusOK, util.MimeCSV, data)
}

// @Summary 归档成绩报告
// @Description 生成 CSV 报告并写入对象存储
// @Tags 报告
// @Produce json
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Success 201 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/reports/student/{id}/archive [post]
func (c *ReportController) ArchiveStudentReport(ctx *gin.Context) {
	id, ok := util.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	url, err := c.ReportService.ArchiveStudentReport(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"url": url})
}

// @Summary 班级排名
// @Tags 报告
// @Produce json
// @Security BearerAuth
// @Param class path string true "班级" Enums(IT1, IT2, IT3)
// @Success 200 {object} util.Response{data=[]model.ClassRankingEntry}
// @Failure 400 {object} util.Response
// @Router /api/reports/class/{class} [get]
func (c *ReportController) ClassRanking(ctx *gin.Context) {
	ranking, err := c.ReportService.ClassRanking(ctx.Request.Context(), ctx.Param("class"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, ranking)
}
