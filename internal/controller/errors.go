package controller

import (
	"errors"
	"labgrade_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 业务错误与 HTTP 状态码的对应关系
var errorStatus = []struct {
	err    error
	status int
}{
	{util.ErrStudentNotFound, http.StatusNotFound},
	{util.ErrSubjectNotFound, http.StatusNotFound},
	{util.ErrExperimentNotFound, http.StatusNotFound},
	{util.ErrGradeNotFound, http.StatusNotFound},
	{util.ErrTeacherNotFound, http.StatusNotFound},
	{util.ErrSapIDTaken, http.StatusConflict},
	{util.ErrUsernameTaken, http.StatusConflict},
	{util.ErrSubjectExists, http.StatusConflict},
	{util.ErrExperimentExists, http.StatusConflict},
	{util.ErrInvalidClass, http.StatusBadRequest},
	{util.ErrInvalidExperimentNo, http.StatusBadRequest},
	{util.ErrScoreOutOfRange, http.StatusBadRequest},
	{util.ErrInvalidCredentials, http.StatusUnauthorized},
	{util.ErrPermissionDenied, http.StatusForbidden},
}

// respondError 已知业务错误按表返回，其余记日志后返回 500
func respondError(ctx *gin.Context, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			util.Error(ctx, e.status, e.err.Error())
			return
		}
	}
	util.LogInternalError(ctx, err)
}
