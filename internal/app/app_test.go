package app

import (
	"bytes"
	"encoding/json"
	"labgrade_backend/internal/config"
	"labgrade_backend/internal/model"
	"labgrade_backend/pkg/database"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t     *testing.T
	app   *App
	token string
}

func newTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0", Mode: gin.TestMode},
		JWT:       config.JWTConfig{Secret: "integration-secret", ExpireTime: time.Hour},
		Storage:   config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		RateLimit: config.RateLimitConfig{MaxRequests: 10000, WindowMinutes: 1},
	}
	return &testServer{t: t, app: New(cfg, db, nil)}
}

func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)
	return w
}

func (s *testServer) decode(w *httptest.ResponseRecorder, out interface{}) {
	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if out != nil {
		require.NoError(s.t, json.Unmarshal(env.Data, out))
	}
}

func (s *testServer) login(username string) {
	w := s.do(http.MethodPost, "/api/register", gin.H{"username": username, "password": "secret1", "name": "Prof " + username})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/login", gin.H{"username": username, "password": "secret1"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
	}
	s.decode(w, &data)
	require.NotEmpty(s.t, data.Token)
	s.token = data.Token
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/health", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/students", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/nope", nil).Code)

	w := s.do(http.MethodPost, "/api/login", gin.H{"username": "ghost", "password": "whatever"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.login("mehta")
	w = s.do(http.MethodPost, "/api/register", gin.H{"username": "mehta", "password": "secret1", "name": "again"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var teacher model.Teacher
	s.decode(w, &teacher)
	assert.Equal(t, "mehta", teacher.Username)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestGradingAndReportFlow(t *testing.T) {
	s := newTestServer(t)
	s.login("mehta")

	w := s.do(http.MethodPost, "/api/students", gin.H{"name": "Alice Rao", "sapId": "60004200001", "class": "IT1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var student model.Student
	s.decode(w, &student)

	w = s.do(http.MethodPost, "/api/students", gin.H{"name": "Copy", "sapId": "60004200001", "class": "IT1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/students", gin.H{"name": "Wrong", "sapId": "60004200009", "class": "CS1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := itoa(student.ID)

	w = s.do(http.MethodGet, "/api/reports/student/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var empty model.StudentReport
	s.decode(w, &empty)
	assert.Equal(t, "F", empty.Overall.Grade)
	assert.Len(t, empty.Subjects, 5)

	grade := gin.H{
		"studentId": student.ID, "subject": "FSD", "experimentNumber": 1,
		"performance": 5, "knowledge": 4, "implementation": 3, "strategy": 2, "attitude": 1,
	}
	w = s.do(http.MethodPost, "/api/grades", grade)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var detail model.GradeDetail
	s.decode(w, &detail)
	assert.Equal(t, 15, detail.Total)

	w = s.do(http.MethodPost, "/api/grades", gin.H{"studentId": student.ID, "subject": "FSD", "experimentNumber": 1, "comment": "solid"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	s.decode(w, &detail)
	assert.Equal(t, 15, detail.Total)

	w = s.do(http.MethodPost, "/api/grades", gin.H{"studentId": student.ID, "subject": "FSD", "experimentNumber": 2, "performance": 6})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/grades", gin.H{"studentId": 999, "subject": "FSD", "experimentNumber": 2, "performance": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/reports/student/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report model.StudentReport
	s.decode(w, &report)
	assert.Equal(t, 15, report.Subjects["FSD"].TotalMarks)
	assert.Equal(t, 25, report.Subjects["FSD"].MaxMarks)
	assert.Equal(t, model.OverallReport{TotalMarks: 15, MaxMarks: 25, Percentage: 60, Grade: "C"}, report.Overall)
	assert.Equal(t, "solid", report.Subjects["FSD"].Experiments[0].Comment)

	w = s.do(http.MethodGet, "/api/reports/student/"+id+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="Alice_Rao_Report.csv"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "Subject,Experiment,"))

	w = s.do(http.MethodPost, "/api/reports/student/"+id+"/archive", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/grades", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var none []model.GradeDetail
	s.decode(w, &none)
	assert.Empty(t, none)

	w = s.do(http.MethodGet, "/api/grades?studentId="+id+"&subject=fsd", nil)
	var listed []model.GradeDetail
	s.decode(w, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "FSD", listed[0].Subject)

	w = s.do(http.MethodPatch, "/api/grades/"+itoa(listed[0].ID), gin.H{"attitude": 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	s.decode(w, &detail)
	assert.Equal(t, 19, detail.Total)

	w = s.do(http.MethodGet, "/api/reports/class/IT1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ranking []model.ClassRankingEntry
	s.decode(w, &ranking)
	require.Len(t, ranking, 1)
	assert.Equal(t, 76.0, ranking[0].Overall.Percentage)

	w = s.do(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats model.DashboardStats
	s.decode(w, &stats)
	assert.Equal(t, int64(1), stats.TotalStudents)
	assert.Equal(t, int64(1), stats.GradeCount)

	w = s.do(http.MethodDelete, "/api/students/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/reports/student/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/students/"+id, nil).Code)
}

func TestSubjectAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	s.login("mehta")

	w := s.do(http.MethodGet, "/api/subjects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var subjects []model.Subject
	s.decode(w, &subjects)
	require.Len(t, subjects, 5)
	assert.Equal(t, "FSD", subjects[0].Code)
	assert.Len(t, subjects[0].Experiments, 5)

	w = s.do(http.MethodGet, "/api/subjects/se/experiments", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/subjects", gin.H{"code": "ML", "name": "Machine Learning"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, s.app.DB.Model(&model.Teacher{}).Where("username = ?", "mehta").Update("role", model.RoleAdmin).Error)
	s.token = ""
	w = s.do(http.MethodPost, "/api/login", gin.H{"username": "mehta", "password": "secret1"})
	var data struct {
		Token string `json:"token"`
	}
	s.decode(w, &data)
	s.token = data.Token

	w = s.do(http.MethodPost, "/api/subjects", gin.H{"code": "ML", "name": "Machine Learning", "sortOrder": 6})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/subjects/ML/experiments", gin.H{"number": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/subjects/ML/experiments", gin.H{"number": 1})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
