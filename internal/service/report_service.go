package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"labgrade_backend/internal/model"
	"labgrade_backend/internal/repository"
	"labgrade_backend/internal/util"
	"labgrade_backend/pkg/logger"
	"labgrade_backend/pkg/monitoring"
	"labgrade_backend/pkg/tracing"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReportStudentStore interface {
	FindByID(id uint) (*model.Student, error)
	List(filter repository.StudentFilter) ([]model.Student, error)
}

type ReportGradeStore interface {
	ListByStudent(studentID uint) ([]model.Grade, error)
	Find(filter repository.GradeFilter) ([]model.Grade, error)
}

type SubjectLister interface {
	ListSubjects() ([]model.Subject, error)
}

type ReportCacheStore interface {
	Get(ctx context.Context, studentID uint) (*model.StudentReport, bool, error)
	Set(ctx context.Context, report *model.StudentReport) error
	Invalidate(ctx context.Context, studentID uint) error
	InvalidateAll(ctx context.Context) error
}

type ObjectUploader interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
}

type ReportService struct {
	Students ReportStudentStore
	Grades   ReportGradeStore
	Subjects SubjectLister
	Cache    ReportCacheStore // 可为 nil
	Storage  ObjectUploader
}

func NewReportService(
	students ReportStudentStore,
	grades ReportGradeStore,
	subjects SubjectLister,
	cache ReportCacheStore,
	storage ObjectUploader,
) *ReportService {
	return &ReportService{
		Students: students,
		Grades:   grades,
		Subjects: subjects,
		Cache:    cache,
		Storage:  storage,
	}
}

// LetterGrade 按百分比换算等级，阈值为闭区间下界
func LetterGrade(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A+"
	case percentage >= 80:
		return "A"
	case percentage >= 70:
		return "B"
	case percentage >= 60:
		return "C"
	case percentage >= 50:
		return "D"
	default:
		return "F"
	}
}

// Percentage maxMarks 为 0 时返回 0
func Percentage(totalMarks, maxMarks int) float64 {
	if maxMarks == 0 {
		return 0
	}
	return float64(totalMarks*100) / float64(maxMarks)
}

// BuildStudentReport 根据已取出的评分计算报告。
// 所有参考科目都会出现在结果中；实验无法解析的评分被忽略。
func BuildStudentReport(student model.Student, grades []model.Grade, subjects []model.Subject) *model.StudentReport {
	report := &model.StudentReport{
		Student: model.ReportStudent{
			ID:    student.ID,
			Name:  student.Name,
			SapID: student.SapID,
			Class: student.Class,
		},
		SubjectOrder: make([]string, 0, len(subjects)),
		Subjects:     make(map[string]*model.SubjectReport, len(subjects)),
		Metrics:      make(map[model.Rubric]float64, len(model.Rubrics)),
	}

	codeByID := make(map[uint]string, len(subjects))
	for _, s := range subjects {
		codeByID[s.ID] = s.Code
		report.SubjectOrder = append(report.SubjectOrder, s.Code)
		report.Subjects[s.Code] = &model.SubjectReport{
			SubjectName: s.Name,
			Experiments: []model.ExperimentReport{},
		}
	}

	type running struct {
		sum   int
		count int
	}
	metrics := make(map[model.Rubric]*running, len(model.Rubrics))
	for _, r := range model.Rubrics {
		metrics[r] = &running{}
	}

	for i := range grades {
		g := &grades[i]
		if g.Experiment == nil {
			continue
		}
		entry, ok := report.Subjects[codeByID[g.Experiment.SubjectID]]
		if !ok {
			continue
		}

		total := g.ComputeTotal()
		exp := model.ExperimentReport{
			ExperimentNumber: g.Experiment.Number,
			ExperimentTitle:  g.Experiment.Title,
			Performance:      g.ScoreOrZero(model.RubricPerformance),
			Knowledge:        g.ScoreOrZero(model.RubricKnowledge),
			Implementation:   g.ScoreOrZero(model.RubricImplementation),
			Strategy:         g.ScoreOrZero(model.RubricStrategy),
			Attitude:         g.ScoreOrZero(model.RubricAttitude),
			TotalMarks:       total,
			MaxMarks:         model.MaxExperimentMarks,
		}
		if g.Comment != nil {
			exp.Comment = *g.Comment
		}
		entry.Experiments = append(entry.Experiments, exp)
		entry.TotalMarks += total
		entry.MaxMarks += model.MaxExperimentMarks

		// 平均值只统计实际填写的分数
		for _, r := range model.Rubrics {
			if v := g.Score(r); v != nil {
				metrics[r].sum += *v
				metrics[r].count++
			}
		}
	}

	for _, code := range report.SubjectOrder {
		entry := report.Subjects[code]
		sort.SliceStable(entry.Experiments, func(a, b int) bool {
			return entry.Experiments[a].ExperimentNumber < entry.Experiments[b].ExperimentNumber
		})
		report.Overall.TotalMarks += entry.TotalMarks
		report.Overall.MaxMarks += entry.MaxMarks
	}

	for _, r := range model.Rubrics {
		m := metrics[r]
		if m.count == 0 {
			report.Metrics[r] = 0
			continue
		}
		report.Metrics[r] = float64(m.sum) / float64(m.count)
	}

	report.Overall.Percentage = Percentage(report.Overall.TotalMarks, report.Overall.MaxMarks)
	report.Overall.Grade = LetterGrade(report.Overall.Percentage)

	return report
}

func (s *ReportService) GenerateStudentReport(ctx context.Context, studentID uint) (*model.StudentReport, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ReportService.GenerateStudentReport")
	defer span.End()
	span.SetAttributes(attribute.Int64("student.id", int64(studentID)))

	if s.Cache != nil {
		cached, hit, err := s.Cache.Get(ctx, studentID)
		switch {
		case err != nil:
			monitoring.ReportCache.WithLabelValues("error").Inc()
			logger.Log.Warn("report cache lookup failed", zap.Uint("studentId", studentID), zap.Error(err))
		case hit:
			monitoring.ReportCache.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			monitoring.ReportCache.WithLabelValues("miss").Inc()
		}
	}

	student, err := s.Students.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}

	grades, err := s.Grades.ListByStudent(studentID)
	if err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}

	subjects, err := s.Subjects.ListSubjects()
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}

	report := BuildStudentReport(*student, grades, subjects)
	monitoring.ReportsGenerated.Inc()

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, report); err != nil {
			logger.Log.Warn("report cache store failed", zap.Uint("studentId", studentID), zap.Error(err))
		}
	}

	return report, nil
}

// InvalidateStudent 评分或学生信息变更后调用
func (s *ReportService) InvalidateStudent(ctx context.Context, studentID uint) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, studentID); err != nil {
		logger.Log.Warn("report cache invalidation failed", zap.Uint("studentId", studentID), zap.Error(err))
	}
}

// InvalidateAll 科目参考列表变化后调用，所有报告都需要重新生成
func (s *ReportService) InvalidateAll(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.InvalidateAll(ctx); err != nil {
		logger.Log.Warn("report cache flush failed", zap.Error(err))
	}
}

// ClassRanking 班级内所有学生的总评，按百分比降序，百分比相同的名次相同
func (s *ReportService) ClassRanking(ctx context.Context, class string) ([]model.ClassRankingEntry, error) {
	_, span := tracing.Tracer.Start(ctx, "ReportService.ClassRanking")
	defer span.End()

	if !model.IsValidClass(class) {
		return nil, util.ErrInvalidClass
	}

	students, err := s.Students.List(repository.StudentFilter{Class: class})
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	entries := make([]model.ClassRankingEntry, 0, len(students))
	if len(students) == 0 {
		return entries, nil
	}

	ids := make([]uint, len(students))
	for i, st := range students {
		ids[i] = st.ID
	}
	grades, err := s.Grades.Find(repository.GradeFilter{StudentIDs: ids})
	if err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	subjects, err := s.Subjects.ListSubjects()
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}

	byStudent := make(map[uint][]model.Grade, len(students))
	for _, g := range grades {
		byStudent[g.StudentID] = append(byStudent[g.StudentID], g)
	}

	for _, st := range students {
		report := BuildStudentReport(st, byStudent[st.ID], subjects)
		entries = append(entries, model.ClassRankingEntry{
			Student: report.Student,
			Overall: report.Overall,
		})
	}

	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].Overall.Percentage != entries[b].Overall.Percentage {
			return entries[a].Overall.Percentage > entries[b].Overall.Percentage
		}
		return entries[a].Student.SapID < entries[b].Student.SapID
	})
	for i := range entries {
		if i > 0 && entries[i].Overall.Percentage == entries[i-1].Overall.Percentage {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}

	return entries, nil
}

// ExportStudentReportCSV 生成 CSV 内容与下载文件名
func (s *ReportService) ExportStudentReportCSV(ctx context.Context, studentID uint) ([]byte, string, error) {
	report, err := s.GenerateStudentReport(ctx, studentID)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := WriteReportCSV(&buf, report); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), ReportFileName(report), nil
}

// ArchiveStudentReport 将 CSV 报告写入对象存储并返回访问地址
func (s *ReportService) ArchiveStudentReport(ctx context.Context, studentID uint) (string, error) {
	report, err := s.GenerateStudentReport(ctx, studentID)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := WriteReportCSV(&buf, report); err != nil {
		return "", err
	}

	object := fmt.Sprintf("reports/%s/%s.csv", report.Student.SapID, model.GenerateUUID())
	url, err := s.Storage.Upload(ctx, object, bytes.NewReader(buf.Bytes()), int64(buf.Len()), util.MimeCSV)
	if err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}

	logger.Log.Info("report archived",
		zap.Uint("studentId", studentID),
		zap.String("object", object),
	)
	return url, nil
}
