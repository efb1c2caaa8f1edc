package service

import (
	"context"
	"errors"
	"labgrade_backend/internal/model"
	"labgrade_backend/internal/repository"
	"labgrade_backend/internal/util"
	"labgrade_backend/pkg/logger"
	"labgrade_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GradeStore interface {
	FindByID(id uint) (*model.Grade, error)
	Find(filter repository.GradeFilter) ([]model.Grade, error)
	Upsert(grade *model.Grade, merge func(existing *model.Grade)) (bool, error)
	Save(grade *model.Grade) error
}

type GradeService struct {
	GradeRepo GradeStore
	Students  *StudentService
	Subjects  *SubjectService
	Reports   ReportInvalidator
}

func NewGradeService(gradeRepo GradeStore, students *StudentService, subjects *SubjectService, reports ReportInvalidator) *GradeService {
	return &GradeService{
		GradeRepo: gradeRepo,
		Students:  students,
		Subjects:  subjects,
		Reports:   reports,
	}
}

// GradeScores 一次提交的分数，nil 表示未提供
type GradeScores struct {
	Performance    *int
	Knowledge      *int
	Implementation *int
	Strategy       *int
	Attitude       *int
	Comment        *string
}

func (sc GradeScores) get(r model.Rubric) *int {
	switch r {
	case model.RubricPerformance:
		return sc.Performance
	case model.RubricKnowledge:
		return sc.Knowledge
	case model.RubricImplementation:
		return sc.Implementation
	case model.RubricStrategy:
		return sc.Strategy
	case model.RubricAttitude:
		return sc.Attitude
	}
	return nil
}

func (sc GradeScores) Validate() error {
	for _, r := range model.Rubrics {
		if v := sc.get(r); v != nil && (*v < 0 || *v > model.MaxRubricScore) {
			return util.ErrScoreOutOfRange
		}
	}
	return nil
}

// ApplyTo 只覆盖提供了的字段；空字符串的评语会清除原有评语
func (sc GradeScores) ApplyTo(g *model.Grade) {
	for _, r := range model.Rubrics {
		if v := sc.get(r); v != nil {
			score := *v
			g.SetScore(r, &score)
		}
	}
	if sc.Comment != nil {
		if *sc.Comment == "" {
			g.Comment = nil
		} else {
			comment := *sc.Comment
			g.Comment = &comment
		}
	}
}

// GradeInput 评分写入请求，实验可由 ID 或 科目+编号 指定
type GradeInput struct {
	StudentID        uint
	ExperimentID     uint
	Subject          string
	ExperimentNumber int
	Scores           GradeScores
}

// List 与原有接口保持一致：没有任何过滤条件时返回空列表
func (s *GradeService) List(filter repository.GradeFilter) ([]model.GradeDetail, error) {
	details := []model.GradeDetail{}
	if filter.StudentID == 0 && filter.Subject == "" && filter.ExperimentNumber == 0 {
		return details, nil
	}

	grades, err := s.GradeRepo.Find(filter)
	if err != nil {
		return nil, err
	}
	for _, g := range grades {
		details = append(details, model.NewGradeDetail(g))
	}
	return details, nil
}

// Save 对 (学生, 实验) 执行 upsert，返回值 created 表示是否新建
func (s *GradeService) Save(ctx context.Context, in GradeInput) (*model.GradeDetail, bool, error) {
	if err := in.Scores.Validate(); err != nil {
		return nil, false, err
	}

	if _, err := s.Students.Get(in.StudentID); err != nil {
		return nil, false, err
	}

	experiment, err := s.Subjects.ResolveExperiment(in.ExperimentID, in.Subject, in.ExperimentNumber)
	if err != nil {
		return nil, false, err
	}

	grade := &model.Grade{
		StudentID:    in.StudentID,
		ExperimentID: experiment.ID,
	}
	in.Scores.ApplyTo(grade)

	created, err := s.GradeRepo.Upsert(grade, in.Scores.ApplyTo)
	if err != nil {
		logger.Log.Error("grade upsert failed",
			zap.Uint("studentId", in.StudentID),
			zap.Uint("experimentId", experiment.ID),
			zap.Error(err),
		)
		return nil, false, err
	}

	op := "updated"
	if created {
		op = "created"
	}
	monitoring.GradesSaved.WithLabelValues(op).Inc()
	s.Reports.InvalidateStudent(ctx, in.StudentID)

	grade.Experiment = experiment
	detail := model.NewGradeDetail(*grade)
	return &detail, created, nil
}

func (s *GradeService) Patch(ctx context.Context, id uint, scores GradeScores) (*model.GradeDetail, error) {
	if err := scores.Validate(); err != nil {
		return nil, err
	}

	grade, err := s.GradeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrGradeNotFound
		}
		return nil, err
	}

	scores.ApplyTo(grade)
	experiment := grade.Experiment
	// 避免 Save 连带写入关联
	grade.Experiment = nil
	if err := s.GradeRepo.Save(grade); err != nil {
		return nil, err
	}
	grade.Experiment = experiment

	monitoring.GradesSaved.WithLabelValues("updated").Inc()
	s.Reports.InvalidateStudent(ctx, grade.StudentID)

	detail := model.NewGradeDetail(*grade)
	return &detail, nil
}
