package service

import (
	"context"
	"errors"
	"fmt"
	"labgrade_backend/internal/model"
	"labgrade_backend/internal/util"
	"strings"

	"gorm.io/gorm"
)

type SubjectStore interface {
	ListSubjects() ([]model.Subject, error)
	FindSubjectByCode(code string) (*model.Subject, error)
	CreateSubject(subject *model.Subject) error
	CreateExperiment(experiment *model.Experiment) error
	FindExperimentByID(id uint) (*model.Experiment, error)
	FindExperiment(subjectCode string, number int) (*model.Experiment, error)
}

type ReportResetter interface {
	InvalidateAll(ctx context.Context)
}

type SubjectService struct {
	SubjectRepo SubjectStore
	Reports     ReportResetter
}

func NewSubjectService(subjectRepo SubjectStore, reports ReportResetter) *SubjectService {
	return &SubjectService{SubjectRepo: subjectRepo, Reports: reports}
}

func (s *SubjectService) List() ([]model.Subject, error) {
	return s.SubjectRepo.ListSubjects()
}

func (s *SubjectService) GetByCode(code string) (*model.Subject, error) {
	subject, err := s.SubjectRepo.FindSubjectByCode(strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubjectNotFound
		}
		return nil, err
	}
	return subject, nil
}

// CreateSubject 新科目会出现在每份报告中，成功后清空报告缓存
func (s *SubjectService) CreateSubject(ctx context.Context, subject *model.Subject) error {
	subject.Code = strings.ToUpper(strings.TrimSpace(subject.Code))
	if _, err := s.SubjectRepo.FindSubjectByCode(subject.Code); err == nil {
		return util.ErrSubjectExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("find subject: %w", err)
	}
	if err := s.SubjectRepo.CreateSubject(subject); err != nil {
		return err
	}
	if s.Reports != nil {
		s.Reports.InvalidateAll(ctx)
	}
	return nil
}

func (s *SubjectService) CreateExperiment(code string, experiment *model.Experiment) error {
	if experiment.Number < 1 || experiment.Number > model.ExperimentsPerSubject {
		return util.ErrInvalidExperimentNo
	}

	subject, err := s.GetByCode(code)
	if err != nil {
		return err
	}
	for _, e := range subject.Experiments {
		if e.Number == experiment.Number {
			return util.ErrExperimentExists
		}
	}

	experiment.SubjectID = subject.ID
	if experiment.Title == "" {
		experiment.Title = fmt.Sprintf("Experiment %d: %s", experiment.Number, subject.Name)
	}
	return s.SubjectRepo.CreateExperiment(experiment)
}

// ResolveExperiment 优先使用实验 ID，否则按科目代码和实验编号查找
func (s *SubjectService) ResolveExperiment(experimentID uint, subjectCode string, number int) (*model.Experiment, error) {
	var (
		experiment *model.Experiment
		err        error
	)
	if experimentID != 0 {
		experiment, err = s.SubjectRepo.FindExperimentByID(experimentID)
	} else {
		experiment, err = s.SubjectRepo.FindExperiment(strings.ToUpper(subjectCode), number)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExperimentNotFound
		}
		return nil, err
	}
	return experiment, nil
}
