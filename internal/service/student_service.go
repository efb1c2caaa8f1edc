package service

import (
	"context"
	"errors"
	"fmt"
	"labgrade_backend/internal/model"
	"labgrade_backend/internal/repository"
	"labgrade_backend/internal/util"
	"labgrade_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type StudentStore interface {
	Create(student *model.Student) error
	FindByID(id uint) (*model.Student, error)
	FindBySapID(sapID string) (*model.Student, error)
	List(filter repository.StudentFilter) ([]model.Student, error)
	Update(student *model.Student) error
	Delete(id uint) error
}

// ReportInvalidator 学生数据变化时让缓存的报告失效
type ReportInvalidator interface {
	InvalidateStudent(ctx context.Context, studentID uint)
}

type StudentService struct {
	StudentRepo StudentStore
	Reports     ReportInvalidator
}

func NewStudentService(studentRepo StudentStore, reports ReportInvalidator) *StudentService {
	return &StudentService{StudentRepo: studentRepo, Reports: reports}
}

// StudentUpdate 部分更新，nil 字段保持不变
type StudentUpdate struct {
	Name  *string
	SapID *string
	Class *string
}

func (s *StudentService) List(filter repository.StudentFilter) ([]model.Student, error) {
	if filter.Class != "" && !model.IsValidClass(filter.Class) {
		return nil, util.ErrInvalidClass
	}
	return s.StudentRepo.List(filter)
}

func (s *StudentService) Get(id uint) (*model.Student, error) {
	student, err := s.StudentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

func (s *StudentService) sapIDAvailable(sapID string, selfID uint) error {
	existing, err := s.StudentRepo.FindBySapID(sapID)
	if err == nil {
		if existing.ID != selfID {
			return util.ErrSapIDTaken
		}
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return fmt.Errorf("find student by sap id: %w", err)
}

func (s *StudentService) Create(student *model.Student) error {
	student.Name = strings.TrimSpace(student.Name)
	student.SapID = strings.TrimSpace(student.SapID)
	if !model.IsValidClass(student.Class) {
		return util.ErrInvalidClass
	}
	if err := s.sapIDAvailable(student.SapID, 0); err != nil {
		return err
	}

	if err := s.StudentRepo.Create(student); err != nil {
		return err
	}
	logger.Log.Info("student created", zap.Uint("studentId", student.ID), zap.String("sapId", student.SapID))
	return nil
}

func (s *StudentService) Update(ctx context.Context, id uint, upd StudentUpdate) (*model.Student, error) {
	student, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		student.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Class != nil {
		if !model.IsValidClass(*upd.Class) {
			return nil, util.ErrInvalidClass
		}
		student.Class = *upd.Class
	}
	if upd.SapID != nil {
		sapID := strings.TrimSpace(*upd.SapID)
		if err := s.sapIDAvailable(sapID, student.ID); err != nil {
			return nil, err
		}
		student.SapID = sapID
	}

	if err := s.StudentRepo.Update(student); err != nil {
		return nil, err
	}
	s.Reports.InvalidateStudent(ctx, student.ID)
	return student, nil
}

func (s *StudentService) Delete(ctx context.Context, id uint) error {
	if err := s.StudentRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrStudentNotFound
		}
		return err
	}
	s.Reports.InvalidateStudent(ctx, id)
	logger.Log.Info("student deleted", zap.Uint("studentId", id))
	return nil
}
