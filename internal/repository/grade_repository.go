package repository

import (
	"errors"
	"labgrade_backend/internal/model"

	"gorm.io/gorm"
)

type GradeRepository struct {
	DB *gorm.DB
}

func NewGradeRepository(db *gorm.DB) *GradeRepository {
	return &GradeRepository{DB: db}
}

// GradeFilter 评分查询条件，零值表示不过滤
type GradeFilter struct {
	StudentID        uint
	StudentIDs       []uint
	Subject          string
	ExperimentNumber int
}

func (r *GradeRepository) withDetails() *gorm.DB {
	return r.DB.Model(&model.Grade{}).
		Preload("Experiment.Subject").
		Select("grades.*").
		Joins("JOIN experiments ON experiments.id = grades.experiment_id").
		Joins("JOIN subjects ON subjects.id = experiments.subject_id")
}

func (r *GradeRepository) FindByID(id uint) (*model.Grade, error) {
	var grade model.Grade
	err := r.DB.Preload("Experiment.Subject").First(&grade, id).Error
	return &grade, err
}

func (r *GradeRepository) Find(filter GradeFilter) ([]model.Grade, error) {
	var grades []model.Grade
	query := r.withDetails()
	if filter.StudentID != 0 {
		query = query.Where("grades.student_id = ?", filter.StudentID)
	}
	if len(filter.StudentIDs) > 0 {
		query = query.Where("grades.student_id IN ?", filter.StudentIDs)
	}
	if filter.Subject != "" {
		query = query.Where("subjects.code = ?", filter.Subject)
	}
	if filter.ExperimentNumber != 0 {
		query = query.Where("experiments.number = ?", filter.ExperimentNumber)
	}
	err := query.
		Order("subjects.sort_order ASC, experiments.number ASC, grades.student_id ASC").
		Find(&grades).Error
	return grades, err
}

// ListByStudent 返回学生的全部评分，已关联实验与科目
func (r *GradeRepository) ListByStudent(studentID uint) ([]model.Grade, error) {
	return r.Find(GradeFilter{StudentID: studentID})
}

// Upsert 同一学生同一实验只保留一条记录，created 表示本次是否新建
func (r *GradeRepository) Upsert(grade *model.Grade, merge func(existing *model.Grade)) (created bool, err error) {
	err = r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.Grade
		findErr := tx.Where("student_id = ? AND experiment_id = ?", grade.StudentID, grade.ExperimentID).
			First(&existing).Error
		switch {
		case findErr == nil:
			if merge != nil {
				merge(&existing)
			}
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			*grade = existing
			return nil
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			created = true
			return tx.Create(grade).Error
		default:
			return findErr
		}
	})
	return created, err
}

func (r *GradeRepository) Save(grade *model.Grade) error {
	return r.DB.Save(grade).Error
}

func (r *GradeRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Grade{}).Count(&count).Error
	return count, err
}

// SubjectGradeStats 每个科目的已评分数量与平均总分
type SubjectGradeStats struct {
	Code         string
	Graded       int64
	AverageTotal float64
}

func (r *GradeRepository) StatsBySubject() (map[string]SubjectGradeStats, error) {
	var rows []SubjectGradeStats
	err := r.DB.Model(&model.Grade{}).
		Select("subjects.code AS code, COUNT(grades.id) AS graded, COALESCE(AVG(grades.total), 0) AS average_total").
		Joins("JOIN experiments ON experiments.id = grades.experiment_id").
		Joins("JOIN subjects ON subjects.id = experiments.subject_id").
		Group("subjects.code").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[string]SubjectGradeStats, len(rows))
	for _, row := range rows {
		stats[row.Code] = row
	}
	return stats, nil
}
