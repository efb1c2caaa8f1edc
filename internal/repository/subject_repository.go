package repository

import (
	"labgrade_backend/internal/model"

	"gorm.io/gorm"
)

type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

func orderExperiments(db *gorm.DB) *gorm.DB {
	return db.Order("experiments.number ASC")
}

// ListSubjects 按参考顺序返回全部科目及其实验
func (r *SubjectRepository) ListSubjects() ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.Preload("Experiments", orderExperiments).
		Order("sort_order ASC, id ASC").
		Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) FindSubjectByCode(code string) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.Preload("Experiments", orderExperiments).
		Where("code = ?", code).
		First(&subject).Error
	return &subject, err
}

func (r *SubjectRepository) CreateSubject(subject *model.Subject) error {
	return r.DB.Create(subject).Error
}

func (r *SubjectRepository) CreateExperiment(experiment *model.Experiment) error {
	return r.DB.Create(experiment).Error
}

func (r *SubjectRepository) FindExperimentByID(id uint) (*model.Experiment, error) {
	var experiment model.Experiment
	err := r.DB.Preload("Subject").First(&experiment, id).Error
	return &experiment, err
}

func (r *SubjectRepository) FindExperiment(subjectCode string, number int) (*model.Experiment, error) {
	var experiment model.Experiment
	err := r.DB.Preload("Subject").
		Select("experiments.*").
		Joins("JOIN subjects ON subjects.id = experiments.subject_id").
		Where("subjects.code = ? AND experiments.number = ?", subjectCode, number).
		First(&experiment).Error
	return &experiment, err
}
