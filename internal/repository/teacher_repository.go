package repository

import (
	"labgrade_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type TeacherRepository struct {
	DB *gorm.DB
}

func NewTeacherRepository(db *gorm.DB) *TeacherRepository {
	return &TeacherRepository{DB: db}
}

func (r *TeacherRepository) Create(teacher *model.Teacher) error {
	now := time.Now()
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = now
	}
	if teacher.UpdatedAt.IsZero() {
		teacher.UpdatedAt = now
	}
	if teacher.Role == "" {
		teacher.Role = model.RoleTeacher
	}
	return r.DB.Create(teacher).Error
}

func (r *TeacherRepository) FindByID(id uint) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.DB.First(&teacher, id).Error
	return &teacher, err
}

func (r *TeacherRepository) FindByUsername(username string) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.DB.Where("username = ?", username).First(&teacher).Error
	return &teacher, err
}
