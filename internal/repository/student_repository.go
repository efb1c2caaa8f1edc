package repository

import (
	"labgrade_backend/internal/model"
	"strings"

	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

// StudentFilter 学生列表过滤条件，零值表示不过滤
type StudentFilter struct {
	Class  string
	Search string
}

func (r *StudentRepository) Create(student *model.Student) error {
	return r.DB.Create(student).Error
}

func (r *StudentRepository) FindByID(id uint) (*model.Student, error) {
	var student model.Student
	err := r.DB.First(&student, id).Error
	return &student, err
}

func (r *StudentRepository) FindBySapID(sapID string) (*model.Student, error) {
	var student model.Student
	err := r.DB.Where("sap_id = ?", sapID).First(&student).Error
	return &student, err
}

func (r *StudentRepository) List(filter StudentFilter) ([]model.Student, error) {
	var students []model.Student
	query := r.DB.Model(&model.Student{})
	if filter.Class != "" {
		query = query.Where("class = ?", filter.Class)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sap_id) LIKE ?", like, like)
	}
	err := query.Order("sap_id ASC").Find(&students).Error
	return students, err
}

func (r *StudentRepository) Update(student *model.Student) error {
	return r.DB.Save(student).Error
}

// Delete 物理删除学生及其全部评分，释放 SAP ID
func (r *StudentRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&model.Grade{}).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Delete(&model.Student{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *StudentRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Student{}).Count(&count).Error
	return count, err
}

func (r *StudentRepository) CountByClass() (map[string]int64, error) {
	var rows []struct {
		Class string
		Total int64
	}
	err := r.DB.Model(&model.Student{}).
		Select("class, COUNT(*) AS total").
		Group("class").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Class] = row.Total
	}
	return counts, nil
}
