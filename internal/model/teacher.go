package model

type TeacherRole string

const (
	RoleTeacher TeacherRole = "teacher"
	RoleAdmin   TeacherRole = "admin"
)

// swagger:model Teacher
type Teacher struct {
	BaseModel
	Username string      `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Password string      `gorm:"size:100;not null" json:"-"`
	Name     string      `gorm:"size:100;not null" json:"name"`
	Role     TeacherRole `gorm:"size:16;default:'teacher'" json:"role"`
}

func (Teacher) TableName() string {
	return "teachers"
}
