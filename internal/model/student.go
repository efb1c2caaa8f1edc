package model

// 班级标签，学生只能属于其中之一
var ClassLabels = []string{"IT1", "IT2", "IT3"}

func IsValidClass(label string) bool {
	for _, c := range ClassLabels {
		if c == label {
			return true
		}
	}
	return false
}

// swagger:model Student
type Student struct {
	BaseModel
	Name  string `gorm:"size:100;not null" json:"name"`
	SapID string `gorm:"column:sap_id;size:32;uniqueIndex;not null" json:"sapId"`
	Class string `gorm:"size:16;index;not null" json:"class"`
}

func (Student) TableName() string {
	return "students"
}
