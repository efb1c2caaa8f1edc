package model

// 每个科目固定的实验数量，实验编号为 1..ExperimentsPerSubject
const ExperimentsPerSubject = 5

// swagger:model Subject
type Subject struct {
	ID          uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string       `gorm:"size:16;uniqueIndex;not null" json:"code"`
	Name        string       `gorm:"size:100;not null" json:"name"`
	SortOrder   int          `gorm:"default:0" json:"sortOrder"`
	Experiments []Experiment `gorm:"foreignKey:SubjectID" json:"experiments,omitempty"`
}

func (Subject) TableName() string {
	return "subjects"
}

// swagger:model Experiment
type Experiment struct {
	ID          uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	SubjectID   uint     `gorm:"uniqueIndex:idx_subject_number;not null" json:"subjectId"`
	Number      int      `gorm:"uniqueIndex:idx_subject_number;not null" json:"number"`
	Title       string   `gorm:"size:200;not null" json:"title"`
	Description string   `gorm:"size:500" json:"description"`
	Subject     *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
}

func (Experiment) TableName() string {
	return "experiments"
}

// 默认科目，启动时写入
var DefaultSubjects = []Subject{
	{Code: "FSD", Name: "Full Stack Development", SortOrder: 1},
	{Code: "IPCV", Name: "Image Processing & Computer Vision", SortOrder: 2},
	{Code: "ISIG", Name: "Information Security & Integrity", SortOrder: 3},
	{Code: "BDA", Name: "Big Data Analytics", SortOrder: 4},
	{Code: "SE", Name: "Software Engineering", SortOrder: 5},
}
