package model

import (
	"time"

	"gorm.io/gorm"
)

type Rubric string

const (
	RubricPerformance    Rubric = "performance"
	RubricKnowledge      Rubric = "knowledge"
	RubricImplementation Rubric = "implementation"
	RubricStrategy       Rubric = "strategy"
	RubricAttitude       Rubric = "attitude"
)

// Rubrics 评分维度，顺序即报表和导出中的列顺序
var Rubrics = []Rubric{
	RubricPerformance,
	RubricKnowledge,
	RubricImplementation,
	RubricStrategy,
	RubricAttitude,
}

const (
	MaxRubricScore     = 5
	MaxExperimentMarks = MaxRubricScore * 5
)

// Grade 一个学生在一个实验上的评分，(student_id, experiment_id) 唯一。
// 各维度分数可为空，空值在求和时按 0 处理。
// swagger:model Grade
type Grade struct {
	ID             uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID      uint        `gorm:"uniqueIndex:idx_student_experiment;not null" json:"studentId"`
	ExperimentID   uint        `gorm:"uniqueIndex:idx_student_experiment;index;not null" json:"experimentId"`
	Performance    *int        `json:"performance"`
	Knowledge      *int        `json:"knowledge"`
	Implementation *int        `json:"implementation"`
	Strategy       *int        `json:"strategy"`
	Attitude       *int        `json:"attitude"`
	Total          int         `gorm:"not null;default:0" json:"total"`
	Comment        *string     `gorm:"size:1000" json:"comment"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
	Experiment     *Experiment `gorm:"foreignKey:ExperimentID" json:"experiment,omitempty"`
}

func (Grade) TableName() string {
	return "grades"
}

// BeforeSave 每次保存都重新计算总分
func (g *Grade) BeforeSave(tx *gorm.DB) error {
	g.Total = g.ComputeTotal()
	return nil
}

func (g *Grade) Score(r Rubric) *int {
	switch r {
	case RubricPerformance:
		return g.Performance
	case RubricKnowledge:
		return g.Knowledge
	case RubricImplementation:
		return g.Implementation
	case RubricStrategy:
		return g.Strategy
	case RubricAttitude:
		return g.Attitude
	}
	return nil
}

func (g *Grade) SetScore(r Rubric, v *int) {
	switch r {
	case RubricPerformance:
		g.Performance = v
	case RubricKnowledge:
		g.Knowledge = v
	case RubricImplementation:
		g.Implementation = v
	case RubricStrategy:
		g.Strategy = v
	case RubricAttitude:
		g.Attitude = v
	}
}

// ScoreOrZero 空值按 0 返回
func (g *Grade) ScoreOrZero(r Rubric) int {
	if v := g.Score(r); v != nil {
		return *v
	}
	return 0
}

func (g *Grade) ComputeTotal() int {
	total := 0
	for _, r := range Rubrics {
		total += g.ScoreOrZero(r)
	}
	return total
}

// ScoresInRange 检查所有已填写的分数是否在 [0, MaxRubricScore] 内
func (g *Grade) ScoresInRange() bool {
	for _, r := range Rubrics {
		if v := g.Score(r); v != nil && (*v < 0 || *v > MaxRubricScore) {
			return false
		}
	}
	return true
}

// GradeDetail 列表接口返回的评分，带上科目代码和实验编号
type GradeDetail struct {
	Grade
	Subject          string `json:"subject"`
	ExperimentNumber int    `json:"experimentNumber"`
	ExperimentTitle  string `json:"experimentTitle"`
}

func NewGradeDetail(g Grade) GradeDetail {
	d := GradeDetail{Grade: g}
	d.Total = g.ComputeTotal()
	if g.Experiment != nil {
		d.ExperimentNumber = g.Experiment.Number
		d.ExperimentTitle = g.Experiment.Title
		if g.Experiment.Subject != nil {
			d.Subject = g.Experiment.Subject.Code
		}
	}
	return d
}

func IntPtr(v int) *int {
	return &v
}
