package model

// StudentReport 单个学生的成绩报告
// swagger:model StudentReport
type StudentReport struct {
	Student      ReportStudent             `json:"student"`
	SubjectOrder []string                  `json:"subjectOrder"`
	Subjects     map[string]*SubjectReport `json:"subjects"`
	Metrics      map[Rubric]float64        `json:"metrics"`
	Overall      OverallReport             `json:"overall"`
}

type ReportStudent struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	SapID string `json:"sapId"`
	Class string `json:"class"`
}

type SubjectReport struct {
	SubjectName string             `json:"subjectName"`
	Experiments []ExperimentReport `json:"experiments"`
	TotalMarks  int                `json:"totalMarks"`
	MaxMarks    int                `json:"maxMarks"`
}

type ExperimentReport struct {
	ExperimentNumber int    `json:"experimentNumber"`
	ExperimentTitle  string `json:"experimentTitle"`
	Performance      int    `json:"performance"`
	Knowledge        int    `json:"knowledge"`
	Implementation   int    `json:"implementation"`
	Strategy         int    `json:"strategy"`
	Attitude         int    `json:"attitude"`
	TotalMarks       int    `json:"totalMarks"`
	MaxMarks         int    `json:"maxMarks"`
	Comment          string `json:"comment,omitempty"`
}

type OverallReport struct {
	TotalMarks int     `json:"totalMarks"`
	MaxMarks   int     `json:"maxMarks"`
	Percentage float64 `json:"percentage"`
	Grade      string  `json:"grade"`
}

// ClassRankingEntry 班级排名中的一行
type ClassRankingEntry struct {
	Rank    int           `json:"rank"`
	Student ReportStudent `json:"student"`
	Overall OverallReport `json:"overall"`
}

// DashboardStats 仪表盘统计
type DashboardStats struct {
	TotalStudents   int64             `json:"totalStudents"`
	StudentsByClass map[string]int64  `json:"studentsByClass"`
	GradeCount      int64             `json:"gradeCount"`
	SubjectProgress []SubjectProgress `json:"subjectProgress"`
}

type SubjectProgress struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Graded      int64   `json:"graded"`
	Expected    int64   `json:"expected"`
	Completion  float64 `json:"completion"`
	AverageMark float64 `json:"averageMark"`
}
