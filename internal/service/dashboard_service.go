package service

import (
	"labgrade_backend/internal/model"
	"labgrade_backend/internal/repository"
)

type DashboardStudentStore interface {
	Count() (int64, error)
	CountByClass() (map[string]int64, error)
}

type DashboardGradeStore interface {
	Count() (int64, error)
	StatsBySubject() (map[string]repository.SubjectGradeStats, error)
}

type DashboardService struct {
	StudentRepo DashboardStudentStore
	GradeRepo   DashboardGradeStore
	SubjectRepo SubjectLister
}

func NewDashboardService(studentRepo DashboardStudentStore, gradeRepo DashboardGradeStore, subjectRepo SubjectLister) *DashboardService {
	return &DashboardService{
		StudentRepo: studentRepo,
		GradeRepo:   gradeRepo,
		SubjectRepo: subjectRepo,
	}
}

func (s *DashboardService) GetStats() (*model.DashboardStats, error) {
	total, err := s.StudentRepo.Count()
	if err != nil {
		return nil, err
	}

	byClass, err := s.StudentRepo.CountByClass()
	if err != nil {
		return nil, err
	}
	// 没有学生的班级也要出现
	for _, c := range model.ClassLabels {
		if _, ok := byClass[c]; !ok {
			byClass[c] = 0
		}
	}

	gradeCount, err := s.GradeRepo.Count()
	if err != nil {
		return nil, err
	}

	stats, err := s.GradeRepo.StatsBySubject()
	if err != nil {
		return nil, err
	}

	subjects, err := s.SubjectRepo.ListSubjects()
	if err != nil {
		return nil, err
	}

	progress := make([]model.SubjectProgress, 0, len(subjects))
	for _, subject := range subjects {
		st := stats[subject.Code]
		p := model.SubjectProgress{
			Code:        subject.Code,
			Name:        subject.Name,
			Graded:      st.Graded,
			Expected:    total * int64(len(subject.Experiments)),
			AverageMark: st.AverageTotal,
		}
		if p.Expected > 0 {
			p.Completion = float64(p.Graded) * 100 / float64(p.Expected)
		}
		progress = append(progress, p)
	}

	return &model.DashboardStats{
		TotalStudents:   total,
		StudentsByClass: byClass,
		GradeCount:      gradeCount,
		SubjectProgress: progress,
	}, nil
}
