package service

import (
	"context"
	"fmt"
	"io"
	"labgrade_backend/internal/model"
	"labgrade_backend/internal/repository"
	"sort"
	"strings"

	"gorm.io/gorm"
)

type fakeStudentStore struct {
	students map[uint]*model.Student
	nextID   uint
	err      error
}

func newFakeStudentStore(students ...model.Student) *fakeStudentStore {
	f := &fakeStudentStore{students: map[uint]*model.Student{}}
	for i := range students {
		st := students[i]
		if st.ID > f.nextID {
			f.nextID = st.ID
		}
		f.students[st.ID] = &st
	}
	return f
}

func (f *fakeStudentStore) Create(student *model.Student) error {
	f.nextID++
	student.ID = f.nextID
	cp := *student
	f.students[student.ID] = &cp
	return nil
}

func (f *fakeStudentStore) FindByID(id uint) (*model.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	st, ok := f.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *st
	return &cp, nil
}

func (f *fakeStudentStore) FindBySapID(sapID string) (*model.Student, error) {
	for _, st := range f.students {
		if st.SapID == sapID {
			cp := *st
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStudentStore) List(filter repository.StudentFilter) ([]model.Student, error) {
	var out []model.Student
	for _, st := range f.students {
		if filter.Class != "" && st.Class != filter.Class {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(st.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SapID < out[j].SapID })
	return out, nil
}

func (f *fakeStudentStore) Update(student *model.Student) error {
	cp := *student
	f.students[student.ID] = &cp
	return nil
}

func (f *fakeStudentStore) Delete(id uint) error {
	if _, ok := f.students[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.students, id)
	return nil
}

func (f *fakeStudentStore) Count() (int64, error) {
	return int64(len(f.students)), nil
}

func (f *fakeStudentStore) CountByClass() (map[string]int64, error) {
	out := map[string]int64{}
	for _, st := range f.students {
		out[st.Class]++
	}
	return out, nil
}

type fakeSubjectStore struct {
	subjects    []model.Subject
	experiments map[uint]*model.Experiment
}

// newFakeSubjectStore 默认五个科目，每个科目五个实验，实验 ID = 科目ID*10 + 编号
func newFakeSubjectStore() *fakeSubjectStore {
	f := &fakeSubjectStore{experiments: map[uint]*model.Experiment{}}
	for i, def := range model.DefaultSubjects {
		subject := def
		subject.ID = uint(i + 1)
		subject.Experiments = nil
		for n := 1; n <= model.ExperimentsPerSubject; n++ {
			exp := model.Experiment{
				ID:        subject.ID*10 + uint(n),
				SubjectID: subject.ID,
				Number:    n,
				Title:     fmt.Sprintf("Experiment %d: %s", n, subject.Name),
			}
			subject.Experiments = append(subject.Experiments, exp)
		}
		f.subjects = append(f.subjects, subject)
		for j := range subject.Experiments {
			exp := subject.Experiments[j]
			s := subject
			exp.Subject = &s
			f.experiments[exp.ID] = &exp
		}
	}
	return f
}

func (f *fakeSubjectStore) ListSubjects() ([]model.Subject, error) {
	return f.subjects, nil
}

func (f *fakeSubjectStore) FindSubjectByCode(code string) (*model.Subject, error) {
	for i := range f.subjects {
		if f.subjects[i].Code == code {
			s := f.subjects[i]
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSubjectStore) CreateSubject(subject *model.Subject) error {
	subject.ID = uint(len(f.subjects) + 1)
	f.subjects = append(f.subjects, *subject)
	return nil
}

func (f *fakeSubjectStore) CreateExperiment(experiment *model.Experiment) error {
	experiment.ID = experiment.SubjectID*10 + uint(experiment.Number)
	cp := *experiment
	f.experiments[cp.ID] = &cp
	return nil
}

func (f *fakeSubjectStore) FindExperimentByID(id uint) (*model.Experiment, error) {
	exp, ok := f.experiments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *exp
	return &cp, nil
}

func (f *fakeSubjectStore) FindExperiment(code string, number int) (*model.Experiment, error) {
	for _, exp := range f.experiments {
		if exp.Subject != nil && exp.Subject.Code == code && exp.Number == number {
			cp := *exp
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// experiment 返回带 Subject 的实验，供构造评分用
func (f *fakeSubjectStore) experiment(code string, number int) *model.Experiment {
	exp, err := f.FindExperiment(code, number)
	if err != nil {
		panic(err)
	}
	return exp
}

type fakeGradeStore struct {
	grades map[uint]*model.Grade
	nextID uint
	saves  int
}

func newFakeGradeStore(grades ...model.Grade) *fakeGradeStore {
	f := &fakeGradeStore{grades: map[uint]*model.Grade{}}
	for i := range grades {
		g := grades[i]
		f.nextID++
		if g.ID == 0 {
			g.ID = f.nextID
		}
		g.Total = g.ComputeTotal()
		f.grades[g.ID] = &g
	}
	return f
}

func (f *fakeGradeStore) sorted() []model.Grade {
	out := make([]model.Grade, 0, len(f.grades))
	for _, g := range f.grades {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeGradeStore) FindByID(id uint) (*model.Grade, error) {
	g, ok := f.grades[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGradeStore) Find(filter repository.GradeFilter) ([]model.Grade, error) {
	ids := map[uint]bool{}
	for _, id := range filter.StudentIDs {
		ids[id] = true
	}
	var out []model.Grade
	for _, g := range f.sorted() {
		if filter.StudentID != 0 && g.StudentID != filter.StudentID {
			continue
		}
		if len(ids) > 0 && !ids[g.StudentID] {
			continue
		}
		if g.Experiment != nil {
			if filter.ExperimentNumber != 0 && g.Experiment.Number != filter.ExperimentNumber {
				continue
			}
			if filter.Subject != "" && (g.Experiment.Subject == nil || g.Experiment.Subject.Code != filter.Subject) {
				continue
			}
		}
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeGradeStore) ListByStudent(studentID uint) ([]model.Grade, error) {
	return f.Find(repository.GradeFilter{StudentID: studentID})
}

func (f *fakeGradeStore) Upsert(grade *model.Grade, merge func(existing *model.Grade)) (bool, error) {
	for _, g := range f.grades {
		if g.StudentID == grade.StudentID && g.ExperimentID == grade.ExperimentID {
			if merge != nil {
				merge(g)
			}
			g.Total = g.ComputeTotal()
			*grade = *g
			f.saves++
			return false, nil
		}
	}
	f.nextID++
	grade.ID = f.nextID
	grade.Total = grade.ComputeTotal()
	cp := *grade
	f.grades[cp.ID] = &cp
	f.saves++
	return true, nil
}

func (f *fakeGradeStore) Save(grade *model.Grade) error {
	grade.Total = grade.ComputeTotal()
	cp := *grade
	f.grades[cp.ID] = &cp
	f.saves++
	return nil
}

func (f *fakeGradeStore) Count() (int64, error) {
	return int64(len(f.grades)), nil
}

func (f *fakeGradeStore) StatsBySubject() (map[string]repository.SubjectGradeStats, error) {
	type acc struct {
		n   int64
		sum int
	}
	accs := map[string]*acc{}
	for _, g := range f.grades {
		if g.Experiment == nil || g.Experiment.Subject == nil {
			continue
		}
		code := g.Experiment.Subject.Code
		if accs[code] == nil {
			accs[code] = &acc{}
		}
		accs[code].n++
		accs[code].sum += g.ComputeTotal()
	}
	out := map[string]repository.SubjectGradeStats{}
	for code, a := range accs {
		out[code] = repository.SubjectGradeStats{
			Code:         code,
			Graded:       a.n,
			AverageTotal: float64(a.sum) / float64(a.n),
		}
	}
	return out, nil
}

type fakeReportCache struct {
	reports     map[uint]*model.StudentReport
	invalidated []uint
	flushes     int
	getErr      error
}

func newFakeReportCache() *fakeReportCache {
	return &fakeReportCache{reports: map[uint]*model.StudentReport{}}
}

func (f *fakeReportCache) Get(ctx context.Context, studentID uint) (*model.StudentReport, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	r, ok := f.reports[studentID]
	return r, ok, nil
}

func (f *fakeReportCache) Set(ctx context.Context, report *model.StudentReport) error {
	f.reports[report.Student.ID] = report
	return nil
}

func (f *fakeReportCache) Invalidate(ctx context.Context, studentID uint) error {
	delete(f.reports, studentID)
	f.invalidated = append(f.invalidated, studentID)
	return nil
}

func (f *fakeReportCache) InvalidateAll(ctx context.Context) error {
	f.reports = map[uint]*model.StudentReport{}
	f.flushes++
	return nil
}

type recordingInvalidator struct {
	ids []uint
}

func (r *recordingInvalidator) InvalidateStudent(ctx context.Context, studentID uint) {
	r.ids = append(r.ids, studentID)
}

type memoryUploader struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemoryUploader() *memoryUploader {
	return &memoryUploader{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryUploader) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	m.objects[filename] = data
	m.types[filename] = contentType
	return "/uploads/" + filename, nil
}

// gradeFor 构造一个已关联实验的评分
func gradeFor(studentID uint, exp *model.Experiment, scores ...*int) model.Grade {
	g := model.Grade{StudentID: studentID, ExperimentID: exp.ID, Experiment: exp}
	for i, r := range model.Rubrics {
		if i < len(scores) {
			g.SetScore(r, scores[i])
		}
	}
	return g
}
