package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardServiceGetStats(t *testing.T) {
	subjects := newFakeSubjectStore()
	grades := newFakeGradeStore(
		gradeFor(1, subjects.experiment("FSD", 1), ip(5), ip(5), ip(5), ip(5), ip(5)),
		gradeFor(1, subjects.experiment("FSD", 2), ip(3), ip(3), ip(3), ip(3), ip(3)),
	)
	svc := NewDashboardService(newFakeStudentStore(alice()), grades, subjects)

	stats, err := svc.GetStats()
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.TotalStudents)
	assert.Equal(t, int64(2), stats.GradeCount)
	assert.Equal(t, map[string]int64{"IT1": 1, "IT2": 0, "IT3": 0}, stats.StudentsByClass)

	require.Len(t, stats.SubjectProgress, 5)
	fsd := stats.SubjectProgress[0]
	assert.Equal(t, "FSD", fsd.Code)
	assert.Equal(t, int64(2), fsd.Graded)
	assert.Equal(t, int64(5), fsd.Expected)
	assert.InDelta(t, 40.0, fsd.Completion, 1e-9)
	assert.InDelta(t, 20.0, fsd.AverageMark, 1e-9)

	se := stats.SubjectProgress[4]
	assert.Equal(t, "SE", se.Code)
	assert.Zero(t, se.Graded)
	assert.Zero(t, se.Completion)
}

func TestDashboardServiceNoStudents(t *testing.T) {
	svc := NewDashboardService(newFakeStudentStore(), newFakeGradeStore(), newFakeSubjectStore())

	stats, err := svc.GetStats()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalStudents)
	for _, p := range stats.SubjectProgress {
		assert.Zero(t, p.Expected)
		assert.Zero(t, p.Completion)
	}
}
