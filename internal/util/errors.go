package util

import "errors"

var (
	ErrUsernameTaken       = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTeacherNotFound     = errors.New("teacher not found")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrStudentNotFound     = errors.New("student not found")
	ErrSapIDTaken          = errors.New("student with this SAP ID already exists")
	ErrInvalidClass        = errors.New("invalid class label")
	ErrSubjectNotFound     = errors.New("subject not found")
	ErrSubjectExists       = errors.New("subject code already exists")
	ErrExperimentNotFound  = errors.New("experiment not found")
	ErrExperimentExists    = errors.New("experiment number already exists for subject")
	ErrInvalidExperimentNo = errors.New("experiment number out of range")
	ErrGradeNotFound       = errors.New("grade not found")
	ErrScoreOutOfRange     = errors.New("rubric score must be between 0 and 5")
)
