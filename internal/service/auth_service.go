package service

import (
	"errors"
	"fmt"
	"labgrade_backend/internal/config"
	"labgrade_backend/internal/model"
	"labgrade_backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type TeacherStore interface {
	Create(teacher *model.Teacher) error
	FindByID(id uint) (*model.Teacher, error)
	FindByUsername(username string) (*model.Teacher, error)
}

type AuthService struct {
	TeacherRepo TeacherStore
	Cfg         *config.Config
}

func NewAuthService(teacherRepo TeacherStore, cfg *config.Config) *AuthService {
	return &AuthService{
		TeacherRepo: teacherRepo,
		Cfg:         cfg,
	}
}

func (s *AuthService) Register(teacher *model.Teacher) error {
	_, err := s.TeacherRepo.FindByUsername(teacher.Username)
	if err == nil {
		return util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("find teacher: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(teacher.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	teacher.Password = string(hashedPassword)
	if teacher.Role == "" {
		teacher.Role = model.RoleTeacher
	}
	return s.TeacherRepo.Create(teacher)
}

func (s *AuthService) Login(username, password string) (string, *model.Teacher, error) {
	teacher, err := s.TeacherRepo.FindByUsername(username)
	if err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(teacher.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(teacher, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, teacher, nil
}

func (s *AuthService) GetCurrentTeacher(c *gin.Context) *model.Teacher {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	teacher, err := s.TeacherRepo.FindByID(claims.TeacherID)
	if err != nil {
		return nil
	}
	return teacher
}
