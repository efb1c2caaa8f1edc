package database

import (
	"labgrade_backend/internal/config"
	"labgrade_backend/internal/model"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:    "mysql",
		Host:      "db",
		Port:      3306,
		User:      "grader",
		Password:  "pw",
		DBName:    "labgrade",
		Charset:   "utf8mb4",
		ParseTime: true,
	}
	assert.Equal(t, "grader:pw@tcp(db:3306)/labgrade?charset=utf8mb4&parseTime=true&loc=Local", DSN(cfg))

	cfg.Driver = "postgres"
	cfg.Port = 5432
	cfg.SSLMode = "disable"
	assert.Equal(t, "host=db port=5432 user=grader password=pw dbname=labgrade sslmode=disable TimeZone=Local", DSN(cfg))
}

func TestMigrateAndSeedIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	require.NoError(t, Seed(db))
	require.NoError(t, Seed(db))

	var subjects, experiments int64
	require.NoError(t, db.Model(&model.Subject{}).Count(&subjects).Error)
	require.NoError(t, db.Model(&model.Experiment{}).Count(&experiments).Error)
	assert.Equal(t, int64(len(model.DefaultSubjects)), subjects)
	assert.Equal(t, int64(len(model.DefaultSubjects)*model.ExperimentsPerSubject), experiments)

	var exp model.Experiment
	require.NoError(t, db.Joins("JOIN subjects ON subjects.id = experiments.subject_id").
		Where("subjects.code = ? AND experiments.number = ?", "IPCV", 3).
		First(&exp).Error)
	assert.Equal(t, "Experiment 3: Image Processing & Computer Vision", exp.Title)
}

func TestInitRedisDisabled(t *testing.T) {
	rdb, err := InitRedis(&config.RedisConfig{Enabled: false})
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}
