package database

import (
	"fmt"
	"labgrade_backend/internal/config"
	"labgrade_backend/internal/model"
	"labgrade_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DSN 按驱动拼接连接串
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=Local",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.DBName,
			cfg.SSLMode,
		)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)
}

func dialector(cfg *config.DatabaseConfig) gorm.Dialector {
	if cfg.Driver == "postgres" {
		return postgres.Open(DSN(cfg))
	}
	return mysql.Open(DSN(cfg))
}

// InitDB 建立连接；debug 模式或显式要求时执行迁移和种子数据
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.Server.Mode == "debug" {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector(&cfg.Database), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Database connection established",
		zap.String("driver", cfg.Database.Driver),
		zap.String("host", cfg.Database.Host),
	)

	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		if err := Seed(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Teacher{},
		&model.Student{},
		&model.Subject{},
		&model.Experiment{},
		&model.Grade{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	logger.Log.Info("Database migration completed")
	return nil
}

// Seed 写入默认科目及其实验，已存在的记录不会被覆盖
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, def := range model.DefaultSubjects {
			subject := def
			if err := tx.Where("code = ?", subject.Code).FirstOrCreate(&subject).Error; err != nil {
				return fmt.Errorf("seed subject %s: %w", def.Code, err)
			}

			for n := 1; n <= model.ExperimentsPerSubject; n++ {
				exp := model.Experiment{
					SubjectID: subject.ID,
					Number:    n,
					Title:     fmt.Sprintf("Experiment %d: %s", n, subject.Name),
				}
				err := tx.Where("subject_id = ? AND number = ?", subject.ID, n).
					Attrs(model.Experiment{Title: exp.Title}).
					FirstOrCreate(&exp).Error
				if err != nil {
					return fmt.Errorf("seed experiment %s/%d: %w", def.Code, n, err)
				}
			}
		}
		return nil
	})
}
