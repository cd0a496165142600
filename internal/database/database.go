package database

import (
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/voluntia/volunteerhub-api/internal/config"
	"github.com/voluntia/volunteerhub-api/internal/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var dialector gorm.Dialector

	// Use PostgreSQL if URL starts with postgres, otherwise SQLite
	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	DB = db
	return nil
}

func Migrate() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Postulation{},
		&models.Task{},
		&models.TaskAssignee{},
		&models.TaskComment{},
		&models.TimeEntry{},
		&models.TaskHistoryEntry{},
		&models.Notification{},
		&models.VolunteerProfile{},
		&models.ProjectHistoryEntry{},
		&models.Badge{},
	)
}
