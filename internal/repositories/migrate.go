package repositories

import (
	"github.com/anonto42/collab/backend/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the relational schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.Follow{},
		&models.Post{},
		&models.Mention{},
		&models.HashTag{},
		&models.PostTag{},
		&models.NewsMute{},
		&models.Comment{},
		&models.Like{},
	)
}
