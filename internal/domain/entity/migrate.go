package entity

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for all clinic entities.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Role{},
		&User{},
		&PracticeSettings{},
		&Queue{},
		&ActivityLog{},
	)
}
