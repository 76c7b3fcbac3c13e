package model

import "gorm.io/gorm"

// AutoMigrate выполняет миграцию всех сущностей сервиса записи.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Doctor{},
		&Appointment{},
		&Event{},
	)
}
