package core

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// ConnectDB opens a single-schema connection, used by command-line tools
// that operate on one tenant directly.
func ConnectDB(dsn string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		panic(fmt.Sprintf("failed to connect to DB from GORM: %v", err))
	}
	return db
}

// Migrate creates or updates the tenant tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Employee{},
		&Customer{},
		&Attendance{},
		&Task{},
		&SystemConfiguration{},
		&Notification{},
		&AuditLog{},
	)
}
