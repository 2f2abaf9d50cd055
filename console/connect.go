package console

import (
	"context"
	"fmt"
	"time"

	"crewtrack.com/crewtrack/infrastructure/devops"
	"crewtrack.com/crewtrack/utils"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the control-plane database. Its credentials sit alongside
// the tenant entries in SSM under the reserved name "console".
func Connect(ctx context.Context) (*gorm.DB, error) {
	tenants, err := devops.LoadTenantConfig(ctx)
	if err != nil {
		return nil, err
	}

	entry := utils.Find(tenants, func(t *devops.TenantEntry) bool {
		return t.Name == "console"
	})
	if entry == nil {
		return nil, fmt.Errorf("console database parameter not found")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:3306)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		entry.Username,
		entry.Password,
		entry.Host,
		entry.Name,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}
