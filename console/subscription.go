package console

import (
	"time"
)

// Subscription ties a tenant domain to an account and a seat limit.
// The domain's first label is the tenant schema name.
type Subscription struct {
	ID          int        `gorm:"column:id;primaryKey;autoIncrement"`
	Key         string     `gorm:"column:key;type:varchar(255);not null"`
	Employees   int        `gorm:"column:employees;not null"`
	Edition     string     `gorm:"column:edition;type:varchar(255);not null"`
	Domain      string     `gorm:"column:domain;type:varchar(255);not null"`
	SyncedAt    *time.Time `gorm:"column:syncedAt"`
	ExpiredAt   time.Time  `gorm:"column:expiredAt;not null"`
	CreatedAt   time.Time  `gorm:"column:createdAt;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updatedAt;autoUpdateTime"`
	Version     int        `gorm:"column:version;not null"`
	AccountID   *int       `gorm:"column:accountId"`
	Deactivated int8       `gorm:"column:deactivated;not null"`
	Environment string     `gorm:"column:environment;type:varchar(50);not null;default:production"`

	Account Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (s *Subscription) IsActive(now time.Time) bool {
	return s.Deactivated == 0 && now.Before(s.ExpiredAt)
}
