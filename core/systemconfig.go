package core

import (
	"strconv"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Configuration keys used by the attendance workflow.
const (
	ConfigOfficeLocation = "office_location"
	ConfigCutoffTime     = "attendance_cutoff"
	ConfigMaxAttempts    = "attendance_max_attempts"
)

const (
	DefaultCutoffTime      = "09:00"
	DefaultMaxAttempts     = 3
	DefaultGeofenceRadiusM = 250.0
)

// SystemConfiguration is a generic key/value store for singleton settings.
// Upserted by key; no history retained.
type SystemConfiguration struct {
	Key       string `gorm:"primaryKey;size:100"`
	Value     string `gorm:"size:255"`
	Latitude  *float64
	Longitude *float64
	RadiusM   *float64
	UpdatedAt time.Time `gorm:"precision:6;autoUpdateTime"`
}

func (SystemConfiguration) TableName() string {
	return "system_configurations"
}

// Settings is the resolved attendance configuration for one tenant.
type Settings struct {
	OfficeName  string
	OfficeLat   float64
	OfficeLng   float64
	RadiusM     float64
	HasOffice   bool
	CutoffTime  string
	MaxAttempts int
}

// SettingsService reads SystemConfiguration with an in-process cache per
// tenant. The cache is invalidated explicitly when an admin updates a key,
// never polled.
type SettingsService struct {
	mu    sync.RWMutex
	cache map[string]*Settings
}

func NewSettingsService() *SettingsService {
	return &SettingsService{cache: make(map[string]*Settings)}
}

func (s *SettingsService) Load(db *gorm.DB, tenant string) (*Settings, error) {
	s.mu.RLock()
	cached, ok := s.cache[tenant]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	var rows []SystemConfiguration
	if err := db.Where("`key` IN ?", []string{ConfigOfficeLocation, ConfigCutoffTime, ConfigMaxAttempts}).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	settings := &Settings{
		CutoffTime:  DefaultCutoffTime,
		MaxAttempts: DefaultMaxAttempts,
		RadiusM:     DefaultGeofenceRadiusM,
	}
	for _, row := range rows {
		switch row.Key {
		case ConfigOfficeLocation:
			if row.Latitude != nil && row.Longitude != nil {
				settings.OfficeName = row.Value
				settings.OfficeLat = *row.Latitude
				settings.OfficeLng = *row.Longitude
				settings.HasOffice = true
				if row.RadiusM != nil {
					settings.RadiusM = *row.RadiusM
				}
			}
		case ConfigCutoffTime:
			if row.Value != "" {
				settings.CutoffTime = row.Value
			}
		case ConfigMaxAttempts:
			if n, err := strconv.Atoi(row.Value); err == nil && n > 0 {
				settings.MaxAttempts = n
			}
		}
	}

	s.mu.Lock()
	s.cache[tenant] = settings
	s.mu.Unlock()
	return settings, nil
}

// Invalidate drops the cached settings for a tenant. Called after an admin
// upserts a configuration key.
func (s *SettingsService) Invalidate(tenant string) {
	s.mu.Lock()
	delete(s.cache, tenant)
	s.mu.Unlock()
}

// Upsert writes a configuration key and invalidates the tenant cache.
func (s *SettingsService) Upsert(db *gorm.DB, tenant string, cfg SystemConfiguration) error {
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&cfg).Error; err != nil {
		return err
	}
	s.Invalidate(tenant)
	return nil
}
