package console

import (
	"errors"

	"gorm.io/gorm"
)

func GetAccounts(db *gorm.DB) ([]Account, error) {
	var accounts []Account
	err := db.Find(&accounts).Error
	return accounts, err
}

func GetSubscriptions(db *gorm.DB) ([]Subscription, error) {
	var subs []Subscription
	err := db.Preload("Account").Find(&subs).Error
	return subs, err
}

func FindSubscriptionByDomain(db *gorm.DB, domain string) (*Subscription, error) {
	var sub Subscription
	err := db.Where(&Subscription{Domain: domain}).Preload("Account").First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // not found
	}
	return &sub, err
}
