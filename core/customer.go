package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const customerCodePrefix = "CUS"

type Customer struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Code      string    `gorm:"size:20;not null;unique"`
	Name      string    `gorm:"size:255;not null"`
	Email     string    `gorm:"size:255;not null;unique"`
	Phone     *string   `gorm:"size:50"`
	ABN       *string   `gorm:"size:255;unique"`
	CreatedAt time.Time `gorm:"precision:6;autoCreateTime"`
	UpdatedAt time.Time `gorm:"precision:6;autoUpdateTime"`
}

func GetCustomers(db *gorm.DB) ([]Customer, error) {
	var customers []Customer
	err := db.Find(&customers).Error
	return customers, err
}

// NextCustomerCode works the same way as NextEmployeeCode: sequential suffix,
// allocated under a row lock within the caller's transaction.
func NextCustomerCode(tx *gorm.DB) (string, error) {
	query := tx.Where("code LIKE ?", customerCodePrefix+"%").Order("id DESC")
	if tx.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var last Customer
	err := query.First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Sprintf("%s%04d", customerCodePrefix, 1), nil
	}
	if err != nil {
		return "", err
	}

	n, err := strconv.Atoi(strings.TrimPrefix(last.Code, customerCodePrefix))
	if err != nil {
		return "", fmt.Errorf("malformed customer code %q: %w", last.Code, err)
	}
	return fmt.Sprintf("%s%04d", customerCodePrefix, n+1), nil
}

func CreateCustomer(db *gorm.DB, customer *Customer) error {
	return db.Transaction(func(tx *gorm.DB) error {
		code, err := NextCustomerCode(tx)
		if err != nil {
			return err
		}
		customer.Code = code
		return tx.Create(customer).Error
	})
}
