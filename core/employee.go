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

const (
	RoleFieldEngineer = "FIELD_ENGINEER"
	RoleInOffice      = "IN_OFFICE"

	EmployeeStatusActive   = "ACTIVE"
	EmployeeStatusInactive = "INACTIVE"
)

const employeeCodePrefix = "EMP"

type Employee struct {
	EmployeeId    uint   `gorm:"primaryKey;autoIncrement"`
	Code          string `gorm:"uniqueIndex;size:20"`
	FirstName     string
	Surname       string
	PreferredName string
	Email         *string `gorm:"index"`
	Phone         *string
	// Role decides which attendance rules apply; immutable after creation.
	Role        string `gorm:"size:20;default:FIELD_ENGINEER"`
	Status      string `gorm:"size:20;default:ACTIVE"`
	Picture     *string
	StartDate   *time.Time
	EndDate     *time.Time
	ReportsToId *uint
	CreatedAt   time.Time `gorm:"precision:6;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"precision:6;autoUpdateTime"`
}

func (e *Employee) DisplayName() string {
	if e.PreferredName != "" {
		return e.PreferredName
	}
	return strings.TrimSpace(e.FirstName + " " + e.Surname)
}

func (e *Employee) IsFieldEngineer() bool {
	return e.Role == RoleFieldEngineer
}

func (e *Employee) IsActive() bool {
	return e.Status == EmployeeStatusActive
}

func FindEmployeeByID(db *gorm.DB, id uint) (*Employee, error) {
	var emp Employee
	result := db.First(&emp, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil // not found
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &emp, nil
}

func FindEmployeeByCode(db *gorm.DB, code string) (*Employee, error) {
	var emp Employee
	result := db.Where("code = ?", code).First(&emp)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &emp, nil
}

// NextEmployeeCode returns the next sequential code (EMP0001, EMP0002, ...).
// Must run inside the same transaction as the insert; the row lock on the
// latest employee keeps two concurrent creates from picking the same number.
func NextEmployeeCode(tx *gorm.DB) (string, error) {
	query := tx.Where("code LIKE ?", employeeCodePrefix+"%").Order("employee_id DESC")
	if tx.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var last Employee
	err := query.First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Sprintf("%s%04d", employeeCodePrefix, 1), nil
	}
	if err != nil {
		return "", err
	}

	n, err := strconv.Atoi(strings.TrimPrefix(last.Code, employeeCodePrefix))
	if err != nil {
		return "", fmt.Errorf("malformed employee code %q: %w", last.Code, err)
	}
	return fmt.Sprintf("%s%04d", employeeCodePrefix, n+1), nil
}

// CreateEmployee inserts a new employee with a generated sequential code.
func CreateEmployee(db *gorm.DB, emp *Employee) error {
	return db.Transaction(func(tx *gorm.DB) error {
		code, err := NextEmployeeCode(tx)
		if err != nil {
			return err
		}
		emp.Code = code
		return tx.Create(emp).Error
	})
}
