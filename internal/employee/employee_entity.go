package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID        uuid.UUID  `gorm:"type:uuid;index"`
	DepartmentID     *uuid.UUID `gorm:"type:uuid"`
	PositionID       *uuid.UUID `gorm:"type:uuid"`
	FullName         string
	Email            string    `gorm:"uniqueIndex"`
	EmploymentStatus string    `gorm:"type:varchar(20);not null;default:'Probation'"`
	HireDate         time.Time `gorm:"type:date"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

// Standing is the slice of an employee the leave engine cares about.
type Standing struct {
	EmployeeID       string
	EmploymentStatus string
	HireDate         time.Time
}
