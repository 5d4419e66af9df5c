package employee

import (
	"context"
	"errors"

	"go-erp/internal/tenant"

	"gorm.io/gorm"
)

var ErrEmployeeNotFound = errors.New("employee not found")

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	FindStanding(ctx context.Context, companyID, employeeID string) (Standing, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindStanding(ctx context.Context, companyID, employeeID string) (Standing, error) {
	var empl Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Select("id", "employment_status", "hire_date").
		First(&empl, "id = ?", employeeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Standing{}, ErrEmployeeNotFound
	}
	if err != nil {
		return Standing{}, err
	}

	return Standing{
		EmployeeID:       empl.ID.String(),
		EmploymentStatus: empl.EmploymentStatus,
		HireDate:         empl.HireDate,
	}, nil
}
