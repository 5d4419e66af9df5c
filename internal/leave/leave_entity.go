package leave

import (
	"time"

	"go-erp/internal/leave/accrual"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_company_status"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_employee_dates"`

	LeaveType    string    `gorm:"type:varchar(20);not null"`
	StartDate    time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	EndDate      time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates;check:chk_leaves_range,end_date >= start_date"`
	DurationDays int       `gorm:"type:int;not null;default:1"`
	Reason       string    `gorm:"type:varchar(500);not null"`

	Status      string     `gorm:"type:varchar(20);not null;default:'Pending';index:idx_leaves_company_status"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null"`
	ReviewNotes *string    `gorm:"type:text"`
	ReviewedBy  *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leaves_deleted_at"`
}

func (l Leave) toRecord() accrual.Record {
	r := accrual.Record{
		ID:           l.ID.String(),
		EmployeeID:   l.EmployeeID.String(),
		LeaveType:    accrual.LeaveType(l.LeaveType),
		StartDate:    l.StartDate,
		EndDate:      l.EndDate,
		DurationDays: l.DurationDays,
		Reason:       l.Reason,
		Status:       accrual.Status(l.Status),
		ReviewedAt:   l.ReviewedAt,
	}
	if l.ReviewNotes != nil {
		r.ReviewNotes = *l.ReviewNotes
	}
	if l.ReviewedBy != nil {
		r.ReviewedBy = l.ReviewedBy.String()
	}
	return r
}

func toRecords(leaves []Leave) []accrual.Record {
	out := make([]accrual.Record, len(leaves))
	for i, l := range leaves {
		out[i] = l.toRecord()
	}
	return out
}
