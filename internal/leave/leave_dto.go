package leave

import "go-erp/internal/leave/accrual"

type CreateLeaveRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	Reason    string `json:"reason" binding:"required,max=500"`
	Employee  string `json:"employee" binding:"omitempty,uuid"`
	LeaveType string `json:"leaveType" binding:"required"`
	Status    string `json:"status"`
	Casual    *bool  `json:"casual,omitempty"`
}

type UpdateLeaveRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	Reason    string `json:"reason" binding:"required,max=500"`
	LeaveType string `json:"leaveType" binding:"required"`
}

type ReviewLeaveRequest struct {
	Status      string `json:"status" binding:"required"`
	ReviewNotes string `json:"reviewNotes"`
}

type ListLeavesFilter struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type LeaveResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employeeId"`
	LeaveType    string  `json:"leaveType"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
	DurationDays int     `json:"durationDays"`
	Reason       string  `json:"reason"`
	Status       string  `json:"status"`
	ReviewNotes  *string `json:"reviewNotes,omitempty"`
	ReviewedBy   *string `json:"reviewedBy,omitempty"`
	ReviewedAt   *string `json:"reviewedAt,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

type LeaveListResponse struct {
	Leaves []LeaveResponse `json:"leaves"`
}

type LeavePage struct {
	Leaves     []LeaveResponse
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type CasualAvailabilityResponse struct {
	Casual    int    `json:"casual"`
	EmpStatus string `json:"emp_status"`
}

type BalanceResponse struct {
	LeaveType string `json:"leaveType"`
	Total     int    `json:"total"`
	Used      int    `json:"used"`
	Pending   int    `json:"pending"`
	Remaining int    `json:"remaining"`
}

type BalancesResponse struct {
	Balances        []BalanceResponse   `json:"balances"`
	SelectableTypes []accrual.LeaveType `json:"selectableTypes"`
	EmpStatus       string              `json:"emp_status"`
}

type ValidationResponse struct {
	EmployeeID   string `json:"employee"`
	LeaveType    string `json:"leaveType"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	DurationDays int    `json:"durationDays"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
	Casual       bool   `json:"casual"`
}
