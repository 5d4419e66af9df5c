package events

import "time"

const EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"

const (
	EmployeeCreated       = "employee_created"
	EmployeeUpdated       = "employee_updated"
	EmployeeStatusChanged = "employee_status_changed"
)

// EmployeeLifecycleEvent is published by the HR module whenever an employee
// record changes in a way that may affect leave entitlements.
type EmployeeLifecycleEvent struct {
	EventType        string    `json:"event_type"`
	RequestID        string    `json:"request_id,omitempty"`
	EmployeeID       string    `json:"employee_id"`
	CompanyID        string    `json:"company_id"`
	EmploymentStatus string    `json:"employment_status,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}
