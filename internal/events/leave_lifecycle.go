package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const (
	LeaveRequested = "leave.requested"
	LeaveUpdated   = "leave.updated"
	LeaveReviewed  = "leave.reviewed"
	LeaveDeleted   = "leave.deleted"
)

type LeaveLifecycleEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	LeaveID      string    `json:"leave_id"`
	CompanyID    string    `json:"company_id"`
	EmployeeID   string    `json:"employee_id"`
	ActorID      string    `json:"actor_id"`
	LeaveType    string    `json:"leave_type"`
	Status       string    `json:"status"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	DurationDays int       `json:"duration_days"`
	OccurredAt   time.Time `json:"occurred_at"`
}
