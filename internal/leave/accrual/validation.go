package accrual

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	leaveerrors "go-erp/internal/leave/errors"
)

const MaxReasonLength = 500

// Request is a leave request as entered by the employee. Zero dates and a
// blank leave type or reason count as missing.
type Request struct {
	EmployeeID string
	LeaveType  string
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
}

// NormalizedRequest is what gets submitted to the store.
type NormalizedRequest struct {
	EmployeeID   string
	LeaveType    LeaveType
	StartDate    time.Time
	EndDate      time.Time
	DurationDays int
	Reason       string
	Status       Status
	Casual       bool
}

// ValidateRequest checks a proposed request against lead-time and quota
// rules. The quota check compares the requested duration with the type's
// total, not with what is left after used and pending days.
func (p Policy) ValidateRequest(req Request, balances Balances, today time.Time) (NormalizedRequest, error) {
	reason := strings.TrimSpace(req.Reason)

	var missing []string
	if strings.TrimSpace(req.LeaveType) == "" {
		missing = append(missing, "leaveType")
	}
	if req.StartDate.IsZero() {
		missing = append(missing, "startDate")
	}
	if req.EndDate.IsZero() {
		missing = append(missing, "endDate")
	}
	if reason == "" {
		missing = append(missing, "reason")
	}
	if len(missing) > 0 {
		return NormalizedRequest{}, fmt.Errorf("%w: %s", leaveerrors.ErrMissingField, strings.Join(missing, ", "))
	}

	leaveType, ok := ParseLeaveType(req.LeaveType)
	if !ok {
		return NormalizedRequest{}, fmt.Errorf("%w: %q", leaveerrors.ErrInvalidLeaveType, req.LeaveType)
	}
	if utf8.RuneCountInString(reason) > MaxReasonLength {
		return NormalizedRequest{}, leaveerrors.ErrReasonTooLong
	}

	from, to := NormalizeRange(req.StartDate, req.EndDate)

	earliest := p.EarliestStart(leaveType, today)
	if from.Before(earliest) {
		return NormalizedRequest{}, fmt.Errorf("%w: %s leave must start on or after %s",
			leaveerrors.ErrLeadTimeViolation, leaveType, FormatDate(earliest))
	}

	duration := ComputeDuration(from, to)
	if total := balances[leaveType].Total; duration > total {
		return NormalizedRequest{}, fmt.Errorf("%w: %d days requested, %s quota is %d",
			leaveerrors.ErrQuotaExceeded, duration, leaveType, total)
	}

	return NormalizedRequest{
		EmployeeID:   req.EmployeeID,
		LeaveType:    leaveType,
		StartDate:    from,
		EndDate:      to,
		DurationDays: duration,
		Reason:       reason,
		Status:       StatusPending,
		Casual:       leaveType == Casual,
	}, nil
}

func ValidateRequest(req Request, balances Balances, today time.Time) (NormalizedRequest, error) {
	return defaultPolicy.ValidateRequest(req, balances, today)
}
