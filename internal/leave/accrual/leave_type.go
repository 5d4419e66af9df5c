// Package accrual computes leave balances and validates new leave requests.
//
// Everything here is pure: callers fetch leave history and the casual quota
// from the store, hand them in, and persist whatever the engine normalizes.
package accrual

import "strings"

type LeaveType string

const (
	Sick      LeaveType = "Sick"
	Casual    LeaveType = "Casual"
	Paid      LeaveType = "Paid"
	Emergency LeaveType = "Emergency"
	Exam      LeaveType = "Exam"
	Other     LeaveType = "Other"
)

// AllLeaveTypes lists the leave types in display order.
var AllLeaveTypes = []LeaveType{Sick, Casual, Paid, Emergency, Exam, Other}

// ParseLeaveType matches s case-insensitively and returns the canonical casing.
func ParseLeaveType(s string) (LeaveType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range AllLeaveTypes {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return "", false
}

func (t LeaveType) Valid() bool {
	_, ok := ParseLeaveType(string(t))
	return ok
}

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

func ParseStatus(s string) (Status, bool) {
	s = strings.TrimSpace(s)
	for _, st := range []Status{StatusPending, StatusApproved, StatusRejected} {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

// IsTerminal reports whether no further transition is allowed from st.
func (st Status) IsTerminal() bool {
	return st == StatusApproved || st == StatusRejected
}
