package accrual

import "time"

// Record is one leave request as seen by the engine.
type Record struct {
	ID           string
	EmployeeID   string
	LeaveType    LeaveType
	StartDate    time.Time
	EndDate      time.Time
	DurationDays int
	Reason       string
	Status       Status
	ReviewNotes  string
	ReviewedAt   *time.Time
	ReviewedBy   string
}

// Days is the record's duration, recomputed from its dates whenever both are
// known.
func (r Record) Days() int {
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return r.DurationDays
	}
	from, to := NormalizeRange(r.StartDate, r.EndDate)
	return ComputeDuration(from, to)
}

type Balance struct {
	Total   int `json:"total"`
	Used    int `json:"used"`
	Pending int `json:"pending"`
}

// Remaining is informational only; validation compares against Total.
func (b Balance) Remaining() int {
	return b.Total - b.Used - b.Pending
}

type Balances map[LeaveType]Balance

// ComputeBalances derives the six per-type balances from an employee's
// history. Approved days count as used, pending days as pending; rejected
// records and unknown types are ignored. records is not modified.
func (p Policy) ComputeBalances(records []Record, casualQuota int, isProbation bool) Balances {
	balances := make(Balances, len(AllLeaveTypes))
	for _, t := range AllLeaveTypes {
		balances[t] = Balance{Total: p.rules[t].Total}
	}

	casual := max(casualQuota, 0)
	if isProbation {
		casual = 0
		balances[Other] = Balance{}
	}
	balances[Casual] = Balance{Total: casual}

	for _, r := range records {
		t, ok := ParseLeaveType(string(r.LeaveType))
		if !ok {
			continue
		}
		st, ok := ParseStatus(string(r.Status))
		if !ok {
			continue
		}

		b := balances[t]
		switch st {
		case StatusApproved:
			b.Used += r.Days()
		case StatusPending:
			b.Pending += r.Days()
		}
		balances[t] = b
	}
	return balances
}

func ComputeBalances(records []Record, casualQuota int, isProbation bool) Balances {
	return defaultPolicy.ComputeBalances(records, casualQuota, isProbation)
}
