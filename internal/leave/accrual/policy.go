package accrual

import "time"

// Rule is the quota and notice requirement for one leave type.
type Rule struct {
	Total    int
	LeadDays int
	// NextDay allows a start date of exactly tomorrow.
	NextDay bool
}

type Policy struct {
	rules map[LeaveType]Rule
}

// DefaultPolicy returns the built-in quota table. Casual has no fixed total:
// its quota always comes from the caller.
func DefaultPolicy() Policy {
	return Policy{rules: map[LeaveType]Rule{
		Sick:      {Total: 7, LeadDays: 1, NextDay: true},
		Casual:    {Total: 0, LeadDays: 8},
		Paid:      {Total: 10, LeadDays: 8},
		Emergency: {Total: 14, LeadDays: 1, NextDay: true},
		Exam:      {Total: 14, LeadDays: 8},
		Other:     {Total: 10, LeadDays: 8},
	}}
}

var defaultPolicy = DefaultPolicy()

// WithTotals returns a copy of p with the given fixed totals replaced.
// Unknown keys, non-positive values and Casual are ignored.
func (p Policy) WithTotals(overrides map[string]int) Policy {
	rules := make(map[LeaveType]Rule, len(p.rules))
	for t, r := range p.rules {
		rules[t] = r
	}
	for key, total := range overrides {
		t, ok := ParseLeaveType(key)
		if !ok || t == Casual || total <= 0 {
			continue
		}
		r := rules[t]
		r.Total = total
		rules[t] = r
	}
	return Policy{rules: rules}
}

func (p Policy) Rule(t LeaveType) Rule {
	return p.rules[t]
}

func (p Policy) MinimumLeadTime(t LeaveType) int {
	return p.rules[t].LeadDays
}

// EarliestStart is the first start date a request of type t may use when
// submitted on today.
func (p Policy) EarliestStart(t LeaveType, today time.Time) time.Time {
	r := p.rules[t]
	if r.NextDay {
		return AddDays(today, 1)
	}
	return AddDays(today, r.LeadDays)
}

// SelectableTypes lists the types an employee may pick. Employees on
// probation cannot pick Casual.
func (p Policy) SelectableTypes(isProbation bool) []LeaveType {
	out := make([]LeaveType, 0, len(AllLeaveTypes))
	for _, t := range AllLeaveTypes {
		if isProbation && t == Casual {
			continue
		}
		out = append(out, t)
	}
	return out
}

func MinimumLeadTime(t LeaveType) int {
	return defaultPolicy.MinimumLeadTime(t)
}

func EarliestStart(t LeaveType, today time.Time) time.Time {
	return defaultPolicy.EarliestStart(t, today)
}

func SelectableTypes(isProbation bool) []LeaveType {
	return defaultPolicy.SelectableTypes(isProbation)
}
