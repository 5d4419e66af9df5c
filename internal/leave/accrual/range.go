package accrual

import (
	"fmt"
	"time"

	leaveerrors "go-erp/internal/leave/errors"
)

type SelectionState int

const (
	SelectionEmpty SelectionState = iota
	SelectionPartial
	SelectionComplete
)

func (s SelectionState) String() string {
	switch s {
	case SelectionPartial:
		return "partial"
	case SelectionComplete:
		return "complete"
	default:
		return "empty"
	}
}

// RangeSelector tracks a two-click date range pick for one leave type.
// The first click sets the start, the second completes the range, a third
// starts over. A completed range always has from <= to.
type RangeSelector struct {
	policy    Policy
	leaveType LeaveType
	today     time.Time

	state SelectionState
	from  time.Time
	to    time.Time
}

func (p Policy) NewRangeSelector(t LeaveType, today time.Time) *RangeSelector {
	return &RangeSelector{policy: p, leaveType: t, today: Date(today)}
}

func NewRangeSelector(t LeaveType, today time.Time) *RangeSelector {
	return defaultPolicy.NewRangeSelector(t, today)
}

func (r *RangeSelector) State() SelectionState { return r.state }

func (r *RangeSelector) LeaveType() LeaveType { return r.leaveType }

// Allows reports whether d may be clicked for the current leave type.
func (r *RangeSelector) Allows(d time.Time) bool {
	return !Date(d).Before(r.policy.EarliestStart(r.leaveType, r.today))
}

// Click applies one date pick. A date before the earliest allowed start is
// rejected and the selection is left as it was.
func (r *RangeSelector) Click(d time.Time) error {
	d = Date(d)
	if !r.Allows(d) {
		return fmt.Errorf("%w: %s is before %s", leaveerrors.ErrLeadTimeViolation,
			FormatDate(d), FormatDate(r.policy.EarliestStart(r.leaveType, r.today)))
	}

	switch r.state {
	case SelectionPartial:
		r.from, r.to = NormalizeRange(r.from, d)
		r.state = SelectionComplete
	default:
		r.from, r.to = d, time.Time{}
		r.state = SelectionPartial
	}
	return nil
}

// Preset installs a caller-chosen default range, e.g. the earliest start.
func (r *RangeSelector) Preset(from, to time.Time) {
	r.from, r.to = NormalizeRange(from, to)
	r.state = SelectionComplete
}

func (r *RangeSelector) Reset() {
	r.state = SelectionEmpty
	r.from, r.to = time.Time{}, time.Time{}
}

// SetLeaveType switches the lead-time rule and clears the selection.
func (r *RangeSelector) SetLeaveType(t LeaveType) {
	r.leaveType = t
	r.Reset()
}

func (r *RangeSelector) Start() (time.Time, bool) {
	if r.state == SelectionEmpty {
		return time.Time{}, false
	}
	return r.from, true
}

func (r *RangeSelector) Range() (time.Time, time.Time, bool) {
	if r.state != SelectionComplete {
		return time.Time{}, time.Time{}, false
	}
	return r.from, r.to, true
}
