package leaveclient

import (
	"context"
	"errors"
	"time"

	"go-erp/internal/leave"
	"go-erp/internal/leave/accrual"

	"go.uber.org/zap"
)

// ErrBalancesUnknown is returned when validation is attempted before a
// successful refresh, or after a failed one.
var ErrBalancesUnknown = errors.New("leave balances unknown")

// Store is the part of the client the view depends on.
type Store interface {
	ListMine(ctx context.Context) ([]accrual.Record, error)
	CasualAvailable(ctx context.Context) (leave.CasualQuota, error)
	Create(ctx context.Context, req accrual.NormalizedRequest) (accrual.Record, error)
}

type ViewOption func(*LeaveView)

func WithViewPolicy(p accrual.Policy) ViewOption {
	return func(v *LeaveView) { v.policy = p }
}

func WithViewClock(now func() time.Time) ViewOption {
	return func(v *LeaveView) { v.now = now }
}

func WithViewLogger(logger *zap.Logger) ViewOption {
	return func(v *LeaveView) { v.logger = logger.Named("leaveclient.view") }
}

// LeaveView holds one employee's snapshot of their leave history and the
// balances derived from it. It is not safe for concurrent use.
type LeaveView struct {
	store  Store
	policy accrual.Policy
	now    func() time.Time
	logger *zap.Logger

	records  []accrual.Record
	quota    leave.CasualQuota
	balances accrual.Balances
	known    bool
}

func NewLeaveView(store Store, opts ...ViewOption) *LeaveView {
	v := &LeaveView{
		store:  store,
		policy: accrual.DefaultPolicy(),
		now:    time.Now,
		logger: zap.L().Named("leaveclient.view"),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Refresh fetches the history and then the casual quota, and recomputes the
// balances. Any failure leaves the balances unknown.
func (v *LeaveView) Refresh(ctx context.Context) error {
	v.forget()

	records, err := v.store.ListMine(ctx)
	if err != nil {
		v.logger.Warn("refresh: fetch leave history failed", zap.Error(err))
		return ErrOperationFailed
	}

	quota, err := v.store.CasualAvailable(ctx)
	if err != nil {
		v.logger.Warn("refresh: fetch casual quota failed", zap.Error(err))
		return ErrOperationFailed
	}

	v.records = records
	v.quota = quota
	v.balances = v.policy.ComputeBalances(records, quota.Casual, quota.IsProbation())
	v.known = true
	return nil
}

// Balances returns the last computed balances; ok is false when they are
// unknown.
func (v *LeaveView) Balances() (accrual.Balances, bool) {
	if !v.known {
		return nil, false
	}
	return v.balances, true
}

func (v *LeaveView) Records() []accrual.Record {
	return v.records
}

func (v *LeaveView) IsProbation() bool {
	return v.known && v.quota.IsProbation()
}

// SelectableTypes is nil while balances are unknown.
func (v *LeaveView) SelectableTypes() []accrual.LeaveType {
	if !v.known {
		return nil
	}
	return v.policy.SelectableTypes(v.quota.IsProbation())
}

// RangeSelector starts a date-range selection for t, bounded by today.
func (v *LeaveView) RangeSelector(t accrual.LeaveType) *accrual.RangeSelector {
	return v.policy.NewRangeSelector(t, accrual.Date(v.now()))
}

func (v *LeaveView) Validate(req accrual.Request) (accrual.NormalizedRequest, error) {
	if !v.known {
		return accrual.NormalizedRequest{}, ErrBalancesUnknown
	}
	return v.policy.ValidateRequest(req, v.balances, accrual.Date(v.now()))
}

// Submit validates req, posts it, and re-fetches so the balances include the
// new request. Validation errors come back unchanged. Store failures come
// back as ErrOperationFailed and are not retried.
func (v *LeaveView) Submit(ctx context.Context, req accrual.Request) (accrual.Record, error) {
	normalized, err := v.Validate(req)
	if err != nil {
		return accrual.Record{}, err
	}

	created, err := v.store.Create(ctx, normalized)
	if err != nil {
		v.logger.Warn("submit: create leave failed", zap.Error(err))
		return accrual.Record{}, ErrOperationFailed
	}

	if err := v.Refresh(ctx); err != nil {
		return created, err
	}
	return created, nil
}

func (v *LeaveView) forget() {
	v.records = nil
	v.quota = leave.CasualQuota{}
	v.balances = nil
	v.known = false
}
