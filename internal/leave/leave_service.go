package leave

import (
	"context"
	"database/sql"
	"io"
	"math"
	"strings"
	"time"

	"go-erp/internal/events"
	"go-erp/internal/leave/accrual"
	leaveerrors "go-erp/internal/leave/errors"
	"go-erp/internal/messaging/kafka"
	"go-erp/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	ListMine(ctx context.Context, companyID, employeeID string) ([]LeaveResponse, error)
	CasualAvailable(ctx context.Context, companyID, employeeID string) (CasualAvailabilityResponse, error)
	Balances(ctx context.Context, companyID, employeeID string) (BalancesResponse, error)
	Validate(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (ValidationResponse, error)
	Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	Update(ctx context.Context, companyID, actorID, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Review(ctx context.Context, companyID, reviewerID, id string, req ReviewLeaveRequest) (LeaveResponse, error)
	Delete(ctx context.Context, companyID, actorID, id string, canDeleteAny bool) error
	List(ctx context.Context, companyID string, page, limit int) (LeavePage, error)
	Export(ctx context.Context, companyID string, w io.Writer) error
}

type Option func(*service)

func WithPolicy(p accrual.Policy) Option {
	return func(s *service) { s.policy = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithOutbox(outbox kafka.OutboxRepository) Option {
	return func(s *service) { s.outbox = outbox }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger.Named("leave.service")
		}
	}
}

type service struct {
	db     *sql.DB
	repo   Repository
	casual CasualQuotaProvider
	outbox kafka.OutboxRepository
	policy accrual.Policy
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, casual CasualQuotaProvider, opts ...Option) Service {
	s := &service{
		db:     db,
		repo:   repo,
		casual: casual,
		policy: accrual.DefaultPolicy(),
		now:    time.Now,
		logger: zap.L().Named("leave.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) today() time.Time {
	return accrual.Date(s.now())
}

func (s *service) ListMine(ctx context.Context, companyID, employeeID string) ([]LeaveResponse, error) {
	if err := checkIDs(companyID, employeeID); err != nil {
		return nil, err
	}
	leaves, err := s.repo.FindByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) CasualAvailable(ctx context.Context, companyID, employeeID string) (CasualAvailabilityResponse, error) {
	if err := checkIDs(companyID, employeeID); err != nil {
		return CasualAvailabilityResponse{}, err
	}
	q, err := s.casual.Available(ctx, companyID, employeeID)
	if err != nil {
		return CasualAvailabilityResponse{}, err
	}
	return CasualAvailabilityResponse{Casual: q.Casual, EmpStatus: q.EmpStatus}, nil
}

func (s *service) Balances(ctx context.Context, companyID, employeeID string) (BalancesResponse, error) {
	if err := checkIDs(companyID, employeeID); err != nil {
		return BalancesResponse{}, err
	}
	balances, quota, err := s.balancesFor(ctx, s.repo, companyID, employeeID, "")
	if err != nil {
		return BalancesResponse{}, err
	}

	resp := BalancesResponse{
		Balances:        make([]BalanceResponse, 0, len(accrual.AllLeaveTypes)),
		SelectableTypes: s.policy.SelectableTypes(quota.IsProbation()),
		EmpStatus:       quota.EmpStatus,
	}
	for _, t := range accrual.AllLeaveTypes {
		b := balances[t]
		resp.Balances = append(resp.Balances, BalanceResponse{
			LeaveType: string(t),
			Total:     b.Total,
			Used:      b.Used,
			Pending:   b.Pending,
			Remaining: b.Remaining(),
		})
	}
	return resp, nil
}

func (s *service) Validate(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (ValidationResponse, error) {
	in, err := s.checkCreateRequest(companyID, actorID, req)
	if err != nil {
		return ValidationResponse{}, err
	}
	normalized, err := s.validate(ctx, s.repo, companyID, in, "")
	if err != nil {
		s.logger.Debug("validate leave rejected", zap.String("employee_id", actorID), zap.Error(err))
		return ValidationResponse{}, err
	}
	return ValidationResponse{
		EmployeeID:   normalized.EmployeeID,
		LeaveType:    string(normalized.LeaveType),
		StartDate:    accrual.FormatDate(normalized.StartDate),
		EndDate:      accrual.FormatDate(normalized.EndDate),
		DurationDays: normalized.DurationDays,
		Reason:       normalized.Reason,
		Status:       string(normalized.Status),
		Casual:       normalized.Casual,
	}, nil
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create leave requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	in, err := s.checkCreateRequest(companyID, actorID, req)
	if err != nil {
		log.Warn("create leave rejected", zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	normalized, err := s.validate(ctx, qtx, companyID, in, "")
	if err != nil {
		log.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.checkOverlap(ctx, qtx, companyID, normalized, nil); err != nil {
		return LeaveResponse{}, err
	}

	actorUUID := uuid.MustParse(actorID)
	l := &Leave{
		ID:           uuid.New(),
		CompanyID:    uuid.MustParse(companyID),
		EmployeeID:   actorUUID,
		LeaveType:    string(normalized.LeaveType),
		StartDate:    normalized.StartDate,
		EndDate:      normalized.EndDate,
		DurationDays: normalized.DurationDays,
		Reason:       normalized.Reason,
		Status:       string(normalized.Status),
		CreatedBy:    actorUUID,
	}

	if err := qtx.Create(ctx, l); err != nil {
		log.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := s.publish(ctx, tx, events.LeaveRequested, actorID, l); err != nil {
		log.Error("create leave outbox failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	log.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actorID),
		zap.String("leave_type", l.LeaveType),
		zap.Int("duration_days", l.DurationDays),
	)

	return mapToResponse(*l), nil
}

func (s *service) Update(ctx context.Context, companyID, actorID, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("update leave requested",
		zap.String("leave_id", id),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
	)

	if err := checkIDs(companyID, actorID); err != nil {
		return LeaveResponse{}, err
	}
	in, err := parseRequest(actorID, req.LeaveType, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("update leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.EmployeeID.String() != actorID {
		return LeaveResponse{}, leaveerrors.ErrNotLeaveOwner
	}
	if !isPending(l.Status) {
		log.Warn("update leave not pending", zap.String("leave_id", id), zap.String("status", l.Status))
		return LeaveResponse{}, leaveerrors.ErrLeaveNotPending
	}

	normalized, err := s.validate(ctx, qtx, companyID, in, id)
	if err != nil {
		log.Warn("update leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := s.checkOverlap(ctx, qtx, companyID, normalized, &id); err != nil {
		return LeaveResponse{}, err
	}

	l.LeaveType = string(normalized.LeaveType)
	l.StartDate = normalized.StartDate
	l.EndDate = normalized.EndDate
	l.DurationDays = normalized.DurationDays
	l.Reason = normalized.Reason

	if err := qtx.Update(ctx, l); err != nil {
		log.Error("update leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := s.publish(ctx, tx, events.LeaveUpdated, actorID, l); err != nil {
		log.Error("update leave outbox failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("update leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	log.Info("update leave success", zap.String("leave_id", id))

	return mapToResponse(*l), nil
}

func (s *service) Review(ctx context.Context, companyID, reviewerID, id string, req ReviewLeaveRequest) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if err := checkIDs(companyID, reviewerID); err != nil {
		return LeaveResponse{}, err
	}
	target, ok := accrual.ParseStatus(req.Status)
	if !ok || !target.IsTerminal() {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("review leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !isPending(l.Status) {
		log.Warn("review leave already decided",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", string(target)),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveNotPending
	}

	reviewer := uuid.MustParse(reviewerID)
	reviewedAt := s.now().UTC()
	l.Status = string(target)
	l.ReviewedBy = &reviewer
	l.ReviewedAt = &reviewedAt
	l.ReviewNotes = nil
	if notes := strings.TrimSpace(req.ReviewNotes); notes != "" {
		l.ReviewNotes = &notes
	}

	if err := qtx.Update(ctx, l); err != nil {
		log.Error("review leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := s.publish(ctx, tx, events.LeaveReviewed, reviewerID, l); err != nil {
		log.Error("review leave outbox failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("review leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	log.Info("review leave success",
		zap.String("leave_id", id),
		zap.String("status", l.Status),
		zap.String("reviewer_id", reviewerID),
	)
	return mapToResponse(*l), nil
}

func (s *service) Delete(ctx context.Context, companyID, actorID, id string, canDeleteAny bool) error {
	log := contextutil.GetLogger(ctx, s.logger)

	if err := checkIDs(companyID, actorID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return err
	}
	if l.EmployeeID.String() != actorID && !canDeleteAny {
		return leaveerrors.ErrNotLeaveOwner
	}
	if !isPending(l.Status) {
		return leaveerrors.ErrLeaveNotPending
	}

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		log.Error("delete leave failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}
	if err := s.publish(ctx, tx, events.LeaveDeleted, actorID, l); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("delete leave success", zap.String("leave_id", id), zap.String("actor_id", actorID))
	return nil
}

func (s *service) List(ctx context.Context, companyID string, page, limit int) (LeavePage, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return LeavePage{}, leaveerrors.ErrInvalidCompanyID
	}
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	leaves, total, err := s.repo.FindPage(ctx, companyID, (page-1)*limit, limit)
	if err != nil {
		return LeavePage{}, err
	}
	return LeavePage{
		Leaves:     mapToListResponse(leaves),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (s *service) Export(ctx context.Context, companyID string, w io.Writer) error {
	if _, err := uuid.Parse(companyID); err != nil {
		return leaveerrors.ErrInvalidCompanyID
	}
	leaves, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	return writeLeavesWorkbook(w, leaves)
}

func (s *service) checkCreateRequest(companyID, actorID string, req CreateLeaveRequest) (accrual.Request, error) {
	if err := checkIDs(companyID, actorID); err != nil {
		return accrual.Request{}, err
	}
	if req.Employee != "" && req.Employee != actorID {
		return accrual.Request{}, leaveerrors.ErrEmployeeMismatch
	}
	if req.Status != "" {
		if st, ok := accrual.ParseStatus(req.Status); !ok || st != accrual.StatusPending {
			return accrual.Request{}, leaveerrors.ErrInitialStatus
		}
	}
	return parseRequest(actorID, req.LeaveType, req.StartDate, req.EndDate, req.Reason)
}

// validate runs the accrual rules against balances built from the employee's
// stored requests, leaving excludeID out so an edit does not count itself.
func (s *service) validate(ctx context.Context, repo Repository, companyID string, in accrual.Request, excludeID string) (accrual.NormalizedRequest, error) {
	balances, _, err := s.balancesFor(ctx, repo, companyID, in.EmployeeID, excludeID)
	if err != nil {
		return accrual.NormalizedRequest{}, err
	}
	return s.policy.ValidateRequest(in, balances, s.today())
}

func (s *service) balancesFor(ctx context.Context, repo Repository, companyID, employeeID, excludeID string) (accrual.Balances, CasualQuota, error) {
	quota, err := s.casual.Available(ctx, companyID, employeeID)
	if err != nil {
		return nil, CasualQuota{}, err
	}

	leaves, err := repo.FindByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, CasualQuota{}, err
	}
	records := make([]accrual.Record, 0, len(leaves))
	for _, l := range leaves {
		if excludeID != "" && l.ID.String() == excludeID {
			continue
		}
		records = append(records, l.toRecord())
	}
	return s.policy.ComputeBalances(records, quota.Casual, quota.IsProbation()), quota, nil
}

func (s *service) checkOverlap(ctx context.Context, repo Repository, companyID string, n accrual.NormalizedRequest, excludeID *string) error {
	overlap, err := repo.HasOverlappingPeriod(ctx, companyID, n.EmployeeID, n.StartDate, n.EndDate, excludeID)
	if err != nil {
		s.logger.Error("leave overlap check failed", zap.Error(err))
		return err
	}
	if overlap {
		s.logger.Warn("leave overlap detected",
			zap.String("company_id", companyID),
			zap.String("employee_id", n.EmployeeID),
			zap.String("start_date", accrual.FormatDate(n.StartDate)),
			zap.String("end_date", accrual.FormatDate(n.EndDate)),
		)
		return leaveerrors.ErrLeaveOverlap
	}
	return nil
}

func (s *service) publish(ctx context.Context, tx *sql.Tx, eventType, actorID string, l *Leave) error {
	if s.outbox == nil {
		return nil
	}
	requestID := contextutil.GetRequestID(ctx)
	payload := events.LeaveLifecycleEvent{
		EventType:    eventType,
		RequestID:    requestID,
		LeaveID:      l.ID.String(),
		CompanyID:    l.CompanyID.String(),
		EmployeeID:   l.EmployeeID.String(),
		ActorID:      actorID,
		LeaveType:    l.LeaveType,
		Status:       l.Status,
		StartDate:    accrual.FormatDate(l.StartDate),
		EndDate:      accrual.FormatDate(l.EndDate),
		DurationDays: l.DurationDays,
		OccurredAt:   s.now().UTC(),
	}
	event, err := kafka.NewOutboxEvent("leave", l.ID.String(), eventType, events.LeaveLifecycleTopic, requestID, payload)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

func checkIDs(companyID, actorID string) error {
	if _, err := uuid.Parse(companyID); err != nil {
		return leaveerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return leaveerrors.ErrInvalidActorID
	}
	return nil
}

// parseRequest turns wire strings into an engine request. Blank dates stay
// zero so the engine reports them as missing rather than malformed.
func parseRequest(employeeID, leaveType, start, end, reason string) (accrual.Request, error) {
	in := accrual.Request{
		EmployeeID: employeeID,
		LeaveType:  leaveType,
		Reason:     reason,
	}
	var err error
	if strings.TrimSpace(start) != "" {
		if in.StartDate, err = accrual.ParseDate(start); err != nil {
			return accrual.Request{}, err
		}
	}
	if strings.TrimSpace(end) != "" {
		if in.EndDate, err = accrual.ParseDate(end); err != nil {
			return accrual.Request{}, err
		}
	}
	return in, nil
}

func isPending(status string) bool {
	st, ok := accrual.ParseStatus(status)
	return ok && st == accrual.StatusPending
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:           l.ID.String(),
		EmployeeID:   l.EmployeeID.String(),
		LeaveType:    l.LeaveType,
		StartDate:    accrual.FormatDate(l.StartDate),
		EndDate:      accrual.FormatDate(l.EndDate),
		DurationDays: l.DurationDays,
		Reason:       l.Reason,
		Status:       l.Status,
		ReviewNotes:  l.ReviewNotes,
		CreatedAt:    l.CreatedAt.UTC().Format(time.RFC3339),
	}
	if l.ReviewedBy != nil {
		v := l.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if l.ReviewedAt != nil {
		v := l.ReviewedAt.UTC().Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
