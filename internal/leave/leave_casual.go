package leave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-erp/internal/employee"
	"go-erp/internal/leave/accrual"
	leaveerrors "go-erp/internal/leave/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const CasualQuotaKeyPrefix = "leave:casual:"

func CasualQuotaKey(companyID, employeeID string) string {
	return CasualQuotaKeyPrefix + companyID + ":" + employeeID
}

// CasualQuota is the "available casual leave" answer for one employee.
type CasualQuota struct {
	Casual    int    `json:"casual"`
	EmpStatus string `json:"emp_status"`
}

func (q CasualQuota) IsProbation() bool {
	return strings.EqualFold(q.EmpStatus, accrual.EmploymentProbation)
}

//go:generate mockgen -source=leave_casual.go -destination=mock/leave_casual_mock.go -package=mock
type CasualQuotaProvider interface {
	Available(ctx context.Context, companyID, employeeID string) (CasualQuota, error)
}

type CasualQuotaConfig struct {
	DaysPerMonth int
	AnnualCap    int
	CacheTTL     time.Duration
	Now          func() time.Time
}

type casualQuotaService struct {
	employees employee.Repository
	rdb       *redis.Client
	sf        *singleflight.Group
	cfg       CasualQuotaConfig
	logger    *zap.Logger
}

func NewCasualQuotaService(employees employee.Repository, rdb *redis.Client, cfg CasualQuotaConfig, logger ...*zap.Logger) CasualQuotaProvider {
	l := zap.L().Named("leave.casual")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.casual")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	return &casualQuotaService{
		employees: employees,
		rdb:       rdb,
		sf:        &singleflight.Group{},
		cfg:       cfg,
		logger:    l,
	}
}

func (s *casualQuotaService) Available(ctx context.Context, companyID, employeeID string) (CasualQuota, error) {
	cacheKey := CasualQuotaKey(companyID, employeeID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var q CasualQuota
			if json.Unmarshal([]byte(cached), &q) == nil {
				return q, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		standing, err := s.employees.FindStanding(ctx, companyID, employeeID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return nil, leaveerrors.ErrEmployeeNotFound
			}
			s.logger.Error("casual quota standing lookup failed",
				zap.String("company_id", companyID),
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%w: %v", leaveerrors.ErrCasualQuotaUnavailable, err)
		}

		q := CasualQuota{EmpStatus: standing.EmploymentStatus}
		if !q.IsProbation() {
			q.Casual = accrual.AccrueCasual(standing.HireDate, s.cfg.Now(), s.cfg.DaysPerMonth, s.cfg.AnnualCap)
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(q); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, payload, s.cfg.CacheTTL).Err(); err != nil {
					s.logger.Warn("casual quota cache write failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		return q, nil
	})
	if err != nil {
		return CasualQuota{}, err
	}
	return v.(CasualQuota), nil
}

func InvalidateCasualQuota(ctx context.Context, rdb *redis.Client, companyID, employeeID string) error {
	return rdb.Del(ctx, CasualQuotaKey(companyID, employeeID)).Err()
}

// PurgeCasualQuotaCache drops every cached casual quota. Accrual moves on
// month boundaries, so cached answers go stale when a month completes.
func PurgeCasualQuotaCache(ctx context.Context, rdb *redis.Client) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := rdb.Scan(ctx, cursor, CasualQuotaKeyPrefix+"*", 500).Result()
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			n, err := rdb.Del(ctx, keys...).Result()
			if err != nil {
				return removed, err
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}
