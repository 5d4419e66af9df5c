package consumer

import (
	"context"
	"encoding/json"

	"go-erp/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers use.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// CasualQuotaInvalidator drops an employee's cached casual quota.
type CasualQuotaInvalidator interface {
	InvalidateCasualQuota(ctx context.Context, companyID, employeeID string) error
}

type InvalidatorFunc func(ctx context.Context, companyID, employeeID string) error

func (f InvalidatorFunc) InvalidateCasualQuota(ctx context.Context, companyID, employeeID string) error {
	return f(ctx, companyID, employeeID)
}

// ConsumeEmployeeLifecycle keeps cached casual quotas in step with the HR
// module: any employee change may move their standing or hire date.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	invalidator CasualQuotaInvalidator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		if err := HandleEmployeeLifecycle(ctx, msg, invalidator, log); err != nil {
			// Leave uncommitted so the message is redelivered.
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
		}
	}
}

// HandleEmployeeLifecycle processes one message. It returns an error only
// when the message should be retried; undecodable or irrelevant messages are
// logged and acknowledged.
func HandleEmployeeLifecycle(ctx context.Context, msg kafkago.Message, invalidator CasualQuotaInvalidator, log *zap.Logger) error {
	var event events.EmployeeLifecycleEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode employee lifecycle event failed", zap.Error(err))
		return nil
	}

	switch event.EventType {
	case events.EmployeeCreated, events.EmployeeUpdated, events.EmployeeStatusChanged:
	default:
		log.Debug("ignoring employee lifecycle event", zap.String("event_type", event.EventType))
		return nil
	}
	if event.CompanyID == "" || event.EmployeeID == "" {
		log.Warn("employee lifecycle event without ids", zap.String("event_type", event.EventType))
		return nil
	}

	if err := invalidator.InvalidateCasualQuota(ctx, event.CompanyID, event.EmployeeID); err != nil {
		log.Error("invalidate casual quota failed",
			zap.String("employee_id", event.EmployeeID),
			zap.String("company_id", event.CompanyID),
			zap.Error(err),
		)
		return err
	}

	log.Info("casual quota invalidated",
		zap.String("event_type", event.EventType),
		zap.String("employee_id", event.EmployeeID),
		zap.String("company_id", event.CompanyID),
		zap.String("employment_status", event.EmploymentStatus),
	)
	return nil
}
