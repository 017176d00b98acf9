package consumer

import (
	"context"
	"encoding/json"
	"go-timesheet/internal/bootstrap"
	"go-timesheet/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeTimesheetSubmitted notifies approvers that a sheet is waiting
// for review.
func ConsumeTimesheetSubmitted(
	ctx context.Context,
	reader *kafkago.Reader,
	auditLogger bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.timesheet_submitted")
	log.Info("timesheet submission consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("timesheet submission consumer stopped")
				return
			}
			log.Error("fetch submission message failed", zap.Error(err))
			continue
		}

		var event events.TimesheetSubmittedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode timesheet_submitted event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		auditLogger.Log(ctx, bootstrap.AuditLog{
			Action:  "TIMESHEET_SUBMITTED",
			Message: "timesheet submitted for review",
			Meta: map[string]any{
				"timesheet_id": event.TimesheetID,
				"company_id":   event.CompanyID,
				"user_id":      event.UserID,
				"week_start":   event.WeekStartDate,
				"resubmission": event.Resubmission,
			},
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit submission message failed", zap.Error(err))
			continue
		}

		log.Info("submission notification delivered",
			zap.String("timesheet_id", event.TimesheetID),
			zap.String("user_id", event.UserID),
		)
	}
}
