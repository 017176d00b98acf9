package consumer

import (
	"context"
	"encoding/json"
	"go-timesheet/internal/bootstrap"
	"go-timesheet/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeApprovalRecorded is the notification/audit sink for approval
// decisions. Delivery runs after commit on the producing side, so a
// failure here never affects the recorded transition.
func ConsumeApprovalRecorded(
	ctx context.Context,
	reader *kafkago.Reader,
	auditLogger bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.approval_recorded")
	log.Info("approval notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("approval notification consumer stopped")
				return
			}
			log.Error("fetch approval message failed", zap.Error(err))
			continue
		}

		var event events.ApprovalRecordedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode approval_recorded event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		auditLogger.Log(ctx, bootstrap.AuditLog{
			Action:  "APPROVAL_" + event.Action,
			Message: "approval decision recorded",
			Meta: map[string]any{
				"timesheet_id":  event.TimesheetID,
				"company_id":    event.CompanyID,
				"project_id":    event.ProjectID,
				"approver_id":   event.ApproverID,
				"approver_role": event.ApproverRole,
				"status_after":  event.StatusAfter,
				"reason":        event.Reason,
			},
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit approval message failed", zap.Error(err))
			continue
		}

		log.Info("approval notification delivered",
			zap.String("timesheet_id", event.TimesheetID),
			zap.String("action", event.Action),
			zap.String("approver_role", event.ApproverRole),
		)
	}
}
