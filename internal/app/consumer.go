package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-timesheet/internal/bootstrap"
	"go-timesheet/internal/events"
	"go-timesheet/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	auditLogger := bootstrap.NewStdoutAuditLogger()

	lifecycleReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.TimesheetLifecycleTopic,
		GroupID:        "go-timesheet-submission-notifier",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer lifecycleReader.Close()

	approvalReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.ApprovalRecordedTopic,
		GroupID:        "go-timesheet-approval-notifier",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer approvalReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeTimesheetSubmitted(ctx, lifecycleReader, auditLogger, logger)
	go consumer.ConsumeApprovalRecorded(ctx, approvalReader, auditLogger, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
