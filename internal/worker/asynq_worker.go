package worker

import (
	"context"
	"encoding/json"

	"github.com/crealink-next/internal/constants"
	"github.com/crealink-next/internal/logger"
	"github.com/crealink-next/internal/provider"
	"github.com/crealink-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskStatusChanged, c.handleStatusChanged)
	mux.HandleFunc(queue.TaskReservationScheduled, c.handleReservationScheduled)
	mux.HandleFunc(queue.TaskIssueReported, c.handleIssueReported)
}

func (c *Consumer) handleStatusChanged(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_status_changed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.StatusChangedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_status_changed_unmarshal_failed", "error", err)
		return err
	}
	if payload.RecordID == 0 {
		logger.Debugw("worker_status_changed_skip_invalid_payload", "record_id", payload.RecordID)
		return nil
	}
	record, err := c.LogisticRepo.GetByID(payload.RecordID)
	if err != nil {
		logger.Warnw("worker_status_changed_fetch_record_failed", "record_id", payload.RecordID, "error", err)
		return err
	}
	if record == nil {
		logger.Debugw("worker_status_changed_skip_record_not_found", "record_id", payload.RecordID)
		return nil
	}
	logger.Infow("logistics_status_changed",
		"record_id", record.ID,
		"campaign_id", record.CampaignID,
		"creator_id", record.CreatorID,
		"kind", record.Kind,
		"status", payload.Status,
		"actor_role", payload.ActorRole,
	)
	// 预约记录状态变化会影响档期视图
	if record.Kind == constants.LogisticKindReservation {
		c.AvailabilityService.InvalidateAvailability(ctx, record.CampaignID)
	}
	return nil
}

func (c *Consumer) handleReservationScheduled(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_reservation_scheduled_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ReservationScheduledPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_reservation_scheduled_unmarshal_failed", "error", err)
		return err
	}
	if payload.RecordID == 0 || payload.CampaignID == 0 {
		logger.Debugw("worker_reservation_scheduled_skip_invalid_payload",
			"record_id", payload.RecordID, "campaign_id", payload.CampaignID)
		return nil
	}
	logger.Infow("reservation_scheduled",
		"record_id", payload.RecordID,
		"campaign_id", payload.CampaignID,
		"slot_id", payload.SlotID,
	)
	c.AvailabilityService.InvalidateAvailability(ctx, payload.CampaignID)
	return nil
}

func (c *Consumer) handleIssueReported(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_issue_reported_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.IssueReportedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_issue_reported_unmarshal_failed", "error", err)
		return err
	}
	if payload.RecordID == 0 {
		logger.Debugw("worker_issue_reported_skip_invalid_payload", "record_id", payload.RecordID)
		return nil
	}
	record, err := c.LogisticRepo.GetByID(payload.RecordID)
	if err != nil {
		logger.Warnw("worker_issue_reported_fetch_record_failed", "record_id", payload.RecordID, "error", err)
		return err
	}
	if record == nil {
		logger.Debugw("worker_issue_reported_skip_record_not_found", "record_id", payload.RecordID)
		return nil
	}
	logger.Warnw("logistics_issue_reported",
		"record_id", record.ID,
		"campaign_id", record.CampaignID,
		"creator_id", record.CreatorID,
		"kind", record.Kind,
		"reason", payload.Reason,
	)
	if record.Kind == constants.LogisticKindReservation {
		c.AvailabilityService.InvalidateAvailability(ctx, record.CampaignID)
	}
	return nil
}
