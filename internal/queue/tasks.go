package queue

import (
	"encoding/json"

	"github.com/crealink-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskStatusChanged 物流状态变更事件
	TaskStatusChanged = constants.TaskLogisticsStatusChanged
	// TaskReservationScheduled 预约排期确认事件
	TaskReservationScheduled = constants.TaskReservationScheduled
	// TaskIssueReported 异常上报事件
	TaskIssueReported = constants.TaskLogisticsIssueReported
)

// StatusChangedPayload 状态变更事件载荷
type StatusChangedPayload struct {
	RecordID  uint   `json:"record_id"`
	Status    string `json:"status"`
	ActorRole string `json:"actor_role,omitempty"`
}

// ReservationScheduledPayload 排期确认事件载荷
type ReservationScheduledPayload struct {
	RecordID   uint `json:"record_id"`
	CampaignID uint `json:"campaign_id"`
	SlotID     uint `json:"slot_id"`
}

// IssueReportedPayload 异常上报事件载荷
type IssueReportedPayload struct {
	RecordID uint   `json:"record_id"`
	Reason   string `json:"reason"`
}

// NewStatusChangedTask 创建状态变更事件任务
func NewStatusChangedTask(payload StatusChangedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStatusChanged, body), nil
}

// NewReservationScheduledTask 创建排期确认事件任务
func NewReservationScheduledTask(payload ReservationScheduledPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReservationScheduled, body), nil
}

// NewIssueReportedTask 创建异常上报事件任务
func NewIssueReportedTask(payload IssueReportedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIssueReported, body), nil
}
