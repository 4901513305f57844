package constants

// 物流记录类型常量
const (
	LogisticKindDelivery    = "delivery"
	LogisticKindReservation = "reservation"
)

// 物流记录状态常量（配送链路）
const (
	LogisticStatusPendingAssignment = "pending_assignment"
	LogisticStatusScheduled         = "scheduled"
	LogisticStatusShipped           = "shipped"
	LogisticStatusDelivered         = "delivered"
)

// 物流记录状态常量（预约链路）
const (
	LogisticStatusNotStarted = "not_started"
	LogisticStatusCompleted  = "completed"
)

// 异常上报分支状态
const (
	LogisticStatusIssueReported = "issue_reported"
)

// 候选时段状态常量
const (
	SlotStatusProposed = "proposed"
	SlotStatusSelected = "selected"
	SlotStatusRejected = "rejected"
)

// 预约排期模式常量
const (
	ReservationModeManual       = "manual"
	ReservationModeAutoSchedule = "auto_schedule"
)

// 操作人角色常量
const (
	ActorRoleAdmin   = "admin"
	ActorRoleCreator = "creator"
)

// MaxProposedSlots 每条预约记录允许的最大候选时段数
const MaxProposedSlots = 3

// 请求上下文键常量
const (
	ContextKeyActor     = "actor"
	ContextKeyRequestID = "request_id"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskLogisticsStatusChanged = "logistics:status_changed"
	TaskReservationScheduled   = "logistics:reservation_scheduled"
	TaskLogisticsIssueReported = "logistics:issue_reported"
)
