package service

import (
	"strings"
	"time"

	"github.com/crealink-next/internal/constants"
	"github.com/crealink-next/internal/logger"
	"github.com/crealink-next/internal/models"
	"github.com/crealink-next/internal/queue"
	"github.com/crealink-next/internal/repository"

	"gorm.io/gorm"
)

// Actor 已认证的操作人（由外部身份服务签发）
type Actor struct {
	ID   uint
	Role string
	Name string
}

// IsAdmin 判断操作人是否为管理员
func (a Actor) IsAdmin() bool {
	return strings.EqualFold(a.Role, constants.ActorRoleAdmin)
}

// 配送链路的合法状态迁移表
var deliveryTransitions = map[string]map[string]bool{
	constants.LogisticStatusPendingAssignment: {
		constants.LogisticStatusScheduled: true,
	},
	constants.LogisticStatusScheduled: {
		constants.LogisticStatusShipped: true,
	},
	constants.LogisticStatusShipped: {
		constants.LogisticStatusDelivered: true,
	},
}

// 预约链路的合法状态迁移表
var reservationTransitions = map[string]map[string]bool{
	constants.LogisticStatusNotStarted: {
		constants.LogisticStatusPendingAssignment: true,
	},
	constants.LogisticStatusPendingAssignment: {
		constants.LogisticStatusScheduled: true,
	},
	constants.LogisticStatusScheduled: {
		constants.LogisticStatusCompleted: true,
	},
}

// canTransition 判断某类记录能否从 from 迁移到 to
func canTransition(kind, from, to string) bool {
	var table map[string]map[string]bool
	switch kind {
	case constants.LogisticKindDelivery:
		table = deliveryTransitions
	case constants.LogisticKindReservation:
		table = reservationTransitions
	default:
		return false
	}
	targets, ok := table[from]
	if !ok {
		return false
	}
	return targets[to]
}

// statusTimestampUpdates 状态迁移附带的时间戳字段
func statusTimestampUpdates(status string, now time.Time) map[string]interface{} {
	updates := map[string]interface{}{
		"updated_at": now,
	}
	switch status {
	case constants.LogisticStatusShipped:
		updates["shipped_at"] = now
	case constants.LogisticStatusDelivered:
		updates["delivered_at"] = now
		updates["completed_at"] = now
	case constants.LogisticStatusCompleted:
		updates["completed_at"] = now
	}
	return updates
}

// initialStatusForKind 新记录的初始状态
func initialStatusForKind(kind string) string {
	if kind == constants.LogisticKindReservation {
		return constants.LogisticStatusNotStarted
	}
	return constants.LogisticStatusPendingAssignment
}

// StatusService 物流状态机服务
type StatusService struct {
	db           *gorm.DB
	logisticRepo repository.LogisticRepository
	slotRepo     repository.SlotRepository
	campaignRepo repository.CampaignRepository
	queueClient  *queue.Client
}

// NewStatusService 创建状态机服务
func NewStatusService(db *gorm.DB, logisticRepo repository.LogisticRepository, slotRepo repository.SlotRepository, campaignRepo repository.CampaignRepository, queueClient *queue.Client) *StatusService {
	return &StatusService{
		db:           db,
		logisticRepo: logisticRepo,
		slotRepo:     slotRepo,
		campaignRepo: campaignRepo,
		queueClient:  queueClient,
	}
}

// CreateRecord 为入选创作者创建物流记录
// kind 创建后不可变更；同一（活动，创作者）组合只允许一条记录
func (s *StatusService) CreateRecord(campaignID, creatorID uint, kind string) (*models.LogisticRecord, error) {
	if kind != constants.LogisticKindDelivery && kind != constants.LogisticKindReservation {
		return nil, ErrKindMismatch
	}
	campaign, err := s.campaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	creator, err := s.campaignRepo.GetCreator(creatorID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if creator == nil {
		return nil, ErrRecordNotFound
	}
	existing, err := s.logisticRepo.GetByCampaignAndCreator(campaignID, creatorID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if existing != nil {
		return nil, ErrRecordExists
	}

	record := &models.LogisticRecord{
		CampaignID: campaignID,
		CreatorID:  creatorID,
		Kind:       kind,
		Status:     initialStatusForKind(kind),
	}
	if kind == constants.LogisticKindDelivery {
		record.DeliveryDetail = &models.DeliveryDetail{}
	} else {
		record.ReservationDetail = &models.ReservationDetail{}
	}
	if err := s.logisticRepo.Create(record); err != nil {
		return nil, wrapStorage(err)
	}
	return s.reload(record.ID)
}

// Transition 执行一次状态迁移
// 校验失败时不产生任何写入；非法迁移原样拒绝，绝不静默矫正
func (s *StatusService) Transition(recordID uint, actor Actor, newStatus string) (*models.LogisticRecord, error) {
	record, err := s.logisticRepo.GetByID(recordID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	if !canTransition(record.Kind, record.Status, newStatus) {
		return nil, &InvalidTransitionError{Current: record.Status, Attempted: newStatus}
	}

	now := time.Now()
	updates := statusTimestampUpdates(newStatus, now)
	if err := s.logisticRepo.UpdateStatus(record.ID, newStatus, updates); err != nil {
		return nil, wrapStorage(err)
	}

	s.notifyStatusChanged(record.ID, newStatus, actor)
	return s.reload(record.ID)
}

// ReportIssue 上报异常并切换到 issue_reported
// 配送记录仅在 shipped 状态可报；预约记录在确认排期后的状态可报
func (s *StatusService) ReportIssue(recordID uint, reason string) (*models.LogisticRecord, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrEmptyIssueReason
	}
	record, err := s.logisticRepo.GetByID(recordID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	if !issueReportable(record.Kind, record.Status) {
		return nil, &InvalidTransitionError{Current: record.Status, Attempted: constants.LogisticStatusIssueReported}
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.logisticRepo.WithTx(tx)
		if err := repo.AppendIssue(&models.Issue{RecordID: record.ID, Reason: reason, CreatedAt: now}); err != nil {
			return err
		}
		return repo.UpdateStatus(record.ID, constants.LogisticStatusIssueReported, map[string]interface{}{
			"updated_at": now,
		})
	})
	if err != nil {
		return nil, wrapStorage(err)
	}

	s.notifyIssueReported(record.ID, reason)
	return s.reload(record.ID)
}

// RetryIssue 异常恢复：配送重试回 scheduled，预约清空时段回 pending_assignment
func (s *StatusService) RetryIssue(recordID uint) (*models.LogisticRecord, error) {
	record, err := s.logisticRepo.GetByID(recordID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	if record.Status != constants.LogisticStatusIssueReported {
		return nil, &InvalidTransitionError{Current: record.Status, Attempted: constants.LogisticStatusScheduled}
	}

	now := time.Now()
	if record.Kind == constants.LogisticKindDelivery {
		if err := s.logisticRepo.UpdateStatus(record.ID, constants.LogisticStatusScheduled, map[string]interface{}{
			"updated_at": now,
		}); err != nil {
			return nil, wrapStorage(err)
		}
		s.notifyStatusChanged(record.ID, constants.LogisticStatusScheduled, Actor{Role: constants.ActorRoleAdmin})
		return s.reload(record.ID)
	}

	// 预约：清空候选时段后回到待排期
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.slotRepo.WithTx(tx).RejectAllByRecord(record.ID); err != nil {
			return err
		}
		return s.logisticRepo.WithTx(tx).UpdateStatus(record.ID, constants.LogisticStatusPendingAssignment, map[string]interface{}{
			"updated_at": now,
		})
	})
	if err != nil {
		return nil, wrapStorage(err)
	}
	s.notifyStatusChanged(record.ID, constants.LogisticStatusPendingAssignment, Actor{Role: constants.ActorRoleAdmin})
	return s.reload(record.ID)
}

// ResolveIssue 异常解决：配送记为 delivered，预约记为 completed
func (s *StatusService) ResolveIssue(recordID uint) (*models.LogisticRecord, error) {
	record, err := s.logisticRepo.GetByID(recordID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}

	target := constants.LogisticStatusDelivered
	if record.Kind == constants.LogisticKindReservation {
		target = constants.LogisticStatusCompleted
	}
	if record.Status != constants.LogisticStatusIssueReported {
		return nil, &InvalidTransitionError{Current: record.Status, Attempted: target}
	}

	now := time.Now()
	if err := s.logisticRepo.UpdateStatus(record.ID, target, statusTimestampUpdates(target, now)); err != nil {
		return nil, wrapStorage(err)
	}
	s.notifyStatusChanged(record.ID, target, Actor{Role: constants.ActorRoleAdmin})
	return s.reload(record.ID)
}

// issueReportable 判断当前状态能否上报异常
func issueReportable(kind, status string) bool {
	switch kind {
	case constants.LogisticKindDelivery:
		return status == constants.LogisticStatusShipped
	case constants.LogisticKindReservation:
		return status == constants.LogisticStatusScheduled || status == constants.LogisticStatusCompleted
	default:
		return false
	}
}

func (s *StatusService) reload(recordID uint) (*models.LogisticRecord, error) {
	record, err := s.logisticRepo.GetByID(recordID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	return record, nil
}

func (s *StatusService) notifyStatusChanged(recordID uint, status string, actor Actor) {
	if !s.queueClient.Enabled() {
		return
	}
	err := s.queueClient.EnqueueStatusChanged(queue.StatusChangedPayload{
		RecordID:  recordID,
		Status:    status,
		ActorRole: actor.Role,
	})
	if err != nil {
		logger.Warnw("status_changed_enqueue_failed", "record_id", recordID, "status", status, "error", err)
	}
}

func (s *StatusService) notifyIssueReported(recordID uint, reason string) {
	if !s.queueClient.Enabled() {
		return
	}
	err := s.queueClient.EnqueueIssueReported(queue.IssueReportedPayload{
		RecordID: recordID,
		Reason:   reason,
	})
	if err != nil {
		logger.Warnw("issue_reported_enqueue_failed", "record_id", recordID, "error", err)
	}
}
