package service

import (
	"time"

	"github.com/crealink-next/internal/constants"
	"github.com/crealink-next/internal/logger"
	"github.com/crealink-next/internal/models"
	"github.com/crealink-next/internal/queue"
	"github.com/crealink-next/internal/repository"

	"gorm.io/gorm"
)

// ReservationService 预约协商服务
// 管理创作者提案 / 管理员确认的排期流程，含单时段 auto_schedule 快速路径
type ReservationService struct {
	db           *gorm.DB
	logisticRepo repository.LogisticRepository
	slotRepo     repository.SlotRepository
	detailRepo   repository.ReservationDetailRepository
	configRepo   repository.ReservationConfigRepository
	conflicts    *ConflictDetector
	queueClient  *queue.Client
}

// NewReservationService 创建预约协商服务
func NewReservationService(db *gorm.DB, logisticRepo repository.LogisticRepository, slotRepo repository.SlotRepository, detailRepo repository.ReservationDetailRepository, configRepo repository.ReservationConfigRepository, conflicts *ConflictDetector, queueClient *queue.Client) *ReservationService {
	return &ReservationService{
		db:           db,
		logisticRepo: logisticRepo,
		slotRepo:     slotRepo,
		detailRepo:   detailRepo,
		configRepo:   configRepo,
		conflicts:    conflicts,
		queueClient:  queueClient,
	}
}

// ProposeSlotsInput 创作者提案输入
type ProposeSlotsInput struct {
	RecordID       uint
	CreatorID      uint
	Intervals      []Interval
	Outlet         string
	CreatorRemarks string
}

// ProposeSlots 创作者提交 1–3 个候选时段
// auto_schedule 且活动仅配置一个时段时直接锁定，无需管理员确认
func (s *ReservationService) ProposeSlots(input ProposeSlotsInput) (*models.LogisticRecord, error) {
	if len(input.Intervals) == 0 {
		return nil, ErrInvalidInterval
	}
	if len(input.Intervals) > constants.MaxProposedSlots {
		return nil, ErrCapacityExceeded
	}
	for _, interval := range input.Intervals {
		if !interval.Valid() {
			return nil, ErrInvalidInterval
		}
	}
	for i := range input.Intervals {
		for j := i + 1; j < len(input.Intervals); j++ {
			a, b := input.Intervals[i], input.Intervals[j]
			if a.FullDay == b.FullDay && a.StartsAt.Equal(b.StartsAt) && a.EndsAt.Equal(b.EndsAt) {
				return nil, ErrDuplicateSlot
			}
		}
	}

	record, err := s.logisticRepo.GetByID(input.RecordID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	if record.Kind != constants.LogisticKindReservation {
		return nil, ErrKindMismatch
	}
	if input.CreatorID != 0 && record.CreatorID != input.CreatorID {
		return nil, ErrRecordNotFound
	}
	if record.Status != constants.LogisticStatusPendingAssignment {
		return nil, &InvalidTransitionError{Current: record.Status, Attempted: constants.LogisticStatusPendingAssignment}
	}

	existing, err := s.slotRepo.ListByRecord(record.ID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	proposedCount := 0
	for _, slot := range existing {
		if slot.Status != constants.SlotStatusProposed {
			continue
		}
		proposedCount++
		for _, interval := range input.Intervals {
			if slot.SameInterval(interval.StartsAt, interval.EndsAt, interval.FullDay) {
				return nil, ErrDuplicateSlot
			}
		}
	}
	if proposedCount+len(input.Intervals) > constants.MaxProposedSlots {
		return nil, ErrCapacityExceeded
	}

	config, err := s.configRepo.GetByCampaignID(record.CampaignID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if config == nil {
		return nil, ErrConfigMissing
	}

	// auto_schedule 且仅配置一个时段：引擎锁定的是配置里的那个时段，
	// 提案区间必须与其完全一致
	autoSchedule := false
	if config.Mode == constants.ReservationModeAutoSchedule && len(input.Intervals) == 1 && len(config.Rules) == 1 {
		if !input.Intervals[0].matchesRule(config.Rules[0]) {
			return nil, ErrInvalidInterval
		}
		autoSchedule = true
	}

	now := time.Now()
	var selectedSlotID uint
	err = s.db.Transaction(func(tx *gorm.DB) error {
		slotRepo := s.slotRepo.WithTx(tx)
		detector := s.conflicts.WithTx(tx)
		for _, interval := range input.Intervals {
			conflict, err := detector.FindConflict(record.CampaignID, interval, record.CreatorID)
			if err != nil {
				return err
			}
			if conflict != nil {
				return &SlotConflictError{CreatorID: conflict.CreatorID, StartsAt: conflict.StartsAt, EndsAt: conflict.EndsAt}
			}
		}

		status := constants.SlotStatusProposed
		if autoSchedule {
			status = constants.SlotStatusSelected
		}
		slots := make([]models.Slot, 0, len(input.Intervals))
		for _, interval := range input.Intervals {
			slots = append(slots, models.Slot{
				RecordID:   record.ID,
				CampaignID: record.CampaignID,
				CreatorID:  record.CreatorID,
				StartsAt:   interval.StartsAt,
				EndsAt:     interval.EndsAt,
				FullDay:    interval.FullDay,
				Status:     status,
			})
		}
		if err := slotRepo.CreateBatch(slots); err != nil {
			return err
		}
		if autoSchedule && len(slots) > 0 {
			selectedSlotID = slots[0].ID
		}

		if err := s.saveCreatorDetail(tx, record.ID, input.Outlet, input.CreatorRemarks); err != nil {
			return err
		}

		if autoSchedule {
			return s.logisticRepo.WithTx(tx).UpdateStatus(record.ID, constants.LogisticStatusScheduled, map[string]interface{}{
				"updated_at": now,
			})
		}
		return nil
	})
	if err != nil {
		return nil, classifyTxError(err)
	}

	if autoSchedule {
		s.notifyScheduled(record.CampaignID, record.ID, selectedSlotID)
	}
	return s.reload(record.ID)
}

// SelectSlot 管理员选定候选时段
// 同一时段重复选定为幂等空操作；其余候选时段置为 rejected
func (s *ReservationService) SelectSlot(recordID, slotID uint) (*models.LogisticRecord, error) {
	record, err := s.logisticRepo.GetByID(recordID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	if record.Kind != constants.LogisticKindReservation {
		return nil, ErrKindMismatch
	}

	slot, err := s.slotRepo.GetByID(slotID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if slot == nil || slot.RecordID != record.ID {
		return nil, ErrSlotNotFound
	}

	// 已选定同一时段：幂等返回当前状态
	if slot.Status == constants.SlotStatusSelected && record.Status == constants.LogisticStatusScheduled {
		return record, nil
	}
	if slot.Status != constants.SlotStatusProposed {
		return nil, ErrSlotNotSelectable
	}
	if record.Status != constants.LogisticStatusPendingAssignment {
		return nil, &InvalidTransitionError{Current: record.Status, Attempted: constants.LogisticStatusScheduled}
	}

	candidate := Interval{StartsAt: slot.StartsAt, EndsAt: slot.EndsAt, FullDay: slot.FullDay}
	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		detector := s.conflicts.WithTx(tx)
		conflict, err := detector.FindConflict(record.CampaignID, candidate, record.CreatorID)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &SlotConflictError{CreatorID: conflict.CreatorID, StartsAt: conflict.StartsAt, EndsAt: conflict.EndsAt}
		}

		slotRepo := s.slotRepo.WithTx(tx)
		if err := slotRepo.UpdateStatus(slot.ID, constants.SlotStatusSelected); err != nil {
			return err
		}
		if err := slotRepo.RejectSiblings(record.ID, slot.ID); err != nil {
			return err
		}
		return s.logisticRepo.WithTx(tx).UpdateStatus(record.ID, constants.LogisticStatusScheduled, map[string]interface{}{
			"updated_at": now,
		})
	})
	if err != nil {
		return nil, classifyTxError(err)
	}

	s.notifyScheduled(record.CampaignID, record.ID, slot.ID)
	return s.reload(record.ID)
}

// AdminSchedule 管理员直接指定时段（覆盖既有提案）
func (s *ReservationService) AdminSchedule(recordID uint, interval Interval) (*models.LogisticRecord, error) {
	if !interval.Valid() {
		return nil, ErrInvalidInterval
	}
	record, err := s.logisticRepo.GetByID(recordID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	if record.Kind != constants.LogisticKindReservation {
		return nil, ErrKindMismatch
	}
	if record.Status != constants.LogisticStatusPendingAssignment && record.Status != constants.LogisticStatusScheduled {
		return nil, &InvalidTransitionError{Current: record.Status, Attempted: constants.LogisticStatusScheduled}
	}

	now := time.Now()
	var slotID uint
	err = s.db.Transaction(func(tx *gorm.DB) error {
		detector := s.conflicts.WithTx(tx)
		conflict, err := detector.FindConflict(record.CampaignID, interval, record.CreatorID)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &SlotConflictError{CreatorID: conflict.CreatorID, StartsAt: conflict.StartsAt, EndsAt: conflict.EndsAt}
		}

		slotRepo := s.slotRepo.WithTx(tx)
		if err := slotRepo.RejectAllByRecord(record.ID); err != nil {
			return err
		}
		slots := []models.Slot{{
			RecordID:   record.ID,
			CampaignID: record.CampaignID,
			CreatorID:  record.CreatorID,
			StartsAt:   interval.StartsAt,
			EndsAt:     interval.EndsAt,
			FullDay:    interval.FullDay,
			Status:     constants.SlotStatusSelected,
		}}
		if err := slotRepo.CreateBatch(slots); err != nil {
			return err
		}
		slotID = slots[0].ID
		return s.logisticRepo.WithTx(tx).UpdateStatus(record.ID, constants.LogisticStatusScheduled, map[string]interface{}{
			"updated_at": now,
		})
	})
	if err != nil {
		return nil, classifyTxError(err)
	}

	s.notifyScheduled(record.CampaignID, record.ID, slotID)
	return s.reload(record.ID)
}

// Reschedule 清空全部时段回到待排期，门店与创作者备注保持不变
// 这是唯一不经异常上报就回退生命周期的路径
func (s *ReservationService) Reschedule(recordID uint) (*models.LogisticRecord, error) {
	record, err := s.logisticRepo.GetByID(recordID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	if record.Kind != constants.LogisticKindReservation {
		return nil, ErrKindMismatch
	}
	if record.Status != constants.LogisticStatusScheduled && record.Status != constants.LogisticStatusPendingAssignment {
		return nil, &InvalidTransitionError{Current: record.Status, Attempted: constants.LogisticStatusPendingAssignment}
	}

	now := time.Now()
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
	return s.reload(record.ID)
}

// ConfirmDetailInput 管理员确认预约详情输入
type ConfirmDetailInput struct {
	RecordID      uint
	ClientRemarks string
	PICName       string
	PICContact    string
	PromoCode     string
	Budget        *models.Money
}

// ConfirmDetail 管理员补全客户侧信息并确认预约详情
// 首次确认将记录从 not_started 推进到 pending_assignment；重复调用安全
func (s *ReservationService) ConfirmDetail(input ConfirmDetailInput) (*models.LogisticRecord, error) {
	record, err := s.logisticRepo.GetByID(input.RecordID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	if record.Kind != constants.LogisticKindReservation {
		return nil, ErrKindMismatch
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		detailRepo := s.detailRepo.WithTx(tx)
		detail, err := detailRepo.GetByRecordID(record.ID)
		if err != nil {
			return err
		}
		if detail == nil {
			detail = &models.ReservationDetail{RecordID: record.ID}
		}
		detail.ClientRemarks = input.ClientRemarks
		detail.PICName = input.PICName
		detail.PICContact = input.PICContact
		detail.PromoCode = input.PromoCode
		if input.Budget != nil {
			detail.Budget = input.Budget
		}
		detail.IsConfirmed = true
		if err := detailRepo.Save(detail); err != nil {
			return err
		}

		if record.Status == constants.LogisticStatusNotStarted {
			return s.logisticRepo.WithTx(tx).UpdateStatus(record.ID, constants.LogisticStatusPendingAssignment, map[string]interface{}{
				"updated_at": now,
			})
		}
		return nil
	})
	if err != nil {
		return nil, wrapStorage(err)
	}
	return s.reload(record.ID)
}

// IsLocked 判断活动是否为单时段锁定（无需选择器）
// 派生属性：配置的可预约时段总数为 1 即锁定
func (s *ReservationService) IsLocked(campaignID uint) (bool, error) {
	total, err := s.configRepo.CountRules(campaignID)
	if err != nil {
		return false, wrapStorage(err)
	}
	return total == 1, nil
}

func (s *ReservationService) saveCreatorDetail(tx *gorm.DB, recordID uint, outlet, remarks string) error {
	if outlet == "" && remarks == "" {
		return nil
	}
	detailRepo := s.detailRepo.WithTx(tx)
	detail, err := detailRepo.GetByRecordID(recordID)
	if err != nil {
		return err
	}
	if detail == nil {
		detail = &models.ReservationDetail{RecordID: recordID}
	}
	if outlet != "" {
		detail.Outlet = outlet
	}
	if remarks != "" {
		detail.CreatorRemarks = remarks
	}
	return detailRepo.Save(detail)
}

func (s *ReservationService) reload(recordID uint) (*models.LogisticRecord, error) {
	record, err := s.logisticRepo.GetByID(recordID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	return record, nil
}

func (s *ReservationService) notifyScheduled(campaignID, recordID, slotID uint) {
	if !s.queueClient.Enabled() {
		return
	}
	err := s.queueClient.EnqueueReservationScheduled(queue.ReservationScheduledPayload{
		RecordID:   recordID,
		CampaignID: campaignID,
		SlotID:     slotID,
	})
	if err != nil {
		logger.Warnw("reservation_scheduled_enqueue_failed", "record_id", recordID, "error", err)
	}
}
