package repository

import (
	"errors"
	"time"

	"github.com/crealink-next/internal/constants"
	"github.com/crealink-next/internal/models"

	"gorm.io/gorm"
)

// SlotRepository 候选时段数据访问接口
type SlotRepository interface {
	CreateBatch(slots []models.Slot) error
	GetByID(id uint) (*models.Slot, error)
	ListByRecord(recordID uint) ([]models.Slot, error)
	ListByCampaign(campaignID uint, statuses []string) ([]models.Slot, error)
	ListSelectedOnDate(campaignID uint, day time.Time, excludeCreatorID uint) ([]models.Slot, error)
	UpdateStatus(id uint, status string) error
	RejectSiblings(recordID uint, keepID uint) error
	RejectAllByRecord(recordID uint) error
	WithTx(tx *gorm.DB) SlotRepository
}

// GormSlotRepository GORM 实现
type GormSlotRepository struct {
	db *gorm.DB
}

// NewSlotRepository 创建时段仓库
func NewSlotRepository(db *gorm.DB) *GormSlotRepository {
	return &GormSlotRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSlotRepository) WithTx(tx *gorm.DB) SlotRepository {
	if tx == nil {
		return r
	}
	return &GormSlotRepository{db: tx}
}

// CreateBatch 批量创建时段
func (r *GormSlotRepository) CreateBatch(slots []models.Slot) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.Create(&slots).Error
}

// GetByID 根据 ID 获取时段
func (r *GormSlotRepository) GetByID(id uint) (*models.Slot, error) {
	var slot models.Slot
	if err := r.db.First(&slot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

// ListByRecord 列出记录下的全部时段
func (r *GormSlotRepository) ListByRecord(recordID uint) ([]models.Slot, error) {
	var slots []models.Slot
	err := r.db.Where("record_id = ?", recordID).Order("starts_at ASC").Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// ListByCampaign 列出活动下指定状态的时段
func (r *GormSlotRepository) ListByCampaign(campaignID uint, statuses []string) ([]models.Slot, error) {
	query := r.db.Where("campaign_id = ?", campaignID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	var slots []models.Slot
	if err := query.Order("starts_at ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// ListSelectedOnDate 列出活动在某日已确认的时段（可排除指定创作者）
func (r *GormSlotRepository) ListSelectedOnDate(campaignID uint, day time.Time, excludeCreatorID uint) ([]models.Slot, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	query := r.db.
		Where("campaign_id = ?", campaignID).
		Where("status = ?", constants.SlotStatusSelected).
		Where("starts_at >= ? AND starts_at < ?", dayStart, dayEnd)
	if excludeCreatorID != 0 {
		query = query.Where("creator_id <> ?", excludeCreatorID)
	}
	var slots []models.Slot
	if err := query.Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// UpdateStatus 更新单个时段状态
func (r *GormSlotRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Slot{}).Where("id = ?", id).Update("status", status).Error
}

// RejectSiblings 将记录下除 keepID 外的候选时段置为 rejected
func (r *GormSlotRepository) RejectSiblings(recordID uint, keepID uint) error {
	return r.db.Model(&models.Slot{}).
		Where("record_id = ? AND id <> ? AND status = ?", recordID, keepID, constants.SlotStatusProposed).
		Update("status", constants.SlotStatusRejected).Error
}

// RejectAllByRecord 将记录下全部未拒绝时段置为 rejected
func (r *GormSlotRepository) RejectAllByRecord(recordID uint) error {
	return r.db.Model(&models.Slot{}).
		Where("record_id = ? AND status IN ?", recordID, []string{constants.SlotStatusProposed, constants.SlotStatusSelected}).
		Update("status", constants.SlotStatusRejected).Error
}
