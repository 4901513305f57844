package repository

import (
	"errors"

	"github.com/crealink-next/internal/models"

	"gorm.io/gorm"
)

// LogisticListFilter 物流记录列表筛选
type LogisticListFilter struct {
	CampaignID uint
	CreatorID  uint
	Kind       string
	Status     string
	Page       int
	PageSize   int
}

// LogisticRepository 物流记录数据访问接口
type LogisticRepository interface {
	Create(record *models.LogisticRecord) error
	GetByID(id uint) (*models.LogisticRecord, error)
	GetByCampaignAndCreator(campaignID, creatorID uint) (*models.LogisticRecord, error)
	ListByCampaign(filter LogisticListFilter) ([]models.LogisticRecord, int64, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	AppendIssue(issue *models.Issue) error
	WithTx(tx *gorm.DB) LogisticRepository
}

// GormLogisticRepository GORM 实现
type GormLogisticRepository struct {
	db *gorm.DB
}

// NewLogisticRepository 创建物流记录仓库
func NewLogisticRepository(db *gorm.DB) *GormLogisticRepository {
	return &GormLogisticRepository{db: db}
}

// WithTx 绑定事务
func (r *GormLogisticRepository) WithTx(tx *gorm.DB) LogisticRepository {
	if tx == nil {
		return r
	}
	return &GormLogisticRepository{db: tx}
}

func (r *GormLogisticRepository) withDetails(query *gorm.DB) *gorm.DB {
	return query.
		Preload("DeliveryDetail").
		Preload("DeliveryDetail.Items").
		Preload("ReservationDetail").
		Preload("Slots").
		Preload("Issues").
		Preload("Creator")
}

// Create 创建物流记录（含详情子表）
func (r *GormLogisticRepository) Create(record *models.LogisticRecord) error {
	return r.db.Create(record).Error
}

// GetByID 根据 ID 获取物流记录
func (r *GormLogisticRepository) GetByID(id uint) (*models.LogisticRecord, error) {
	var record models.LogisticRecord
	if err := r.withDetails(r.db).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetByCampaignAndCreator 根据活动与创作者获取物流记录
func (r *GormLogisticRepository) GetByCampaignAndCreator(campaignID, creatorID uint) (*models.LogisticRecord, error) {
	var record models.LogisticRecord
	err := r.withDetails(r.db).
		Where("campaign_id = ? AND creator_id = ?", campaignID, creatorID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ListByCampaign 按活动列出物流记录
func (r *GormLogisticRepository) ListByCampaign(filter LogisticListFilter) ([]models.LogisticRecord, int64, error) {
	query := r.db.Model(&models.LogisticRecord{}).Where("campaign_id = ?", filter.CampaignID)
	if filter.CreatorID != 0 {
		query = query.Where("creator_id = ?", filter.CreatorID)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.LogisticRecord
	listQuery := r.withDetails(query.Session(&gorm.Session{})).Order("created_at ASC")
	listQuery = applyPagination(listQuery, filter.Page, filter.PageSize)
	if err := listQuery.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// UpdateStatus 更新状态与时间戳字段
func (r *GormLogisticRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.Model(&models.LogisticRecord{}).Where("id = ?", id).Updates(updates).Error
}

// AppendIssue 追加异常记录
func (r *GormLogisticRepository) AppendIssue(issue *models.Issue) error {
	return r.db.Create(issue).Error
}
