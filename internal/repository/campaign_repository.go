package repository

import (
	"errors"

	"github.com/crealink-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CampaignRepository 活动与创作者数据访问接口（引擎侧只读）
type CampaignRepository interface {
	GetByID(id uint) (*models.Campaign, error)
	GetCreator(id uint) (*models.Creator, error)
	ListCreators(ids []uint) ([]models.Creator, error)
}

// GormCampaignRepository GORM 实现
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository 创建活动仓库
func NewCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// GetByID 根据 ID 获取活动
func (r *GormCampaignRepository) GetByID(id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

// GetCreator 根据 ID 获取创作者
func (r *GormCampaignRepository) GetCreator(id uint) (*models.Creator, error) {
	var creator models.Creator
	if err := r.db.First(&creator, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &creator, nil
}

// ListCreators 批量获取创作者
func (r *GormCampaignRepository) ListCreators(ids []uint) ([]models.Creator, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var creators []models.Creator
	if err := r.db.Where("id IN ?", ids).Find(&creators).Error; err != nil {
		return nil, err
	}
	return creators, nil
}

// ReservationConfigRepository 预约排期配置数据访问接口
type ReservationConfigRepository interface {
	WithTx(tx *gorm.DB) ReservationConfigRepository
	GetByCampaignID(campaignID uint) (*models.ReservationConfig, error)
	LockByCampaignID(campaignID uint) (*models.ReservationConfig, error)
	CountRules(campaignID uint) (int64, error)
}

// GormReservationConfigRepository GORM 实现
type GormReservationConfigRepository struct {
	db *gorm.DB
}

// NewReservationConfigRepository 创建排期配置仓库
func NewReservationConfigRepository(db *gorm.DB) *GormReservationConfigRepository {
	return &GormReservationConfigRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReservationConfigRepository) WithTx(tx *gorm.DB) ReservationConfigRepository {
	if tx == nil {
		return r
	}
	return &GormReservationConfigRepository{db: tx}
}

// GetByCampaignID 根据活动 ID 获取排期配置（含规则）
func (r *GormReservationConfigRepository) GetByCampaignID(campaignID uint) (*models.ReservationConfig, error) {
	var config models.ReservationConfig
	err := r.db.Preload("Rules", func(db *gorm.DB) *gorm.DB {
		return db.Order("date ASC, starts_at ASC")
	}).Where("campaign_id = ?", campaignID).First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &config, nil
}

// LockByCampaignID 以行锁读取排期配置
// 时段提交路径用它串行化同一活动的并发写入（sqlite 不支持行锁，驱动忽略该子句）
func (r *GormReservationConfigRepository) LockByCampaignID(campaignID uint) (*models.ReservationConfig, error) {
	var config models.ReservationConfig
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("campaign_id = ?", campaignID).
		First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &config, nil
}

// CountRules 统计活动配置的可预约时段总数
func (r *GormReservationConfigRepository) CountRules(campaignID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.AvailabilityRule{}).
		Joins("JOIN reservation_configs ON reservation_configs.id = availability_rules.config_id").
		Where("reservation_configs.campaign_id = ?", campaignID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
