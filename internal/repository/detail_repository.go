package repository

import (
	"errors"

	"github.com/crealink-next/internal/models"

	"gorm.io/gorm"
)

// DeliveryDetailRepository 配送详情数据访问接口
type DeliveryDetailRepository interface {
	GetByRecordID(recordID uint) (*models.DeliveryDetail, error)
	Save(detail *models.DeliveryDetail) error
	ReplaceItems(detailID uint, items []models.DeliveryItem) error
	WithTx(tx *gorm.DB) DeliveryDetailRepository
}

// GormDeliveryDetailRepository GORM 实现
type GormDeliveryDetailRepository struct {
	db *gorm.DB
}

// NewDeliveryDetailRepository 创建配送详情仓库
func NewDeliveryDetailRepository(db *gorm.DB) *GormDeliveryDetailRepository {
	return &GormDeliveryDetailRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDeliveryDetailRepository) WithTx(tx *gorm.DB) DeliveryDetailRepository {
	if tx == nil {
		return r
	}
	return &GormDeliveryDetailRepository{db: tx}
}

// GetByRecordID 根据记录 ID 获取配送详情
func (r *GormDeliveryDetailRepository) GetByRecordID(recordID uint) (*models.DeliveryDetail, error) {
	var detail models.DeliveryDetail
	err := r.db.Preload("Items").Where("record_id = ?", recordID).First(&detail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &detail, nil
}

// Save 保存配送详情
func (r *GormDeliveryDetailRepository) Save(detail *models.DeliveryDetail) error {
	return r.db.Save(detail).Error
}

// ReplaceItems 整体替换配送商品项
func (r *GormDeliveryDetailRepository) ReplaceItems(detailID uint, items []models.DeliveryItem) error {
	if err := r.db.Where("detail_id = ?", detailID).Delete(&models.DeliveryItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].DetailID = detailID
	}
	return r.db.Create(&items).Error
}

// ReservationDetailRepository 预约详情数据访问接口
type ReservationDetailRepository interface {
	GetByRecordID(recordID uint) (*models.ReservationDetail, error)
	Save(detail *models.ReservationDetail) error
	WithTx(tx *gorm.DB) ReservationDetailRepository
}

// GormReservationDetailRepository GORM 实现
type GormReservationDetailRepository struct {
	db *gorm.DB
}

// NewReservationDetailRepository 创建预约详情仓库
func NewReservationDetailRepository(db *gorm.DB) *GormReservationDetailRepository {
	return &GormReservationDetailRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReservationDetailRepository) WithTx(tx *gorm.DB) ReservationDetailRepository {
	if tx == nil {
		return r
	}
	return &GormReservationDetailRepository{db: tx}
}

// GetByRecordID 根据记录 ID 获取预约详情
func (r *GormReservationDetailRepository) GetByRecordID(recordID uint) (*models.ReservationDetail, error) {
	var detail models.ReservationDetail
	err := r.db.Where("record_id = ?", recordID).First(&detail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &detail, nil
}

// Save 保存预约详情
func (r *GormReservationDetailRepository) Save(detail *models.ReservationDetail) error {
	return r.db.Save(detail).Error
}
