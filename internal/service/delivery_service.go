package service

import (
	"strings"
	"time"

	"github.com/crealink-next/internal/constants"
	"github.com/crealink-next/internal/models"
	"github.com/crealink-next/internal/repository"

	"gorm.io/gorm"
)

// DeliveryService 配送管理服务
type DeliveryService struct {
	db           *gorm.DB
	logisticRepo repository.LogisticRepository
	detailRepo   repository.DeliveryDetailRepository
}

// NewDeliveryService 创建配送管理服务
func NewDeliveryService(db *gorm.DB, logisticRepo repository.LogisticRepository, detailRepo repository.DeliveryDetailRepository) *DeliveryService {
	return &DeliveryService{
		db:           db,
		logisticRepo: logisticRepo,
		detailRepo:   detailRepo,
	}
}

// AssignItemInput 配送商品项输入
type AssignItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// AssignItems 整体替换配送商品项
// 非正数量的行直接丢弃；不触发状态变更
func (s *DeliveryService) AssignItems(recordID uint, items []AssignItemInput) (*models.LogisticRecord, error) {
	record, detail, err := s.deliveryRecord(recordID)
	if err != nil {
		return nil, err
	}

	filtered := make([]models.DeliveryItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 || item.ProductID == 0 {
			continue
		}
		filtered = append(filtered, models.DeliveryItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.detailRepo.WithTx(tx).ReplaceItems(detail.ID, filtered)
	})
	if err != nil {
		return nil, wrapStorage(err)
	}
	return s.reload(record.ID)
}

// ScheduleShipment 录入物流单与预计送达日期
// 只更新字段，状态迁移由调用方单独发起，便于发货后修正物流信息
func (s *DeliveryService) ScheduleShipment(recordID uint, trackingLink string, expectedDate *time.Time) (*models.LogisticRecord, error) {
	record, detail, err := s.deliveryRecord(recordID)
	if err != nil {
		return nil, err
	}

	detail.TrackingLink = strings.TrimSpace(trackingLink)
	detail.ExpectedDeliveryDate = expectedDate
	if err := s.detailRepo.Save(detail); err != nil {
		return nil, wrapStorage(err)
	}
	return s.reload(record.ID)
}

// ConfirmDeliveryInput 创作者确认收货信息输入
type ConfirmDeliveryInput struct {
	RecordID    uint
	Address     string
	PhoneNumber string
	Remarks     string
}

// ConfirmDetail 创作者确认收货地址与联系方式
// 确认位 false→true 只发生一次，重复调用安全
func (s *DeliveryService) ConfirmDetail(input ConfirmDeliveryInput) (*models.LogisticRecord, error) {
	record, detail, err := s.deliveryRecord(input.RecordID)
	if err != nil {
		return nil, err
	}

	detail.Address = strings.TrimSpace(input.Address)
	detail.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	detail.Remarks = strings.TrimSpace(input.Remarks)
	detail.IsConfirmed = true
	if err := s.detailRepo.Save(detail); err != nil {
		return nil, wrapStorage(err)
	}
	return s.reload(record.ID)
}

func (s *DeliveryService) deliveryRecord(recordID uint) (*models.LogisticRecord, *models.DeliveryDetail, error) {
	record, err := s.logisticRepo.GetByID(recordID)
	if err != nil {
		return nil, nil, wrapStorage(err)
	}
	if record == nil {
		return nil, nil, ErrRecordNotFound
	}
	if record.Kind != constants.LogisticKindDelivery {
		return nil, nil, ErrKindMismatch
	}
	detail, err := s.detailRepo.GetByRecordID(record.ID)
	if err != nil {
		return nil, nil, wrapStorage(err)
	}
	if detail == nil {
		detail = &models.DeliveryDetail{RecordID: record.ID}
		if err := s.detailRepo.Save(detail); err != nil {
			return nil, nil, wrapStorage(err)
		}
	}
	return record, detail, nil
}

func (s *DeliveryService) reload(recordID uint) (*models.LogisticRecord, error) {
	record, err := s.logisticRepo.GetByID(recordID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	return record, nil
}
