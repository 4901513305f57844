package models

import (
	"time"
)

// DeliveryDetail 配送详情表（与 delivery 类型记录一对一）
type DeliveryDetail struct {
	ID                   uint       `gorm:"primarykey" json:"id"`
	RecordID             uint       `gorm:"uniqueIndex;not null" json:"record_id"`
	Address              string     `gorm:"type:varchar(500)" json:"address"`
	PhoneNumber          string     `gorm:"type:varchar(50)" json:"phone_number"`
	Remarks              string     `gorm:"type:varchar(500)" json:"remarks"`
	TrackingLink         string     `gorm:"type:varchar(500)" json:"tracking_link,omitempty"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	IsConfirmed          bool       `gorm:"not null;default:false" json:"is_confirmed"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	Items []DeliveryItem `gorm:"foreignKey:DetailID" json:"items,omitempty"`
}

// TableName 指定表名
func (DeliveryDetail) TableName() string {
	return "delivery_details"
}

// DeliveryItem 配送商品项
type DeliveryItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	DetailID  uint      `gorm:"index;not null" json:"detail_id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (DeliveryItem) TableName() string {
	return "delivery_items"
}
