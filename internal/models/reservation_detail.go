package models

import (
	"time"
)

// ReservationDetail 预约详情表（与 reservation 类型记录一对一）
type ReservationDetail struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	RecordID       uint      `gorm:"uniqueIndex;not null" json:"record_id"`
	Outlet         string    `gorm:"type:varchar(300)" json:"outlet"`
	CreatorRemarks string    `gorm:"type:varchar(500)" json:"creator_remarks"`
	ClientRemarks  string    `gorm:"type:varchar(500)" json:"client_remarks,omitempty"`
	PICName        string    `gorm:"type:varchar(100)" json:"pic_name,omitempty"`
	PICContact     string    `gorm:"type:varchar(100)" json:"pic_contact,omitempty"`
	PromoCode      string    `gorm:"type:varchar(100)" json:"promo_code,omitempty"`
	Budget         *Money    `gorm:"type:decimal(20,2)" json:"budget,omitempty"`
	IsConfirmed    bool      `gorm:"not null;default:false" json:"is_confirmed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName 指定表名
func (ReservationDetail) TableName() string {
	return "reservation_details"
}
