package models

import (
	"time"
)

// ReservationConfig 活动级预约排期配置（由管理端配置，引擎只读）
type ReservationConfig struct {
	ID                    uint        `gorm:"primarykey" json:"id"`
	CampaignID            uint        `gorm:"uniqueIndex;not null" json:"campaign_id"`
	Mode                  string      `gorm:"not null" json:"mode"` // manual / auto_schedule
	AllowMultipleBookings bool        `gorm:"not null;default:false" json:"allow_multiple_bookings"`
	Locations             StringArray `gorm:"type:text" json:"locations"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`

	Rules []AvailabilityRule `gorm:"foreignKey:ConfigID" json:"availability_rules,omitempty"`
}

// TableName 指定表名
func (ReservationConfig) TableName() string {
	return "reservation_configs"
}

// AvailabilityRule 可预约时段规则（某日的一个时间窗口）
type AvailabilityRule struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ConfigID  uint      `gorm:"index;not null" json:"config_id"`
	Date      time.Time `gorm:"index;not null" json:"date"` // 当日零点
	StartsAt  time.Time `gorm:"not null" json:"starts_at"`
	EndsAt    time.Time `gorm:"not null" json:"ends_at"`
	FullDay   bool      `gorm:"not null;default:false" json:"full_day"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (AvailabilityRule) TableName() string {
	return "availability_rules"
}
