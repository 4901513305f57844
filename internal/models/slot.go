package models

import (
	"time"
)

// Slot 预约候选时段表
// 被放弃的时段保留为 rejected，用于留痕审计
type Slot struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	RecordID   uint      `gorm:"index;not null" json:"record_id"`
	CampaignID uint      `gorm:"index;not null" json:"campaign_id"`
	CreatorID  uint      `gorm:"index;not null" json:"creator_id"`
	StartsAt   time.Time `gorm:"index;not null" json:"starts_at"`
	EndsAt     time.Time `gorm:"not null" json:"ends_at"`
	FullDay    bool      `gorm:"not null;default:false" json:"full_day"`
	Status     string    `gorm:"index;not null" json:"status"` // proposed / selected / rejected
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Slot) TableName() string {
	return "reservation_slots"
}

// SameInterval 判断两个时段是否为同一区间
func (s Slot) SameInterval(startsAt, endsAt time.Time, fullDay bool) bool {
	if s.FullDay != fullDay {
		return false
	}
	return s.StartsAt.Equal(startsAt) && s.EndsAt.Equal(endsAt)
}
