package models

import (
	"time"

	"gorm.io/gorm"
)

// LogisticRecord 物流记录表
// 每个（活动，创作者）组合一条，kind 创建后不可变更
type LogisticRecord struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CampaignID  uint           `gorm:"index:idx_logistic_campaign_creator,unique;not null" json:"campaign_id"`
	CreatorID   uint           `gorm:"index:idx_logistic_campaign_creator,unique;not null" json:"creator_id"`
	Kind        string         `gorm:"index;not null" json:"kind"`   // delivery / reservation
	Status      string         `gorm:"index;not null" json:"status"` // 状态机状态
	ShippedAt   *time.Time     `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	DeliveryDetail    *DeliveryDetail    `gorm:"foreignKey:RecordID" json:"delivery_detail,omitempty"`
	ReservationDetail *ReservationDetail `gorm:"foreignKey:RecordID" json:"reservation_detail,omitempty"`
	Slots             []Slot             `gorm:"foreignKey:RecordID" json:"slots,omitempty"`
	Issues            []Issue            `gorm:"foreignKey:RecordID" json:"issues,omitempty"`
	Creator           *Creator           `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}

// TableName 指定表名
func (LogisticRecord) TableName() string {
	return "logistic_records"
}

// ActiveIssue 返回当前未解决的异常（最近一条）
func (r *LogisticRecord) ActiveIssue() *Issue {
	if r == nil || len(r.Issues) == 0 {
		return nil
	}
	latest := &r.Issues[0]
	for i := range r.Issues {
		if r.Issues[i].CreatedAt.After(latest.CreatedAt) {
			latest = &r.Issues[i]
		}
	}
	return latest
}

// Issue 异常上报记录，只追加不删除
type Issue struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	RecordID  uint      `gorm:"index;not null" json:"record_id"`
	Reason    string    `gorm:"type:varchar(500);not null" json:"reason"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (Issue) TableName() string {
	return "logistic_issues"
}
