package service

import (
	"time"

	"github.com/crealink-next/internal/models"
	"github.com/crealink-next/internal/repository"

	"gorm.io/gorm"
)

// Interval 候选时间区间
// 整日预约使用显式 FullDay 标记，不参与重叠判定
type Interval struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	FullDay  bool      `json:"full_day"`
}

// Valid 校验区间合法性
func (i Interval) Valid() bool {
	if i.StartsAt.IsZero() {
		return false
	}
	if i.FullDay {
		return true
	}
	return i.EndsAt.After(i.StartsAt)
}

// Overlaps 半开区间重叠判定
func (i Interval) Overlaps(other Interval) bool {
	if i.FullDay || other.FullDay {
		return false
	}
	return i.StartsAt.Before(other.EndsAt) && i.EndsAt.After(other.StartsAt)
}

// matchesRule 判断候选区间与配置时段是否完全一致
// 整日时段按日期比对，普通时段要求起止时刻相等
func (i Interval) matchesRule(rule models.AvailabilityRule) bool {
	if i.FullDay != rule.FullDay {
		return false
	}
	if i.FullDay {
		y1, m1, d1 := i.StartsAt.Date()
		y2, m2, d2 := rule.Date.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	}
	return i.StartsAt.Equal(rule.StartsAt) && i.EndsAt.Equal(rule.EndsAt)
}

// SameDay 判断两个区间是否同日
func (i Interval) SameDay(other Interval) bool {
	y1, m1, d1 := i.StartsAt.Date()
	y2, m2, d2 := other.StartsAt.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ConflictDetector 时段冲突检测器
// 所有时段写入路径共用同一套冲突判定，避免各调用点各自为政
type ConflictDetector struct {
	slotRepo   repository.SlotRepository
	configRepo repository.ReservationConfigRepository
}

// NewConflictDetector 创建冲突检测器
func NewConflictDetector(slotRepo repository.SlotRepository, configRepo repository.ReservationConfigRepository) *ConflictDetector {
	return &ConflictDetector{
		slotRepo:   slotRepo,
		configRepo: configRepo,
	}
}

// WithTx 绑定事务，保证检测与提交在同一事务内
func (d *ConflictDetector) WithTx(tx *gorm.DB) *ConflictDetector {
	if tx == nil {
		return d
	}
	return &ConflictDetector{
		slotRepo:   d.slotRepo.WithTx(tx),
		configRepo: d.configRepo.WithTx(tx),
	}
}

// FindConflict 返回与候选区间冲突的已确认时段，无冲突返回 nil
// 整日区间不参与冲突判定；allow_multiple_bookings 的活动直接放行
// 配置行带 FOR UPDATE 读取：同一活动的时段提交在事务内串行，
// 避免两笔并发提交同时读到零冲突后各自落库
func (d *ConflictDetector) FindConflict(campaignID uint, candidate Interval, excludeCreatorID uint) (*models.Slot, error) {
	if candidate.FullDay {
		return nil, nil
	}
	config, err := d.configRepo.LockByCampaignID(campaignID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if config != nil && config.AllowMultipleBookings {
		return nil, nil
	}

	selected, err := d.slotRepo.ListSelectedOnDate(campaignID, candidate.StartsAt, excludeCreatorID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	for i := range selected {
		existing := Interval{StartsAt: selected[i].StartsAt, EndsAt: selected[i].EndsAt, FullDay: selected[i].FullDay}
		if candidate.Overlaps(existing) {
			return &selected[i], nil
		}
	}
	return nil, nil
}

// HasConflict 冲突判定的布尔便捷入口
func (d *ConflictDetector) HasConflict(campaignID uint, candidate Interval, excludeCreatorID uint) (bool, error) {
	slot, err := d.FindConflict(campaignID, candidate, excludeCreatorID)
	if err != nil {
		return false, err
	}
	return slot != nil, nil
}
