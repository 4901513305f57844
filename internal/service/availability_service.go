package service

import (
	"context"
	"fmt"
	"time"

	"github.com/crealink-next/internal/cache"
	"github.com/crealink-next/internal/constants"
	"github.com/crealink-next/internal/logger"
	"github.com/crealink-next/internal/models"
	"github.com/crealink-next/internal/repository"
)

const availabilityCacheTTL = 2 * time.Minute

// SlotAttendee 占用某时段的创作者
type SlotAttendee struct {
	CreatorID  uint   `json:"creator_id"`
	Name       string `json:"name"`
	Status     string `json:"status"`       // proposed / selected
	SlotID     uint   `json:"current_slot"` // 该创作者占用的时段 ID
	RecordID   uint   `json:"record_id"`
	RecordKind string `json:"record_kind,omitempty"`
}

// SlotAvailability 单个可预约窗口及其占用情况
type SlotAvailability struct {
	StartsAt  time.Time      `json:"starts_at"`
	EndsAt    time.Time      `json:"ends_at"`
	FullDay   bool           `json:"full_day"`
	Attendees []SlotAttendee `json:"attendees"`
	Remaining int            `json:"remaining"` // 剩余容量；allow_multiple_bookings 时恒为 -1（不限）
}

// DayAvailability 某日的可预约情况
type DayAvailability struct {
	Date      string             `json:"date"` // YYYY-MM-DD
	Available bool               `json:"available"`
	Slots     []SlotAvailability `json:"slots"`
}

// ReservationConfigView 预约配置视图
type ReservationConfigView struct {
	Mode                  string                    `json:"mode"`
	AllowMultipleBookings bool                      `json:"allow_multiple_bookings"`
	IsLocked              bool                      `json:"is_locked"`
	Locations             []string                  `json:"locations"`
	AvailabilityRules     []models.AvailabilityRule `json:"availability_rules"`
}

// AvailabilityService 档期目录服务
// 纯派生读路径：把配置规则与各记录的时段按精确区间连接
type AvailabilityService struct {
	configRepo   repository.ReservationConfigRepository
	slotRepo     repository.SlotRepository
	campaignRepo repository.CampaignRepository
}

// NewAvailabilityService 创建档期目录服务
func NewAvailabilityService(configRepo repository.ReservationConfigRepository, slotRepo repository.SlotRepository, campaignRepo repository.CampaignRepository) *AvailabilityService {
	return &AvailabilityService{
		configRepo:   configRepo,
		slotRepo:     slotRepo,
		campaignRepo: campaignRepo,
	}
}

// ListAvailability 列出活动在目标月份的每日可预约情况
func (s *AvailabilityService) ListAvailability(ctx context.Context, campaignID uint, month time.Time) ([]DayAvailability, error) {
	cacheKey := availabilityCacheKey(campaignID, month)
	var cached []DayAvailability
	if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	config, err := s.configRepo.GetByCampaignID(campaignID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if config == nil {
		return nil, ErrConfigMissing
	}

	slots, err := s.slotRepo.ListByCampaign(campaignID, []string{constants.SlotStatusProposed, constants.SlotStatusSelected})
	if err != nil {
		return nil, wrapStorage(err)
	}
	creators, err := s.creatorNames(slots)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	byDay := make(map[string][]SlotAvailability)
	order := make([]string, 0)
	for _, rule := range config.Rules {
		if rule.Date.Before(monthStart) || !rule.Date.Before(monthEnd) {
			continue
		}
		attendees := make([]SlotAttendee, 0)
		selectedCount := 0
		for i := range slots {
			slot := &slots[i]
			if !slot.SameInterval(rule.StartsAt, rule.EndsAt, rule.FullDay) {
				continue
			}
			if slot.Status == constants.SlotStatusSelected {
				selectedCount++
			}
			attendees = append(attendees, SlotAttendee{
				CreatorID: slot.CreatorID,
				Name:      creators[slot.CreatorID],
				Status:    slot.Status,
				SlotID:    slot.ID,
				RecordID:  slot.RecordID,
			})
		}

		remaining := 1 - selectedCount
		if config.AllowMultipleBookings {
			remaining = -1
		} else if remaining < 0 {
			remaining = 0
		}

		day := rule.Date.Format("2006-01-02")
		if _, seen := byDay[day]; !seen {
			order = append(order, day)
		}
		byDay[day] = append(byDay[day], SlotAvailability{
			StartsAt:  rule.StartsAt,
			EndsAt:    rule.EndsAt,
			FullDay:   rule.FullDay,
			Attendees: attendees,
			Remaining: remaining,
		})
	}

	days := make([]DayAvailability, 0, len(order))
	for _, day := range order {
		daySlots := byDay[day]
		available := false
		for _, slot := range daySlots {
			if slot.Remaining != 0 {
				available = true
				break
			}
		}
		days = append(days, DayAvailability{
			Date:      day,
			Available: available,
			Slots:     daySlots,
		})
	}

	if err := cache.SetJSON(ctx, cacheKey, days, availabilityCacheTTL); err != nil {
		logger.Debugw("availability_cache_set_failed", "campaign_id", campaignID, "error", err)
	}
	return days, nil
}

// GetReservationConfig 返回活动的预约排期配置视图
func (s *AvailabilityService) GetReservationConfig(campaignID uint) (*ReservationConfigView, error) {
	config, err := s.configRepo.GetByCampaignID(campaignID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if config == nil {
		return nil, ErrConfigMissing
	}
	total, err := s.configRepo.CountRules(campaignID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	locations := []string(config.Locations)
	if locations == nil {
		locations = []string{}
	}
	return &ReservationConfigView{
		Mode:                  config.Mode,
		AllowMultipleBookings: config.AllowMultipleBookings,
		IsLocked:              total == 1,
		Locations:             locations,
		AvailabilityRules:     config.Rules,
	}, nil
}

// InvalidateAvailability 失效活动的档期缓存（时段变更后调用）
func (s *AvailabilityService) InvalidateAvailability(ctx context.Context, campaignID uint) {
	if err := cache.DeleteByPrefix(ctx, fmt.Sprintf("availability:%d:", campaignID)); err != nil {
		logger.Debugw("availability_cache_invalidate_failed", "campaign_id", campaignID, "error", err)
	}
}

func (s *AvailabilityService) creatorNames(slots []models.Slot) (map[uint]string, error) {
	ids := make([]uint, 0, len(slots))
	seen := make(map[uint]bool)
	for _, slot := range slots {
		if seen[slot.CreatorID] {
			continue
		}
		seen[slot.CreatorID] = true
		ids = append(ids, slot.CreatorID)
	}
	creators, err := s.campaignRepo.ListCreators(ids)
	if err != nil {
		return nil, wrapStorage(err)
	}
	names := make(map[uint]string, len(creators))
	for _, creator := range creators {
		names[creator.ID] = creator.Name
	}
	return names, nil
}

func availabilityCacheKey(campaignID uint, month time.Time) string {
	return fmt.Sprintf("availability:%d:%s", campaignID, month.Format("2006-01"))
}
