package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/crealink-next/internal/constants"
	"github.com/crealink-next/internal/models"
)

func (e *logisticsTestEnv) availabilityService() *AvailabilityService {
	return NewAvailabilityService(e.configRepo, e.slotRepo, e.campaignRepo)
}

func TestListAvailability_JoinsRulesWithSlots(t *testing.T) {
	env := newLogisticsTestEnv(t)
	svc := env.availabilityService()
	campaign := env.seedCampaign(t, "store-visit")
	creatorA := env.seedCreator(t, "creator-a")
	creatorB := env.seedCreator(t, "creator-b")
	recordA := env.seedRecord(t, campaign.ID, creatorA.ID, constants.LogisticKindReservation, constants.LogisticStatusPendingAssignment)
	recordB := env.seedRecord(t, campaign.ID, creatorB.ID, constants.LogisticKindReservation, constants.LogisticStatusScheduled)

	day10 := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	day11 := time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC)
	octDay := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	morning10 := day10.Add(10 * time.Hour)
	afternoon10 := day10.Add(14 * time.Hour)
	morning11 := day11.Add(10 * time.Hour)
	env.seedConfig(t, campaign.ID, constants.ReservationModeManual, false,
		models.AvailabilityRule{Date: day10, StartsAt: morning10, EndsAt: morning10.Add(2 * time.Hour)},
		models.AvailabilityRule{Date: day10, StartsAt: afternoon10, EndsAt: afternoon10.Add(3 * time.Hour)},
		models.AvailabilityRule{Date: day11, StartsAt: morning11, EndsAt: morning11.Add(2 * time.Hour)},
		models.AvailabilityRule{Date: octDay, StartsAt: octDay.Add(10 * time.Hour), EndsAt: octDay.Add(12 * time.Hour)},
	)

	// B 已锁定 10 日上午，A 提案了 11 日上午
	if err := env.db.Create(&models.Slot{
		RecordID: recordB.ID, CampaignID: campaign.ID, CreatorID: creatorB.ID,
		StartsAt: morning10, EndsAt: morning10.Add(2 * time.Hour), Status: constants.SlotStatusSelected,
	}).Error; err != nil {
		t.Fatalf("seed selected slot failed: %v", err)
	}
	if err := env.db.Create(&models.Slot{
		RecordID: recordA.ID, CampaignID: campaign.ID, CreatorID: creatorA.ID,
		StartsAt: morning11, EndsAt: morning11.Add(2 * time.Hour), Status: constants.SlotStatusProposed,
	}).Error; err != nil {
		t.Fatalf("seed proposed slot failed: %v", err)
	}

	days, err := svc.ListAvailability(context.Background(), campaign.ID, day10)
	if err != nil {
		t.Fatalf("list availability failed: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 days in September, got %d", len(days))
	}

	first := days[0]
	if first.Date != "2026-09-10" {
		t.Fatalf("expected 2026-09-10 first, got %s", first.Date)
	}
	if len(first.Slots) != 2 {
		t.Fatalf("expected 2 windows on day 10, got %d", len(first.Slots))
	}
	booked := first.Slots[0]
	if booked.Remaining != 0 {
		t.Fatalf("expected booked window to have remaining 0, got %d", booked.Remaining)
	}
	if len(booked.Attendees) != 1 || booked.Attendees[0].CreatorID != creatorB.ID || booked.Attendees[0].Name != "creator-b" {
		t.Fatalf("expected creator-b as attendee, got %+v", booked.Attendees)
	}
	free := first.Slots[1]
	if free.Remaining != 1 || len(free.Attendees) != 0 {
		t.Fatalf("expected free afternoon window, got %+v", free)
	}
	if !first.Available {
		t.Fatal("expected day 10 available via free window")
	}

	second := days[1]
	if second.Date != "2026-09-11" {
		t.Fatalf("expected 2026-09-11 second, got %s", second.Date)
	}
	proposed := second.Slots[0]
	// 提案不占容量，但要出现在出席名单里
	if proposed.Remaining != 1 {
		t.Fatalf("expected proposal not to consume capacity, got remaining %d", proposed.Remaining)
	}
	if len(proposed.Attendees) != 1 || proposed.Attendees[0].Status != constants.SlotStatusProposed {
		t.Fatalf("expected proposed attendee, got %+v", proposed.Attendees)
	}
}

func TestListAvailability_AllowMultipleBookingsUnlimited(t *testing.T) {
	env := newLogisticsTestEnv(t)
	svc := env.availabilityService()
	campaign := env.seedCampaign(t, "store-visit")
	creator := env.seedCreator(t, "creator-a")
	record := env.seedRecord(t, campaign.ID, creator.ID, constants.LogisticKindReservation, constants.LogisticStatusScheduled)

	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	start := day.Add(10 * time.Hour)
	env.seedConfig(t, campaign.ID, constants.ReservationModeManual, true,
		models.AvailabilityRule{Date: day, StartsAt: start, EndsAt: start.Add(2 * time.Hour)})

	if err := env.db.Create(&models.Slot{
		RecordID: record.ID, CampaignID: campaign.ID, CreatorID: creator.ID,
		StartsAt: start, EndsAt: start.Add(2 * time.Hour), Status: constants.SlotStatusSelected,
	}).Error; err != nil {
		t.Fatalf("seed selected slot failed: %v", err)
	}

	days, err := svc.ListAvailability(context.Background(), campaign.ID, day)
	if err != nil {
		t.Fatalf("list availability failed: %v", err)
	}
	if len(days) != 1 || len(days[0].Slots) != 1 {
		t.Fatalf("unexpected availability shape: %+v", days)
	}
	if days[0].Slots[0].Remaining != -1 {
		t.Fatalf("expected unlimited remaining, got %d", days[0].Slots[0].Remaining)
	}
	if !days[0].Available {
		t.Fatal("expected day available despite booking")
	}
}

func TestListAvailability_ConfigMissing(t *testing.T) {
	env := newLogisticsTestEnv(t)
	svc := env.availabilityService()
	campaign := env.seedCampaign(t, "store-visit")

	_, err := svc.ListAvailability(context.Background(), campaign.ID, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrConfigMissing) {
		t.Fatalf("expected ErrConfigMissing, got %v", err)
	}
}

func TestGetReservationConfig_LockedWithSingleRule(t *testing.T) {
	env := newLogisticsTestEnv(t)
	svc := env.availabilityService()
	campaign := env.seedCampaign(t, "store-visit")
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	start := day.Add(10 * time.Hour)
	config := env.seedConfig(t, campaign.ID, constants.ReservationModeAutoSchedule, false,
		models.AvailabilityRule{Date: day, StartsAt: start, EndsAt: start.Add(2 * time.Hour)})
	config.Locations = models.StringArray{"flagship store"}
	if err := env.db.Save(config).Error; err != nil {
		t.Fatalf("save config failed: %v", err)
	}

	view, err := svc.GetReservationConfig(campaign.ID)
	if err != nil {
		t.Fatalf("get reservation config failed: %v", err)
	}
	if !view.IsLocked {
		t.Fatal("expected single rule config to be locked")
	}
	if view.Mode != constants.ReservationModeAutoSchedule {
		t.Fatalf("expected auto_schedule mode, got %s", view.Mode)
	}
	if len(view.Locations) != 1 || view.Locations[0] != "flagship store" {
		t.Fatalf("unexpected locations: %+v", view.Locations)
	}
	if len(view.AvailabilityRules) != 1 {
		t.Fatalf("expected 1 rule in view, got %d", len(view.AvailabilityRules))
	}
}

func TestGetReservationConfig_LocationsNeverNil(t *testing.T) {
	env := newLogisticsTestEnv(t)
	svc := env.availabilityService()
	campaign := env.seedCampaign(t, "store-visit")
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	env.seedConfig(t, campaign.ID, constants.ReservationModeManual, false, manualRules(day)...)

	view, err := svc.GetReservationConfig(campaign.ID)
	if err != nil {
		t.Fatalf("get reservation config failed: %v", err)
	}
	if view.Locations == nil {
		t.Fatal("expected empty slice instead of nil locations")
	}
	if view.IsLocked {
		t.Fatal("expected multi rule config to stay unlocked")
	}
}
