package service

import (
	"errors"
	"testing"
	"time"

	"github.com/crealink-next/internal/constants"
)

func TestAssignItems_WholesaleReplace(t *testing.T) {
	env := newLogisticsTestEnv(t)
	svc := env.deliveryService()
	campaign := env.seedCampaign(t, "spring-sampling")
	creator := env.seedCreator(t, "creator-a")
	record := env.seedRecord(t, campaign.ID, creator.ID, constants.LogisticKindDelivery, constants.LogisticStatusPendingAssignment)

	updated, err := svc.AssignItems(record.ID, []AssignItemInput{
		{ProductID: 101, Quantity: 2},
		{ProductID: 102, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("assign items failed: %v", err)
	}
	if updated.DeliveryDetail == nil || len(updated.DeliveryDetail.Items) != 2 {
		t.Fatalf("expected 2 items, got %+v", updated.DeliveryDetail)
	}
	if updated.Status != constants.LogisticStatusPendingAssignment {
		t.Fatalf("expected assignment not to change status, got %s", updated.Status)
	}

	// 整体替换：旧行消失，新列表生效
	updated, err = svc.AssignItems(record.ID, []AssignItemInput{
		{ProductID: 103, Quantity: 5},
	})
	if err != nil {
		t.Fatalf("replace items failed: %v", err)
	}
	if len(updated.DeliveryDetail.Items) != 1 {
		t.Fatalf("expected replacement to drop old items, got %d", len(updated.DeliveryDetail.Items))
	}
	if updated.DeliveryDetail.Items[0].ProductID != 103 {
		t.Fatalf("expected product 103, got %d", updated.DeliveryDetail.Items[0].ProductID)
	}
}

func TestAssignItems_DropsNonPositiveQuantities(t *testing.T) {
	env := newLogisticsTestEnv(t)
	svc := env.deliveryService()
	campaign := env.seedCampaign(t, "spring-sampling")
	creator := env.seedCreator(t, "creator-a")
	record := env.seedRecord(t, campaign.ID, creator.ID, constants.LogisticKindDelivery, constants.LogisticStatusPendingAssignment)

	updated, err := svc.AssignItems(record.ID, []AssignItemInput{
		{ProductID: 101, Quantity: 0},
		{ProductID: 102, Quantity: -3},
		{ProductID: 103, Quantity: 4},
		{ProductID: 0, Quantity: 2},
	})
	if err != nil {
		t.Fatalf("assign items failed: %v", err)
	}
	if len(updated.DeliveryDetail.Items) != 1 {
		t.Fatalf("expected only the valid row to survive, got %d", len(updated.DeliveryDetail.Items))
	}
	if updated.DeliveryDetail.Items[0].ProductID != 103 || updated.DeliveryDetail.Items[0].Quantity != 4 {
		t.Fatalf("unexpected surviving item: %+v", updated.DeliveryDetail.Items[0])
	}
}

func TestAssignItems_KindMismatch(t *testing.T) {
	env := newLogisticsTestEnv(t)
	svc := env.deliveryService()
	campaign := env.seedCampaign(t, "store-visit")
	creator := env.seedCreator(t, "creator-a")
	record := env.seedRecord(t, campaign.ID, creator.ID, constants.LogisticKindReservation, constants.LogisticStatusNotStarted)

	if _, err := svc.AssignItems(record.ID, []AssignItemInput{{ProductID: 101, Quantity: 1}}); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
	if _, err := svc.AssignItems(9999, nil); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestScheduleShipment_DecoupledFromStatus(t *testing.T) {
	env := newLogisticsTestEnv(t)
	svc := env.deliveryService()
	campaign := env.seedCampaign(t, "spring-sampling")
	creator := env.seedCreator(t, "creator-a")
	record := env.seedRecord(t, campaign.ID, creator.ID, constants.LogisticKindDelivery, constants.LogisticStatusScheduled)

	expected := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	updated, err := svc.ScheduleShipment(record.ID, "  https://track.example.com/abc  ", &expected)
	if err != nil {
		t.Fatalf("schedule shipment failed: %v", err)
	}
	if updated.DeliveryDetail.TrackingLink != "https://track.example.com/abc" {
		t.Fatalf("expected trimmed tracking link, got %q", updated.DeliveryDetail.TrackingLink)
	}
	if updated.DeliveryDetail.ExpectedDeliveryDate == nil || !updated.DeliveryDetail.ExpectedDeliveryDate.Equal(expected) {
		t.Fatalf("expected delivery date saved, got %v", updated.DeliveryDetail.ExpectedDeliveryDate)
	}
	if updated.Status != constants.LogisticStatusScheduled {
		t.Fatalf("expected shipment fields not to move status, got %s", updated.Status)
	}

	// 发货后仍可修正物流信息
	updated, err = svc.ScheduleShipment(record.ID, "https://track.example.com/corrected", nil)
	if err != nil {
		t.Fatalf("correct shipment failed: %v", err)
	}
	if updated.DeliveryDetail.TrackingLink != "https://track.example.com/corrected" {
		t.Fatalf("expected corrected link, got %q", updated.DeliveryDetail.TrackingLink)
	}
	if updated.DeliveryDetail.ExpectedDeliveryDate != nil {
		t.Fatal("expected cleared delivery date")
	}
}

func TestConfirmDetail_DeliverySetsConfirmedOnce(t *testing.T) {
	env := newLogisticsTestEnv(t)
	svc := env.deliveryService()
	campaign := env.seedCampaign(t, "spring-sampling")
	creator := env.seedCreator(t, "creator-a")
	record := env.seedRecord(t, campaign.ID, creator.ID, constants.LogisticKindDelivery, constants.LogisticStatusPendingAssignment)

	updated, err := svc.ConfirmDetail(ConfirmDeliveryInput{
		RecordID:    record.ID,
		Address:     " 88 Tianmushan Rd, Hangzhou ",
		PhoneNumber: "+86 139 0000 0000",
		Remarks:     "leave at the front desk",
	})
	if err != nil {
		t.Fatalf("confirm delivery detail failed: %v", err)
	}
	if !updated.DeliveryDetail.IsConfirmed {
		t.Fatal("expected detail confirmed")
	}
	if updated.DeliveryDetail.Address != "88 Tianmushan Rd, Hangzhou" {
		t.Fatalf("expected trimmed address, got %q", updated.DeliveryDetail.Address)
	}

	// 重复确认安全，可更新地址
	updated, err = svc.ConfirmDetail(ConfirmDeliveryInput{
		RecordID:    record.ID,
		Address:     "12 Nanjing W Rd, Shanghai",
		PhoneNumber: "+86 139 0000 0000",
	})
	if err != nil {
		t.Fatalf("repeat confirm failed: %v", err)
	}
	if !updated.DeliveryDetail.IsConfirmed || updated.DeliveryDetail.Address != "12 Nanjing W Rd, Shanghai" {
		t.Fatalf("expected confirmed with updated address, got %+v", updated.DeliveryDetail)
	}
}
