package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/crealink-next/internal/constants"
	"github.com/crealink-next/internal/models"
	"github.com/crealink-next/internal/repository"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type logisticsTestEnv struct {
	db           *gorm.DB
	logisticRepo repository.LogisticRepository
	slotRepo     repository.SlotRepository
	deliveryRepo repository.DeliveryDetailRepository
	detailRepo   repository.ReservationDetailRepository
	campaignRepo repository.CampaignRepository
	configRepo   repository.ReservationConfigRepository
}

func newLogisticsTestEnv(t *testing.T) *logisticsTestEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:logistics_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Campaign{},
		&models.Creator{},
		&models.LogisticRecord{},
		&models.DeliveryDetail{},
		&models.DeliveryItem{},
		&models.ReservationDetail{},
		&models.Slot{},
		&models.Issue{},
		&models.ReservationConfig{},
		&models.AvailabilityRule{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return &logisticsTestEnv{
		db:           db,
		logisticRepo: repository.NewLogisticRepository(db),
		slotRepo:     repository.NewSlotRepository(db),
		deliveryRepo: repository.NewDeliveryDetailRepository(db),
		detailRepo:   repository.NewReservationDetailRepository(db),
		campaignRepo: repository.NewCampaignRepository(db),
		configRepo:   repository.NewReservationConfigRepository(db),
	}
}

func (e *logisticsTestEnv) statusService() *StatusService {
	return NewStatusService(e.db, e.logisticRepo, e.slotRepo, e.campaignRepo, nil)
}

func (e *logisticsTestEnv) reservationService() *ReservationService {
	detector := NewConflictDetector(e.slotRepo, e.configRepo)
	return NewReservationService(e.db, e.logisticRepo, e.slotRepo, e.detailRepo, e.configRepo, detector, nil)
}

func (e *logisticsTestEnv) deliveryService() *DeliveryService {
	return NewDeliveryService(e.db, e.logisticRepo, e.deliveryRepo)
}

func (e *logisticsTestEnv) seedCampaign(t *testing.T, name string) *models.Campaign {
	t.Helper()
	campaign := &models.Campaign{Name: name, Brand: "test-brand"}
	if err := e.db.Create(campaign).Error; err != nil {
		t.Fatalf("seed campaign failed: %v", err)
	}
	return campaign
}

func (e *logisticsTestEnv) seedCreator(t *testing.T, name string) *models.Creator {
	t.Helper()
	creator := &models.Creator{Name: name}
	if err := e.db.Create(creator).Error; err != nil {
		t.Fatalf("seed creator failed: %v", err)
	}
	return creator
}

func (e *logisticsTestEnv) seedRecord(t *testing.T, campaignID, creatorID uint, kind, status string) *models.LogisticRecord {
	t.Helper()
	record := &models.LogisticRecord{
		CampaignID: campaignID,
		CreatorID:  creatorID,
		Kind:       kind,
		Status:     status,
	}
	if kind == constants.LogisticKindDelivery {
		record.DeliveryDetail = &models.DeliveryDetail{}
	} else {
		record.ReservationDetail = &models.ReservationDetail{}
	}
	if err := e.db.Create(record).Error; err != nil {
		t.Fatalf("seed logistic record failed: %v", err)
	}
	return record
}

func (e *logisticsTestEnv) seedConfig(t *testing.T, campaignID uint, mode string, allowMultiple bool, rules ...models.AvailabilityRule) *models.ReservationConfig {
	t.Helper()
	config := &models.ReservationConfig{
		CampaignID:            campaignID,
		Mode:                  mode,
		AllowMultipleBookings: allowMultiple,
		Rules:                 rules,
	}
	if err := e.db.Create(config).Error; err != nil {
		t.Fatalf("seed reservation config failed: %v", err)
	}
	return config
}

func TestCreateRecord_InitialStatusByKind(t *testing.T) {
	env := newLogisticsTestEnv(t)
	svc := env.statusService()
	campaign := env.seedCampaign(t, "spring-sampling")
	deliveryCreator := env.seedCreator(t, "creator-a")
	reservationCreator := env.seedCreator(t, "creator-b")

	delivery, err := svc.CreateRecord(campaign.ID, deliveryCreator.ID, constants.LogisticKindDelivery)
	if err != nil {
		t.Fatalf("create delivery record failed: %v", err)
	}
	if delivery.Status != constants.LogisticStatusPendingAssignment {
		t.Fatalf("expected status %s, got %s", constants.LogisticStatusPendingAssignment, delivery.Status)
	}
	if delivery.DeliveryDetail == nil {
		t.Fatal("expected delivery detail to be created with the record")
	}

	reservation, err := svc.CreateRecord(campaign.ID, reservationCreator.ID, constants.LogisticKindReservation)
	if err != nil {
		t.Fatalf("create reservation record failed: %v", err)
	}
	if reservation.Status != constants.LogisticStatusNotStarted {
		t.Fatalf("expected status %s, got %s", constants.LogisticStatusNotStarted, reservation.Status)
	}
	if reservation.ReservationDetail == nil {
		t.Fatal("expected reservation detail to be created with the record")
	}
}

func TestCreateRecord_DuplicatePairRejected(t *testing.T) {
	env := newLogisticsTestEnv(t)
	svc := env.statusService()
	campaign := env.seedCampaign(t, "spring-sampling")
	creator := env.seedCreator(t, "creator-a")

	if _, err := svc.CreateRecord(campaign.ID, creator.ID, constants.LogisticKindDelivery); err != nil {
		t.Fatalf("create first record failed: %v", err)
	}
	_, err := svc.CreateRecord(campaign.ID, creator.ID, constants.LogisticKindReservation)
	if !errors.Is(err, ErrRecordExists) {
		t.Fatalf("expected ErrRecordExists, got %v", err)
	}
}

func TestCreateRecord_UnknownCampaignOrKind(t *testing.T) {
	env := newLogisticsTestEnv(t)
	svc := env.statusService()
	creator := env.seedCreator(t, "creator-a")

	if _, err := svc.CreateRecord(9999, creator.ID, constants.LogisticKindDelivery); !errors.Is(err, ErrCampaignNotFound) {
		t.Fatalf("expected ErrCampaignNotFound, got %v", err)
	}
	campaign := env.seedCampaign(t, "spring-sampling")
	if _, err := svc.CreateRecord(campaign.ID, creator.ID, "pickup"); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch for unknown kind, got %v", err)
	}
}

func TestTransition_DeliveryHappyPath(t *testing.T) {
	env := newLogisticsTestEnv(t)
	svc := env.statusService()
	campaign := env.seedCampaign(t, "spring-sampling")
	creator := env.seedCreator(t, "creator-a")
	record := env.seedRecord(t, campaign.ID, creator.ID, constants.LogisticKindDelivery, constants.LogisticStatusPendingAssignment)
	admin := Actor{ID: 1, Role: constants.ActorRoleAdmin}

	record, err := svc.Transition(record.ID, admin, constants.LogisticStatusScheduled)
	if err != nil {
		t.Fatalf("transition to scheduled failed: %v", err)
	}
	if record.Status != constants.LogisticStatusScheduled {
		t.Fatalf("expected scheduled, got %s", record.Status)
	}

	record, err = svc.Transition(record.ID, admin, constants.LogisticStatusShipped)
	if err != nil {
		t.Fatalf("transition to shipped failed: %v", err)
	}
	if record.ShippedAt == nil {
		t.Fatal("expected shipped_at to be stamped")
	}

	record, err = svc.Transition(record.ID, admin, constants.LogisticStatusDelivered)
	if err != nil {
		t.Fatalf("transition to delivered failed: %v", err)
	}
	if record.DeliveredAt == nil || record.CompletedAt == nil {
		t.Fatal("expected delivered_at and completed_at to be stamped")
	}
}

func TestTransition_InvalidLeavesRecordUnchanged(t *testing.T) {
	env := newLogisticsTestEnv(t)
	svc := env.statusService()
	campaign := env.seedCampaign(t, "spring-sampling")
	creator := env.seedCreator(t, "creator-a")
	record := env.seedRecord(t, campaign.ID, creator.ID, constants.LogisticKindDelivery, constants.LogisticStatusPendingAssignment)

	_, err := svc.Transition(record.ID, Actor{ID: 1, Role: constants.ActorRoleAdmin}, constants.LogisticStatusDelivered)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	var transitionErr *InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected InvalidTransitionError, got %T", err)
	}
	if transitionErr.Current != constants.LogisticStatusPendingAssignment || transitionErr.Attempted != constants.LogisticStatusDelivered {
		t.Fatalf("unexpected transition error payload: %+v", transitionErr)
	}

	var reloaded models.LogisticRecord
	if err := env.db.First(&reloaded, record.ID).Error; err != nil {
		t.Fatalf("reload record failed: %v", err)
	}
	if reloaded.Status != constants.LogisticStatusPendingAssignment {
		t.Fatalf("expected status unchanged, got %s", reloaded.Status)
	}
}

func TestReportIssue_DeliveryOnlyAfterShipped(t *testing.T) {
	env := newLogisticsTestEnv(t)
	svc := env.statusService()
	campaign := env.seedCampaign(t, "spring-sampling")
	creator := env.seedCreator(t, "creator-a")
	record := env.seedRecord(t, campaign.ID, creator.ID, constants.LogisticKindDelivery, constants.LogisticStatusScheduled)

	if _, err := svc.ReportIssue(record.ID, "package damaged"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition before shipped, got %v", err)
	}
	if _, err := svc.ReportIssue(record.ID, "  "); !errors.Is(err, ErrEmptyIssueReason) {
		t.Fatalf("expected ErrEmptyIssueReason, got %v", err)
	}

	if err := env.db.Model(&models.LogisticRecord{}).Where("id = ?", record.ID).
		Update("status", constants.LogisticStatusShipped).Error; err != nil {
		t.Fatalf("prime shipped status failed: %v", err)
	}
	reported, err := svc.ReportIssue(record.ID, "package damaged")
	if err != nil {
		t.Fatalf("report issue failed: %v", err)
	}
	if reported.Status != constants.LogisticStatusIssueReported {
		t.Fatalf("expected issue_reported, got %s", reported.Status)
	}
	if len(reported.Issues) != 1 || reported.Issues[0].Reason != "package damaged" {
		t.Fatalf("expected one issue with reason, got %+v", reported.Issues)
	}
}

func TestRetryIssue_DeliveryReturnsToScheduled(t *testing.T) {
	env := newLogisticsTestEnv(t)
	svc := env.statusService()
	campaign := env.seedCampaign(t, "spring-sampling")
	creator := env.seedCreator(t, "creator-a")
	record := env.seedRecord(t, campaign.ID, creator.ID, constants.LogisticKindDelivery, constants.LogisticStatusShipped)

	if _, err := svc.RetryIssue(record.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition without active issue, got %v", err)
	}

	if _, err := svc.ReportIssue(record.ID, "courier lost the parcel"); err != nil {
		t.Fatalf("report issue failed: %v", err)
	}
	retried, err := svc.RetryIssue(record.ID)
	if err != nil {
		t.Fatalf("retry issue failed: %v", err)
	}
	if retried.Status != constants.LogisticStatusScheduled {
		t.Fatalf("expected scheduled after retry, got %s", retried.Status)
	}
	if len(retried.Issues) != 1 {
		t.Fatalf("expected issue history preserved, got %d issues", len(retried.Issues))
	}
}

func TestRetryIssue_ReservationClearsSlots(t *testing.T) {
	env := newLogisticsTestEnv(t)
	svc := env.statusService()
	campaign := env.seedCampaign(t, "store-visit")
	creator := env.seedCreator(t, "creator-a")
	record := env.seedRecord(t, campaign.ID, creator.ID, constants.LogisticKindReservation, constants.LogisticStatusScheduled)

	starts := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	slot := models.Slot{
		RecordID:   record.ID,
		CampaignID: campaign.ID,
		CreatorID:  creator.ID,
		StartsAt:   starts,
		EndsAt:     starts.Add(2 * time.Hour),
		Status:     constants.SlotStatusSelected,
	}
	if err := env.db.Create(&slot).Error; err != nil {
		t.Fatalf("seed slot failed: %v", err)
	}

	if _, err := svc.ReportIssue(record.ID, "store closed for renovation"); err != nil {
		t.Fatalf("report issue failed: %v", err)
	}
	retried, err := svc.RetryIssue(record.ID)
	if err != nil {
		t.Fatalf("retry issue failed: %v", err)
	}
	if retried.Status != constants.LogisticStatusPendingAssignment {
		t.Fatalf("expected pending_assignment after retry, got %s", retried.Status)
	}

	var reloadedSlot models.Slot
	if err := env.db.First(&reloadedSlot, slot.ID).Error; err != nil {
		t.Fatalf("reload slot failed: %v", err)
	}
	if reloadedSlot.Status != constants.SlotStatusRejected {
		t.Fatalf("expected slot rejected after retry, got %s", reloadedSlot.Status)
	}
}

func TestResolveIssue_TerminalStatusByKind(t *testing.T) {
	env := newLogisticsTestEnv(t)
	svc := env.statusService()
	campaign := env.seedCampaign(t, "spring-sampling")
	deliveryCreator := env.seedCreator(t, "creator-a")
	reservationCreator := env.seedCreator(t, "creator-b")

	delivery := env.seedRecord(t, campaign.ID, deliveryCreator.ID, constants.LogisticKindDelivery, constants.LogisticStatusIssueReported)
	resolved, err := svc.ResolveIssue(delivery.ID)
	if err != nil {
		t.Fatalf("resolve delivery issue failed: %v", err)
	}
	if resolved.Status != constants.LogisticStatusDelivered {
		t.Fatalf("expected delivered, got %s", resolved.Status)
	}
	if resolved.DeliveredAt == nil || resolved.CompletedAt == nil {
		t.Fatal("expected terminal timestamps after resolve")
	}

	reservation := env.seedRecord(t, campaign.ID, reservationCreator.ID, constants.LogisticKindReservation, constants.LogisticStatusIssueReported)
	resolved, err = svc.ResolveIssue(reservation.ID)
	if err != nil {
		t.Fatalf("resolve reservation issue failed: %v", err)
	}
	if resolved.Status != constants.LogisticStatusCompleted {
		t.Fatalf("expected completed, got %s", resolved.Status)
	}
	if resolved.CompletedAt == nil {
		t.Fatal("expected completed_at after resolve")
	}
}
