package service

import (
	"testing"

	"github.com/crealink-next/internal/constants"
	"github.com/crealink-next/internal/models"
)

func record(kind, status string) models.LogisticRecord {
	return models.LogisticRecord{Kind: kind, Status: status}
}

func TestSummarize_EmptyCampaign(t *testing.T) {
	summary := Summarize(nil)
	if summary.Total != 0 || summary.PercentCompleted != 0 {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
}

func TestSummarize_LifecyclePositionsAlign(t *testing.T) {
	records := []models.LogisticRecord{
		record(constants.LogisticKindDelivery, constants.LogisticStatusPendingAssignment),
		record(constants.LogisticKindDelivery, constants.LogisticStatusScheduled),
		record(constants.LogisticKindDelivery, constants.LogisticStatusShipped),
		record(constants.LogisticKindDelivery, constants.LogisticStatusDelivered),
		record(constants.LogisticKindReservation, constants.LogisticStatusNotStarted),
		record(constants.LogisticKindReservation, constants.LogisticStatusPendingAssignment),
		record(constants.LogisticKindReservation, constants.LogisticStatusScheduled),
		record(constants.LogisticKindReservation, constants.LogisticStatusCompleted),
	}
	summary := Summarize(records)

	if summary.Total != 8 {
		t.Fatalf("expected total 8, got %d", summary.Total)
	}
	// 配送与预约的同级步骤落入同一档
	if summary.Unassigned != 2 || summary.Unconfirmed != 2 || summary.Scheduled != 2 || summary.Completed != 2 {
		t.Fatalf("expected 2 per bucket, got %+v", summary)
	}
	if summary.Failed != 0 {
		t.Fatalf("expected no failures, got %d", summary.Failed)
	}
	if summary.PercentCompleted != 25 {
		t.Fatalf("expected 25%% completed, got %v", summary.PercentCompleted)
	}
}

func TestSummarize_IssueReportedCountsAsFailed(t *testing.T) {
	records := []models.LogisticRecord{
		record(constants.LogisticKindDelivery, constants.LogisticStatusIssueReported),
		record(constants.LogisticKindReservation, constants.LogisticStatusIssueReported),
		record(constants.LogisticKindDelivery, constants.LogisticStatusDelivered),
	}
	summary := Summarize(records)

	if summary.Failed != 2 {
		t.Fatalf("expected 2 failed, got %d", summary.Failed)
	}
	if summary.Completed != 1 {
		t.Fatalf("expected 1 completed, got %d", summary.Completed)
	}
	if summary.PercentCompleted != 33 {
		t.Fatalf("expected rounded 33%%, got %v", summary.PercentCompleted)
	}
}

func TestCampaignSummary_ScopedToCampaign(t *testing.T) {
	env := newLogisticsTestEnv(t)
	svc := NewAnalyticsService(env.logisticRepo)
	campaignA := env.seedCampaign(t, "spring-sampling")
	campaignB := env.seedCampaign(t, "store-visit")
	creatorA := env.seedCreator(t, "creator-a")
	creatorB := env.seedCreator(t, "creator-b")

	env.seedRecord(t, campaignA.ID, creatorA.ID, constants.LogisticKindDelivery, constants.LogisticStatusDelivered)
	env.seedRecord(t, campaignA.ID, creatorB.ID, constants.LogisticKindDelivery, constants.LogisticStatusShipped)
	env.seedRecord(t, campaignB.ID, creatorA.ID, constants.LogisticKindReservation, constants.LogisticStatusNotStarted)

	summary, err := svc.CampaignSummary(campaignA.ID)
	if err != nil {
		t.Fatalf("campaign summary failed: %v", err)
	}
	if summary.Total != 2 {
		t.Fatalf("expected 2 records in campaign, got %d", summary.Total)
	}
	if summary.Completed != 1 || summary.Scheduled != 1 {
		t.Fatalf("unexpected buckets: %+v", summary)
	}
	if summary.PercentCompleted != 50 {
		t.Fatalf("expected 50%%, got %v", summary.PercentCompleted)
	}
}
