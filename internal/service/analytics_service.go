package service

import (
	"math"

	"github.com/crealink-next/internal/constants"
	"github.com/crealink-next/internal/models"
	"github.com/crealink-next/internal/repository"
)

// LogisticsSummary 活动物流进度汇总
type LogisticsSummary struct {
	Total            int     `json:"total"`
	Unassigned       int     `json:"unassigned"`
	Unconfirmed      int     `json:"unconfirmed"`
	Scheduled        int     `json:"scheduled"`
	Completed        int     `json:"completed"`
	Failed           int     `json:"failed"`
	PercentCompleted float64 `json:"percent_completed"`
}

// AnalyticsService 进度统计服务
type AnalyticsService struct {
	logisticRepo repository.LogisticRepository
}

// NewAnalyticsService 创建进度统计服务
func NewAnalyticsService(logisticRepo repository.LogisticRepository) *AnalyticsService {
	return &AnalyticsService{logisticRepo: logisticRepo}
}

// CampaignSummary 汇总活动下全部物流记录的进度分布
func (s *AnalyticsService) CampaignSummary(campaignID uint) (*LogisticsSummary, error) {
	records, _, err := s.logisticRepo.ListByCampaign(repository.LogisticListFilter{CampaignID: campaignID})
	if err != nil {
		return nil, wrapStorage(err)
	}
	summary := Summarize(records)
	return &summary, nil
}

// Summarize 把记录折叠成五档进度分布
// 两种类型的四步生命周期按位置对应前四档，issue_reported 计为 failed
func Summarize(records []models.LogisticRecord) LogisticsSummary {
	var summary LogisticsSummary
	summary.Total = len(records)
	for i := range records {
		switch bucketFor(&records[i]) {
		case "unassigned":
			summary.Unassigned++
		case "unconfirmed":
			summary.Unconfirmed++
		case "scheduled":
			summary.Scheduled++
		case "completed":
			summary.Completed++
		case "failed":
			summary.Failed++
		}
	}
	if summary.Total > 0 {
		summary.PercentCompleted = math.Round(float64(summary.Completed) / float64(summary.Total) * 100)
	}
	return summary
}

func bucketFor(record *models.LogisticRecord) string {
	if record.Status == constants.LogisticStatusIssueReported {
		return "failed"
	}
	switch record.Kind {
	case constants.LogisticKindDelivery:
		switch record.Status {
		case constants.LogisticStatusPendingAssignment:
			return "unassigned"
		case constants.LogisticStatusScheduled:
			return "unconfirmed"
		case constants.LogisticStatusShipped:
			return "scheduled"
		case constants.LogisticStatusDelivered:
			return "completed"
		}
	case constants.LogisticKindReservation:
		switch record.Status {
		case constants.LogisticStatusNotStarted:
			return "unassigned"
		case constants.LogisticStatusPendingAssignment:
			return "unconfirmed"
		case constants.LogisticStatusScheduled:
			return "scheduled"
		case constants.LogisticStatusCompleted:
			return "completed"
		}
	}
	return "unassigned"
}
