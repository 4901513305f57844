package admin

import (
	"github.com/crealink-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

type createRecordRequest struct {
	CreatorID uint   `json:"creator_id" binding:"required"`
	Kind      string `json:"kind" binding:"required"`
}

// CreateRecord 为入选创作者创建物流记录
func (h *Handler) CreateRecord(c *gin.Context) {
	if _, ok := getActor(c); !ok {
		return
	}
	campaignID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req createRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	record, err := h.StatusService.CreateRecord(campaignID, req.CreatorID, req.Kind)
	if err != nil {
		respondRecordCreateError(c, err)
		return
	}
	requestLog(c).Infow("logistic_record_created",
		"record_id", record.ID,
		"campaign_id", campaignID,
		"creator_id", req.CreatorID,
		"kind", req.Kind,
	)
	response.Success(c, record)
}

// CampaignSummary 活动物流进度汇总
func (h *Handler) CampaignSummary(c *gin.Context) {
	if _, ok := getActor(c); !ok {
		return
	}
	campaignID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	summary, err := h.AnalyticsService.CampaignSummary(campaignID)
	if err != nil {
		respondRecordError(c, err)
		return
	}
	response.Success(c, summary)
}
