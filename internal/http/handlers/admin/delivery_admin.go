package admin

import (
	"time"

	"github.com/crealink-next/internal/http/response"
	"github.com/crealink-next/internal/service"

	"github.com/gin-gonic/gin"
)

type assignItemsRequest struct {
	CreatorID uint                      `json:"creator_id" binding:"required"`
	Items     []service.AssignItemInput `json:"items" binding:"required"`
}

// AssignItems 按活动与创作者整体替换配送商品项
func (h *Handler) AssignItems(c *gin.Context) {
	if _, ok := getActor(c); !ok {
		return
	}
	campaignID, ok := paramUint(c, "campaignId")
	if !ok {
		return
	}
	var req assignItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	record, err := h.LogisticRepo.GetByCampaignAndCreator(campaignID, req.CreatorID)
	if err != nil {
		respondError(c, response.CodeInternal, "load record failed", err)
		return
	}
	if record == nil {
		respondError(c, response.CodeNotFound, "logistic record not found", nil)
		return
	}

	updated, err := h.DeliveryService.AssignItems(record.ID, req.Items)
	if err != nil {
		respondRecordError(c, err)
		return
	}
	response.Success(c, updated)
}

type scheduleShipmentRequest struct {
	TrackingLink         string     `json:"tracking_link"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date"`
}

// ScheduleShipment 设置运单链接与预计送达日期
// 与状态推进解耦，status 仍由独立调用变更
func (h *Handler) ScheduleShipment(c *gin.Context) {
	if _, ok := getActor(c); !ok {
		return
	}
	recordID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req scheduleShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	record, err := h.DeliveryService.ScheduleShipment(recordID, req.TrackingLink, req.ExpectedDeliveryDate)
	if err != nil {
		respondRecordError(c, err)
		return
	}
	response.Success(c, record)
}
