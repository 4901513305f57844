package creator

import (
	"github.com/crealink-next/internal/http/response"
	"github.com/crealink-next/internal/service"

	"github.com/gin-gonic/gin"
)

type confirmDeliveryRequest struct {
	Address     string `json:"address" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Remarks     string `json:"remarks"`
}

// ConfirmDeliveryDetails 创作者确认收货信息
// 重复提交覆盖同样字段，确认位不会回退
func (h *Handler) ConfirmDeliveryDetails(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	recordID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req confirmDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if !h.ownsRecord(c, recordID, actor) {
		return
	}

	record, err := h.DeliveryService.ConfirmDetail(service.ConfirmDeliveryInput{
		RecordID:    recordID,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		Remarks:     req.Remarks,
	})
	if err != nil {
		respondDeliveryConfirmError(c, err)
		return
	}
	response.Success(c, record)
}

// ownsRecord 校验记录归属；管理员放行
func (h *Handler) ownsRecord(c *gin.Context, recordID uint, actor service.Actor) bool {
	if actor.IsAdmin() {
		return true
	}
	record, err := h.LogisticRepo.GetByID(recordID)
	if err != nil {
		respondError(c, response.CodeInternal, "load record failed", err)
		return false
	}
	if record == nil {
		respondError(c, response.CodeNotFound, "logistic record not found", nil)
		return false
	}
	if record.CreatorID != actor.ID {
		respondError(c, response.CodeForbidden, "record belongs to another creator", nil)
		return false
	}
	return true
}
