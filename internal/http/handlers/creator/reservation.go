package creator

import (
	"time"

	"github.com/crealink-next/internal/http/response"
	"github.com/crealink-next/internal/service"

	"github.com/gin-gonic/gin"
)

type proposeSlotItem struct {
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at"`
	FullDay  bool      `json:"full_day"`
}

type proposeSlotsRequest struct {
	Slots          []proposeSlotItem `json:"slots" binding:"required"`
	Outlet         string            `json:"outlet"`
	CreatorRemarks string            `json:"creator_remarks"`
}

// ProposeReservation 创作者提交候选时段
func (h *Handler) ProposeReservation(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	campaignID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req proposeSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	record, err := h.LogisticRepo.GetByCampaignAndCreator(campaignID, actor.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "load record failed", err)
		return
	}
	if record == nil {
		respondError(c, response.CodeNotFound, "logistic record not found", nil)
		return
	}

	intervals := make([]service.Interval, 0, len(req.Slots))
	for _, item := range req.Slots {
		intervals = append(intervals, service.Interval{
			StartsAt: item.StartsAt,
			EndsAt:   item.EndsAt,
			FullDay:  item.FullDay,
		})
	}

	updated, err := h.ReservationService.ProposeSlots(service.ProposeSlotsInput{
		RecordID:       record.ID,
		CreatorID:      actor.ID,
		Intervals:      intervals,
		Outlet:         req.Outlet,
		CreatorRemarks: req.CreatorRemarks,
	})
	if err != nil {
		respondReservationProposeError(c, err)
		return
	}
	response.Success(c, updated)
}

// ListSlots 活动月度档期视图
func (h *Handler) ListSlots(c *gin.Context) {
	if _, ok := getActor(c); !ok {
		return
	}
	campaignID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	monthRaw := c.Query("month")
	month, err := time.Parse("2006-01-02", monthRaw)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid month parameter", nil)
		return
	}

	days, err := h.AvailabilityService.ListAvailability(c.Request.Context(), campaignID, month)
	if err != nil {
		respondAvailabilityError(c, err)
		return
	}
	response.Success(c, days)
}

// GetReservationConfig 活动预约配置
func (h *Handler) GetReservationConfig(c *gin.Context) {
	if _, ok := getActor(c); !ok {
		return
	}
	campaignID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	view, err := h.AvailabilityService.GetReservationConfig(campaignID)
	if err != nil {
		respondAvailabilityError(c, err)
		return
	}
	response.Success(c, view)
}
