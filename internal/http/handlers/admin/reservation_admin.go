package admin

import (
	"time"

	"github.com/crealink-next/internal/http/response"
	"github.com/crealink-next/internal/models"
	"github.com/crealink-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type confirmReservationDetailRequest struct {
	ClientRemarks string  `json:"client_remarks"`
	PICName       string  `json:"pic_name"`
	PICContact    string  `json:"pic_contact"`
	PromoCode     string  `json:"promo_code"`
	Budget        *string `json:"budget"`
}

// ConfirmReservationDetail 管理员补全并确认预约详情
func (h *Handler) ConfirmReservationDetail(c *gin.Context) {
	if _, ok := getActor(c); !ok {
		return
	}
	recordID, ok := paramUint(c, "recordId")
	if !ok {
		return
	}
	var req confirmReservationDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	input := service.ConfirmDetailInput{
		RecordID:      recordID,
		ClientRemarks: req.ClientRemarks,
		PICName:       req.PICName,
		PICContact:    req.PICContact,
		PromoCode:     req.PromoCode,
	}
	if req.Budget != nil {
		amount, err := decimal.NewFromString(*req.Budget)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid budget amount", nil)
			return
		}
		budget := models.NewMoneyFromDecimal(amount)
		input.Budget = &budget
	}

	record, err := h.ReservationService.ConfirmDetail(input)
	if err != nil {
		respondRecordError(c, err)
		return
	}
	response.Success(c, record)
}

type scheduleReservationRequest struct {
	SlotID uint `json:"slot_id" binding:"required"`
}

// ScheduleReservation 管理员选定候选时段
func (h *Handler) ScheduleReservation(c *gin.Context) {
	if _, ok := getActor(c); !ok {
		return
	}
	recordID, ok := paramUint(c, "recordId")
	if !ok {
		return
	}
	var req scheduleReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	record, err := h.ReservationService.SelectSlot(recordID, req.SlotID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	response.Success(c, record)
}

type adminScheduleRequest struct {
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at"`
	FullDay  bool      `json:"full_day"`
}

// AdminSchedule 管理员直接指定时段
func (h *Handler) AdminSchedule(c *gin.Context) {
	if _, ok := getActor(c); !ok {
		return
	}
	recordID, ok := paramUint(c, "recordId")
	if !ok {
		return
	}
	var req adminScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	record, err := h.ReservationService.AdminSchedule(recordID, service.Interval{
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		FullDay:  req.FullDay,
	})
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	response.Success(c, record)
}

// Reschedule 清空时段回到待排期
func (h *Handler) Reschedule(c *gin.Context) {
	if _, ok := getActor(c); !ok {
		return
	}
	recordID, ok := paramUint(c, "recordId")
	if !ok {
		return
	}
	record, err := h.ReservationService.Reschedule(recordID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	requestLog(c).Infow("reservation_rescheduled", "record_id", recordID)
	response.Success(c, record)
}
