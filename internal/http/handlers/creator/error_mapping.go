package creator

import (
	"errors"

	"github.com/crealink-next/internal/http/response"
	"github.com/crealink-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	var conflictErr *service.SlotConflictError
	if errors.As(err, &conflictErr) {
		respondErrorWithData(c, response.CodeConflict, "slot conflicts with a confirmed booking", gin.H{
			"creator_id": conflictErr.CreatorID,
			"starts_at":  conflictErr.StartsAt,
			"ends_at":    conflictErr.EndsAt,
		}, nil)
		return
	}
	var transitionErr *service.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		respondErrorWithData(c, response.CodeUnprocessable, "invalid status transition", gin.H{
			"current":   transitionErr.Current,
			"attempted": transitionErr.Attempted,
		}, nil)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var reservationProposeErrorRules = []mappedHandlerError{
	{target: service.ErrRecordNotFound, code: response.CodeNotFound, msg: "logistic record not found"},
	{target: service.ErrKindMismatch, code: response.CodeBadRequest, msg: "record kind mismatch"},
	{target: service.ErrInvalidInterval, code: response.CodeBadRequest, msg: "invalid slot interval"},
	{target: service.ErrCapacityExceeded, code: response.CodeBadRequest, msg: "too many proposed slots"},
	{target: service.ErrDuplicateSlot, code: response.CodeBadRequest, msg: "duplicate slot interval"},
	{target: service.ErrConfigMissing, code: response.CodeBadRequest, msg: "reservation config missing"},
	{target: service.ErrStorage, code: response.CodeInternal, msg: "storage failure"},
}

var deliveryConfirmErrorRules = []mappedHandlerError{
	{target: service.ErrRecordNotFound, code: response.CodeNotFound, msg: "logistic record not found"},
	{target: service.ErrKindMismatch, code: response.CodeBadRequest, msg: "record kind mismatch"},
	{target: service.ErrStorage, code: response.CodeInternal, msg: "storage failure"},
}

var issueReportErrorRules = []mappedHandlerError{
	{target: service.ErrRecordNotFound, code: response.CodeNotFound, msg: "logistic record not found"},
	{target: service.ErrEmptyIssueReason, code: response.CodeBadRequest, msg: "issue reason is required"},
	{target: service.ErrStorage, code: response.CodeInternal, msg: "storage failure"},
}

var availabilityErrorRules = []mappedHandlerError{
	{target: service.ErrConfigMissing, code: response.CodeNotFound, msg: "reservation config missing"},
	{target: service.ErrStorage, code: response.CodeInternal, msg: "storage failure"},
}

func respondReservationProposeError(c *gin.Context, err error) {
	respondWithMappedError(c, err, reservationProposeErrorRules, response.CodeInternal, "propose slots failed")
}

func respondDeliveryConfirmError(c *gin.Context, err error) {
	respondWithMappedError(c, err, deliveryConfirmErrorRules, response.CodeInternal, "confirm details failed")
}

func respondIssueReportError(c *gin.Context, err error) {
	respondWithMappedError(c, err, issueReportErrorRules, response.CodeInternal, "report issue failed")
}

func respondAvailabilityError(c *gin.Context, err error) {
	respondWithMappedError(c, err, availabilityErrorRules, response.CodeInternal, "load availability failed")
}
