package admin

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

var recordCommonErrorRules = []mappedHandlerError{
	{target: service.ErrRecordNotFound, code: response.CodeNotFound, msg: "logistic record not found"},
	{target: service.ErrCampaignNotFound, code: response.CodeNotFound, msg: "campaign not found"},
	{target: service.ErrKindMismatch, code: response.CodeBadRequest, msg: "record kind mismatch"},
	{target: service.ErrStorage, code: response.CodeInternal, msg: "storage failure"},
}

var recordCreateErrorRules = []mappedHandlerError{
	{target: service.ErrRecordExists, code: response.CodeConflict, msg: "record already exists for this creator"},
}

var reservationScheduleErrorRules = []mappedHandlerError{
	{target: service.ErrSlotNotFound, code: response.CodeNotFound, msg: "slot not found"},
	{target: service.ErrSlotNotSelectable, code: response.CodeBadRequest, msg: "slot is not selectable"},
	{target: service.ErrInvalidInterval, code: response.CodeBadRequest, msg: "invalid slot interval"},
	{target: service.ErrConfigMissing, code: response.CodeBadRequest, msg: "reservation config missing"},
}

var issueRecoveryErrorRules = []mappedHandlerError{
	{target: service.ErrRecordNotFound, code: response.CodeNotFound, msg: "logistic record not found"},
	{target: service.ErrStorage, code: response.CodeInternal, msg: "storage failure"},
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

func respondRecordError(c *gin.Context, err error) {
	respondWithMappedError(c, err, recordCommonErrorRules, response.CodeInternal, "operation failed")
}

func respondRecordCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(recordCommonErrorRules, recordCreateErrorRules), response.CodeInternal, "create record failed")
}

func respondScheduleError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(recordCommonErrorRules, reservationScheduleErrorRules), response.CodeInternal, "schedule reservation failed")
}

func respondIssueRecoveryError(c *gin.Context, err error) {
	respondWithMappedError(c, err, issueRecoveryErrorRules, response.CodeInternal, "issue recovery failed")
}
