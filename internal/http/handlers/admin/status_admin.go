package admin

import (
	"github.com/crealink-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus 管理员推进记录状态
func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	recordID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	record, err := h.StatusService.Transition(recordID, actor, req.Status)
	if err != nil {
		respondRecordError(c, err)
		return
	}
	response.Success(c, record)
}

// RetryIssue 异常后重试：回到上一个正常阶段
func (h *Handler) RetryIssue(c *gin.Context) {
	if _, ok := getActor(c); !ok {
		return
	}
	recordID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	record, err := h.StatusService.RetryIssue(recordID)
	if err != nil {
		respondIssueRecoveryError(c, err)
		return
	}
	requestLog(c).Infow("issue_retried", "record_id", recordID, "status", record.Status)
	response.Success(c, record)
}

// ResolveIssue 异常后解决：直接推进到终态
func (h *Handler) ResolveIssue(c *gin.Context) {
	if _, ok := getActor(c); !ok {
		return
	}
	recordID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	record, err := h.StatusService.ResolveIssue(recordID)
	if err != nil {
		respondIssueRecoveryError(c, err)
		return
	}
	requestLog(c).Infow("issue_resolved", "record_id", recordID, "status", record.Status)
	response.Success(c, record)
}
