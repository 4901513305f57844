package creator

import (
	"github.com/crealink-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

type reportIssueRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReportIssue 创作者上报异常
func (h *Handler) ReportIssue(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	recordID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req reportIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if !h.ownsRecord(c, recordID, actor) {
		return
	}

	record, err := h.StatusService.ReportIssue(recordID, req.Reason)
	if err != nil {
		respondIssueReportError(c, err)
		return
	}
	requestLog(c).Infow("issue_reported",
		"record_id", record.ID,
		"creator_id", actor.ID,
	)
	response.Success(c, record)
}
