package creator

import (
	"strconv"

	handlershared "github.com/crealink-next/internal/http/handlers/shared"
	"github.com/crealink-next/internal/http/response"
	"github.com/crealink-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListRecords 活动下的物流记录列表
// 创作者只能看到自己名下的记录，管理员可按 creator_id 过滤
func (h *Handler) ListRecords(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	campaignID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.LogisticListFilter{
		CampaignID: campaignID,
		Kind:       c.Query("kind"),
		Status:     c.Query("status"),
		Page:       page,
		PageSize:   pageSize,
	}
	if actor.IsAdmin() {
		if creatorID, err := strconv.ParseUint(c.Query("creator_id"), 10, 64); err == nil {
			filter.CreatorID = uint(creatorID)
		}
	} else {
		filter.CreatorID = actor.ID
	}

	records, total, err := h.LogisticRepo.ListByCampaign(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "list records failed", err)
		return
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, records, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}
