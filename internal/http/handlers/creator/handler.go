package creator

import "github.com/crealink-next/internal/provider"

// Handler 创作者侧接口处理器入口
// 说明：该处理器仅用于创作者自助操作与活动档期查询。
type Handler struct {
	*provider.Container
}

// New 创建创作者处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
