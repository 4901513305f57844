package shared

import (
	"strconv"

	"github.com/crealink-next/internal/constants"
	"github.com/crealink-next/internal/http/response"
	"github.com/crealink-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetActor 从上下文读取认证主体
func GetActor(c *gin.Context) (service.Actor, bool) {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return service.Actor{}, false
	}
	actor, ok := value.(service.Actor)
	if !ok || actor.ID == 0 {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return service.Actor{}, false
	}
	return actor, true
}

// ParamUint 解析路径参数为 uint
func ParamUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		RespondError(c, response.CodeBadRequest, "invalid path parameter: "+name, nil)
		return 0, false
	}
	return uint(parsed), true
}
