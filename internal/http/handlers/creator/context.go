package creator

import (
	handlershared "github.com/crealink-next/internal/http/handlers/shared"
	"github.com/crealink-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondErrorWithData(c *gin.Context, code int, msg string, data interface{}, err error) {
	handlershared.RespondErrorWithData(c, code, msg, data, err)
}

func getActor(c *gin.Context) (service.Actor, bool) {
	return handlershared.GetActor(c)
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	return handlershared.ParamUint(c, name)
}
