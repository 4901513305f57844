package router

import (
	"fmt"
	"strings"

	"github.com/crealink-next/internal/cache"
	"github.com/crealink-next/internal/config"
	adminhandlers "github.com/crealink-next/internal/http/handlers/admin"
	creatorhandlers "github.com/crealink-next/internal/http/handlers/creator"
	"github.com/crealink-next/internal/logger"
	"github.com/crealink-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	creatorHandler := creatorhandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "cl"
	}
	redisClient := cache.Client()
	issueRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:issue", redisPrefix),
		WindowSeconds: cfg.Security.IssueRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.IssueRateLimit.MaxRequests,
		Message:       "too many issue reports",
	}
	proposeRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:propose", redisPrefix),
		WindowSeconds: cfg.Security.ProposeRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.ProposeRateLimit.MaxRequests,
		Message:       "too many slot proposals",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		logistics := apiV1.Group("/logistics")
		logistics.Use(ActorAuthMiddleware(cfg.Auth), RoleRBACMiddleware(c.AuthzService))
		{
			// 创作者侧
			logistics.PATCH("/creator/:id/details", creatorHandler.ConfirmDeliveryDetails)
			logistics.POST("/creator/:id/issue",
				RateLimitMiddleware(redisClient, issueRule, KeyByActor),
				creatorHandler.ReportIssue)
			logistics.POST("/campaign/:id/reservation",
				RateLimitMiddleware(redisClient, proposeRule, KeyByActor),
				creatorHandler.ProposeReservation)
			logistics.GET("/campaign/:id", creatorHandler.ListRecords)
			logistics.GET("/campaign/:id/slots", creatorHandler.ListSlots)
			logistics.GET("/campaign/:id/reservation-config", creatorHandler.GetReservationConfig)

			// 管理侧
			logistics.POST("/campaign/:id/records", adminHandler.CreateRecord)
			logistics.GET("/campaign/:id/summary", adminHandler.CampaignSummary)
			logistics.PATCH("/campaign/:id/:recordId/reservation-detail", adminHandler.ConfirmReservationDetail)
			logistics.PATCH("/campaign/:id/:recordId/schedule-reservation", adminHandler.ScheduleReservation)
			logistics.PATCH("/campaign/:id/:recordId/admin-schedule", adminHandler.AdminSchedule)
			logistics.PATCH("/campaign/:id/:recordId/reschedule", adminHandler.Reschedule)
			logistics.PATCH("/admin/:id/status", adminHandler.UpdateStatus)
			logistics.PATCH("/admin/:id/shipment", adminHandler.ScheduleShipment)
			logistics.PATCH("/creator/:id/retry", adminHandler.RetryIssue)
			logistics.PATCH("/creator/:id/resolve", adminHandler.ResolveIssue)
			logistics.POST("/assign/:campaignId", adminHandler.AssignItems)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
