package provider

import (
	"github.com/crealink-next/internal/authz"
	"github.com/crealink-next/internal/cache"
	"github.com/crealink-next/internal/config"
	"github.com/crealink-next/internal/logger"
	"github.com/crealink-next/internal/models"
	"github.com/crealink-next/internal/queue"
	"github.com/crealink-next/internal/repository"
	"github.com/crealink-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	LogisticRepo          repository.LogisticRepository
	SlotRepo              repository.SlotRepository
	DeliveryDetailRepo    repository.DeliveryDetailRepository
	ReservationDetailRepo repository.ReservationDetailRepository
	CampaignRepo          repository.CampaignRepository
	ReservationConfigRepo repository.ReservationConfigRepository

	// Services
	AuthzService        *authz.Service
	ConflictDetector    *service.ConflictDetector
	StatusService       *service.StatusService
	ReservationService  *service.ReservationService
	DeliveryService     *service.DeliveryService
	AvailabilityService *service.AvailabilityService
	AnalyticsService    *service.AnalyticsService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.LogisticRepo = repository.NewLogisticRepository(db)
	c.SlotRepo = repository.NewSlotRepository(db)
	c.DeliveryDetailRepo = repository.NewDeliveryDetailRepository(db)
	c.ReservationDetailRepo = repository.NewReservationDetailRepository(db)
	c.CampaignRepo = repository.NewCampaignRepository(db)
	c.ReservationConfigRepo = repository.NewReservationConfigRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.ConflictDetector = service.NewConflictDetector(c.SlotRepo, c.ReservationConfigRepo)
	c.StatusService = service.NewStatusService(models.DB, c.LogisticRepo, c.SlotRepo, c.CampaignRepo, c.QueueClient)
	c.ReservationService = service.NewReservationService(models.DB, c.LogisticRepo, c.SlotRepo, c.ReservationDetailRepo, c.ReservationConfigRepo, c.ConflictDetector, c.QueueClient)
	c.DeliveryService = service.NewDeliveryService(models.DB, c.LogisticRepo, c.DeliveryDetailRepo)
	c.AvailabilityService = service.NewAvailabilityService(c.ReservationConfigRepo, c.SlotRepo, c.CampaignRepo)
	c.AnalyticsService = service.NewAnalyticsService(c.LogisticRepo)
}
