package main

import (
	"fmt"
	"time"

	"github.com/crealink-next/internal/config"
	"github.com/crealink-next/internal/constants"
	"github.com/crealink-next/internal/logger"
	"github.com/crealink-next/internal/models"
	"github.com/crealink-next/internal/service"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加创作者
	creators := []models.Creator{
		{Name: "林小雨", Email: "xiaoyu@example.com"},
		{Name: "陈晨", Email: "chenchen@example.com"},
		{Name: "Ava Huang", Email: "ava@example.com"},
		{Name: "王大可", Email: "dake@example.com"},
	}

	for i := range creators {
		var existing models.Creator
		if err := models.DB.Where("email = ?", creators[i].Email).First(&existing).Error; err != nil {
			if err := models.DB.Create(&creators[i]).Error; err != nil {
				stdLog.Printf("Failed to create creator %s: %v", creators[i].Email, err)
			} else {
				stdLog.Printf("Created creator: %s", creators[i].Email)
			}
		} else {
			creators[i] = existing
			stdLog.Printf("Creator already exists: %s", creators[i].Email)
		}
	}

	// 添加活动
	campaigns := []models.Campaign{
		{Name: "春季新品寄样", Brand: "Aurora Beauty"},
		{Name: "旗舰店探店体验", Brand: "Nimbus Coffee"},
	}

	for i := range campaigns {
		var existing models.Campaign
		if err := models.DB.Where("name = ? AND brand = ?", campaigns[i].Name, campaigns[i].Brand).First(&existing).Error; err != nil {
			if err := models.DB.Create(&campaigns[i]).Error; err != nil {
				stdLog.Printf("Failed to create campaign %s: %v", campaigns[i].Name, err)
			} else {
				stdLog.Printf("Created campaign: %s", campaigns[i].Name)
			}
		} else {
			campaigns[i] = existing
			stdLog.Printf("Campaign already exists: %s", campaigns[i].Name)
		}
	}

	deliveryCampaign := campaigns[0]
	reservationCampaign := campaigns[1]

	// 配送活动下为每位创作者建一条配送记录
	for _, creator := range creators[:2] {
		seedLogisticRecord(stdLog.Printf, deliveryCampaign.ID, creator.ID, constants.LogisticKindDelivery)
	}

	// 探店活动下建预约记录
	for _, creator := range creators[2:] {
		seedLogisticRecord(stdLog.Printf, reservationCampaign.ID, creator.ID, constants.LogisticKindReservation)
	}

	// 探店活动的预约配置与可约时段
	var rc models.ReservationConfig
	if err := models.DB.Where("campaign_id = ?", reservationCampaign.ID).First(&rc).Error; err != nil {
		rc = models.ReservationConfig{
			CampaignID:            reservationCampaign.ID,
			Mode:                  constants.ReservationModeManual,
			AllowMultipleBookings: false,
			Locations: models.StringArray([]string{
				"上海市静安区南京西路 1266 号旗舰店",
				"杭州市西湖区天目山路 88 号体验店",
			}),
		}
		if err := models.DB.Create(&rc).Error; err != nil {
			stdLog.Fatalf("Failed to create reservation config: %v", err)
		}
		stdLog.Printf("Created reservation config for campaign %d", reservationCampaign.ID)
	} else {
		stdLog.Printf("Reservation config already exists for campaign %d", reservationCampaign.ID)
	}

	// 未来两周内每个工作日开放 10:00-12:00 与 14:00-17:00 两个窗口
	var ruleCount int64
	models.DB.Model(&models.AvailabilityRule{}).Where("config_id = ?", rc.ID).Count(&ruleCount)
	if ruleCount == 0 {
		loc := time.Local
		today := time.Now().In(loc)
		dayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
		created := 0
		for offset := 1; offset <= 14; offset++ {
			day := dayStart.AddDate(0, 0, offset)
			if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
				continue
			}
			windows := [][2]int{{10, 12}, {14, 17}}
			for _, w := range windows {
				rule := models.AvailabilityRule{
					ConfigID: rc.ID,
					Date:     day,
					StartsAt: day.Add(time.Duration(w[0]) * time.Hour),
					EndsAt:   day.Add(time.Duration(w[1]) * time.Hour),
				}
				if err := models.DB.Create(&rule).Error; err != nil {
					stdLog.Printf("Failed to create availability rule: %v", err)
					continue
				}
				created++
			}
		}
		stdLog.Printf("Created %d availability rules", created)
	} else {
		stdLog.Printf("Availability rules already exist: %d", ruleCount)
	}

	// 生成演示用访问令牌，方便本地调试接口
	if cfg.Auth.SecretKey != "" {
		adminToken, err := service.SignActorToken(service.Actor{ID: 1, Role: constants.ActorRoleAdmin, Name: "Demo Admin"}, cfg.Auth.SecretKey, cfg.Auth.Issuer, 24*time.Hour)
		if err != nil {
			stdLog.Printf("Failed to sign admin token: %v", err)
		}
		creatorToken, err := service.SignActorToken(service.Actor{ID: creators[0].ID, Role: constants.ActorRoleCreator, Name: creators[0].Name}, cfg.Auth.SecretKey, cfg.Auth.Issuer, 24*time.Hour)
		if err != nil {
			stdLog.Printf("Failed to sign creator token: %v", err)
		}
		fmt.Println("\nDemo tokens (valid 24h):")
		fmt.Printf("  admin:   %s\n", adminToken)
		fmt.Printf("  creator: %s\n", creatorToken)
	}

	fmt.Println("\n✅ Test data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 4 Creators")
	fmt.Println("- 2 Campaigns (1 delivery + 1 reservation)")
	fmt.Println("- 4 Logistic records")
	fmt.Println("- Reservation config with weekday availability rules")
}

func seedLogisticRecord(logf func(format string, v ...interface{}), campaignID, creatorID uint, kind string) {
	var existing models.LogisticRecord
	if err := models.DB.Where("campaign_id = ? AND creator_id = ?", campaignID, creatorID).First(&existing).Error; err != nil {
		status := constants.LogisticStatusPendingAssignment
		if kind == constants.LogisticKindReservation {
			status = constants.LogisticStatusNotStarted
		}
		record := models.LogisticRecord{
			CampaignID: campaignID,
			CreatorID:  creatorID,
			Kind:       kind,
			Status:     status,
		}
		if err := models.DB.Create(&record).Error; err != nil {
			logf("Failed to create logistic record campaign=%d creator=%d: %v", campaignID, creatorID, err)
		} else {
			logf("Created %s record: campaign=%d creator=%d", kind, campaignID, creatorID)
		}
	} else {
		logf("Logistic record already exists: campaign=%d creator=%d", campaignID, creatorID)
	}
}
