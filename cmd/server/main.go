package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/kanenguyen264-cyber/do-an/internal/config"
	"github.com/kanenguyen264-cyber/do-an/internal/handlers"
	"github.com/kanenguyen264-cyber/do-an/internal/repository"
	"github.com/kanenguyen264-cyber/do-an/internal/scheduler"
	"github.com/kanenguyen264-cyber/do-an/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	db, err := repository.Open(cfg.Database)
	if err != nil {
		logrus.Fatalf("failed to open database: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		logrus.Fatalf("failed to migrate database: %v", err)
	}

	var redisCli *redis.Client
	if cfg.Redis.Enabled {
		redisCli = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if _, err := redisCli.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("error creating redis client: %v", err)
		}
	}

	bookRepo := repository.NewBookRepo(db)
	authorRepo := repository.NewAuthorRepo(db)
	publisherRepo := repository.NewPublisherRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	userRepo := repository.NewUserRepo(db)
	borrowingRepo := repository.NewBorrowingRepo(db)
	fineRepo := repository.NewFineRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	configRepo := repository.NewSystemConfigRepo(db)
	activityRepo := repository.NewActivityLogRepo(db)

	notifier := service.NewNotificationService(notificationRepo, redisCli)
	catalogSvc := service.NewCatalogService(bookRepo, authorRepo, publisherRepo, categoryRepo)
	membershipSvc := service.NewMembershipService(userRepo, borrowingRepo)
	borrowingSvc := service.NewBorrowingService(
		db, borrowingRepo, bookRepo, userRepo, fineRepo, reservationRepo, configRepo, activityRepo, notifier)
	reservationSvc := service.NewReservationService(
		db, reservationRepo, bookRepo, userRepo, configRepo, notifier)
	fineSvc := service.NewFineService(fineRepo, notifier)
	analyticsSvc := service.NewAnalyticsService(bookRepo, userRepo, borrowingRepo)
	configSvc := service.NewSystemConfigService(configRepo)

	if cfg.Scheduler.Enabled {
		interval, err := time.ParseDuration(cfg.Scheduler.SweepInterval)
		if err != nil {
			logrus.Fatalf("invalid sweep interval %q: %v", cfg.Scheduler.SweepInterval, err)
		}
		go scheduler.New(borrowingSvc, reservationSvc, interval).Run(context.Background())
	}

	router := gin.Default()
	router.Use(handlers.RequestLogger())
	handler := handlers.New(
		catalogSvc, membershipSvc, borrowingSvc, reservationSvc,
		fineSvc, notifier, analyticsSvc, configSvc)
	handler.RegisterRoutes(router)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	if err := router.Run(addr); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
