package app

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/sambright/nestegg/internal/backup"
	"github.com/sambright/nestegg/internal/config"
	"github.com/sambright/nestegg/internal/db"
	"github.com/sambright/nestegg/internal/repository"
	"github.com/sambright/nestegg/internal/service"
)

type App struct {
	Cfg                *config.Config
	DB                 *sqlx.DB
	GoalService        *service.GoalService
	MilestoneService   *service.MilestoneService
	AchievementService *service.AchievementService
	NotifyService      *service.NotifyService
	RolloverService    *service.RolloverService
	BackupService      *backup.Service // nil when backups are not configured
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories share one whole-document store.
	kv := repository.NewKV(database)
	goalRepository := repository.NewGoalRepository(kv)
	milestoneRepository := repository.NewMilestoneRepository(kv)
	achievementRepository := repository.NewAchievementRepository(kv)

	// Services
	milestoneService := service.NewMilestoneService(milestoneRepository)
	achievementService := service.NewAchievementService(achievementRepository)
	goalService := service.NewGoalService(
		goalRepository,
		milestoneService,
		achievementService,
		cfg.TimelineSeedWeeks,
		cfg.LookaheadWeeks,
	)
	notifyService := service.NewNotifyService(
		cfg.ResendAPIKey,
		cfg.MilestoneEmailFrom,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	rolloverService := service.NewRolloverService(goalService)

	var backupService *backup.Service
	if cfg.BackupEnabled() {
		backupService, err = backup.New(backup.Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
			Timeout:   cfg.BackupTimeout,
		}, goalRepository, milestoneRepository, achievementRepository)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize backup service: %v", err)
		}
	} else {
		slog.Info("backups disabled, no S3 target configured")
	}

	return &App{
		Cfg:                cfg,
		DB:                 database,
		GoalService:        goalService,
		MilestoneService:   milestoneService,
		AchievementService: achievementService,
		NotifyService:      notifyService,
		RolloverService:    rolloverService,
		BackupService:      backupService,
	}, nil
}

func (a *App) Close() error {
	if a.RolloverService != nil {
		a.RolloverService.Stop()
	}
	return db.Close(a.DB)
}
