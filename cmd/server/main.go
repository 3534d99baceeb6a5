package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"agri/config"
	"agri/database"
	"agri/pkg/blob"
	"agri/pkg/logger"
	"agri/pkg/middleware"
	"agri/pkg/response"
	"agri/pkg/store"
	"agri/router"

	// Accounts
	accountCtrlImp "agri/pkg/account/controllerImp"
	accountRepoImp "agri/pkg/account/repositoryImp"
	accountSvcImp "agri/pkg/account/serviceImp"

	// Auth + Health
	authCtrlImp "agri/pkg/auth/controllerImp"
	healthCtrlImp "agri/pkg/health/controllerImp"

	// Crop / Region
	cropCtrlImp "agri/pkg/crop/controllerImp"
	cropRepoImp "agri/pkg/crop/repositoryImp"
	cropSvcImp "agri/pkg/crop/serviceImp"
	regionCtrlImp "agri/pkg/region/controllerImp"
	regionRepoImp "agri/pkg/region/repositoryImp"
	regionSvcImp "agri/pkg/region/serviceImp"

	// Prices + datasets
	datasetCtrlImp "agri/pkg/dataset/controllerImp"
	datasetRepoImp "agri/pkg/dataset/repositoryImp"
	datasetSvcImp "agri/pkg/dataset/serviceImp"
	"agri/pkg/price/importer"
	priceCtrlImp "agri/pkg/price/controllerImp"
	priceRepoImp "agri/pkg/price/repositoryImp"
	priceSvcImp "agri/pkg/price/serviceImp"

	// Forecast + reports
	"agri/pkg/forecast/engine"
	forecastCtrlImp "agri/pkg/forecast/controllerImp"
	forecastRepoImp "agri/pkg/forecast/repositoryImp"
	forecastSvcImp "agri/pkg/forecast/serviceImp"
	reportCtrlImp "agri/pkg/report/controllerImp"
	reportRepoImp "agri/pkg/report/repositoryImp"
	reportSvcImp "agri/pkg/report/serviceImp"

	// Settings, logs, weather
	settingCtrlImp "agri/pkg/setting/controllerImp"
	settingRepoImp "agri/pkg/setting/repositoryImp"
	settingSvcImp "agri/pkg/setting/serviceImp"
	syslogCtrlImp "agri/pkg/syslog/controllerImp"
	syslogRepoImp "agri/pkg/syslog/repositoryImp"
	syslogSvcImp "agri/pkg/syslog/serviceImp"
	"agri/pkg/weather/provider"
	weatherCtrlImp "agri/pkg/weather/controllerImp"
	weatherSvcImp "agri/pkg/weather/serviceImp"
)

func main() {
	// 1) Config + logger
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg config.AppConfig, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2) DB + automigrate
	if cfg.DBDriver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return err
		}
	}
	db, err := database.Open(cfg, logger.Component(log, "db"))
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	// 3) Blob storage
	blobs, err := blob.New(ctx, blob.Config{
		Driver:    cfg.BlobDriver,
		LocalPath: cfg.BlobLocalPath,
		BaseURL:   cfg.BlobBaseURL,
		S3Bucket:  cfg.S3Bucket,
		AWSRegion: cfg.AWSRegion,
	})
	if err != nil {
		return err
	}

	e := newServer(cfg, log, db, blobs)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// newServer wires repositories, services and controllers onto echo.
func newServer(cfg config.AppConfig, log zerolog.Logger, db *gorm.DB, blobs blob.Store) *echo.Echo {
	tx := store.NewTransactor(db)

	// 4) Repositories
	crops := cropRepoImp.New(db)
	regions := regionRepoImp.New(db)
	prices := priceRepoImp.New(db)
	models := forecastRepoImp.NewModelRepository(db)
	tasks := forecastRepoImp.NewTaskRepository(db)
	results := forecastRepoImp.NewResultRepository(db)
	users := accountRepoImp.NewUserRepository(db)
	roles := accountRepoImp.NewRoleRepository(db)
	perms := accountRepoImp.NewPermissionRepository(db)

	// 5) Services
	var fetcher priceSvcImp.PageFetcher
	if len(cfg.PriceImportAllowedDomains) > 0 {
		fetcher = importer.NewFetcher(cfg.PriceImportAllowedDomains, cfg.PriceImportMaxBytes, cfg.PriceImportTimeout)
	}
	priceSvc := priceSvcImp.NewPriceService(prices, crops, regions, tx, fetcher)
	taskSvc := forecastSvcImp.NewTaskService(forecastSvcImp.TaskDeps{
		Tasks:      tasks,
		ResultRepo: results,
		Models:     models,
		Crops:      crops,
		Regions:    regions,
		Prices:     prices,
		Engine:     engine.New(cfg.ForecastEngineURL, cfg.ForecastConnectTimeout, cfg.ForecastReadTimeout),
		Tx:         tx,
		Log:        logger.Component(log, "forecast"),
	})
	logSvc := syslogSvcImp.NewLogService(syslogRepoImp.New(db))
	cropSvc := cropSvcImp.NewCropService(crops, tx)
	regionSvc := regionSvcImp.NewRegionService(regions, tx)
	modelSvc := forecastSvcImp.NewModelService(models, tx)
	reportSvc := reportSvcImp.NewReportService(reportRepoImp.New(db), tasks, results, blobs, tx)
	settingSvc := settingSvcImp.NewSettingService(settingRepoImp.New(db), regions, tx)
	userSvc := accountSvcImp.NewUserService(users, roles, accountRepoImp.NewUserRoleRepository(db), tx)
	roleSvc := accountSvcImp.NewRoleService(roles, perms, accountRepoImp.NewRolePermissionRepository(db), tx)
	permSvc := accountSvcImp.NewPermissionService(perms, tx)
	weatherSvc := weatherSvcImp.NewWeatherService(regions,
		provider.New(cfg.WeatherAPIURL, cfg.WeatherAPIKey, cfg.WeatherConnectTimeout, cfg.WeatherReadTimeout))
	datasetSvc := datasetSvcImp.NewDatasetService(datasetRepoImp.New(db), crops, priceSvc, prices, blobs, tx,
		logger.Component(log, "dataset"))

	configured := map[string]bool{
		"forecast_engine":  cfg.ForecastEngineURL != "",
		"weather_provider": cfg.WeatherAPIURL != "",
		"price_import_url": fetcher != nil,
	}
	ctrls := router.Controllers{
		Health:     healthCtrlImp.New(db, configured),
		Auth:       authCtrlImp.NewAuthController(users),
		Crop:       cropCtrlImp.New(cropSvc),
		Region:     regionCtrlImp.New(regionSvc),
		Price:      priceCtrlImp.New(priceSvc),
		Model:      forecastCtrlImp.NewModelController(modelSvc),
		Task:       forecastCtrlImp.NewTaskController(taskSvc),
		Report:     reportCtrlImp.New(reportSvc),
		Setting:    settingCtrlImp.New(settingSvc),
		Log:        syslogCtrlImp.New(logSvc),
		User:       accountCtrlImp.NewUserController(userSvc),
		Role:       accountCtrlImp.NewRoleController(roleSvc),
		Permission: accountCtrlImp.NewPermissionController(permSvc),
		Weather:    weatherCtrlImp.New(weatherSvc),
		Dataset:    datasetCtrlImp.New(datasetSvc),
	}

	// 6) Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = response.ErrorHandler(logger.Component(log, "http"))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(logger.RequestLogger(logger.Component(log, "http")))
	if len(cfg.CORSOrigins) > 0 {
		e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	}
	e.Use(echoMiddleware.BodyLimit("25M"))

	auth := middleware.Auth(cfg.AuthDisabled, cfg.JWTSecret, cfg.JWTIssuer)
	if cfg.AuthDisabled {
		log.Warn().Msg("AUTH_DISABLED: every request runs as " + middleware.DevUser)
	}
	if local, ok := blobs.(*blob.Local); ok {
		e.Group(cfg.BlobBaseURL, auth).Static("/", local.Root())
	}

	// 7) Router
	return router.New(e, ctrls, auth, middleware.Audit(logSvc, logger.Component(log, "audit")))
}
