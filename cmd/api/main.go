package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/StudyBeacon/physics-learn/internal/handler"
	"github.com/StudyBeacon/physics-learn/internal/middleware"
	"github.com/StudyBeacon/physics-learn/internal/repository"
	"github.com/StudyBeacon/physics-learn/internal/service"
	"github.com/StudyBeacon/physics-learn/pkg/cache"
	"github.com/StudyBeacon/physics-learn/pkg/config"
	"github.com/StudyBeacon/physics-learn/pkg/database"
	"github.com/StudyBeacon/physics-learn/pkg/logger"
	"github.com/StudyBeacon/physics-learn/pkg/ratelimit"
	"github.com/StudyBeacon/physics-learn/pkg/storage"
)

// @title Physics Learn API
// @version 1.0.0
// @description Past question papers, chapter notes and the course catalog for the physics department.
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient := connectRedis(cfg, logr)
	if redisClient != nil {
		defer redisClient.Close()
	}

	local, err := storage.NewLocalStorage(cfg.Storage.LocalDir, cfg.Storage.LocalURL)
	if err != nil {
		logr.Fatal("failed to prepare upload directory", zap.Error(err))
	}
	remote := connectObjectStore(cfg, logr)

	metrics := service.NewMetricsService()
	app := buildApp(cfg, logr, db, redisClient, remote, local, metrics)

	router := newRouter(cfg, logr, app)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "remote_storage", remote != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

// app bundles the wired handlers and middleware dependencies.
type app struct {
	auth       *service.AuthService
	metrics    *service.MetricsService
	limiter    middleware.Limiter
	uploadsDir string
	authH      *handler.AuthHandler
	userH      *handler.UserHandler
	papersH    *handler.ExamPaperHandler
	notesH     *handler.ChapterNoteHandler
	catalogH   *handler.CatalogHandler
	unitH      *handler.UnitHandler
	materialH  *handler.MaterialHandler
	yearH      *handler.YearHandler
	siteH      *handler.SiteHandler
	statsH     *handler.StatsHandler
	metricsH   *handler.MetricsHandler
}

func buildApp(cfg *config.Config, logr *zap.Logger, db *sqlx.DB, redisClient *redis.Client, remote *storage.MinioStore, local *storage.LocalStorage, metrics *service.MetricsService) *app {
	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	paperRepo := repository.NewExamPaperRepository(db)
	noteRepo := repository.NewChapterNoteRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	subjectRepo := repository.NewCatalogSubjectRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	postRepo := repository.NewPostRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	var cacheRepo service.CacheRepository
	var cacheStore *repository.CacheRepository
	if redisClient != nil {
		cacheStore = repository.NewCacheRepository(redisClient, "physics", logr)
		cacheRepo = cacheStore
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)

	var remoteTier storage.RemoteStore
	if remote != nil {
		remoteTier = remote
	}
	blobs := storage.NewBlobStore(remoteTier, local, storage.Options{
		Timeout:  cfg.Storage.UploadTimeout,
		Logger:   logr,
		Observer: metrics,
	})

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	paperSvc := service.NewExamPaperService(paperRepo, blobs, cacheSvc, metrics, validate, logr, service.ExamPaperServiceConfig{
		MaxImages: cfg.Uploads.MaxImages,
	})
	chapterSvc := service.NewChapterService(chapterRepo, cacheSvc, validate, logr)
	noteSvc := service.NewChapterNoteService(noteRepo, chapterSvc, blobs, logr)
	subjectSvc := service.NewCatalogSubjectService(subjectRepo, cacheSvc, validate, logr)
	unitSvc := service.NewUnitService(unitRepo, cacheSvc, validate, logr)
	materialSvc := service.NewMaterialService(materialRepo, cacheSvc, validate, logr)
	postSvc := service.NewPostService(postRepo, cacheSvc, validate, logr)
	settingsSvc := service.NewSettingsService(settingsRepo, validate, logr)
	statsSvc := service.NewStatsService(statsRepo, metrics, logr)
	exportSvc := service.NewExportService(paperRepo, logr, nil, nil)

	var limiter middleware.Limiter
	if cfg.RateLimit.Enabled && redisClient != nil {
		l, err := ratelimit.NewFixedWindowLimiter(redisClient, "physics:ratelimit", cfg.RateLimit.AuthLimit, cfg.RateLimit.AuthWindow)
		if err != nil {
			logr.Fatal("invalid rate limit configuration", zap.Error(err))
		}
		limiter = l
	}

	limits := handler.UploadLimits{MaxFileSize: cfg.Uploads.MaxFileSizeBytes, MaxImages: cfg.Uploads.MaxImages}
	probes := []handler.Probe{{Name: "postgres", Check: db.PingContext}}
	if cacheStore != nil {
		probes = append(probes, handler.Probe{Name: "redis", Check: cacheStore.Ping})
	}
	if remote != nil {
		probes = append(probes, handler.Probe{Name: "object_storage", Check: remote.Ping})
	}

	return &app{
		auth:       authSvc,
		metrics:    metrics,
		limiter:    limiter,
		uploadsDir: local.Dir(),
		authH:      handler.NewAuthHandler(authSvc),
		userH:      handler.NewUserHandler(userSvc),
		papersH:    handler.NewExamPaperHandler(paperSvc, exportSvc, limits),
		notesH:     handler.NewChapterNoteHandler(noteSvc, limits),
		catalogH:   handler.NewCatalogHandler(subjectSvc, chapterSvc),
		unitH:      handler.NewUnitHandler(unitSvc),
		materialH:  handler.NewMaterialHandler(materialSvc),
		yearH:      handler.NewYearHandler(subjectSvc),
		siteH:      handler.NewSiteHandler(postSvc, settingsSvc),
		statsH:     handler.NewStatsHandler(statsSvc),
		metricsH:   handler.NewMetricsHandler(metrics.Handler(), probes...),
	}
}

// connectRedis returns nil when neither caching nor rate limiting needs Redis.
func connectRedis(cfg *config.Config, logr *zap.Logger) *redis.Client {
	if !cfg.Cache.Enabled && !cfg.RateLimit.Enabled {
		return nil
	}
	client, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		if cfg.RateLimit.Enabled {
			logr.Fatal("rate limiting requires redis", zap.Error(err))
		}
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		return nil
	}
	return client
}

// connectObjectStore returns nil when no endpoint is configured or it cannot be reached;
// uploads then go straight to local disk.
func connectObjectStore(cfg *config.Config, logr *zap.Logger) *storage.MinioStore {
	if !cfg.Storage.RemoteEnabled() {
		return nil
	}
	store, err := storage.NewMinioStore(storage.MinioConfig{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
		PublicURL: cfg.Storage.PublicURL,
	})
	if err != nil {
		logr.Warn("object storage unavailable, using local uploads only", zap.Error(err))
		return nil
	}
	return store
}
