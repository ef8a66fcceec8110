package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ChaLconner/purrfect-spots-sub001/internal/config"
	s3infra "github.com/ChaLconner/purrfect-spots-sub001/internal/infra/s3"
	"github.com/ChaLconner/purrfect-spots-sub001/internal/jobs/cleanup"
	pgrepo "github.com/ChaLconner/purrfect-spots-sub001/internal/repo/postgres"
	redrepo "github.com/ChaLconner/purrfect-spots-sub001/internal/repo/redis"
	authsvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/auth"
	likessvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/likes"
	photossvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/photos"
	quotasvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/quota"
	ratesvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/rate"
	treatssvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/treats"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	scheduler  *cleanup.Scheduler
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	userRepo := pgrepo.NewUserRepo(pool)
	photoRepo := pgrepo.NewPhotoRepo(pool)
	likeRepo := pgrepo.NewLikeRepo(pool)
	treatRepo := pgrepo.NewTreatRepo(pool)
	notificationRepo := pgrepo.NewNotificationRepo(pool)
	systemCounterRepo := pgrepo.NewSystemCounterRepo(pool)
	dailyMetricsRepo := pgrepo.NewDailyMetricsRepo(pool)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}
	photoStorage := s3infra.NewPhotoStorage(s3Client, cfg.S3.Bucket)

	likeLimiter := ratesvc.NewLimiter(cfg.Rate.LikeMaxRequests, cfg.Rate.LikeWindow)
	uploadLimiter := ratesvc.NewLimiter(cfg.Rate.UploadMaxRequests, cfg.Rate.UploadWindow)
	treatLimiter := ratesvc.NewLimiter(cfg.Rate.TreatMaxRequests, cfg.Rate.TreatWindow)

	authService := authsvc.NewService(sessionRepo, userRepo, cfg.Auth.SessionTTL)
	quotaService := quotasvc.NewService(photoRepo, systemCounterRepo, quotasvc.Config{
		FreeUploadsPerDay:   cfg.Limits.FreeUploadsPerDay,
		ProUploadsPerDay:    cfg.Limits.ProUploadsPerDay,
		GlobalUploadsPerDay: cfg.Limits.GlobalUploadsPerDay,
	}, log)
	quotaService.AttachMetrics(dailyMetricsRepo)
	photoService := photossvc.NewService(photoRepo, photoStorage, quotaService, userRepo, uploadLimiter, log)
	treatsService := treatssvc.NewService(treatRepo, photoRepo, userRepo, notificationRepo, log)
	likeService := likessvc.NewService(likeRepo, photoRepo, notificationRepo, likeLimiter, log)

	cleanupJob := cleanup.New(photoRepo, notificationRepo, photoStorage, cfg.Cleanup.DeletedRetention, log)
	cleanupJob.AttachWindowSweep(likeLimiter, uploadLimiter, treatLimiter)
	scheduler := cleanup.NewScheduler(cleanupJob, cfg.Cleanup.Interval, log)

	RegisterRoutes(r, Dependencies{
		AuthService:      authService,
		PhotoService:     photoService,
		QuotaService:     quotaService,
		TreatsService:    treatsService,
		LikeService:      likeService,
		TreatLimiter:     treatLimiter,
		UserRepo:         userRepo,
		NotificationRepo: notificationRepo,
		Logger:           log,
		Config:           cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		scheduler:  scheduler,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.scheduler.Start()
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	a.scheduler.Stop()
	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
