package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ChaLconner/purrfect-spots-sub001/internal/config"
	pgrepo "github.com/ChaLconner/purrfect-spots-sub001/internal/repo/postgres"
	authsvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/auth"
	likessvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/likes"
	photossvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/photos"
	quotasvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/quota"
	ratesvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/rate"
	treatssvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/treats"
	"github.com/ChaLconner/purrfect-spots-sub001/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService      *authsvc.Service
	PhotoService     *photossvc.Service
	QuotaService     *quotasvc.Service
	TreatsService    *treatssvc.Service
	LikeService      *likessvc.Service
	TreatLimiter     *ratesvc.Limiter
	UserRepo         *pgrepo.UserRepo
	NotificationRepo *pgrepo.NotificationRepo
	Logger           *zap.Logger
	Config           config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	photoHandler := handlers.NewPhotoHandler(deps.PhotoService, deps.QuotaService, deps.UserRepo)
	quotaHandler := handlers.NewQuotaHandler(deps.QuotaService, deps.UserRepo)
	treatsHandler := handlers.NewTreatsHandler(deps.TreatsService, deps.TreatLimiter)
	likesHandler := handlers.NewLikesHandler(deps.LikeService)
	notificationsHandler := handlers.NewNotificationsHandler(deps.NotificationRepo)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.With(authMW).Post("/logout", authHandler.Logout)
	})

	r.Route("/photos", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/", photoHandler.Upload)
		r.Get("/", photoHandler.List)
		r.Delete("/{photoID}", photoHandler.Delete)
		r.Post("/{photoID}/like", likesHandler.Like)
		r.Delete("/{photoID}/like", likesHandler.Unlike)
	})

	r.With(authMW).Get("/quota", quotaHandler.Status)

	r.Route("/treats", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/give", treatsHandler.Give)
		r.Get("/balance", treatsHandler.Balance)
		r.Get("/history", treatsHandler.History)
	})

	r.With(authMW).Get("/notifications", notificationsHandler.List)
}
