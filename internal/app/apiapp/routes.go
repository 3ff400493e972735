package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	adminsvc "github.com/ashoka0402/Skillswapv6/internal/services/admin"
	analyticsvc "github.com/ashoka0402/Skillswapv6/internal/services/analytics"
	announcesvc "github.com/ashoka0402/Skillswapv6/internal/services/announcements"
	authsvc "github.com/ashoka0402/Skillswapv6/internal/services/auth"
	mediasvc "github.com/ashoka0402/Skillswapv6/internal/services/media"
	profilesvc "github.com/ashoka0402/Skillswapv6/internal/services/profiles"
	reputationsvc "github.com/ashoka0402/Skillswapv6/internal/services/reputation"
	statssvc "github.com/ashoka0402/Skillswapv6/internal/services/stats"
	swapsvc "github.com/ashoka0402/Skillswapv6/internal/services/swaps"
	"github.com/ashoka0402/Skillswapv6/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService         *authsvc.Service
	ProfileService      *profilesvc.Service
	SwapService         *swapsvc.Service
	StatsService        *statssvc.Service
	ReputationService   *reputationsvc.Service
	AnnouncementService *announcesvc.Service
	AnnouncementHub     *announcesvc.Hub
	AdminService        *adminsvc.Service
	MediaService        *mediasvc.Service
	AnalyticsService    *analyticsvc.Service
	Logger              *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService, deps.MediaService)
	usersHandler := handlers.NewUsersHandler(deps.ProfileService, deps.MediaService)
	swapHandler := handlers.NewSwapHandler(deps.SwapService)
	gamificationHandler := handlers.NewGamificationHandler(deps.ReputationService, deps.StatsService)
	announcementHandler := handlers.NewAnnouncementHandler(deps.AnnouncementService, deps.AnnouncementHub, deps.Logger)
	adminHandler := handlers.NewAdminHandler(deps.AdminService)
	mediaHandler := handlers.NewMediaHandler(deps.MediaService)
	eventsHandler := handlers.NewEventsHandler(deps.AnalyticsService)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	adminMW := RequireRole("admin")

	r.Get("/healthz", healthHandler.Get)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/admin/login", authHandler.AdminLogin)
			r.Post("/refresh", authHandler.Refresh)
			r.With(authMW).Post("/logout", authHandler.Logout)
			r.With(authMW).Post("/logout_all", authHandler.LogoutAll)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Use(authMW)
			r.Get("/", profileHandler.Me)
			r.Put("/", profileHandler.Update)
			r.Post("/skills/offered", profileHandler.AddOfferedSkill)
			r.Post("/skills/wanted", profileHandler.AddWantedSkill)
			r.Delete("/skills/offered", profileHandler.RemoveOfferedSkill)
			r.Delete("/skills/wanted", profileHandler.RemoveWantedSkill)
		})

		r.With(authMW).Get("/users", usersHandler.Browse)
		r.With(authMW).Get("/users/{id}", usersHandler.Get)

		r.Route("/swaps", func(r chi.Router) {
			r.Use(authMW)
			r.Post("/", swapHandler.Create)
			r.Get("/", swapHandler.ListMine)
			r.Get("/{id}", swapHandler.Get)
			r.Post("/{id}/accept", swapHandler.Accept)
			r.Post("/{id}/reject", swapHandler.Reject)
			r.Post("/{id}/complete", swapHandler.Complete)
			r.Post("/{id}/rate", swapHandler.Rate)
			r.Delete("/{id}", swapHandler.Cancel)
		})

		r.With(authMW).Get("/gamification", gamificationHandler.Summary)
		r.With(authMW).Get("/stats", gamificationHandler.Stats)

		r.Get("/announcements", announcementHandler.ListActive)
		r.Get("/ws/announcements", announcementHandler.Subscribe)

		r.Route("/media", func(r chi.Router) {
			r.Use(authMW)
			r.Post("/avatar", mediaHandler.UploadAvatar)
			r.Get("/avatar", mediaHandler.GetAvatar)
			r.Delete("/avatar", mediaHandler.DeleteAvatar)
		})

		r.With(authMW).Post("/events/batch", eventsHandler.Batch)
		r.With(authMW).Get("/events", eventsHandler.ListRecent)

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMW, adminMW)
			r.Get("/users", adminHandler.ListUsers)
			r.Post("/users/{id}/ban", adminHandler.BanUser)
			r.Post("/users/{id}/unban", adminHandler.UnbanUser)
			r.Get("/swaps", adminHandler.ListSwaps)
			r.Delete("/swaps/{id}", adminHandler.DeleteSwap)
			r.Post("/announcements", announcementHandler.Publish)
			r.Get("/announcements", announcementHandler.ListAll)
			r.Patch("/announcements/{id}", announcementHandler.SetActive)
			r.Delete("/announcements/{id}", announcementHandler.Delete)
			r.Get("/reports/{name}", adminHandler.Report)
		})
	})
}
