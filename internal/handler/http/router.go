package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
	"github.com/mpikenya/mpi-backend/internal/handler/http/middleware"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

// RouterOptions are the transport settings of the router.
type RouterOptions struct {
	AllowedOrigins      []string
	RequestTimeout      time.Duration
	RatePerSecond       float64
	RateBurst           int
	AuthRatePerSecond   float64
	AuthRateBurst       int
	TrustedProxyHeaders []string
	GoogleClientID      string
	GoogleClientSecret  string
	GoogleRedirectURL   string
}

// Dependencies are the use cases served by the router.
type Dependencies struct {
	Auth          usecasecontract.IAuthUseCase
	PasswordReset usecasecontract.IPasswordResetUseCase
	Users         usecasecontract.IUserUseCase
	Admin         usecasecontract.IAdminUseCase
	News          usecasecontract.INewsUseCase
	Gallery       usecasecontract.IGalleryUseCase
	Subscriptions usecasecontract.ISubscriptionUseCase
	Notifications usecasecontract.INotificationUseCase
	Chat          usecasecontract.IChatUseCase
	Sessions      middleware.SessionVerifier
	Log           *logrus.Entry
	// Health reports whether the backing stores are reachable.
	Health func(ctx context.Context) error
}

type Router struct {
	authHandler         *AuthHandler
	oauthHandler        *OAuthHandler
	userHandler         *UserHandler
	adminHandler        *AdminHandler
	contentHandler      *ContentHandler
	subscriptionHandler *SubscriptionHandler
	contactHandler      *ContactHandler
	aiHandler           *AIHandler
	sessions            middleware.SessionVerifier
	federated           middleware.FederatedAuthenticator
	log                 *logrus.Entry
	health              func(ctx context.Context) error
	opts                RouterOptions
}

func NewRouter(deps Dependencies, opts RouterOptions) *Router {
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 10
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 20
	}
	if opts.AuthRatePerSecond <= 0 {
		opts.AuthRatePerSecond = 1
	}
	if opts.AuthRateBurst <= 0 {
		opts.AuthRateBurst = 5
	}
	log := deps.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Router{
		authHandler:         NewAuthHandler(deps.Auth, deps.PasswordReset),
		oauthHandler:        NewOAuthHandler(deps.Auth, opts.GoogleClientID, opts.GoogleClientSecret, opts.GoogleRedirectURL),
		userHandler:         NewUserHandler(deps.Users),
		adminHandler:        NewAdminHandler(deps.Admin),
		contentHandler:      NewContentHandler(deps.News, deps.Gallery),
		subscriptionHandler: NewSubscriptionHandler(deps.Subscriptions),
		contactHandler:      NewContactHandler(deps.Notifications),
		aiHandler:           NewAIHandler(deps.Chat),
		sessions:            deps.Sessions,
		federated:           deps.Auth,
		log:                 log,
		health:              deps.Health,
		opts:                opts,
	}
}

func (r *Router) SetupRoutes(router *gin.Engine) {
	router.Use(middleware.Recovery(r.log))
	router.Use(middleware.RequestLogger(r.log))
	router.Use(middleware.Metrics())
	router.Use(cors.New(corsConfig(r.opts.AllowedOrigins)))
	router.Use(middleware.RateLimiter(middleware.NewLimiter(r.opts.RatePerSecond, r.opts.RateBurst, r.opts.TrustedProxyHeaders...)))
	router.Use(middleware.Timeout(r.opts.RequestTimeout))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", r.healthz)

	api := router.Group("/api")
	userOnly := middleware.AuthMiddleware(r.sessions, r.federated, entity.RoleUser)
	adminOnly := middleware.AuthMiddleware(r.sessions, nil, entity.RoleAdmin)

	// Public auth routes, under a stricter limiter
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimiter(middleware.NewLimiter(r.opts.AuthRatePerSecond, r.opts.AuthRateBurst, r.opts.TrustedProxyHeaders...)))
	{
		auth.POST("/register", r.authHandler.Register)
		auth.POST("/login", r.authHandler.Login)
		auth.POST("/admin", r.authHandler.AdminLogin)
		auth.POST("/request-password-reset", r.authHandler.RequestPasswordReset)
		auth.POST("/verify-otp", r.authHandler.VerifyOTP)
		auth.POST("/reset-password", r.authHandler.ResetPassword)
		auth.POST("/federated-login", r.authHandler.FederatedLogin)

		// Google OAuth endpoints
		auth.GET("/google/login", r.oauthHandler.HandleGoogleLogin)
		auth.GET("/google/callback", r.oauthHandler.HandleGoogleCallback)
	}

	// Current user routes
	users := api.Group("/users", userOnly)
	{
		users.GET("/me", r.userHandler.GetCurrentUser)
		users.PUT("/me", r.userHandler.UpdateCurrentUser)
		users.POST("/profile-picture", r.userHandler.UploadProfilePicture)
	}

	api.GET("/subscriptions/count", r.subscriptionHandler.Count)
	subs := api.Group("/subscriptions", userOnly)
	{
		subs.POST("", r.subscriptionHandler.Subscribe)
		subs.DELETE("", r.subscriptionHandler.Unsubscribe)
		subs.GET("/status", r.subscriptionHandler.Status)
	}

	// Public content and forms
	api.GET("/news", r.contentHandler.ListNews)
	api.GET("/news/:id", r.contentHandler.GetNews)
	api.GET("/gallery", r.contentHandler.ListGallery)
	api.POST("/contact", r.contactHandler.SendContactMessage)
	api.POST("/volunteer", r.contactHandler.SubmitVolunteerApplication)
	api.POST("/chat", r.aiHandler.HandleChat)

	admin := api.Group("/admin", adminOnly)
	{
		admin.POST("/add-admin", r.adminHandler.AddAdmin)
		admin.GET("/users", r.adminHandler.ListUsers)
		admin.DELETE("/users/:id", r.adminHandler.DeleteUser)
		admin.GET("/personnel", r.adminHandler.ListPersonnel)
		admin.GET("/dashboard", r.adminHandler.Dashboard)
		admin.GET("/stats", r.adminHandler.Stats)

		admin.POST("/news", r.contentHandler.CreateNews)
		admin.DELETE("/news/:id", r.contentHandler.DeleteNews)
		admin.POST("/gallery", r.contentHandler.UploadGallery)
		admin.DELETE("/gallery/:id", r.contentHandler.DeleteGallery)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func (r *Router) healthz(c *gin.Context) {
	if r.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := r.health(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
