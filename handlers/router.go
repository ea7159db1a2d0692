package handlers

import (
	"log/slog"
	"net/http"

	"rayob-cms/assets"
	"rayob-cms/helper"
	"rayob-cms/middleware"
	"rayob-cms/models"
	"rayob-cms/policy"
	"rayob-cms/repositories"
	"rayob-cms/services"
	"rayob-cms/slug"

	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	Logger  *slog.Logger
	Helper  *helper.HTTPHelper
	Gate    *policy.Gate
	Metrics *middleware.Metrics

	Tokens      services.TokenService
	AuthService services.AuthService
	UserService services.UserService

	Clients      repositories.OrderedRepository[models.Client]
	Team         repositories.OrderedRepository[models.TeamMember]
	Testimonials repositories.OrderedRepository[models.Testimonial]
	Company      repositories.SingletonRepository[models.CompanyOverview]

	SlugResolver *slug.Resolver
	// Uploader is nil when object storage is not configured.
	Uploader assets.Uploader

	LoginLimiter      *middleware.RateLimiter
	AllowedOrigins    []string
	AllowRegistration bool
}

func NewRouter(deps Dependencies) *gin.Engine {
	h := deps.Helper
	if h == nil {
		h = helper.NewHTTPHelper(deps.Logger)
	}
	resolver := deps.SlugResolver
	if resolver == nil {
		resolver = slug.NewResolver()
	}
	limiter := deps.LoginLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(10)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.Recovery(h, deps.Logger))
	router.Use(middleware.CORS(deps.AllowedOrigins))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	router.NoRoute(func(c *gin.Context) {
		h.SendError(c, &models.Error{Kind: models.KindNotFound, Message: "route not found"})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	authHandler := NewAuthHandler(deps.AuthService, h)
	userHandler := NewUserHandler(deps.UserService, h)
	clientHandler := NewOrderedHandler(deps.Clients, h)
	teamHandler := NewTeamHandler(deps.Team, resolver, h, deps.Logger)
	testimonialHandler := NewOrderedHandler(deps.Testimonials, h)
	companyHandler := NewCompanyHandler(deps.Company, h)

	authRequired := middleware.AuthMiddleware(deps.Tokens, h)
	contentWrite := middleware.RequirePermission(deps.Gate, policy.ActionContentWrite, h, deps.Logger)
	usersManage := middleware.RequirePermission(deps.Gate, policy.ActionUsersManage, h, deps.Logger)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", limiter.Middleware(h), authHandler.Login)
			if deps.AllowRegistration {
				auth.POST("/register", limiter.Middleware(h), authHandler.Register)
			}
			auth.POST("/logout", authRequired, authHandler.Logout)
			auth.GET("/me", authRequired, authHandler.Me)
		}

		clients := v1.Group("/clients")
		{
			clients.GET("", clientHandler.List)
			clients.GET("/:id", clientHandler.Get)
			clients.POST("", authRequired, contentWrite, clientHandler.Create)
			clients.PUT("", authRequired, contentWrite, clientHandler.Put)
			clients.DELETE("", authRequired, contentWrite, clientHandler.Delete)
		}

		team := v1.Group("/team")
		{
			team.GET("", teamHandler.List)
			team.GET("/slug/:slug", teamHandler.GetBySlug)
			team.GET("/:id", teamHandler.Get)
			team.POST("", authRequired, contentWrite, teamHandler.Create)
			team.PUT("", authRequired, contentWrite, teamHandler.Put)
			team.DELETE("", authRequired, contentWrite, teamHandler.Delete)
		}

		testimonials := v1.Group("/testimonials")
		{
			testimonials.GET("", testimonialHandler.List)
			testimonials.GET("/:id", testimonialHandler.Get)
			testimonials.POST("", authRequired, contentWrite, testimonialHandler.Create)
			testimonials.PUT("", authRequired, contentWrite, testimonialHandler.Put)
			testimonials.DELETE("", authRequired, contentWrite, testimonialHandler.Delete)
		}

		company := v1.Group("/company-overview")
		{
			company.GET("", companyHandler.Get)
			company.PUT("", authRequired, contentWrite, companyHandler.Put)
		}

		users := v1.Group("/users", authRequired, usersManage)
		{
			users.GET("", userHandler.List)
			users.POST("", userHandler.Create)
			users.GET("/:id", userHandler.Get)
			users.PUT("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
		}

		if deps.Uploader != nil {
			assetHandler := NewAssetHandler(deps.Uploader, h)
			v1.POST("/assets", authRequired, contentWrite, assetHandler.Upload)
		}
	}

	return router
}
