package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"spacetraveling/cmd/internal/views"
	"spacetraveling/cmd/web/handlers"
	"spacetraveling/cmd/web/middleware"
	"spacetraveling/cmd/web/services"
	"spacetraveling/config"
	_ "spacetraveling/docs"
)

type Deps struct {
	Config   config.AppConfig
	Posts    *services.PostService
	Renderer *views.Renderer
	// Bus 가 nil 이면 webhook 라우트를 등록하지 않는다.
	Bus handlers.RebuildPublisher
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestTrace(), middleware.CORS("/api/", d.Config.Server.AllowedOrigins))
	if d.Config.Server.ServeStatic && d.Config.Site.OutputDir != "" {
		r.Use(middleware.StaticFirst(d.Config.Site.OutputDir))
	}

	title := d.Config.Site.Title

	r.GET("/", handlers.ListingPageHandler(d.Posts, d.Renderer, title))
	r.GET("/post/:slug", handlers.PostPageHandler(d.Posts, d.Renderer, title))
	r.GET("/feed.xml", handlers.FeedHandler(d.Posts))
	r.GET("/health", handlers.HealthHandler(d.Posts))

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.GET("/posts", handlers.ListPostsHandler(d.Posts))
	}

	if d.Config.Server.WebhookEnabled && d.Bus != nil {
		r.POST("/webhooks/content", handlers.ContentWebhookHandler(d.Bus))
	}

	r.NoRoute(handlers.NotFoundHandler(d.Renderer, title))
	return r
}
