package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	catalogdomain "github.com/studiolane/studiolane/internal/catalog/domain"
	"github.com/studiolane/studiolane/internal/config"
	"github.com/studiolane/studiolane/internal/observability"
	obsmiddleware "github.com/studiolane/studiolane/internal/observability/logger"
	obsmetrics "github.com/studiolane/studiolane/internal/observability/metrics"
	obstracing "github.com/studiolane/studiolane/internal/observability/tracing"
	organizationdomain "github.com/studiolane/studiolane/internal/organization/domain"
	sitesettingdomain "github.com/studiolane/studiolane/internal/sitesetting/domain"
	templatesyncdomain "github.com/studiolane/studiolane/internal/templatesync/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	db     *gorm.DB

	organizationSvc organizationdomain.Service
	serviceSvc      catalogdomain.ItemService[catalogdomain.ServiceOffering]
	productSvc      catalogdomain.ItemService[catalogdomain.Product]
	articleSvc      catalogdomain.ItemService[catalogdomain.Article]
	courseSvc       catalogdomain.ItemService[catalogdomain.Course]
	siteSettingSvc  sitesettingdomain.Service
	templateSyncSvc templatesyncdomain.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	OrganizationSvc organizationdomain.Service
	ServiceSvc      catalogdomain.ItemService[catalogdomain.ServiceOffering]
	ProductSvc      catalogdomain.ItemService[catalogdomain.Product]
	ArticleSvc      catalogdomain.ItemService[catalogdomain.Article]
	CourseSvc       catalogdomain.ItemService[catalogdomain.Course]
	SiteSettingSvc  sitesettingdomain.Service
	TemplateSyncSvc templatesyncdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		organizationSvc: p.OrganizationSvc,
		serviceSvc:      p.ServiceSvc,
		productSvc:      p.ProductSvc,
		articleSvc:      p.ArticleSvc,
		courseSvc:       p.CourseSvc,
		siteSettingSvc:  p.SiteSettingSvc,
		templateSyncSvc: p.TemplateSyncSvc,
	}

	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")

	// Authentication and role checks run upstream at the platform gateway.
	admin.POST("/template/sync", s.RunTemplateSync)

	admin.GET("/orgs", s.ListOrganizations)
	admin.POST("/orgs", s.CreateOrganization)
	admin.GET("/orgs/:orgId", s.GetOrganization)
	admin.PATCH("/orgs/:orgId/status", s.UpdateOrganizationStatus)

	org := admin.Group("/orgs/:orgId")

	registerItemRoutes(org, "services", s.serviceSvc)
	registerItemRoutes(org, "products", s.productSvc)
	registerItemRoutes(org, "articles", s.articleSvc)
	registerItemRoutes(org, "courses", s.courseSvc)

	org.GET("/settings", s.GetSiteSettings)
	org.PATCH("/settings", s.UpdateSiteSettings)
}

func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}
