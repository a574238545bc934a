package web

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/simaogato/ventureflow/internal/adapter/render"
	"github.com/simaogato/ventureflow/internal/domain"
	"github.com/simaogato/ventureflow/internal/usecase/dashboard"
	"github.com/simaogato/ventureflow/internal/usecase/portfolio"
)

// RouterDeps are the collaborators of the HTTP surface
type RouterDeps struct {
	Service    *portfolio.PortfolioService
	Dashboard  *dashboard.DashboardService
	Sessions   domain.SessionRepository
	Renderer   *render.SVGRenderer
	Logger     *zap.Logger
	CookieName string
}

// NewRouter builds the gin engine serving the page, the JSON API and the infra endpoints
func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(logger))
	engine.Use(Metrics())
	engine.Use(corsMiddleware())

	health := &HealthHandler{Sessions: deps.Sessions}
	health.Register(engine)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	sessions := SessionMiddleware(deps.Service, deps.CookieName, logger)

	page, err := NewPageHandler(deps.Service, deps.Renderer, logger)
	if err != nil {
		return nil, err
	}
	page.Register(engine.Group("", sessions))

	dash := deps.Dashboard
	if dash == nil {
		dash = dashboard.NewDashboardService(deps.Sessions)
	}
	api := &APIHandler{Service: deps.Service, Dashboard: dash, Logger: logger}
	v1 := engine.Group("/api/v1")
	api.Register(v1.Group("", sessions), v1)

	return engine, nil
}
