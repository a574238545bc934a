package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	grpclib "google.golang.org/grpc"

	grpcadapter "github.com/simaogato/ventureflow/internal/adapter/grpc"
	"github.com/simaogato/ventureflow/internal/adapter/render"
	"github.com/simaogato/ventureflow/internal/adapter/repository/memory"
	"github.com/simaogato/ventureflow/internal/adapter/web"
	"github.com/simaogato/ventureflow/internal/config"
	"github.com/simaogato/ventureflow/internal/logger"
	"github.com/simaogato/ventureflow/internal/usecase/dashboard"
	"github.com/simaogato/ventureflow/internal/usecase/portfolio"
)

func main() {
	// 1. Load configuration
	cfgPath := os.Getenv("VF_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("VF_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// 2. Initialize Repositories (in-memory sessions)
	sessionRepo := memory.NewSessionRepository(cfg.Session.TTL)

	// 3. Initialize Services (Use Cases)
	portfolioService := portfolio.NewPortfolioService(sessionRepo, log)
	dashboardService := dashboard.NewDashboardService(sessionRepo)
	renderer := render.NewSVGRenderer(cfg.Chart.Width, cfg.Chart.Height)

	// 4. Build HTTP server
	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine, err := web.NewRouter(web.RouterDeps{
		Service:    portfolioService,
		Dashboard:  dashboardService,
		Sessions:   sessionRepo,
		Renderer:   renderer,
		Logger:     log,
		CookieName: cfg.Session.CookieName,
	})
	if err != nil {
		log.Fatal("build router failed", zap.Error(err))
	}
	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)

	go func() {
		log.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 5. Start gRPC Server
	var grpcServer *grpclib.Server
	if cfg.Server.GRPCEnabled {
		grpcServer = grpcadapter.NewGRPCServer(grpcadapter.NewServer(log), log)

		lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			log.Fatal("grpc listen failed", zap.String("addr", cfg.Server.GRPCAddr), zap.Error(err))
		}

		go func() {
			log.Info("grpc server starting", zap.String("addr", cfg.Server.GRPCAddr))
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	// Graceful shutdown
	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown failed", zap.Error(err))
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
		log.Info("grpc server stopped")
	}
}
