package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"

	httpctx "github.com/dtroode/contactkeeper/internal/api/http/context"
	"github.com/dtroode/contactkeeper/internal/api/http/router"
	httpServer "github.com/dtroode/contactkeeper/internal/api/http/server"
	"github.com/dtroode/contactkeeper/internal/config"
	"github.com/dtroode/contactkeeper/internal/logger"
	"github.com/dtroode/contactkeeper/internal/model"
	"github.com/dtroode/contactkeeper/internal/repository/memory"
	"github.com/dtroode/contactkeeper/internal/repository/postgres"
	"github.com/dtroode/contactkeeper/internal/server"
	"github.com/dtroode/contactkeeper/internal/service"
	"github.com/dtroode/contactkeeper/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

// stores groups the persistence backends selected at startup.
type stores struct {
	users         model.UserStore
	contacts      model.ContactStore
	refreshTokens model.RefreshTokenStore
	db            interface {
		Ping(ctx context.Context) error
	}
	close func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	st, err := openStores(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer st.close()

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	tokenService := service.NewTokenService(tokenManager, st.refreshTokens, logger)
	authService := service.NewAuth(st.users, tokenService, cfg.Password.Cost, logger)
	contactService := service.NewContact(st.contacts, logger)
	ctxMgr := httpctx.NewManager()

	if cfg.LogLevel >= 0 {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.New(authService, contactService, tokenService, st.db, ctxMgr, logger).Register()
	srv := httpServer.NewHTTPServer(engine, fmt.Sprintf(":%s", cfg.HTTP.Port))

	sl := server.NewSecurityLayer(cfg.HTTP)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func openStores(ctx context.Context, cfg config.Database, logger *logger.Logger) (stores, error) {
	if cfg.InMemory {
		logger.Warn("using in-memory storage, data will be lost on exit")
		mem := memory.New()
		return stores{
			users:         memory.NewUserRepository(mem),
			contacts:      memory.NewContactRepository(mem),
			refreshTokens: memory.NewRefreshTokenRepository(mem),
			db:            mem,
			close:         func() {},
		}, nil
	}

	db, err := postgres.NewConnection(ctx, cfg.DSN)
	if err != nil {
		return stores{}, err
	}
	return stores{
		users:         postgres.NewUserRepository(db),
		contacts:      postgres.NewContactRepository(db),
		refreshTokens: postgres.NewRefreshTokenRepository(db),
		db:            db,
		close: func() {
			if err := db.Close(); err != nil {
				logger.Error("failed to close database", "error", err)
			}
		},
	}, nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
