package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"accounts/internal/cache"
	"accounts/internal/config"
	"accounts/internal/database"
	"accounts/internal/dto"
	"accounts/internal/handler"
	"accounts/internal/logger"
	"accounts/internal/middleware"
	"accounts/internal/model"
	"accounts/internal/router"
	"accounts/internal/service"
	"accounts/internal/store"
	"accounts/internal/worker"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// 以下變數可於測試中覆寫
var (
	loadConfig      = config.Load
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	rollbackFn      = database.RollbackAll
	newWorkerPool   = worker.NewPool
	initSentry      = sentry.Init
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	shutdownServer  = func(ctx context.Context, e *echo.Echo) error { return e.Shutdown(ctx) }
	exitFunc        = os.Exit
)

// deps 一次執行所需的外部資源；closeFn 依建立的反向順序釋放
type deps struct {
	db       database.DB
	rdb      cache.Cache
	pool     worker.Pool
	accounts *service.AccountService
	tokens   *service.TokenIssuer
	closeFn  func()
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty}).
		With().Str("env", cfg.Env).Logger()
}

// openDeps 連線 postgres 與 redis，組出 AccountService。REDIS_ADDR 為空時不啟用登入節流。
func openDeps(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*deps, error) {
	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("DB 連線失敗: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("DB 連線失敗: %w", err)
	}

	var rdb cache.Cache
	if cfg.Redis.Addr != "" {
		rdb, err = newRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("Redis 連線失敗: %w", err)
		}
	} else {
		log.Warn().Msg("REDIS_ADDR 未設定，停用登入節流")
	}

	wp := newWorkerPool(cfg.HashWorkers)
	tokens := service.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	accounts := service.NewAccountService(
		store.NewUsers(db),
		service.NewPasswordHasher(wp, 0),
		tokens,
		service.WithThrottle(service.NewLoginThrottle(rdb, cfg.LoginMaxAttempts, cfg.LoginWindow)),
		service.WithLogger(log),
	)

	return &deps{
		db:       db,
		rdb:      rdb,
		pool:     wp,
		accounts: accounts,
		tokens:   tokens,
		closeFn: func() {
			wp.Stop()
			if rdb != nil {
				if err := rdb.Close(); err != nil {
					log.Warn().Err(err).Msg("關閉 Redis 連線失敗")
				}
			}
			db.Close()
		},
	}, nil
}

func newEcho(cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(log)

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(logger.RequestLogger(log))
	e.Use(middleware.Metrics())
	e.Use(middleware.SecureHeaders(cfg.IsProduction()))
	return e
}

// serve 啟動 HTTP 服務，ctx 結束時優雅關閉
func serve(ctx context.Context, cfg *config.Config) error {
	log := newLogger(cfg)

	if cfg.SentryDSN != "" {
		if err := initSentry(sentry.ClientOptions{Dsn: cfg.SentryDSN, Environment: cfg.Env}); err != nil {
			return fmt.Errorf("Sentry 初始化失敗: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	d, err := openDeps(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer d.closeFn()

	e := newEcho(cfg, log)
	router.Setup(e, router.Deps{
		DB:                 d.db,
		Cache:              d.rdb,
		Accounts:           d.accounts,
		Tokens:             d.tokens,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stop()
		log.Info().Str("addr", cfg.Addr()).Msg("HTTP 服務啟動")
		if err := startServer(e, cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP 服務異常結束: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("HTTP 服務關閉中")
		return shutdownServer(sctx, e)
	})
	return g.Wait()
}

// migrate 執行或退回所有 migration
func migrate(cfg *config.Config, down bool) error {
	if down {
		return rollbackFn(cfg.DatabaseURL)
	}
	return runMigrationsFn(cfg.DatabaseURL)
}

// createAdmin 建立管理員帳號，輸入沿用 API 的驗證規則
func createAdmin(ctx context.Context, cfg *config.Config, req dto.CreateUserRequest) (*model.User, error) {
	req.Role = string(model.RoleAdmin)
	if err := handler.NewValidator().Validate(&req); err != nil {
		return nil, err
	}
	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("Migration 執行失敗: %w", err)
	}

	d, err := openDeps(ctx, cfg, newLogger(cfg))
	if err != nil {
		return nil, err
	}
	defer d.closeFn()

	return d.accounts.CreateUser(ctx, service.NewAccount{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.RoleAdmin,
	})
}
