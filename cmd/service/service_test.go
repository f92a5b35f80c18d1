package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"accounts/internal/cache"
	"accounts/internal/config"
	"accounts/internal/database"
	"accounts/internal/worker"

	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func restoreGlobals() {
	loadConfig = config.Load
	newPgxPool = database.NewPgxPool
	newRedisClient = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	rollbackFn = database.RollbackAll
	newWorkerPool = worker.NewPool
	initSentry = sentry.Init
	startServer = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	shutdownServer = func(ctx context.Context, e *echo.Echo) error { return e.Shutdown(ctx) }
	exitFunc = os.Exit
}

func testConfig() *config.Config {
	return &config.Config{
		Port:               "8080",
		Env:                "test",
		DatabaseURL:        "db",
		JWTSecret:          "secret",
		JWTTTL:             time.Hour,
		HashWorkers:        1,
		LoginMaxAttempts:   5,
		LoginWindow:        time.Minute,
		RateLimitPerMinute: 10,
		LogLevel:           "error",
		Redis:              config.RedisConfig{Addr: "127", Password: "pw", DB: 1},
	}
}

// recorder 記錄各個注入點是否被呼叫
type recorder struct {
	mu     sync.Mutex
	called map[string]bool
}

func (r *recorder) mark(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.called[name] = true
}

func (r *recorder) has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.called[name]
}

func stubDeps(t *testing.T) *recorder {
	t.Helper()
	t.Cleanup(restoreGlobals)
	rec := &recorder{called: map[string]bool{}}
	newPgxPool = func(ctx context.Context, url string) (database.DB, error) {
		rec.mark("pgx")
		require.Equal(t, "db", url)
		return &database.FakeDB{
			PingFn:  func(context.Context) error { return nil },
			CloseFn: func() { rec.mark("dbClose") },
		}, nil
	}
	newRedisClient = func(ctx context.Context, addr, pwd string, db int) (cache.Cache, error) {
		rec.mark("redis")
		require.Equal(t, "127", addr)
		require.Equal(t, "pw", pwd)
		require.Equal(t, 1, db)
		return &cache.FakeCache{CloseFn: func() error { rec.mark("redisClose"); return nil }}, nil
	}
	runMigrationsFn = func(string) error { rec.mark("migrate"); return nil }
	rollbackFn = func(string) error { rec.mark("rollback"); return nil }
	startServer = func(*echo.Echo, string) error { rec.mark("start"); return nil }
	shutdownServer = func(context.Context, *echo.Echo) error { rec.mark("shutdown"); return nil }
	return rec
}

func TestServeSuccess(t *testing.T) {
	rec := stubDeps(t)

	require.NoError(t, serve(context.Background(), testConfig()))
	for _, k := range []string{"pgx", "redis", "migrate", "start", "shutdown", "dbClose", "redisClose"} {
		require.True(t, rec.has(k), k)
	}
}

func TestServeShutdownOnCancel(t *testing.T) {
	stubDeps(t)
	stopped := make(chan struct{})
	started := make(chan struct{})
	startServer = func(*echo.Echo, string) error {
		close(started)
		<-stopped
		return http.ErrServerClosed
	}
	shutdownServer = func(context.Context, *echo.Echo) error {
		close(stopped)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- serve(ctx, testConfig()) }()

	<-started
	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServeWithoutRedis(t *testing.T) {
	rec := stubDeps(t)
	cfg := testConfig()
	cfg.Redis.Addr = ""

	require.NoError(t, serve(context.Background(), cfg))
	require.False(t, rec.has("redis"))
	require.True(t, rec.has("start"))
}

func TestServeSentry(t *testing.T) {
	stubDeps(t)
	cfg := testConfig()
	cfg.SentryDSN = "https://key@sentry.example.com/1"

	var got sentry.ClientOptions
	initSentry = func(opts sentry.ClientOptions) error { got = opts; return nil }
	require.NoError(t, serve(context.Background(), cfg))
	require.Equal(t, cfg.SentryDSN, got.Dsn)
	require.Equal(t, "test", got.Environment)

	initSentry = func(sentry.ClientOptions) error { return errors.New("sentry") }
	require.ErrorContains(t, serve(context.Background(), cfg), "Sentry")
}

func TestServeErrors(t *testing.T) {
	t.Run("migrate", func(t *testing.T) {
		rec := stubDeps(t)
		runMigrationsFn = func(string) error { return errors.New("migrate") }
		require.ErrorContains(t, serve(context.Background(), testConfig()), "Migration")
		require.False(t, rec.has("pgx"))
	})

	t.Run("pgx", func(t *testing.T) {
		stubDeps(t)
		newPgxPool = func(context.Context, string) (database.DB, error) { return nil, errors.New("db") }
		require.ErrorContains(t, serve(context.Background(), testConfig()), "DB")
	})

	t.Run("ping", func(t *testing.T) {
		rec := stubDeps(t)
		newPgxPool = func(context.Context, string) (database.DB, error) {
			return &database.FakeDB{
				PingFn:  func(context.Context) error { return errors.New("down") },
				CloseFn: func() { rec.mark("dbClose") },
			}, nil
		}
		require.ErrorContains(t, serve(context.Background(), testConfig()), "DB")
		require.True(t, rec.has("dbClose"))
	})

	t.Run("redis", func(t *testing.T) {
		rec := stubDeps(t)
		newRedisClient = func(context.Context, string, string, int) (cache.Cache, error) {
			return nil, errors.New("redis")
		}
		require.ErrorContains(t, serve(context.Background(), testConfig()), "Redis")
		require.True(t, rec.has("dbClose"))
	})

	t.Run("start", func(t *testing.T) {
		rec := stubDeps(t)
		startServer = func(*echo.Echo, string) error { return errors.New("bind") }
		require.ErrorContains(t, serve(context.Background(), testConfig()), "bind")
		require.True(t, rec.has("shutdown"))
		require.True(t, rec.has("dbClose"))
	})
}

func TestMigrate(t *testing.T) {
	rec := stubDeps(t)
	require.NoError(t, migrate(testConfig(), false))
	require.True(t, rec.has("migrate"))
	require.False(t, rec.has("rollback"))
	require.NoError(t, migrate(testConfig(), true))
	require.True(t, rec.has("rollback"))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	rec := stubDeps(t)
	loadConfig = func(context.Context) (*config.Config, error) { return testConfig(), nil }

	out, err := execute(t, "migrate", "up")
	require.NoError(t, err)
	require.Contains(t, out, "migrate up")
	require.True(t, rec.has("migrate"))

	out, err = execute(t, "migrate", "down")
	require.NoError(t, err)
	require.Contains(t, out, "migrate down")
	require.True(t, rec.has("rollback"))

	_, err = execute(t, "serve")
	require.NoError(t, err)
	require.True(t, rec.has("start"))

	_, err = execute(t, "serve", "extra")
	require.Error(t, err)

	loadConfig = func(context.Context) (*config.Config, error) { return nil, errors.New("config: missing") }
	for _, args := range [][]string{{}, {"migrate", "up"}, {"create-admin"}} {
		_, err = execute(t, args...)
		require.ErrorContains(t, err, "config", strings.Join(args, " "))
	}
}

type rowFunc func(dest ...any) error

func (f rowFunc) Scan(dest ...any) error { return f(dest...) }

func TestCreateAdmin(t *testing.T) {
	rec := stubDeps(t)
	loadConfig = func(context.Context) (*config.Config, error) { return testConfig(), nil }
	var inserted []any
	db := &database.FakeDB{
		PingFn:  func(context.Context) error { return nil },
		CloseFn: func() { rec.mark("dbClose") },
	}
	db.BeginFn = func(context.Context) (pgx.Tx, error) { return &database.FakeTx{DB: db}, nil }
	db.QueryRowFn = func(_ context.Context, sql string, args ...any) pgx.Row {
		if strings.Contains(sql, "INSERT") {
			inserted = args
			return rowFunc(func(...any) error { return nil })
		}
		return rowFunc(func(...any) error { return pgx.ErrNoRows })
	}
	newPgxPool = func(context.Context, string) (database.DB, error) { return db, nil }

	t.Run("validation", func(t *testing.T) {
		_, err := execute(t, "create-admin", "--name", "Root", "--email", "bad", "--password", "short")
		require.ErrorContains(t, err, "email must be a valid email")
		require.ErrorContains(t, err, "password must be at least 8 characters")
		require.Nil(t, inserted)
	})

	t.Run("success", func(t *testing.T) {
		out, err := execute(t, "create-admin", "--name", "Root", "--email", "Root@Example.com", "--password", "Secret123!")
		require.NoError(t, err)
		require.Contains(t, out, "Root@Example.com")
		require.Len(t, inserted, 5)
		require.Equal(t, "Root@Example.com", inserted[2])
		require.Equal(t, "admin", inserted[4])
		require.True(t, rec.has("dbClose"))
	})
}

func TestMainExit(t *testing.T) {
	stubDeps(t)
	args := os.Args
	t.Cleanup(func() { os.Args = args })

	exitCode := 0
	exitFunc = func(code int) { exitCode = code }
	loadConfig = func(context.Context) (*config.Config, error) { return testConfig(), nil }

	os.Args = []string{"accounts", "migrate", "up"}
	main()
	require.Equal(t, 0, exitCode)

	loadConfig = func(context.Context) (*config.Config, error) { return nil, errors.New("config") }
	main()
	require.Equal(t, 1, exitCode)
}
