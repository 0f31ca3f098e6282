// 参考后端入口：读取配置、打开存储与会话、挂载路由并启动服务
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lotes-map/internal/api"
	"lotes-map/internal/config"
	"lotes-map/internal/logger"
	"lotes-map/internal/metrics"
	"lotes-map/internal/middleware"
	"lotes-map/internal/session"
	"lotes-map/internal/store"
	"lotes-map/internal/utils"
)

func openSessions(ctx context.Context, cfg config.Server) session.Store {
	l := logger.L()
	if cfg.SessionBackend == "memory" {
		l.Info("session_memory")
		return session.NewMemoryStore(cfg.SessionTTL)
	}
	rc := utils.OpenRedisFromEnv()
	if err := rc.Ping(ctx).Err(); err != nil {
		// 背景：Redis 不可用时退化为进程内会话，重启后需重新登录
		l.Error("redis_ping_error", "err", err)
		_ = rc.Close()
		return session.NewMemoryStore(cfg.SessionTTL)
	}
	l.Info("redis_ping_ok")
	return session.NewRedisStore(rc, cfg.SessionTTL)
}

func main() {
	config.Load()
	l := logger.Setup()
	defer logger.Close()
	cfg := config.ServerFromEnv()
	l.Debug("config_server", "addr", cfg.Addr, "store", cfg.StoreBackend, "sessions", cfg.SessionBackend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := store.Open(cfg.StoreBackend)
	if err != nil {
		l.Error("store_open_error", "err", err)
		os.Exit(1)
	}
	defer be.Close()
	if cfg.SeedDemoUser {
		if err := store.SeedDemoUser(ctx, be.Users); err != nil {
			l.Error("seed_demo_user_error", "err", err)
		} else {
			l.Info("seed_demo_user_ok")
		}
	}

	srv := &api.Server{
		Parcels:      be.Parcels,
		Users:        be.Users,
		Sessions:     openSessions(ctx, cfg),
		SessionTTL:   cfg.SessionTTL,
		SecureCookie: cfg.TLSEnable,
	}
	mux := api.BuildRoutes(srv)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("cache-control", "no-store")
		w.WriteHeader(http.StatusNoContent)
	})

	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.Wrap(handler)
	s := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(sctx)
	}()

	if cfg.TLSEnable {
		if err := utils.EnsureSelfSignedCert(cfg.TLSCertPath, cfg.TLSKeyPath, "lotes.local"); err != nil {
			l.Error("tls_cert_error", "err", err)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", cfg.Addr, "cert", cfg.TLSCertPath)
		err = s.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
	} else {
		l.Info("listening", "addr", cfg.Addr)
		err = s.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("serve_error", "err", err)
		os.Exit(1)
	}
	l.Info("shutdown_ok")
}
