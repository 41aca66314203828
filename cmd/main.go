// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"tz-api/internal/api"
	"tz-api/internal/config"
	"tz-api/internal/geoip"
	"tz-api/internal/logger"
	"tz-api/internal/metrics"
	"tz-api/internal/middleware"
	"tz-api/internal/migrate"
	"tz-api/internal/store"
	"tz-api/internal/tzindex"
	"tz-api/internal/utils"
	"tz-api/internal/version"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()
	l.Debug("log_init_ok")
	cfg, err := config.Load(os.Getenv("TZ_CONFIG"))
	if err != nil {
		l.Error("config_error", "err", err)
		os.Exit(1)
	}
	l.Debug("config_api_base", "base", cfg.APIBase)

	// 表缺失时仍然启动，查询返回 503，待表就位后通过 reload-tables 加载
	idx := tzindex.NewHandle(nil)
	if ix, err := idx.Reload(cfg.DataDir); err != nil {
		l.Warn("index_unavailable", "dir", cfg.DataDir, "err", err)
	} else {
		metrics.IndexLeaves.Set(float64(ix.NumLeaves()))
	}

	opts := api.Options{
		Index:      idx,
		Cache:      cfg.Cache,
		DataDir:    cfg.DataDir,
		AdminToken: cfg.AdminToken,
	}

	if cfg.GeoIPCityPath != "" {
		gr, err := geoip.Open(cfg.GeoIPCityPath)
		if err != nil {
			l.Error("geoip_open_error", "path", cfg.GeoIPCityPath, "err", err)
		} else {
			defer gr.Close()
			md := gr.Metadata()
			l.Info("geoip_ready", "type", md.DatabaseType, "build_epoch", md.BuildEpoch)
			opts.GeoIP = gr
		}
	} else {
		l.Info("geoip_disabled")
	}

	db, err := utils.OpenPostgres(cfg.Postgres)
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	if db == nil {
		l.Info("db_disabled")
	} else {
		defer db.Close()
		if err := db.Ping(); err != nil {
			l.Error("db_ping_error", "err", err)
		} else {
			l.Info("db_ping_ok")
		}
		if err := migrate.EnsureSchema(db); err != nil {
			l.Error("schema_error", "err", err)
			os.Exit(1)
		}
		opts.Store = store.AttachDB(db)
	}

	rc := utils.OpenRedis(cfg.Redis)
	if rc == nil {
		l.Info("redis_disabled")
	} else {
		defer rc.Close()
		if err := rc.Ping(context.Background()).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
		opts.Redis = rc
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, api.BuildRoutes(opts)))
	mux.Handle(cfg.APIBase+"/metrics", metrics.Handler())
	mux.HandleFunc(cfg.APIBase+"/healthz", func(w http.ResponseWriter, r *http.Request) {
		if idx.Load() == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc(cfg.APIBase+"/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(version.Commit + "\n"))
	})

	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.Wrap(handler, cfg.RateLimit)
	s := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		l.Info("shutdown_begin")
		_ = s.Shutdown(sctx)
	}()

	if cfg.TLS.Enabled {
		if err := utils.EnsureSelfSignedCert(cfg.TLS.CertPath, cfg.TLS.KeyPath, "tz-api.local"); err != nil {
			l.Error("tls_cert_error", "err", err)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", cfg.Addr, "cert", cfg.TLS.CertPath, "commit", version.Commit)
		err = s.ListenAndServeTLS(cfg.TLS.CertPath, cfg.TLS.KeyPath)
	} else {
		l.Info("listening", "addr", cfg.Addr, "commit", version.Commit)
		err = s.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("server_error", "err", err)
		os.Exit(1)
	}
	l.Info("shutdown_done")
}
