// parlord 是牌桌服务进程: WebSocket 网关 + 房间服务 + 可插拔的
// 文档存储与账本后端. 所有对局状态都在存储层, 进程本身无状态,
// 同一存储上可以并排跑多个实例.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"parlor-lite/internal/config"
	"parlor-lite/internal/docstore"
	"parlor-lite/internal/gateway"
	"parlor-lite/internal/ledger"
	"parlor-lite/internal/room"
	"parlor-lite/internal/roster"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// 日志配置还没就位, 用默认 logger 报错.
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cfg.Log.SlogLevel(),
		TimeFormat: time.TimeOnly,
	}))
	slog.SetDefault(logger)

	store, err := openStore(cfg.Store)
	if err != nil {
		logger.Error("failed to open document store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("document store ready", "backend", cfg.Store.Backend)

	accounts, err := openLedger(cfg.Ledger)
	if err != nil {
		logger.Error("failed to open ledger", "backend", cfg.Ledger.Backend, "error", err)
		os.Exit(1)
	}
	defer accounts.Close()
	logger.Info("ledger ready", "backend", cfg.Ledger.Backend)

	defaults, err := cfg.RoomDefaults()
	if err != nil {
		logger.Error("failed to load table defaults", "error", err)
		os.Exit(1)
	}

	rooms := room.New(store, accounts, defaults, logger.With("component", "room"))
	gw := gateway.New(rooms, roster.NewMemory(), logger.With("component", "gateway"))

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.Server.Addr, Handler: mux}
	go func() {
		logger.Info("server started", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// 优雅退出: 先停 HTTP, 再断被劫持的 WebSocket 连接.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", "error", err)
	}
	gw.Close()
	logger.Info("server stopped")
}

func openStore(cfg config.StoreConfig) (docstore.Store, error) {
	switch cfg.Backend {
	case "memory":
		return docstore.NewMemory(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		return docstore.NewRedis(client), nil
	case "nats":
		nc, err := nats.Connect(cfg.NATS.URL)
		if err != nil {
			return nil, err
		}
		return docstore.NewNATS(nc, cfg.NATS.Bucket)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func openLedger(cfg config.LedgerConfig) (ledger.Service, error) {
	switch cfg.Backend {
	case "memory":
		return ledger.NewMemory(), nil
	case "sqlite":
		return ledger.NewSQLite(cfg.SQLitePath)
	case "postgres":
		return ledger.NewPostgres(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Backend)
	}
}
