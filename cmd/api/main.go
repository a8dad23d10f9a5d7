package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/origenapp/origen-core/internal/config"
	"github.com/origenapp/origen-core/internal/gateway"
	"github.com/origenapp/origen-core/internal/httpx"
	"github.com/origenapp/origen-core/internal/localstate"
	"github.com/origenapp/origen-core/internal/logging"
	"github.com/origenapp/origen-core/internal/postgres"
	"github.com/origenapp/origen-core/internal/store"
	"github.com/origenapp/origen-core/internal/syncx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	_, cleanup, err := logging.New(cfg.ServiceName, cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Cross-instance channel. Optional infrastructure: any failure here
	// degrades to the no-op notifier, never aborts startup.
	var notifier syncx.Notifier = syncx.Noop{}
	switch cfg.SyncTransport {
	case "redis":
		rdb := syncx.NewRedisClient(cfg.RedisAddr)
		defer rdb.Close()
		if ch, err := syncx.NewRedisChannel(ctx, rdb, cfg.SyncChannel); err != nil {
			log.Printf("sync channel unavailable, running solo: %v", err)
		} else {
			notifier = ch
		}
	case "kafka":
		bus := syncx.NewKafkaBus(cfg.KafkaBrokers, cfg.SyncChannel, cfg.ServiceName)
		bus.Start(ctx)
		notifier = bus
	}
	defer func() { _ = notifier.Close() }()

	// Store
	st := store.New(gateway.NewPostgres(db), notifier, localstate.NewFile(cfg.StatePath), store.Options{
		DebounceWindow: cfg.SettingsDebounce,
		SavedHold:      cfg.SettingsSavedHold,
	})
	defer st.Close()

	if err := st.EnsureFixedAccounts(ctx, store.DefaultFixedAccounts()); err != nil {
		log.Printf("account bootstrap: %v", err)
	}
	st.Reload(ctx)

	// HTTP surface
	router := httpx.NewRouter(cfg.ServiceName)
	sh := &httpx.StoreHandler{Store: st}
	sh.Register(router)
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	cancel()
}
