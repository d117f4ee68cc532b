package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/misrentas/misrentas-backend/internal/config"
	"github.com/misrentas/misrentas-backend/internal/logging"
	"github.com/misrentas/misrentas-backend/internal/repository/demo"
	miniorepo "github.com/misrentas/misrentas-backend/internal/repository/minio"
	"github.com/misrentas/misrentas-backend/internal/repository/ports"
	"github.com/misrentas/misrentas-backend/internal/repository/postgres"
	"github.com/misrentas/misrentas-backend/internal/service"
	transporthttp "github.com/misrentas/misrentas-backend/internal/transport/http"
	"github.com/misrentas/misrentas-backend/internal/util"
)

func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		writer, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			log.Printf("logstash mirror disabled: %v", err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stderr, writer))
			defer writer.Close()
		}
	}

	ttl, err := time.ParseDuration(cfg.SessionTTL)
	if err != nil {
		log.Printf("invalid SESSION_TTL %q, using 24h", cfg.SessionTTL)
		ttl = 24 * time.Hour
	}
	tokens := util.NewJWTManager(cfg.JWTSecret, ttl)

	var accessGate *util.AccessCodeGate
	if cfg.AdminAccessCode != "" {
		accessGate, err = util.NewAccessCodeGate(cfg.AdminAccessCode)
		if err != nil {
			log.Fatalf("admin access code: %v", err)
		}
	} else {
		log.Printf("ADMIN_ACCESS_CODE not set: admin endpoints are disabled")
	}
	sessions := service.NewSessionService(tokens, accessGate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := buildListingStore(ctx, cfg)

	syncSvc := service.NewSyncService(sessions, store)
	syncSvc.Start(ctx)
	defer syncSvc.Stop()

	formSvc := service.NewListingFormService(store)

	e := transporthttp.NewRouter(cfg.AllowOrigins)
	transporthttp.RegisterSessions(e, sessions)
	transporthttp.RegisterListings(e, sessions, syncSvc, formSvc)
	transporthttp.RegisterSwagger(e)

	if cfg.MediaUploadsEnabled() {
		client, err := miniorepo.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
		if err != nil {
			log.Printf("media uploads disabled: %v", err)
		} else {
			storage := miniorepo.NewStorage(client, cfg.MinIOPublicURL)
			transporthttp.RegisterMedia(e, sessions, storage, cfg.MinIOBucket)
		}
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server: %v", err)
	}
}

// buildListingStore picks the live Postgres store when credentials are
// present and reachable, and the read-only demo dataset otherwise. Demo mode
// is a deliberate degraded state, never a crash.
func buildListingStore(ctx context.Context, cfg config.Config) ports.ListingStore {
	storeCfg := cfg.Store()
	if !storeCfg.Configured() {
		log.Printf("store not configured: running in demo mode")
		return demo.NewStore()
	}

	db, err := postgres.New(storeCfg.DatabaseURL)
	if err != nil {
		log.Printf("store unreachable, falling back to demo mode: %v", err)
		return demo.NewStore()
	}
	if err := postgres.EnsureSchema(ctx, db, storeCfg.Namespace); err != nil {
		log.Printf("schema bootstrap failed, falling back to demo mode: %v", err)
		_ = db.Close()
		return demo.NewStore()
	}
	return postgres.NewListingRepo(db, storeCfg.DatabaseURL, storeCfg.Namespace)
}
