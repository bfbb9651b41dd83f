package main

import (
	"aresclub/aresclub/catalog"
	"aresclub/aresclub/config"
	"aresclub/aresclub/controllers"
	"aresclub/aresclub/routes"
	"aresclub/aresclub/services/auth"
	"aresclub/aresclub/services/chat"
	"aresclub/aresclub/sources/psql"
	"aresclub/aresclub/sources/psql/dao"
	"aresclub/aresclub/sources/storage"
	"aresclub/aresclub/utils/logging"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logging.InitLogger(cfg.LogDir)
	defer logging.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.AppLogger.Error("database connection error", zap.Error(err))
		logging.Sync()
		os.Exit(1)
	}
	defer db.Close()

	userDAO := dao.NewUserDAO(db.DB)
	chatDAO := dao.NewChatMessageDAO(db.DB)
	interactionDAO := dao.NewInteractionDAO(db.DB)
	contactDAO := dao.NewContactDAO(db.DB)

	if _, _, err := auth.SeedAdmin(ctx, userDAO, auth.SeedAccount{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}); err != nil {
		logging.AppLogger.Error("seed admin error", zap.Error(err))
		logging.Sync()
		os.Exit(1)
	}

	cat, err := catalog.Default()
	if err != nil {
		logging.AppLogger.Error("catalog error", zap.Error(err))
		logging.Sync()
		os.Exit(1)
	}

	guard := auth.NewGuard(userDAO, cfg.JWTSecret, cfg.AccessTokenTTL())
	hub := chat.NewHub(chatDAO, guard, chat.Options{
		PersistTimeout:  cfg.PersistTimeout,
		DeliveryTimeout: cfg.DeliveryTimeout,
		ClientBuffer:    cfg.ClientBuffer,
	})

	var archive controllers.TranscriptArchive
	if cfg.ArchiveEnabled() {
		minioClient, err := storage.NewMinIOClient(ctx, cfg)
		if err != nil {
			// the chat works without it; only /chat/archive reports the outage
			logging.ErrorLogger.Error("minio connection error", zap.Error(err))
		} else {
			archive = minioClient
		}
	}

	r := routes.NewRouter(routes.Deps{
		Auth:           controllers.NewAuthController(guard),
		Chat:           controllers.NewChatController(hub, guard, archive),
		Catalog:        controllers.NewCatalogController(cat, interactionDAO, cfg.WhatsAppURL),
		Tracking:       controllers.NewTrackingController(contactDAO, interactionDAO, chatDAO, cfg.WhatsAppURL),
		Health:         controllers.NewHealthController(db),
		Users:          guard,
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: 60 * time.Second,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.AppLogger.Error("server listen error", zap.Error(err))
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	// hijacked websocket connections are not tracked by Shutdown
	hub.Close()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.AppLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
