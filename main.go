// main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gewnthar/routeboard/apiclient"
	"github.com/gewnthar/routeboard/config"
	"github.com/gewnthar/routeboard/database"
	"github.com/gewnthar/routeboard/filter"
	"github.com/gewnthar/routeboard/handlers"
	"github.com/gewnthar/routeboard/logger"
	"github.com/gewnthar/routeboard/scraper"
	"github.com/gewnthar/routeboard/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func configPath() string {
	if p := os.Getenv("ROUTEBOARD_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat("config/config.yaml"); err == nil {
		return "config/config.yaml"
	}
	return "" // defaults and environment only
}

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		logrus.WithError(err).Fatal("Error loading configuration")
	}

	accessLog, err := logger.Setup(cfg.Log)
	if err != nil {
		logrus.WithError(err).Fatal("Error configuring logging")
	}
	logrus.WithFields(logrus.Fields{
		"port":     cfg.Server.Port,
		"source":   cfg.Source.Kind,
		"upstream": cfg.Upstream.BaseURL,
	}).Info("Starting routeboard")

	client, err := apiclient.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout,
		apiclient.WithSessionID(cfg.Upstream.SessionID),
		apiclient.WithPrimePath(cfg.Upstream.RoutesPagePath),
	)
	if err != nil {
		logrus.WithError(err).Fatal("Error creating upstream client")
	}

	deps := services.SourceDeps{
		API:     client,
		Fetcher: scraper.NewPageFetcher(nil, cfg.Upstream.Timeout),
		PageURL: strings.TrimRight(cfg.Upstream.BaseURL, "/") + "/" + strings.TrimLeft(cfg.Upstream.RoutesPagePath, "/"),
	}
	if cfg.Source.Kind == config.SourceDB {
		if err := database.InitDB(cfg.Database); err != nil {
			logrus.WithError(err).Fatal("Error initializing database")
		}
		defer database.CloseDB()

		routeStore, err := database.NewRouteStore(database.DB, cfg.Database.Table)
		if err != nil {
			logrus.WithError(err).Fatal("Error creating route store")
		}
		deps.DB = routeStore
	}

	source, err := services.NewSource(cfg.Source.Kind, deps)
	if err != nil {
		logrus.WithError(err).Fatal("Error creating route source")
	}

	match, err := filter.ParseDifficultyMatch(cfg.Filter.DifficultyMatch)
	if err != nil {
		logrus.WithError(err).Fatal("Error in filter configuration")
	}
	store := filter.NewStore(source, filter.WithDifficultyMatch(match))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// An unreachable source leaves an empty projection; the panel can refresh later.
	if err := store.Collect(ctx); err != nil {
		logrus.WithError(err).Warn("Initial collect failed")
	}

	admin := services.NewAdminService(client, store, services.RulesFromConfig(cfg.Validation))
	sheets := services.NewSheetsService(client, store)
	h := handlers.NewHandler(store, admin, sheets, source.Name())

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(h, cfg.Server, accessLog)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("Server starting on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Error starting server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}
	logrus.Info("Server stopped")
}
