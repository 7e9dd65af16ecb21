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

	"bookcatalog/internal/auth"
	"bookcatalog/internal/author"
	"bookcatalog/internal/book"
	"bookcatalog/internal/category"
	"bookcatalog/internal/config"
	"bookcatalog/internal/platform/logging"
	"bookcatalog/internal/user"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	dbPool := mustOpenDB(cfg.DatabaseDSN, logger)
	defer dbPool.Close()

	authorRepo := author.NewPostgresRepo(dbPool, cfg.DBTimeout)
	categoryRepo := category.NewPostgresRepo(dbPool, cfg.DBTimeout)
	bookRepo := book.NewPostgresRepo(dbPool, cfg.DBTimeout)
	userRepo := user.NewPostgresRepo(dbPool, cfg.DBTimeout)

	userService := user.NewService(userRepo)

	handlers := apiHandlers{
		books:      book.NewHTTPHandler(book.NewService(bookRepo), logger),
		authors:    author.NewHTTPHandler(author.NewService(authorRepo), logger),
		categories: category.NewHTTPHandler(category.NewService(categoryRepo), logger),
		users:      user.NewHTTPHandler(userService, logger),
		auth:       auth.NewHTTPHandler(auth.NewService(cfg.JWTSecret, cfg.JWTTTL, userService), logger),
		ready:      dbPool.Ping,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      newRouter(cfg, logger, handlers),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{"addr": cfg.Addr, "env": cfg.Env}).Info("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}

func mustOpenDB(dsn string, logger logrus.FieldLogger) *pgxpool.Pool {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.WithError(err).Fatal("cannot create db pool")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		logger.WithError(err).WithField("dsn", redactDSN(dsn)).Fatal("cannot ping database")
	}
	logger.Info("database connection OK")
	return pool
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
