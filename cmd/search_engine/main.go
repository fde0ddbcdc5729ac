package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ogini-search/core/api"
	"github.com/ogini-search/core/internal/config"
	"github.com/ogini-search/core/internal/engine"
	"github.com/ogini-search/core/internal/kv"
	"github.com/ogini-search/core/internal/remotecache"
	"github.com/ogini-search/core/internal/remotestore"
)

func main() {
	var (
		help    = flag.Bool("help", false, "Show help message")
		version = flag.Bool("version", false, "Show version information")
		port    = flag.String("port", "8080", "Port to run the server on")
	)
	flag.Parse()

	if *help {
		fmt.Printf("ogini search core - crash-safe JSON document search engine\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nConfiguration is read from the environment (REDIS_HOST, KV_PATH, MONGO_URI, ...); see internal/config.\n")
		return
	}
	if *version {
		fmt.Printf("ogini search core v1.0.0\n")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	kvStore, err := kv.Open(cfg.KVPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.KVPath).Msg("failed to open embedded kv store")
	}
	defer kvStore.Close()

	coll, closeColl := mustCollection(cfg)
	defer closeColl()

	cache := remotecache.New(cfg.RedisAddr())

	eng, err := engine.NewEngine(kvStore, coll, cache, cfg.HotTierCapacity, cfg.IndexingWorkers)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize engine")
	}
	defer eng.Stop()

	router := gin.Default()
	api.SetupRoutes(router, eng)

	srv := &http.Server{
		Addr:           ":" + *port,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info().Str("port", *port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}

// mustCollection connects to Mongo when MONGO_URI is set, otherwise falls
// back to an in-process memory collection so the binary still runs without
// external dependencies for local development.
func mustCollection(cfg *config.Config) (remotestore.Collection, func()) {
	if cfg.MongoURI == "" {
		log.Warn().Msg("MONGO_URI not set, using in-process memory collection (not durable)")
		return remotestore.NewMemoryCollection(), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to ping mongo")
	}

	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from mongo")
		}
	}

	return remotestore.NewMongoCollection(client.Database(cfg.MongoDB)), closeFn
}
