package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go-forum-app/internal/auth"
	"go-forum-app/internal/cache"
	"go-forum-app/internal/config"
	"go-forum-app/internal/data"
	"go-forum-app/internal/handler"
	"go-forum-app/internal/logger"
	"go-forum-app/internal/middleware"
	"go-forum-app/internal/render"
	"go-forum-app/internal/service"
	"go-forum-app/internal/session"
	"go-forum-app/internal/summary"
	"go-forum-app/internal/view"
	"go-forum-app/web"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "forum",
		Usage: "discussion forum server",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start the http server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "port", Usage: "listen port, overrides server.port"},
					&cli.BoolFlag{Name: "no-seed", Usage: "start with an empty forum"},
				},
				Action: serve,
			},
			{
				Name:  "policies",
				Usage: "print the default access policies",
				Action: func(c *cli.Context) error {
					enforcer, err := auth.NewEnforcer()
					if err != nil {
						return err
					}
					auth.SeedDefaultPolicies(enforcer, logger.Nop())
					policies, err := enforcer.GetPolicy()
					if err != nil {
						return err
					}
					for _, p := range policies {
						fmt.Fprintln(c.App.Writer, strings.Join(p, "\t"))
					}
					return nil
				},
			},
		},
		DefaultCommand: "serve",
	}
	if err := app.Run(os.Args); err != nil {
		// The logger may not be initialized yet.
		fmt.Fprintf(os.Stderr, "forum: %v\n", err)
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.String("port")
	}
	if c.Bool("no-seed") {
		cfg.Store.Seed = false
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, os.Stdout)

	// --- Store Initialization ---
	log.Info("Opening in-memory forum store...")
	store, err := data.OpenStore()
	if err != nil {
		log.Fatal(err, "Failed to open store")
	}
	defer store.Close()
	if cfg.Store.Seed {
		if err := data.Seed(context.Background(), store); err != nil {
			log.Fatal(err, "Failed to seed store")
		}
		log.Info("Demo community loaded.")
	}

	// --- Session Management Setup ---
	sessionManager := session.New(cfg.Session, cfg.Server.TLS.Enabled, store.DB.DB)

	// --- Authorization Setup ---
	enforcer, err := auth.NewEnforcer()
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	auth.SeedDefaultPolicies(enforcer, log)

	// --- View Template Initialization ---
	log.Info("Initializing view templates...")
	viewService, err := view.New(web.TemplateFS, render.New())
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}

	// --- Cache Initialization ---
	log.Info("Initializing SQLite cache...")
	summaryCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal(err, "Failed to initialize cache")
	}
	defer summaryCache.Close()

	// --- Activity Summary ---
	summaries := summary.NewService(summary.NewOpenAISummarizer(cfg.Summary), summaryCache, cfg.Cache.SummaryTTL, log)
	if cfg.Summary.APIKey == "" {
		log.Warn("No summary API key configured; the admin activity summary is disabled.")
	}

	// --- View Counting ---
	views := newViewCounter(cfg.Views, store, log)

	// --- Dependency Injection and Handler Initialization ---
	forumService := service.NewForumService(store, views, log, cfg.Store)
	nav := handler.NewNavigator(forumService, summaries, sessionManager, log)

	authzMiddleware := middleware.Authorizer(enforcer, sessionManager, store.Users, log)
	errorMiddleware := middleware.Error(log, viewService)

	// --- Router Setup ---
	router := handler.NewRouter(handler.Handlers{
		Forum: handler.NewForumHandler(nav, viewService, cfg.Store.RootAdmin),
		Auth:  handler.NewAuthHandler(nav),
		Admin: handler.NewAdminHandler(nav),
		Seo:   handler.NewSeoHandler(forumService, cfg.Server.BaseURL),
	}, authzMiddleware, errorMiddleware, sessionManager, web.StaticFS)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go purgeCache(ctx, summaryCache, cfg.Cache.SummaryTTL, log)

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
	return nil
}

// newViewCounter returns the configured view counter. An unreachable Redis
// falls back to counting in the store.
func newViewCounter(cfg config.ViewsConfig, store *data.Store, log logger.Logger) service.ViewCounter {
	storeCounter := service.NewStoreViewCounter(store.Views, cfg.Window)
	if cfg.Backend != "redis" {
		return storeCounter
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Error(err, "Invalid redis URL; counting views in the store")
		return storeCounter
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Error(err, "Redis is unreachable; counting views in the store")
		client.Close()
		return storeCounter
	}
	log.Info("Counting topic views in Redis.")
	return service.NewRedisViewCounter(client, storeCounter, cfg.Window)
}

// purgeCache drops expired cache entries until ctx is done.
func purgeCache(ctx context.Context, c *cache.Cache, every time.Duration, log logger.Logger) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := c.Purge(ctx)
			if err != nil {
				log.Error(err, "Failed to purge cache")
				continue
			}
			if n > 0 {
				log.Debug(fmt.Sprintf("Purged %d expired cache entries", n))
			}
		}
	}
}
