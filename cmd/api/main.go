package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cafe-backoffice/internal/config"
	"cafe-backoffice/internal/db"
	"cafe-backoffice/internal/events"
	"cafe-backoffice/internal/httpserver"
	"cafe-backoffice/internal/identity"
	"cafe-backoffice/internal/kvstore"
	"cafe-backoffice/internal/migrate"
	categoryrepo "cafe-backoffice/internal/repository/category"
	orderrepo "cafe-backoffice/internal/repository/order"
	productrepo "cafe-backoffice/internal/repository/product"
	tokenrepo "cafe-backoffice/internal/repository/token"
	userrepo "cafe-backoffice/internal/repository/user"
	"cafe-backoffice/internal/seed"
	cartsvc "cafe-backoffice/internal/service/cart"
	categorysvc "cafe-backoffice/internal/service/category"
	ordersvc "cafe-backoffice/internal/service/order"
	productsvc "cafe-backoffice/internal/service/product"
	reportsvc "cafe-backoffice/internal/service/report"
	usersvc "cafe-backoffice/internal/service/user"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	var (
		dbpool *pgxpool.Pool
		store  kvstore.Store
		users  userrepo.Repository
		tokens tokenrepo.Repository
	)
	switch cfg.StoreBackend {
	case "memory":
		logger.Printf("using in-memory store; data is lost on exit")
		store = kvstore.NewMemory()
		users = userrepo.NewMemory()
		tokens = tokenrepo.NewMemory()
	case "postgres":
		var err error
		dbpool, err = db.Connect(ctx, cfg.DBConnString, db.Options{MaxConns: int32(cfg.DBMaxConns), MinConns: int32(cfg.DBMinConns)})
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer dbpool.Close()

		version, err := migrate.Apply(ctx, dbpool)
		if err != nil {
			logger.Fatalf("apply migrations: %v", err)
		}
		logger.Printf("schema at version %d", version)

		store = kvstore.NewPostgres(dbpool, logger)
		users = userrepo.NewPostgres(dbpool, logger)
		tokens = tokenrepo.NewPostgres(dbpool)
	default:
		logger.Fatalf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.RabbitMQURL != "" {
		pool, err := events.NewChannelPool(cfg.RabbitMQURL, cfg.RabbitMQQueue, cfg.ChannelPoolSize, logger)
		if err != nil {
			logger.Fatalf("connect to rabbitmq: %v", err)
		}
		defer pool.Close()
		publisher = events.NewAMQPPublisher(pool, logger)
	}

	ids := identity.NewSystem()
	productRepo := productrepo.NewKV(store, logger)
	orderRepo := orderrepo.NewKV(store, logger)
	categoryRepo := categoryrepo.NewKV(store)

	productService := productsvc.New(productRepo, ids)
	categoryService := categorysvc.New(categoryRepo, productRepo)
	cartService := cartsvc.New(productRepo, ids)
	orderService := ordersvc.New(orderRepo, ids, publisher, logger)
	reportService := reportsvc.New(orderRepo, cfg.ReportLocation)
	userService := usersvc.New(users, tokens, cfg.TokenTTL)

	if cfg.SeedCatalogue {
		products, err := seed.DefaultCatalogue()
		if err != nil {
			logger.Fatalf("load default catalogue: %v", err)
		}
		if _, err := seed.EnsureCatalogue(ctx, productRepo, products, logger); err != nil {
			logger.Fatalf("seed catalogue: %v", err)
		}
	}
	if err := seed.EnsureAdmin(ctx, userService, cfg.AdminEmail, cfg.AdminPassword, logger); err != nil {
		logger.Fatalf("seed admin: %v", err)
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		ProductSvc:  productService,
		CategorySvc: categoryService,
		CartSvc:     cartService,
		OrderSvc:    orderService,
		ReportSvc:   reportService,
		UserSvc:     userService,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
