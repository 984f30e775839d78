package main

import (
	"context"
	"flag"
	"log"
	"os"

	"cafe-backoffice/internal/config"
	"cafe-backoffice/internal/db"
	"cafe-backoffice/internal/domain"
	"cafe-backoffice/internal/kvstore"
	"cafe-backoffice/internal/migrate"
	productrepo "cafe-backoffice/internal/repository/product"
	tokenrepo "cafe-backoffice/internal/repository/token"
	userrepo "cafe-backoffice/internal/repository/user"
	"cafe-backoffice/internal/seed"
	usersvc "cafe-backoffice/internal/service/user"
)

func main() {
	var catalogue string
	flag.StringVar(&catalogue, "catalogue", "", "Optional YAML catalogue to seed instead of the built-in menu")
	flag.Parse()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, db.Options{MaxConns: int32(cfg.DBMaxConns), MinConns: int32(cfg.DBMinConns)})
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if _, err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	products, err := loadCatalogue(catalogue)
	if err != nil {
		logger.Fatalf("load catalogue: %v", err)
	}

	productRepo := productrepo.NewKV(kvstore.NewPostgres(pool, logger), logger)
	if _, err := seed.EnsureCatalogue(ctx, productRepo, products, logger); err != nil {
		logger.Fatalf("seed catalogue: %v", err)
	}

	users := usersvc.New(userrepo.NewPostgres(pool, logger), tokenrepo.NewPostgres(pool), cfg.TokenTTL)
	if err := seed.EnsureAdmin(ctx, users, cfg.AdminEmail, cfg.AdminPassword, logger); err != nil {
		logger.Fatalf("seed admin: %v", err)
	}

	logger.Println("seed applied")
}

func loadCatalogue(path string) ([]domain.Product, error) {
	if path == "" {
		return seed.DefaultCatalogue()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return seed.ParseCatalogue(f)
}
