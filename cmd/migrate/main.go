package main

import (
	"context"
	"log"
	"os"

	"cafe-backoffice/internal/config"
	"cafe-backoffice/internal/db"
	"cafe-backoffice/internal/migrate"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, db.Options{MaxConns: int32(cfg.DBMaxConns), MinConns: int32(cfg.DBMinConns)})
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	version, err := migrate.Apply(ctx, pool)
	if err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	logger.Printf("migrations applied, version=%d", version)
}
