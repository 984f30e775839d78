package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"cafe-backoffice/internal/config"
	"cafe-backoffice/internal/db"
	"cafe-backoffice/internal/identity"
	"cafe-backoffice/internal/importer"
	"cafe-backoffice/internal/kvstore"
	"cafe-backoffice/internal/migrate"
	"cafe-backoffice/internal/repository/product"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a product CSV (id,name,category,miniprice,regularprice,image,description)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, db.Options{MaxConns: int32(cfg.DBMaxConns), MinConns: int32(cfg.DBMinConns)})
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if _, err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	repo := product.NewKV(kvstore.NewPostgres(pool, logger), logger)
	imp := importer.NewCSVImporter(f, repo, identity.NewSystem())

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Printf("import finished with errors: %v", err)
	}

	fmt.Printf("Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
	if err != nil {
		os.Exit(1)
	}
}
