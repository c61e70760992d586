package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mobileshop/billing/internal/app"
	"github.com/mobileshop/billing/internal/catalog"
	"github.com/mobileshop/billing/internal/platform/db"
	"github.com/mobileshop/billing/internal/schema"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	fmt.Println("→ Opening database...")
	database, err := schema.NewManager(schema.NewPGStore(pool), logger).Open(ctx)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if len(database.Created) > 0 {
		fmt.Printf("  created %v\n", database.Created)
	}

	fmt.Println("→ Seeding product catalog...")
	svc := catalog.NewService(catalog.NewRepository(pool), logger, catalog.ServiceConfig{})
	n, err := svc.Seed(ctx, catalog.DefaultProducts())
	if err != nil {
		log.Fatalf("seed catalog: %v", err)
	}
	if n == 0 {
		fmt.Println("  catalog already populated, nothing to do")
		return
	}
	fmt.Printf("✓ Seeded %d products\n", n)
}
