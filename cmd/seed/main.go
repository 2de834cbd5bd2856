package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"imagegen-solana-billing/internal/config"
	"imagegen-solana-billing/internal/domain/model"
	pg "imagegen-solana-billing/internal/infra/db/postgres"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	catalog := pg.NewCatalogRepo(pool)

	// If catalog entries already exist, do nothing
	pkgs, err := catalog.ListCreditPackages(ctx, nil)
	if err != nil {
		log.Fatalf("list packages: %v", err)
	}
	if len(pkgs) > 0 {
		fmt.Printf("%d credit packages already present. No changes.\n", len(pkgs))
		return
	}

	now := time.Now()

	// Sample credit packages for testing the payment flow
	packages := []struct {
		Name    string
		Price   uint64 // lamports
		Credits int64
	}{
		{"Starter Pack", 100_000_000, 50},    // 0.1 SOL
		{"Creator Pack", 450_000_000, 250},   // 0.45 SOL
		{"Studio Pack", 1_600_000_000, 1000}, // 1.6 SOL
	}
	for _, p := range packages {
		pkg := &model.CreditPackage{
			ID:            uuid.NewString(),
			Name:          p.Name,
			PriceLamports: p.Price,
			Credits:       p.Credits,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := catalog.SaveCreditPackage(ctx, nil, pkg); err != nil {
			log.Fatalf("seed package %s: %v", p.Name, err)
		}
		fmt.Printf("seeded package %s (%d credits, %d lamports)\n", p.Name, p.Credits, p.Price)
	}

	products := []struct {
		Name  string
		Price uint64
		Bonus int64
	}{
		{"Pro Monthly", 800_000_000, 100},
		{"Ultra Monthly", 2_400_000_000, 500},
	}
	for _, p := range products {
		product := &model.SubscriptionProduct{
			ID:            uuid.NewString(),
			Name:          p.Name,
			PriceLamports: p.Price,
			BonusCredits:  p.Bonus,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := catalog.SaveSubscriptionProduct(ctx, nil, product); err != nil {
			log.Fatalf("seed product %s: %v", p.Name, err)
		}
		fmt.Printf("seeded product %s (%d lamports, %d bonus credits)\n", p.Name, p.Price, p.Bonus)
	}
}
