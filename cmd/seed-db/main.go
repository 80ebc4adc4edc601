// Command seed-db loads the product catalog, the bulk discount ladder, and a
// default API key into PostgreSQL. The products file may be plain JSON or
// gzip-compressed JSON (.gz), which is how larger catalog exports ship.
package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/tixgate/promo-service/internal/domain/promo"
	"github.com/tixgate/promo-service/internal/repository"
)

type productJSON struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
		apiKey       string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file (.json or .json.gz)")
	flag.StringVar(&apiKey, "api-key", "", "API key to seed (or PROMO_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or PROMO_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("PROMO_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or PROMO_SEED_API_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("PROMO_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, apiKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, apiKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, pool, productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedTiers(ctx, pool); err != nil {
		return errors.Wrap(err, "seed tiers")
	}

	if err := seedAPIKey(ctx, pool, apiKey, pepper); err != nil {
		return errors.Wrap(err, "seed api key")
	}

	return nil
}

func readProducts(path string) ([]productJSON, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open products file")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip stream")
		}
		defer gz.Close()
		r = gz
	}

	var products []productJSON
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, errors.Wrap(err, "parse products JSON")
	}
	return products, nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	products, err := readProducts(productsFile)
	if err != nil {
		return err
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	const upsert = `INSERT INTO products (id, name, price, category)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, price = EXCLUDED.price, category = EXCLUDED.category`

	for _, p := range products {
		if _, err := pool.Exec(ctx, upsert, p.ID, p.Name, p.Price, p.Category); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}
		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

func seedTiers(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding bulk discount ladder")

	const upsert = `INSERT INTO promo_tiers (min_quantity, subtract, cap)
		VALUES ($1, $2, $3)
		ON CONFLICT (min_quantity) DO UPDATE
		SET subtract = EXCLUDED.subtract, cap = EXCLUDED.cap`

	for _, t := range promo.DefaultTierPolicy().Tiers {
		if _, err := pool.Exec(ctx, upsert, t.MinQuantity, t.Subtract, t.Cap); err != nil {
			return errors.Wrapf(err, "upsert tier %d", t.MinQuantity)
		}
		slog.Info("upserted tier",
			slog.Int("min_quantity", t.MinQuantity),
			slog.Int("subtract", t.Subtract),
			slog.Int("cap", t.Cap))
	}

	return nil
}

func seedAPIKey(ctx context.Context, pool *pgxpool.Pool, apiKey, pepper string) error {
	slog.Info("seeding default API key")

	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(apiKey))
	keyHash := hex.EncodeToString(mac.Sum(nil))

	const upsert = `INSERT INTO api_keys (id, key_hash, name, scopes, active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET key_hash = EXCLUDED.key_hash, name = EXCLUDED.name,
		    scopes = EXCLUDED.scopes, active = EXCLUDED.active`

	if _, err := pool.Exec(ctx, upsert,
		"default", keyHash, "Default test key", []string{"evaluate"}, true,
	); err != nil {
		return errors.Wrap(err, "upsert default API key")
	}

	slog.Info("upserted API key", slog.String("id", "default"), slog.String("name", "Default test key"))

	return nil
}
