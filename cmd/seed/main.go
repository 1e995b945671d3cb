// seed creates the schema and inserts a demo user plus a few tracked cities
// into the local dev database. Safe to re-run.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/weathertrack/weathertrack/internal/infrastructure/postgres"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedEmail    = "demo@weathertrack.local"
	seedName     = "Demo User"
	seedPassword = "demo-password"
)

var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
	`CREATE TABLE IF NOT EXISTS users (
		id            uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		name          text NOT NULL,
		email         text NOT NULL UNIQUE,
		password_hash text NOT NULL,
		created_at    timestamptz NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS cities (
		id           uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		name         text NOT NULL UNIQUE,
		country      text NOT NULL DEFAULT '',
		temperature  double precision NOT NULL DEFAULT 0,
		condition    text NOT NULL DEFAULT '',
		humidity     int NOT NULL DEFAULT 0,
		wind_speed   double precision NOT NULL DEFAULT 0,
		sunrise      bigint NOT NULL DEFAULT 0,
		sunset       bigint NOT NULL DEFAULT 0,
		last_updated timestamptz NOT NULL DEFAULT NOW(),
		created_at   timestamptz NOT NULL DEFAULT NOW()
	)`,
}

type citySpec struct {
	name      string
	country   string
	temp      float64
	condition string
}

// Placeholder snapshots; the refresher overwrites them on its first tick.
var cities = []citySpec{
	{"London", "GB", 12.3, "Clouds"},
	{"Tokyo", "JP", 21.8, "Clear"},
	{"New York", "US", 17.5, "Rain"},
	{"Nairobi", "KE", 24.1, "Clear"},
	{"Reykjavik", "IS", 3.4, "Snow"},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatalf("create schema: %v", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	var userID string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`,
		seedName, seedEmail, string(hash),
	).Scan(&userID)
	if err != nil {
		log.Fatalf("upsert user: %v", err)
	}

	var inserted, skipped int
	for _, spec := range cities {
		tag, err := pool.Exec(ctx, `
			INSERT INTO cities (name, country, temperature, condition, humidity, wind_speed)
			VALUES ($1, $2, $3, $4, 60, 4.2)
			ON CONFLICT (name) DO NOTHING`,
			spec.name, spec.country, spec.temp, spec.condition,
		)
		if err != nil {
			log.Fatalf("insert city %s: %v", spec.name, err)
		}
		if tag.RowsAffected() == 0 {
			skipped++
		} else {
			inserted++
		}
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:           %s / %s\n", seedEmail, seedPassword)
	fmt.Printf("  User ID:        %s\n", userID)
	fmt.Printf("  Cities created: %d  (skipped %d already existing)\n", inserted, skipped)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — sign in:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/api/auth/signin \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
	fmt.Println()
	fmt.Println("  Step 2 — list tracked cities:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/api/weather/cities -H \"Authorization: Bearer $JWT\"")
	fmt.Println()
	fmt.Println("  Step 3 — autocomplete:")
	fmt.Println()
	fmt.Println("    curl -s 'http://localhost:8080/api/weather/cities/suggest?s=Lon' -H \"Authorization: Bearer $JWT\"")
}
