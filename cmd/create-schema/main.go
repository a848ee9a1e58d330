package main

import (
	"context"
	"fmt"
	"log"

	"fitplanner-backend/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Users.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to reach database: %v", err)
	}

	schemaSQL := `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    -- stored trimmed and lowercased
    email VARCHAR(320) NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CONSTRAINT users_email_unique UNIQUE (email)
);`

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		log.Fatalf("Failed to create users table: %v", err)
	}
	log.Println("✓ Created users table (if missing)")

	indexSQL := "CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at);"
	if _, err := pool.Exec(ctx, indexSQL); err != nil {
		log.Printf("Warning: Failed to create index idx_users_created_at: %v", err)
	} else {
		log.Println("✓ Created index: idx_users_created_at")
	}

	fmt.Println("\n✅ Database schema created successfully!")
	fmt.Println("   Table: users")
}
