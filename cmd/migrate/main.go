package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := runQueries(ctx, conn, dropQueries); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "up":
		if err := runQueries(ctx, conn, createQueries); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "seed":
		if err := runQueries(ctx, conn, seedQueries); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}
}

var dropQueries = []string{
	`DROP TABLE IF EXISTS teams CASCADE`,
}

var createQueries = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		user_id VARCHAR(255) PRIMARY KEY,
		team_name VARCHAR(255) NOT NULL DEFAULT '',
		formation VARCHAR(32) NOT NULL DEFAULT '',
		lineup JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_teams_updated_at ON teams(updated_at DESC)`,
}

var seedQueries = []string{
	`INSERT INTO teams (user_id, team_name, formation, lineup) VALUES
		('anon-seed', 'Three Lions', '4-3-3',
		 '["Pickford","Walker","Stones","Maguire","Shaw","Rice","Bellingham","Foden","Saka","Kane","Rashford"]')
	ON CONFLICT (user_id) DO NOTHING`,
}

func runQueries(ctx context.Context, conn *pgx.Conn, queries []string) error {
	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Executed: %.60s\n", query)
	}
	return nil
}
