package main

import (
	"context"
	"database/sql"
	"delivery-area-service/internal/adapters/repositories"
	"delivery-area-service/internal/config"
	"delivery-area-service/internal/platform/db"
	"log"
	"strings"
)

// dbtool prepares a database ahead of deployment: it creates the schema and
// loads the seed file for either SQLite or PostgreSQL.
func main() {
	config.LoadDotenv()

	dialect, err := db.ParseDialect(config.Get("DB_DRIVER", "pgx"))
	if err != nil {
		log.Fatal(err)
	}

	dsn := config.Get("DATABASE_URL", "")
	if dialect == db.SQLite {
		dsn = config.Get("DB_PATH", "data/app.db")
	}
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(dialect, dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/recipients.json")
	initAndSeed(context.Background(), conn, dialect, seedPath)
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect db.Dialect, seedPath string) {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	if err := repositories.SeedFromJSON(ctx, conn, dialect, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}
