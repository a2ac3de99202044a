package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/focusflow/focusflow_api/model"
	"github.com/focusflow/focusflow_api/seed/seeders"
	"github.com/focusflow/focusflow_api/services"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, users, sessions, rollups")
		driver   = flag.String("driver", "", "Database driver: sqlite or postgres (overrides DB_DRIVER)")
		dbPath   = flag.String("db", "", "SQLite database path (overrides DB_DATABASE)")
		weeks    = flag.Int("weeks", 6, "Weeks of session history per user")
		seed     = flag.Uint64("seed", 42, "Random seed for generated sessions")
		tokens   = flag.Bool("tokens", true, "Print a bearer token for every demo user")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	db, err := openDatabase(*driver, *dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	dbSvc := &services.DatabaseService{}
	if err := dbSvc.Attach(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	defer dbSvc.Shutdown()

	loc := time.UTC
	if name := os.Getenv("APP_TIMEZONE"); name != "" {
		if loc, err = time.LoadLocation(name); err != nil {
			log.Fatalf("Invalid APP_TIMEZONE %q: %v", name, err)
		}
	}

	ctx := context.Background()
	mainSeeder := seeders.NewMainSeeder(dbSvc, loc, *seed, *weeks)

	var users []model.User
	switch *seedType {
	case "all":
		log.Println("Running complete database seeding...")
		users, err = mainSeeder.SeedAll(ctx)
	case "users":
		log.Println("Seeding users only...")
		users, err = mainSeeder.SeedUsersOnly(ctx)
	case "sessions":
		log.Println("Seeding sessions only...")
		users, err = mainSeeder.SeedSessionsOnly(ctx)
	case "rollups":
		log.Println("Refreshing stats rollups only...")
		err = mainSeeder.RefreshRollups(ctx)
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'users', 'sessions', or 'rollups'", *seedType)
	}
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	if *tokens && len(users) > 0 {
		printTokens(users)
	}

	log.Println("Seeding operation completed successfully!")
}

func openDatabase(driver, path string) (*gorm.DB, error) {
	if driver == "" {
		driver = os.Getenv("DB_DRIVER")
	}
	config := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn), TranslateError: true}

	if driver == "postgres" {
		dsn := os.Getenv("DATABASE_URL")
		log.Println("Connecting to postgres")
		return gorm.Open(postgres.Open(dsn), config)
	}

	if path == "" {
		path = os.Getenv("DB_DATABASE")
		if path == "" {
			path = "focusflow.db"
		}
	}
	log.Printf("Connecting to sqlite database: %s", path)
	return gorm.Open(sqlite.Open(path), config)
}

func printTokens(users []model.User) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Println("JWT_SECRET not set, skipping demo tokens")
		return
	}
	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "FocusFlow"
	}

	jwtSvc := services.NewJWTService(secret, issuer, 30*24*time.Hour)
	for _, user := range users {
		pair, err := jwtSvc.GenerateTokenPair(user.ID)
		if err != nil {
			log.Printf("Failed to sign token for %s: %v", user.Email, err)
			continue
		}
		log.Printf("%s uuid=%s token=%s", user.Email, user.UUID, pair.AccessToken)
	}
}

func showHelp() {
	log.Println(`
Database Seeding Tool for FocusFlow

Usage: go run ./seed [flags]

Flags:
  -type string     all, users, sessions or rollups (default "all")
  -driver string   sqlite or postgres (default DB_DRIVER)
  -db string       SQLite path (default DB_DATABASE or focusflow.db)
  -weeks int       weeks of history per user (default 6)
  -seed uint       random seed (default 42)
  -tokens          print bearer tokens for the demo users (default true)
  -help            show this help message

Environment Variables:
  DB_DRIVER, DB_DATABASE, DATABASE_URL, APP_TIMEZONE, JWT_SECRET, JWT_ISSUER
`)
}
