package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/roomcare/housekeeping-backend/internal/config"
	"github.com/roomcare/housekeeping-backend/internal/database"
	"github.com/sirupsen/logrus"
)

// Usage: migrate [-database-url URL] [up | down [steps]]
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	var dbURLFlag string
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.Parse()

	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	direction := "up"
	if flag.NArg() > 0 {
		direction = flag.Arg(0)
	}

	switch direction {
	case "up":
		n, err := database.MigrateUp(db.DB.DB)
		if err != nil {
			logger.Fatalf("Migration failed: %v", err)
		}
		logger.WithField("applied", n).Info("Migrations applied")
	case "down":
		steps := 1
		if flag.NArg() > 1 {
			steps, err = strconv.Atoi(flag.Arg(1))
			if err != nil || steps <= 0 {
				logger.Fatalf("Invalid step count %q", flag.Arg(1))
			}
		}
		n, err := database.MigrateDown(db.DB.DB, steps)
		if err != nil {
			logger.Fatalf("Rollback failed: %v", err)
		}
		logger.WithField("rolled_back", n).Info("Migrations rolled back")
	default:
		logger.Fatalf("Unknown direction %q, expected up or down", direction)
	}
}
