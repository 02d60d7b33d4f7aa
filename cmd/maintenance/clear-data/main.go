package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/roomcare/housekeeping-backend/internal/config"
	"github.com/roomcare/housekeeping-backend/internal/database"
)

// Operational tables, children first. Users, rooms and service types are kept
// unless -all is given.
var operationalTables = []string{
	"notifications",
	"borrowed_items",
	"service_history",
	"housekeeping_requests",
	"booking_history",
}

var referenceTables = []string{
	"housekeeper_schedules",
	"room_bookings",
	"service_types",
	"rooms",
	"users",
}

func main() {
	var dbURLFlag string
	var all bool
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.BoolVar(&all, "all", false, "also clear users, rooms, bookings, schedules and service types")
	flag.Parse()

	// Try loading .env from current working directory (optional)
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	// Build minimal database config without loading full app config
	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     5,
		MaxIdleConnections: 2,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	tables := operationalTables
	if all {
		tables = append(append([]string{}, operationalTables...), referenceTables...)
	}

	fmt.Println("Connected to database. Truncating tables...")
	if _, err := db.Exec("TRUNCATE TABLE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE"); err != nil {
		log.Fatalf("failed to truncate tables: %v", err)
	}

	fmt.Println("Post-clear row counts:")
	for _, t := range tables {
		var count int
		if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", t)).Scan(&count); err != nil {
			fmt.Printf("  %s: error: %v\n", t, err)
			continue
		}
		fmt.Printf("  %s: %d\n", t, count)
	}
}
