package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/roomcare/housekeeping-backend/internal/utils"
	"github.com/roomcare/housekeeping-backend/pkg/jwt"
)

// Usage:
//
//	generate-secrets                      print a new JWT_SECRET
//	generate-secrets -token -role admin -facility RCC
//	                                      sign a development token with JWT_SECRET
func main() {
	var (
		mintToken bool
		userID    string
		role      string
		facility  string
		email     string
		hours     int
	)
	flag.BoolVar(&mintToken, "token", false, "sign a development token instead of generating a secret")
	flag.StringVar(&userID, "user", "", "user id for the token (random when empty)")
	flag.StringVar(&role, "role", "guest", "guest, housekeeper, admin or superadmin")
	flag.StringVar(&facility, "facility", "", "facility claim")
	flag.StringVar(&email, "email", "", "email claim")
	flag.IntVar(&hours, "hours", 24, "token lifetime in hours")
	flag.Parse()

	if mintToken {
		printToken(userID, role, facility, email, time.Duration(hours)*time.Hour)
		return
	}

	fmt.Println("===========================================")
	fmt.Println("JWT Secret Generator")
	fmt.Println("===========================================")
	fmt.Println()

	secret, err := utils.GenerateJWTSecret()
	if err != nil {
		log.Fatalf("Failed to generate secret: %v", err)
	}

	fmt.Println("Add this to your .env file or deployment secrets:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", secret)
	fmt.Println()
	fmt.Println("IMPORTANT: Keep this secret safe and never commit it to version control!")
	fmt.Println("===========================================")
}

func printToken(userID, role, facility, email string, ttl time.Duration) {
	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	id := uuid.New()
	if userID != "" {
		parsed, err := uuid.Parse(userID)
		if err != nil {
			log.Fatalf("Invalid -user: %v", err)
		}
		id = parsed
	}

	token, err := jwt.NewService(secret, ttl).GenerateToken(id, role, facility, email)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}
