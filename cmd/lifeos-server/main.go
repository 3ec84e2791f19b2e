package main

import (
	"log"
	"os"

	"github.com/existflow/lifeos/internal/auth"
	"github.com/existflow/lifeos/internal/store/postgres"
	"github.com/existflow/lifeos/server"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "postgres://localhost:5432/lifeos?sslmode=disable"
	}

	secret := os.Getenv("LIFEOS_JWT_SECRET")
	if secret == "" {
		log.Fatal("LIFEOS_JWT_SECRET must be set")
	}

	st, err := postgres.Open(dbURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	tokens, err := auth.NewTokens(secret)
	if err != nil {
		log.Fatalf("Failed to configure tokens: %v", err)
	}

	srv := server.New(st, tokens)

	log.Printf("LifeOS server starting on :%s", port)
	if err := srv.Start(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
