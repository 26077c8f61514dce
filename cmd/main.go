package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/server"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if err := server.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
