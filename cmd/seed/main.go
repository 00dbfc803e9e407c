package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"eop-planner-be/internal/pkg/logger"
	"eop-planner-be/internal/repository/unitofwork"
	"eop-planner-be/internal/service"
	"eop-planner-be/pkg/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(db)
	seedLogger := logger.NewZapLogger("logs/seed.log", false)
	rulesService := service.NewRulesService(uowFactory, nil, seedLogger)

	created, err := rulesService.Seed(context.Background())
	if err != nil {
		log.Fatalf("Error: rule catalog seed failed: %v", err)
	}

	if created {
		log.Println("✅ Rule catalog created")
	} else {
		log.Println("Rule catalog already exists, nothing to do")
	}
}
