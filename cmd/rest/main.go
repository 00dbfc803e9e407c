package main

import (
	"context"
	"log"

	"eop-planner-be/internal/bootstrap"
	"eop-planner-be/internal/config"
	"eop-planner-be/internal/server"
	"eop-planner-be/internal/tracer"
	"eop-planner-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Ensure the rule catalog exists before taking traffic
	if created, err := container.RulesService.Seed(context.Background()); err != nil {
		log.Printf("Warning: rule catalog seed failed: %v", err)
	} else if created {
		log.Println("Rule catalog seeded with defaults")
	}

	// 5. Initialize and run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
