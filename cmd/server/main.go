package main

import (
	"context"
	"log"
	"yatube/internal/config"
	"yatube/internal/db"
	"yatube/internal/router"
	"yatube/internal/services"
	"yatube/internal/utils"
)

func main() {
	// Load .env file and environment
	cfg := config.LoadConfig()

	// Initialize Database
	db.Init(cfg.DB)

	storage, err := services.NewStorage(cfg.Media)
	if err != nil {
		log.Fatalf("Failed to init media storage: %v", err)
	}
	if m, ok := storage.(*services.MinIOStorage); ok {
		if err := m.EnsureBucket(context.Background()); err != nil {
			log.Fatalf("Failed to prepare bucket %s: %v", cfg.Media.MinIO.Bucket, err)
		}
	}

	r, err := router.New(cfg, storage, utils.NewCache(cfg.CacheSize))
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	log.Printf("Yatube server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
