package main

import (
	"log"

	"placeshare/internal/config"
	"placeshare/internal/database"
	"placeshare/internal/geocode"
	"placeshare/internal/router"
)

func main() {
	cfg := config.Load()

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(cfg.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("⚠️ user index warning: %v", err)
	}
	if err := database.EnsurePlaceIndexes(db); err != nil {
		log.Printf("⚠️ place index warning: %v", err)
	}

	geo := geocode.New(cfg.GeocodeAPIKey, nil)

	r := router.New(db, geo, cfg)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
