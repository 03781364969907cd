package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/a7med3yad/DataProject/internal/config"
	"github.com/a7med3yad/DataProject/ui"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	app := ui.NewApp(cfg)
	log.Printf("Starting grocery analytics on http://localhost:%s", cfg.Server.Port)
	log.Fatal(app.Start())
}
