package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"go-sentinel/cronjobs"
	"go-sentinel/db"
	"go-sentinel/pipeline"
	"go-sentinel/refdata"
	"go-sentinel/routes"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	dataDir := envOr("SENTINEL_DATA_DIR", "data")

	// Static reference tables: loaded once, injected everywhere they're used.
	signatures, err := refdata.LoadSignatures(filepath.Join(dataDir, "disease_signatures.json"))
	if err != nil {
		log.Fatalf("Failed to load disease signatures: %v", err)
	}
	log.Printf("Loaded %d disease signatures", len(signatures))

	baselines, err := refdata.LoadBaselines(filepath.Join(dataDir, "baseline_rates.json"))
	if err != nil {
		log.Fatalf("Failed to load baseline rates: %v", err)
	}
	log.Printf("Loaded baseline rates for %d regions", len(baselines))

	conn, err := db.Open(envOr("SENTINEL_DB_PATH", "sentinel.db"))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer conn.Close()

	pl := pipeline.New(conn, signatures, baselines, envOr("SENTINEL_REGION", "dhaka"))

	// Periodic re-analysis alongside the on-demand triggers.
	cronjobs.InitCronJobs(pl, envOr("SENTINEL_ANALYSIS_CRON", "*/15 * * * *"))

	r := routes.SetupRouter(conn, pl)
	port := envOr("PORT", "8080")
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
