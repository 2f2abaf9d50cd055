package main

import (
	"log"
	"os"

	"crewtrack.com/crewtrack/core"
)

// Applies the tenant schema migration to the database named in the DSN.
// Run once per tenant schema.
func main() {
	dsn := os.Getenv("CREWTRACK_DSN")
	if dsn == "" {
		log.Fatal("CREWTRACK_DSN is not set")
	}

	db := core.ConnectDB(dsn)
	if err := core.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("migration complete")
}
