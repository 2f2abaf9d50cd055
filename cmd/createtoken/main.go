package main

import (
	"fmt"
	"log"
	"os"

	"crewtrack.com/crewtrack/security"
)

func main() {
	secret := os.Getenv("CREWTRACK_SIGNING_SECRET")
	if secret == "" {
		log.Fatal("CREWTRACK_SIGNING_SECRET is not set")
	}

	token, err := security.CreateIdentityToken(&security.CrewtrackIdentity{
		Id:       1,
		UserName: "admin",
		Email:    "admin@crewtrack.net",
		Role:     "ADMIN",
	}, secret, 3600)
	if err != nil {
		log.Fatalf("failed to create token: %v", err)
	}
	fmt.Println(token)
}
