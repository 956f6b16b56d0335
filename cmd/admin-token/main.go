package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"skill-ledger/internal/config"
	"skill-ledger/internal/pkg/jwt"

	"github.com/joho/godotenv"
)

func main() {
	subject := flag.String("sub", "admin", "token subject")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to read .env: %v", err)
	}
	cfg, err := config.LoadAdmin()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	tok, err := jwt.NewHMACService(cfg.JWTSecret, cfg.TokenTTL).GenerateAdminToken(strings.TrimSpace(*subject))
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}
	fmt.Println(tok)
}
