// Command token mints a bearer token for local runs with auth.require_auth enabled.
//
// Usage: token [user-uuid]. A random user id is used when none is given.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/heartmarshall/takeoff-backend/internal/auth"
	"github.com/heartmarshall/takeoff-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("auth.jwt_secret is empty")
	}

	userID := uuid.New()
	if len(os.Args) > 1 {
		userID, err = uuid.Parse(os.Args[1])
		if err != nil {
			log.Fatalf("parse user id: %v", err)
		}
	}

	token, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTTL).GenerateAccessToken(userID)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}
	fmt.Println(token)
}
