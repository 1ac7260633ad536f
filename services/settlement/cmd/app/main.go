package main

import (
	"consultly/pkg/config"
	app "consultly/services/settlement/internal/app"

	_ "consultly/services/settlement/docs" // Swagger docs
)

// @title           Settlement Service API
// @version         1.0
// @description     Pay-per-minute session settlement: wallet ledger, transaction records, creator rates, session lifecycle

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.JWTSecret == "your-secret-key-change-in-production" || cfg.JWTSecret == "" {
		panic("JWT_SECRET must be set in environment variables")
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		panic(err)
	}

	if err := application.Run(); err != nil {
		panic(err)
	}

	application.Wait()

	if err := application.Shutdown(); err != nil {
		panic(err)
	}
}
