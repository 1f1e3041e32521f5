// Package main is the entry point for the pallet-analysis application.
//
// @title           Pallet Analysis API
// @version         1.0.0
// @description     API for analyzing pallet loads from crosslog files.
//
//	The service parses crosslog load files and computes weight distribution,
//	load stability and volume efficiency metrics for each pallet.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/loadsight/pallet-analysis
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for authentication. Required if authentication is enabled.
//
// @tag.name        Loads
// @tag.description Load session and placement operations
//
// @tag.name        Analysis
// @tag.description Stateless load analysis
//
// @tag.name        Settings
// @tag.description Engine settings
//
// @tag.name        Auth
// @tag.description Authentication and authorization endpoints
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	_ "github.com/loadsight/pallet-analysis/docs" // swagger docs

	"github.com/loadsight/pallet-analysis/config"
	"github.com/loadsight/pallet-analysis/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	router := app.InitializeApp(cfg)
	server := app.NewServer(router, cfg.Server.Port)

	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
