package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/adapter"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/config"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/crypto"
	myHTTP "github.com/Moyanplus/HuaMeiJiChangJieXi/internal/handler/http"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/logger"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/server"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/service"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/store"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	_ = godotenv.Load()

	log := logger.NewLogger("lounge-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	codec, err := crypto.NewCodec(cfg.Crypto)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating envelope codec")
	}

	db, err := store.NewConnect(context.Background(), cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error running migrations")
	}

	storages := store.NewStorages(db, log)

	gateway := adapter.NewVendorGateway(
		adapter.NewVendorClient(cfg.Vendor, codec, log),
		cfg.Vendor,
	)

	services := service.NewServices(gateway, storages, cfg, log)
	handler := myHTTP.NewHandler(services, log)

	workers.NewWorkers(
		workers.NewTokenSweeper(storages.UserRecords, cfg.Tokens.TTL, log),
	).Run()

	srv, err := server.NewServer(handler.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
