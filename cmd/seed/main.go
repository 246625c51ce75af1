package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/fleetwise/fleetwise-api/initialization"
	"github.com/fleetwise/fleetwise-api/internal/adapter/database"
	"github.com/fleetwise/fleetwise-api/pkg/config"
	"github.com/fleetwise/fleetwise-api/pkg/logging"
	"github.com/fleetwise/fleetwise-api/pkg/security"
)

func main() {
	var seedFile string
	flag.StringVar(&seedFile, "arquivo", "seed.json", "Arquivo JSON com a carga inicial de dados")
	flag.Parse()

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		fmt.Printf("Erro ao carregar configuração: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.IsDevelopment())
	if err != nil {
		fmt.Printf("Erro ao inicializar logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        database.ParseLogLevel(cfg.Database.LogLevel),
		SlowThreshold:   cfg.Database.SlowThreshold,
	}, logger)
	if err != nil {
		logger.Fatal("Erro ao conectar ao banco de dados", zap.Error(err))
	}
	defer db.Close()

	hasher := security.NewHasher(cfg.Auth.BcryptCost)

	if err := initialization.LoadAndSaveSeed(ctx, seedFile, db, hasher, logger); err != nil {
		logger.Fatal("Erro ao aplicar carga inicial", zap.Error(err))
	}

	logger.Info("Carga inicial aplicada com sucesso", zap.String("arquivo", seedFile))
}
