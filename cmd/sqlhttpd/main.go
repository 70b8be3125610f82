// Command sqlhttpd serves a local SQLite file over the batch SQL-over-HTTP
// protocol so the API can run without a hosted database.
package main

import (
	"fmt"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/config"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/sqlhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadLocal()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	db, err := sqlhttp.Open(cfg.LocalDBPath)
	if err != nil {
		logger.Fatal("failed to open local database", zap.String("path", cfg.LocalDBPath), zap.Error(err))
	}

	router := sqlhttp.NewRouter(sqlhttp.NewHandler(db, cfg.MainDBToken, logger))

	addr := ":" + cfg.LocalDBPort
	logger.Info("local SQL endpoint listening",
		zap.String("addr", addr),
		zap.String("path", cfg.LocalDBPath))
	if err := router.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
