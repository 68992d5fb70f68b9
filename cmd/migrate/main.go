package main

import (
	"github.com/SeakMengs/Annotator/internal/config"
	"github.com/SeakMengs/Annotator/internal/database"
	"github.com/SeakMengs/Annotator/internal/env"
	"go.uber.org/zap"
)

func init() {
	env.LoadEnv(".env")
}

func main() {
	logger := zap.Must(zap.NewDevelopment()).Sugar()
	defer logger.Sync()
	cfg := config.GetConfig()

	logger.Infof("Database driver: %s, database: %s", cfg.DB.DRIVER, cfg.DB.DB_DATABASE)

	db, err := database.ConnectReturnGormDB(cfg.DB)
	if err != nil {
		logger.Panic(err)
	}

	if err := database.Migrate(db); err != nil {
		logger.Panic(err)
	}

	logger.Info("Migration completed")
}
