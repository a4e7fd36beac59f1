package main

import (
	"flag"
	"time"

	"go.uber.org/zap"

	"storefront/config"
	"storefront/handlers"
	"storefront/jwt"
	"storefront/logger"
	"storefront/routers"
)

func main() {
	configFile := flag.String("c", "config/config.yaml", "config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		panic(err)
	}

	log, err := logger.Init(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	db, err := config.SetupDatabase(cfg.Database)
	if err != nil {
		zap.L().Fatal("unable to connect to database", zap.String("type", cfg.Database.Type), zap.Error(err))
	}
	defer func() {
		dbInstance, _ := db.DB()
		_ = dbInstance.Close()
	}()

	tokens := jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpireHours)*time.Hour, db)

	router := routers.SetupRouters(db, tokens, handlers.ProductUploadConfig{
		UploadsDir: cfg.Server.UploadsDir,
		MaxImages:  cfg.Server.MaxImages,
	})

	zap.L().Info("storefront listening", zap.String("addr", cfg.Server.Addr))
	if err := router.Run(cfg.Server.Addr); err != nil {
		zap.L().Fatal("server stopped", zap.Error(err))
	}
}
