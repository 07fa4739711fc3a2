package main

import (
	"storemart-be/internal/catalog"
	"storemart-be/internal/config"
	"storemart-be/internal/dashboard"
	"storemart-be/internal/db"
	"storemart-be/internal/httpapi"
	"storemart-be/internal/logger"
	"storemart-be/internal/order"
	"storemart-be/internal/user"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	catalogRepo := catalog.NewRepository(database)
	catalogSvc := catalog.NewService(catalogRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo, orderRepo)

	dashboardSvc := dashboard.NewService(catalogRepo, orderRepo, userRepo)

	srv := httpapi.NewServer(catalogSvc, orderSvc, userSvc, dashboardSvc, []byte(cfg.JWTSecret))
	router := srv.Router()

	logger.L().Info("🚀 server listening", zap.String("port", cfg.AppPort))
	if err := router.Run(":" + cfg.AppPort); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
