package main

import (
	"log"

	"zenfocus/internal/config"
	"zenfocus/internal/db"
	"zenfocus/internal/handler"
	"zenfocus/internal/repository"
	"zenfocus/internal/router"
	"zenfocus/internal/service"
	"zenfocus/migrations"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database, migrations.FS); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	settingsRepo := repository.NewSettingsRepository(database)
	taskRepo := repository.NewTaskRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	themeRepo := repository.NewThemeRepository(database)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	dataService := service.NewDataService(settingsRepo, taskRepo, sessionRepo, themeRepo)

	authHandler := handler.NewAuthHandler(authService)
	dataHandler := handler.NewDataHandler(dataService)

	engine := router.New(authService, authHandler, dataHandler, cfg.CORSOrigins)
	log.Printf("zenfocusd listening on :%s", cfg.Port)
	if err := engine.Run(":" + cfg.Port); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
