package main

import (
	"net/http"
	"os"

	_ "biblio/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"biblio/internal/auth"
	"biblio/internal/cache"
	"biblio/internal/config"
	"biblio/internal/db"
	"biblio/internal/handler"
	"biblio/internal/model"
	"biblio/internal/repository"
	"biblio/internal/router"
	"biblio/internal/service"
)

// @title Library Circulation API
// @version 1.0
// @description Library borrowing service with catalog management, circulation and session authentication.
// @host localhost:8080
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logrus.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		logrus.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.CirculationLog{},
			&model.Borrow{},
			&model.Book{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				logrus.Warnf("failed to drop table (may not exist): %v", err)
			}
		}
		logrus.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Book{},
		&model.Borrow{},
		&model.CirculationLog{},
	); err != nil {
		logrus.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	bookRepo := repository.NewBookRepository(gormDB)
	borrowRepo := repository.NewBorrowRepository(gormDB)
	circulationLogRepo := repository.NewCirculationLogRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	sessionStore := auth.NewSessionStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, sessionStore)
	catalogService := service.NewCatalogService(bookRepo, userRepo, cacheClient)
	circulationService := service.NewCirculationService(borrowRepo, circulationLogRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	circulationHandler := handler.NewCirculationHandler(circulationService, catalogService)
	dashboardHandler := handler.NewDashboardHandler(catalogService, circulationService)

	// Register routes
	router.Register(
		e,
		jwtService,
		sessionStore,
		authHandler,
		catalogHandler,
		circulationHandler,
		dashboardHandler,
	)

	if cfg.SwaggerHost != "" {
		logrus.Printf("Swagger documentation available at: http://%s/swagger/index.html", cfg.SwaggerHost)
	} else {
		logrus.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logrus.Fatalf("server start: %v", err)
	}
}
