package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sandeepk26/orbis-backend/config"
	"github.com/sandeepk26/orbis-backend/database"
	"github.com/sandeepk26/orbis-backend/internal/auditlog"
	"github.com/sandeepk26/orbis-backend/internal/auth"
	"github.com/sandeepk26/orbis-backend/internal/booking"
	"github.com/sandeepk26/orbis-backend/internal/catalog"
	"github.com/sandeepk26/orbis-backend/internal/feature"
	"github.com/sandeepk26/orbis-backend/internal/notification"
	"github.com/sandeepk26/orbis-backend/internal/organization"
	"github.com/sandeepk26/orbis-backend/internal/session"
	"github.com/sandeepk26/orbis-backend/internal/vehicle"
	"github.com/sandeepk26/orbis-backend/middleware"
	"github.com/sandeepk26/orbis-backend/routes"
	"github.com/sandeepk26/orbis-backend/utils"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	utils.InitRedis(cfg)
	utils.InitializeKafka(cfg)
	defer utils.CloseKafka()
	utils.ConfigureUploads(cfg.UploadDir, cfg.BaseURL)

	log.Println("running database migrations")
	if err := db.AutoMigrate(
		&auth.User{},
		&auth.OrgUser{},
		&organization.Organization{},
		&feature.SystemFeature{},
		&vehicle.Vehicle{},
		&catalog.Category{},
		&catalog.Product{},
		&catalog.ServiceItem{},
		&session.Session{},
		&booking.Booking{},
		&booking.BookingHistory{},
		&notification.InAppNotification{},
		&notification.FCMDeviceToken{},
		&auditlog.AuditLog{},
	); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}

	if err := feature.SeedCatalog(db); err != nil {
		log.Fatalf("feature catalog seed failed: %v", err)
	}
	auth.SeedSuperAdmin(db, cfg)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.AuditContext())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	consumer := routes.Setup(router, db, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go consumer.Run(ctx)

	log.Printf("server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
