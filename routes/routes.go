package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sandeepk26/orbis-backend/config"
	"github.com/sandeepk26/orbis-backend/internal/auditlog"
	"github.com/sandeepk26/orbis-backend/internal/auth"
	"github.com/sandeepk26/orbis-backend/internal/booking"
	"github.com/sandeepk26/orbis-backend/internal/catalog"
	"github.com/sandeepk26/orbis-backend/internal/employee"
	"github.com/sandeepk26/orbis-backend/internal/feature"
	"github.com/sandeepk26/orbis-backend/internal/notification"
	"github.com/sandeepk26/orbis-backend/internal/organization"
	"github.com/sandeepk26/orbis-backend/internal/reports"
	"github.com/sandeepk26/orbis-backend/internal/session"
	"github.com/sandeepk26/orbis-backend/internal/vehicle"
	"github.com/sandeepk26/orbis-backend/middleware"
	"github.com/sandeepk26/orbis-backend/utils"

	_ "github.com/sandeepk26/orbis-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Setup wires every repository, service and handler and registers the HTTP
// surface. It returns the booking event consumer so main can run it.
func Setup(r *gin.Engine, db *gorm.DB, cfg *config.Config) *notification.Consumer {
	// Repositories and services.
	auditRepo := auditlog.NewRepository(db)
	auditSvc := auditlog.NewService(auditRepo)

	authRepo := auth.NewRepository(db)
	authSvc := auth.NewService(authRepo, cfg)

	featureRepo := feature.NewRepository(db)
	featureSvc := feature.NewService(featureRepo)

	orgRepo := organization.NewRepository(db)
	orgSvc := organization.NewService(orgRepo, featureSvc)

	employeeRepo := employee.NewRepository(db)
	employeeSvc := employee.NewService(employeeRepo)

	vehicleRepo := vehicle.NewRepository(db)
	vehicleSvc := vehicle.NewService(vehicleRepo)

	catalogRepo := catalog.NewRepository(db)
	catalogSvc := catalog.NewService(catalogRepo)

	sessionRepo := session.NewRepository(db)
	sessionSvc := session.NewService(sessionRepo)

	bookingRepo := booking.NewRepository(db)
	bookingSvc := booking.NewService(bookingRepo, catalogSvc, vehicleRepo, authRepo, auditSvc, cfg)

	notifRepo := notification.NewRepository(db)
	notifSvc := notification.NewService(notifRepo, cfg)

	reportsRepo := reports.NewRepository(db)
	reportsSvc := reports.NewService(reportsRepo)

	// Handlers.
	authHandler := auth.NewHandler(authSvc)
	orgHandler := organization.NewHandler(orgSvc)
	employeeHandler := employee.NewHandler(employeeSvc)
	featureHandler := feature.NewHandler(featureSvc)
	vehicleHandler := vehicle.NewHandler(vehicleSvc)
	catalogHandler := catalog.NewHandler(catalogSvc)
	sessionHandler := session.NewHandler(sessionSvc)
	bookingHandler := booking.NewHandler(bookingSvc)
	notifHandler := notification.NewHandler(notifSvc)
	auditHandler := auditlog.NewHandler(auditSvc)
	reportsHandler := reports.NewHandler(reportsSvc)

	authMW := middleware.AuthMiddleware(cfg, authSvc)
	superadminOnly := middleware.RequireUserTypes(middleware.RoleSuperAdmin)
	adminRoles := middleware.RequireUserTypes(middleware.RoleSuperAdmin, middleware.RoleAdmin)
	staffRoles := middleware.RequireUserTypes(middleware.RoleSuperAdmin, middleware.RoleAdmin, middleware.RoleStaff)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Static("/uploads", utils.UploadRoot())

	api := r.Group("/api/v1")

	// Auth (rate limited).
	authGroup := api.Group("/auth", middleware.RateLimiter(20, time.Minute))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/org/:orgId/register", authHandler.RegisterOrgUser)
		authGroup.POST("/org/:orgId/login", authHandler.LoginOrg)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
	}

	// Organizations. Registration is public onboarding; everything else is
	// authenticated and tenant guarded.
	api.POST("/organizations/register", middleware.RateLimiter(10, time.Minute), orgHandler.Register)

	orgs := api.Group("/organizations", authMW)
	{
		orgs.GET("", superadminOnly, orgHandler.List)
		orgs.GET("/:orgId", middleware.RequireOrgAccess(), orgHandler.Get)
		orgs.PUT("/:orgId", middleware.RequireOrgAccess(), adminRoles, orgHandler.Update)
		orgs.PATCH("/:orgId/status", superadminOnly, orgHandler.UpdateStatus)
		orgs.PATCH("/:orgId/toggles", superadminOnly, orgHandler.UpdateToggles)
		orgs.PUT("/:orgId/features", superadminOnly, orgHandler.UpdateSelectedFeatures)
		orgs.DELETE("/:orgId", superadminOnly, orgHandler.Delete)
	}

	// Employee management, scoped to one organization.
	emp := api.Group("/employee/org/:orgId", authMW, middleware.RequireOrgAccess(), adminRoles)
	{
		emp.GET("/users", employeeHandler.List)
		emp.POST("/users", employeeHandler.Create)
		emp.GET("/users/:id", employeeHandler.Get)
		emp.PUT("/users/:id", employeeHandler.Update)
		emp.PATCH("/users/:id/status", employeeHandler.UpdateStatus)
		emp.POST("/users/:id/reset-password", employeeHandler.ResetPassword)
		emp.DELETE("/users/:id", employeeHandler.Delete)
	}

	// System feature catalog.
	features := api.Group("/features", authMW)
	{
		features.GET("", featureHandler.ListCatalog)
		features.POST("", superadminOnly, featureHandler.CreateCatalogFeature)
		features.PUT("/:id", superadminOnly, featureHandler.UpdateCatalogFeature)
		features.DELETE("/:id", superadminOnly, featureHandler.DeleteCatalogFeature)
	}

	// Feature assignment for global users.
	users := api.Group("/users", authMW)
	{
		users.GET("/my-features", featureHandler.MyFeatures)

		globalAdmin := users.Group("", adminRoles)
		globalAdmin.GET("/:id/features", featureHandler.GetUserFeatures)
		globalAdmin.POST("/:id/features", featureHandler.AddUserFeature)
		globalAdmin.DELETE("/:id/features/:systemKey", featureHandler.RemoveUserFeature)
		globalAdmin.PATCH("/:id/features/:systemKey/toggle", featureHandler.ToggleUserFeature)
	}

	// Feature assignment for organization users.
	orgUsers := api.Group("/users/org/:orgId", authMW, middleware.RequireOrgAccess())
	{
		orgUsers.GET("/my-features", featureHandler.MyFeatures)

		orgAdmin := orgUsers.Group("", adminRoles)
		orgAdmin.POST("/features/bulk-assign", featureHandler.BulkAssign)
		orgAdmin.GET("/:id/features", featureHandler.GetUserFeatures)
		orgAdmin.POST("/:id/features", featureHandler.AddUserFeature)
		orgAdmin.DELETE("/:id/features/:systemKey", featureHandler.RemoveUserFeature)
		orgAdmin.PATCH("/:id/features/:systemKey/toggle", featureHandler.ToggleUserFeature)
	}

	// Bookings and payments.
	bookings := api.Group("/bookings", authMW)
	{
		bookings.POST("", bookingHandler.Create)
		bookings.GET("", bookingHandler.List)
		bookings.GET("/:id", bookingHandler.Get)
		bookings.PUT("/:id", bookingHandler.Update)
		bookings.PATCH("/:id/status", bookingHandler.UpdateStatus)
		bookings.PATCH("/:id/allocate", staffRoles, bookingHandler.Allocate)
		bookings.POST("/:id/complete", bookingHandler.Complete)
		bookings.GET("/:id/history", bookingHandler.GetHistory)
		bookings.POST("/:id/payment/order", bookingHandler.CreatePaymentOrder)
		bookings.POST("/:id/payment/verify", bookingHandler.VerifyPayment)
	}

	// Customer vehicles.
	vehicles := api.Group("/vehicles", authMW)
	{
		vehicles.GET("", vehicleHandler.List)
		vehicles.POST("", vehicleHandler.Create)
		vehicles.GET("/:id", vehicleHandler.Get)
		vehicles.PUT("/:id", vehicleHandler.Update)
		vehicles.DELETE("/:id", vehicleHandler.Delete)
	}

	// Catalog: public reads, staff writes.
	api.GET("/categories", catalogHandler.ListCategories)
	api.GET("/products", catalogHandler.ListProducts)
	api.GET("/products/:id", catalogHandler.GetProduct)
	api.GET("/services", catalogHandler.ListServices)
	api.GET("/services/:id", catalogHandler.GetService)

	catalogAdmin := api.Group("", authMW, adminRoles)
	{
		catalogAdmin.POST("/categories", catalogHandler.CreateCategory)
		catalogAdmin.PUT("/categories/:id", catalogHandler.UpdateCategory)
		catalogAdmin.DELETE("/categories/:id", catalogHandler.DeleteCategory)
		catalogAdmin.POST("/products", catalogHandler.CreateProduct)
		catalogAdmin.PUT("/products/:id", catalogHandler.UpdateProduct)
		catalogAdmin.DELETE("/products/:id", catalogHandler.DeleteProduct)
		catalogAdmin.POST("/services", catalogHandler.CreateService)
		catalogAdmin.PUT("/services/:id", catalogHandler.UpdateService)
		catalogAdmin.DELETE("/services/:id", catalogHandler.DeleteService)
	}

	// Academic sessions, scoped to one organization.
	sessions := api.Group("/sessions/org/:orgId", authMW, middleware.RequireOrgAccess())
	{
		sessions.GET("", sessionHandler.List)
		sessions.GET("/:id", sessionHandler.Get)

		sessionAdmin := sessions.Group("", adminRoles)
		sessionAdmin.POST("", sessionHandler.Create)
		sessionAdmin.PUT("/:id", sessionHandler.Update)
		sessionAdmin.DELETE("/:id", sessionHandler.Delete)
	}

	// Notifications.
	notifications := api.Group("/notifications", authMW)
	{
		notifications.GET("", notifHandler.List)
		notifications.PATCH("/:id/read", notifHandler.MarkAsRead)
		notifications.POST("/device-tokens", notifHandler.RegisterDeviceToken)
		notifications.DELETE("/device-tokens", notifHandler.RemoveDeviceToken)
	}

	// Audit logs (superadmin).
	auditlogs := api.Group("/auditlogs", authMW, superadminOnly)
	{
		auditlogs.GET("", auditHandler.List)
		auditlogs.GET("/:id", auditHandler.Get)
	}

	// Report exports.
	api.GET("/reports/:type/export", authMW, adminRoles, reportsHandler.Export)

	return notification.NewConsumer(cfg, notifSvc, authRepo)
}
