package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dadalto/producao-api/config"
	"github.com/dadalto/producao-api/controllers"
	"github.com/dadalto/producao-api/middleware"
	"github.com/dadalto/producao-api/models"
	"github.com/dadalto/producao-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Production Tracking API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	if err := db.AutoMigrate(
		&models.User{},
		&models.ProductModel{},
		&models.Ticket{},
		&models.ProductionEntry{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Make sure someone can log in on a fresh install
	if err := seedAdminUser(db, cfg); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	// Initialize Gin router
	router := setupRouter(cfg, db)

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter wires services, controllers and routes. The database handle is
// passed into every component here; nothing holds package-global state.
func setupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	ticketService := services.NewTicketService(db, nil)
	productionService := services.NewProductionService(db)
	catalogService := services.NewCatalogService(db)
	reportService := services.NewReportService(db)

	authController := controllers.NewAuthController(db, cfg)
	ticketController := controllers.NewTicketController(ticketService, cfg)
	productionController := controllers.NewProductionController(productionService, ticketService, db)
	catalogController := controllers.NewCatalogController(catalogService)
	reportController := controllers.NewReportController(reportService)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus(db))

		// Login
		v1.POST("/auth/login", authController.Login)

		// Public QR redemption flow; the opaque token is the credential
		v1.GET("/redeem/:token", productionController.ResolveToken)
		v1.POST("/redeem/:token", productionController.Redeem)
	}

	// Management routes require a logged-in admin or production leader
	mgmt := v1.Group("", middleware.RequireAuth(cfg.JWTSecret, db),
		middleware.RequireRole(models.RoleAdmin, models.RoleLeader))
	{
		mgmt.POST("/tickets", ticketController.Create)
		mgmt.POST("/tickets/batch", ticketController.CreateBatch)
		mgmt.GET("/tickets/:number", ticketController.GetByNumber)
		mgmt.PATCH("/tickets/:number/status", ticketController.UpdateStatus)
		mgmt.GET("/tickets/:number/qr", ticketController.QRCode)

		mgmt.POST("/production", productionController.Create)
		mgmt.GET("/production", productionController.List)

		mgmt.POST("/catalog/models", catalogController.Register)
		mgmt.GET("/catalog/models", catalogController.List)
		mgmt.GET("/catalog/models/:name", catalogController.Get)
		mgmt.PUT("/catalog/models/:name/price", catalogController.SetPrice)

		mgmt.GET("/reports/operators", reportController.ByOperator)
		mgmt.GET("/reports/models", reportController.ByModel)
		mgmt.GET("/reports/export.csv", reportController.ExportCSV)
		mgmt.GET("/reports/export.xlsx", reportController.ExportXLSX)
	}

	return router
}

// seedAdminUser creates the initial admin account when the users table is
// empty, so a fresh deployment is reachable.
func seedAdminUser(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := cfg.AdminPassword
	if password == "" {
		password = "admin"
		log.Println("WARNING: ADMIN_PASSWORD not set, seeding admin user with default password 'admin'")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:         "Administrator",
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Println("Seeded initial admin user 'admin'")
	return nil
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Production Tracking API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get the underlying SQL database to check connection
		sqlDB, err := db.DB()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to get database instance",
				},
			})
			return
		}

		// Ping the database to verify connection
		if err := sqlDB.Ping(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_CONNECTION_ERROR",
					"message": "Database connection failed",
				},
			})
			return
		}

		// Get list of tables
		var tables []string
		if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_QUERY_ERROR",
					"message": "Failed to query tables",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Database connected",
			"tables":  tables,
		})
	}
}
